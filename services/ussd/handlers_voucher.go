package ussd

import (
	// Go Internal Packages
	"context"
	"fmt"
	"strconv"
	"strings"

	// Local Packages
	models "e-wale/models"
	utils "e-wale/utils"
)

const maxVoucherQuantity = 10

func (d *Dispatcher) voucherTypeChosen(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	idx, ok := menuChoice(req.Message, len(voucherTypes))
	if !ok {
		return d.release(ctx, sess.ID, "Results Checker", "Invalid voucher selection.")
	}

	sess.VoucherType = voucherTypes[idx].Name
	sess.Amount = voucherTypes[idx].Price
	if err := d.store.Update(ctx, sess); err != nil {
		return nil, err
	}
	return Reply(sess.ID, "Results Checker", fmt.Sprintf("How many vouchers? (1-%d)", maxVoucherQuantity), models.FieldTypeNumber), nil
}

func (d *Dispatcher) voucherQuantityEntered(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(req.Message))
	if err != nil || qty < 1 || qty > maxVoucherQuantity {
		return d.release(ctx, sess.ID, "Results Checker", "Invalid quantity.")
	}

	sess.Quantity = qty
	sess.TotalAmount = sess.Amount * float64(qty)
	if err = d.store.Update(ctx, sess); err != nil {
		return nil, err
	}
	return Reply(sess.ID, "Results Checker", "Enter mobile number to receive voucher:", models.FieldTypePhone), nil
}

func (d *Dispatcher) voucherMobileEntered(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	if !utils.IsValidMsisdn(req.Message) {
		return d.release(ctx, sess.ID, "Results Checker", "Invalid mobile number.")
	}

	sess.Destination = utils.NormalizeMsisdn(req.Message)
	if err := d.store.Update(ctx, sess); err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("Buy %d x %s for %s at GHS %.2f\n1. Confirm\n2. Cancel",
		sess.Quantity, sess.VoucherType, sess.Destination, sess.TotalAmount)
	return Reply(sess.ID, "Order Summary", summary, models.FieldTypeNumber), nil
}

func (d *Dispatcher) voucherConfirm(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	return d.confirmPurchase(ctx, sess, req, sess.VoucherType)
}
