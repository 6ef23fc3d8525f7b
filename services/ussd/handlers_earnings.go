package ussd

import (
	// Go Internal Packages
	"context"
	"fmt"
	"strings"

	// Local Packages
	errors "e-wale/errors"
	models "e-wale/models"
	utils "e-wale/utils"

	// External Packages
	"github.com/google/uuid"
)

func (d *Dispatcher) earningsMenuChosen(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	mobile := utils.NormalizeMsisdn(sess.Mobile)

	switch strings.TrimSpace(req.Message) {
	case "1":
		earnings, err := d.earnings.GetUserEarnings(ctx, mobile)
		if err != nil {
			return nil, err
		}
		msg := fmt.Sprintf("Your Earnings\nTotal: GHS %.2f\nAvailable: GHS %.2f\nWithdrawn: GHS %.2f\nPending: GHS %.2f",
			earnings.TotalEarnings, earnings.AvailableBalance, earnings.TotalWithdrawn, earnings.PendingWithdrawals)
		return d.release(ctx, sess.ID, "My Earnings", msg)
	case "2":
		earnings, err := d.earnings.GetUserEarnings(ctx, mobile)
		if err != nil {
			return nil, err
		}
		prompt := fmt.Sprintf("Available: GHS %.2f\nEnter amount to withdraw:", earnings.AvailableBalance)
		return Reply(sess.ID, "Withdraw Earnings", prompt, models.FieldTypeDecimal), nil
	}
	return d.release(ctx, sess.ID, "My Earnings", "Invalid selection.")
}

func (d *Dispatcher) earningsAmountEntered(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	amount, err := utils.ParseAmount(req.Message)
	if err != nil {
		return d.release(ctx, sess.ID, "Withdraw Earnings", "Invalid amount. Please dial again.")
	}

	sess.Amount = amount
	sess.TotalAmount = amount
	if err = d.store.Update(ctx, sess); err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("Withdraw GHS %.2f to %s\n1. Confirm\n2. Cancel",
		amount, utils.NormalizeMsisdn(sess.Mobile))
	return Reply(sess.ID, "Withdraw Earnings", summary, models.FieldTypeNumber), nil
}

// earningsConfirm hands the withdrawal to the earnings service instead
// of the payment issuer: money flows out here, not in.
func (d *Dispatcher) earningsConfirm(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	if strings.TrimSpace(req.Message) != "1" {
		return d.release(ctx, sess.ID, "Withdraw Earnings", "Withdrawal cancelled.")
	}

	mobile := utils.NormalizeMsisdn(sess.Mobile)
	wd, err := d.earnings.ProcessWithdrawalRequest(ctx, mobile, sess.TotalAmount, uuid.NewString())
	if err != nil {
		if errors.IsKind(err, errors.Invalid) || errors.IsKind(err, errors.Unprocessable) {
			return d.release(ctx, sess.ID, "Withdraw Earnings", "Withdrawal rejected: amount is below the minimum or exceeds your available balance.")
		}
		return nil, err
	}

	if wd.Status == models.WithdrawalFailed {
		return d.release(ctx, sess.ID, "Withdraw Earnings", "Withdrawal could not be processed. Please try again later.")
	}

	msg := fmt.Sprintf("Withdrawal of GHS %.2f initiated. You will receive a payment prompt shortly.", wd.Amount)
	return d.release(ctx, sess.ID, "Withdraw Earnings", msg)
}
