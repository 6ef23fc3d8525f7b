package ussd

import (
	// Go Internal Packages
	"context"
	"fmt"
	"strings"

	// Local Packages
	models "e-wale/models"
	utils "e-wale/utils"
)

func (d *Dispatcher) tvProviderChosen(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	idx, ok := menuChoice(req.Message, len(tvProviders))
	if !ok {
		return d.release(ctx, sess.ID, "Pay TV Bills", "Invalid provider selection.")
	}

	sess.TvProvider = tvProviders[idx]
	if err := d.store.Update(ctx, sess); err != nil {
		return nil, err
	}
	return Reply(sess.ID, "Pay TV Bills", fmt.Sprintf("Enter your %s account number:", sess.TvProvider), models.FieldTypeNumber), nil
}

func (d *Dispatcher) tvAccountEntered(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	account := strings.TrimSpace(req.Message)
	if account == "" {
		return d.release(ctx, sess.ID, "Pay TV Bills", "Invalid account number.")
	}

	sess.AccountNumber = account
	sess.Destination = account
	if err := d.store.Update(ctx, sess); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("%s account %s\nEnter amount to pay (GHS):", sess.TvProvider, account)
	return Reply(sess.ID, "Pay TV Bills", prompt, models.FieldTypeDecimal), nil
}

func (d *Dispatcher) tvAmountEntered(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	amount, err := utils.ParseAmount(req.Message)
	if err != nil {
		return d.release(ctx, sess.ID, "Pay TV Bills", "Invalid amount. Please dial again.")
	}

	sess.Amount = amount
	sess.TotalAmount = amount
	if err = d.store.Update(ctx, sess); err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("Pay GHS %.2f to %s account %s\n1. Confirm\n2. Cancel",
		amount, sess.TvProvider, sess.AccountNumber)
	return Reply(sess.ID, "Order Summary", summary, models.FieldTypeNumber), nil
}

func (d *Dispatcher) tvConfirm(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	return d.confirmPurchase(ctx, sess, req, fmt.Sprintf("%s Bill Payment", sess.TvProvider))
}
