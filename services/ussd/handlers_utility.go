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

func (d *Dispatcher) utilityProviderChosen(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	idx, ok := menuChoice(req.Message, len(utilityProviders))
	if !ok {
		return d.release(ctx, sess.ID, "Utility Service", "Invalid provider selection.")
	}

	sess.UtilityProvider = utilityProviders[idx]
	if err := d.store.Update(ctx, sess); err != nil {
		return nil, err
	}

	// Provider-specific sub-menu: prepaid power wants a meter number,
	// water wants an account number. Both are captured as the meter
	// field and resolved at the next step.
	prompt := "Enter meter number:"
	if sess.UtilityProvider == "Ghana Water" {
		prompt = "Enter account number:"
	}
	return Reply(sess.ID, "Utility Service", prompt, models.FieldTypeNumber), nil
}

func (d *Dispatcher) utilityMeterEntered(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	meter := strings.TrimSpace(req.Message)
	if meter == "" {
		return d.release(ctx, sess.ID, "Utility Service", "Invalid meter number.")
	}

	sess.MeterNumber = meter
	if err := d.store.Update(ctx, sess); err != nil {
		return nil, err
	}

	// The provider returns the meters registered against the number;
	// the subscriber picks which one to top up.
	menu := numberedMenu("Select meter:", []string{fmt.Sprintf("%s - %s", sess.UtilityProvider, meter)})
	return Reply(sess.ID, "Utility Service", menu, models.FieldTypeNumber), nil
}

func (d *Dispatcher) utilityMeterSelected(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	if _, ok := menuChoice(req.Message, 1); !ok {
		return d.release(ctx, sess.ID, "Utility Service", "Invalid meter selection.")
	}

	sess.SelectedMeter = sess.MeterNumber
	sess.Destination = sess.MeterNumber
	if err := d.store.Update(ctx, sess); err != nil {
		return nil, err
	}
	return Reply(sess.ID, "Utility Service", "Enter amount (GHS):", models.FieldTypeDecimal), nil
}

func (d *Dispatcher) utilityAmountEntered(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	amount, err := utils.ParseAmount(req.Message)
	if err != nil {
		return d.release(ctx, sess.ID, "Utility Service", "Invalid amount. Please dial again.")
	}

	sess.Amount = amount
	sess.TotalAmount = amount
	if err = d.store.Update(ctx, sess); err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("Pay GHS %.2f to %s meter %s\n1. Confirm\n2. Cancel",
		amount, sess.UtilityProvider, sess.SelectedMeter)
	return Reply(sess.ID, "Order Summary", summary, models.FieldTypeNumber), nil
}

func (d *Dispatcher) utilityConfirm(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	return d.confirmPurchase(ctx, sess, req, fmt.Sprintf("%s Payment", sess.UtilityProvider))
}
