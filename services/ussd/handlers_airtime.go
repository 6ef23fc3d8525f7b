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

const buyerTypeMenu = "Who are you buying for?\n1. Myself\n2. Another Number"

func (d *Dispatcher) airtimeNetworkChosen(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	idx, ok := menuChoice(req.Message, len(networks))
	if !ok {
		return d.release(ctx, sess.ID, "Airtime Topup", "Invalid network selection.")
	}

	sess.Network = networks[idx]
	if err := d.store.Update(ctx, sess); err != nil {
		return nil, err
	}
	return Reply(sess.ID, "Airtime Topup", buyerTypeMenu, models.FieldTypeNumber), nil
}

func (d *Dispatcher) airtimeBuyerTypeChosen(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	switch strings.TrimSpace(req.Message) {
	case "1":
		// Self flow skips the recipient-number entry step.
		sess.Flow = models.FlowSelf
		sess.Destination = utils.NormalizeMsisdn(sess.Mobile)
		if err := d.store.Update(ctx, sess); err != nil {
			return nil, err
		}
		return Reply(sess.ID, "Airtime Topup", "Enter amount (GHS):", models.FieldTypeDecimal), nil
	case "2":
		sess.Flow = models.FlowOther
		if err := d.store.Update(ctx, sess); err != nil {
			return nil, err
		}
		return Reply(sess.ID, "Airtime Topup", "Enter recipient mobile number:", models.FieldTypePhone), nil
	}
	return d.release(ctx, sess.ID, "Airtime Topup", "Invalid selection.")
}

// airtimeStep5 is recipient entry for the other flow and amount entry
// for the self flow; the two flows are one depth apart from here on.
func (d *Dispatcher) airtimeStep5(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	if sess.Flow == models.FlowSelf {
		return d.airtimeAmountEntered(ctx, sess, req)
	}

	if !utils.IsValidMsisdn(req.Message) {
		return d.release(ctx, sess.ID, "Airtime Topup", "Invalid mobile number.")
	}
	sess.Destination = utils.NormalizeMsisdn(req.Message)
	if err := d.store.Update(ctx, sess); err != nil {
		return nil, err
	}
	return Reply(sess.ID, "Airtime Topup", "Enter amount (GHS):", models.FieldTypeDecimal), nil
}

func (d *Dispatcher) airtimeStep6(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	if sess.Flow == models.FlowSelf {
		return d.confirmPurchase(ctx, sess, req, d.airtimeProductName(sess))
	}
	return d.airtimeAmountEntered(ctx, sess, req)
}

func (d *Dispatcher) airtimeStep7(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	if sess.Flow == models.FlowOther {
		return d.confirmPurchase(ctx, sess, req, d.airtimeProductName(sess))
	}
	return d.release(ctx, sess.ID, "Airtime Topup", "Session ended. Please dial again.")
}

func (d *Dispatcher) airtimeAmountEntered(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	amount, err := utils.ParseAmount(req.Message)
	if err != nil {
		return d.release(ctx, sess.ID, "Airtime Topup", "Invalid amount. Please dial again.")
	}

	sess.Amount = amount
	sess.TotalAmount = amount
	if err = d.store.Update(ctx, sess); err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("Buy GHS %.2f %s airtime for %s\n1. Confirm\n2. Cancel",
		amount, sess.Network, sess.Destination)
	return Reply(sess.ID, "Order Summary", summary, models.FieldTypeNumber), nil
}

func (d *Dispatcher) airtimeProductName(sess *models.Session) string {
	return fmt.Sprintf("%s Airtime Topup", sess.Network)
}
