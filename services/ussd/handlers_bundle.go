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

// bundleNetworkMenu is the bundle-network-selection handler the
// dispatcher delegates to from the depth-2 sentinel.
func (d *Dispatcher) bundleNetworkMenu(_ context.Context, sess *models.Session, _ *models.TurnRequest) (*models.TurnResponse, error) {
	return Reply(sess.ID, "Data Bundle", numberedMenu("Select network:", networks), models.FieldTypeNumber), nil
}

func (d *Dispatcher) bundleNetworkChosen(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	idx, ok := menuChoice(req.Message, len(networks))
	if !ok {
		return d.release(ctx, sess.ID, "Data Bundle", "Invalid network selection.")
	}

	sess.Network = networks[idx]
	if err := d.store.Update(ctx, sess); err != nil {
		return nil, err
	}
	return Reply(sess.ID, "Data Bundle", numberedMenu("Select category:", bundleGroupNames(sess.Network)), models.FieldTypeNumber), nil
}

func (d *Dispatcher) bundleCategoryChosen(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	groups := bundleCatalog[sess.Network]
	idx, ok := menuChoice(req.Message, len(groups))
	if !ok {
		return d.release(ctx, sess.ID, "Data Bundle", "Invalid category selection.")
	}

	sess.BundleGroup = idx
	sess.BundlePage = 0
	if err := d.store.Update(ctx, sess); err != nil {
		return nil, err
	}
	return d.bundlePageReply(sess), nil
}

// bundleBrowse multiplexes every depth from option selection onward:
// pagination tokens first, then option selection, then the buyer flow
// steps, then confirmation. The session sub-flags decide which step the
// conversation is actually on.
func (d *Dispatcher) bundleBrowse(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	msg := strings.TrimSpace(req.Message)

	if sess.SelectedOption == "" {
		// After a back-to-category jump no group is selected, so the
		// input is a category choice, not an option pick.
		if sess.BundleGroup < 0 {
			return d.bundleCategoryChosen(ctx, sess, req)
		}

		// Control tokens are matched before any numeric parsing.
		switch msg {
		case tokenNextPage:
			if (sess.BundlePage+1)*bundlePageSize < len(d.bundleOptions(sess)) {
				sess.BundlePage++
				if err := d.store.Update(ctx, sess); err != nil {
					return nil, err
				}
			}
			return d.bundlePageReply(sess), nil
		case tokenPrevPage:
			if sess.BundlePage > 0 {
				sess.BundlePage--
				if err := d.store.Update(ctx, sess); err != nil {
					return nil, err
				}
			}
			return d.bundlePageReply(sess), nil
		case tokenBackToCategory:
			sess.BundleGroup = -1
			sess.BundlePage = 0
			if err := d.store.Update(ctx, sess); err != nil {
				return nil, err
			}
			return Reply(sess.ID, "Data Bundle", numberedMenu("Select category:", bundleGroupNames(sess.Network)), models.FieldTypeNumber), nil
		}
		return d.bundleOptionSelected(ctx, sess, msg)
	}

	if sess.Flow == "" {
		return d.bundleBuyerTypeChosen(ctx, sess, msg)
	}

	if sess.Flow == models.FlowOther && sess.Destination == "" {
		if !utils.IsValidMsisdn(msg) {
			return d.release(ctx, sess.ID, "Data Bundle", "Invalid mobile number.")
		}
		sess.Destination = utils.NormalizeMsisdn(msg)
		if err := d.store.Update(ctx, sess); err != nil {
			return nil, err
		}
		return d.bundleSummaryReply(sess), nil
	}

	return d.confirmPurchase(ctx, sess, req, d.bundleProductName(sess))
}

func (d *Dispatcher) bundleOptionSelected(ctx context.Context, sess *models.Session, msg string) (*models.TurnResponse, error) {
	page := d.bundlePageOptions(sess)
	idx, ok := menuChoice(msg, len(page))
	if !ok {
		return d.release(ctx, sess.ID, "Data Bundle", "Invalid bundle selection.")
	}

	option := page[idx]
	sess.SelectedOption = option.Name
	sess.Amount = option.Price
	sess.TotalAmount = option.Price
	if err := d.store.Update(ctx, sess); err != nil {
		return nil, err
	}
	return Reply(sess.ID, "Data Bundle", buyerTypeMenu, models.FieldTypeNumber), nil
}

func (d *Dispatcher) bundleBuyerTypeChosen(ctx context.Context, sess *models.Session, msg string) (*models.TurnResponse, error) {
	switch msg {
	case "1":
		sess.Flow = models.FlowSelf
		sess.Destination = utils.NormalizeMsisdn(sess.Mobile)
		if err := d.store.Update(ctx, sess); err != nil {
			return nil, err
		}
		return d.bundleSummaryReply(sess), nil
	case "2":
		sess.Flow = models.FlowOther
		if err := d.store.Update(ctx, sess); err != nil {
			return nil, err
		}
		return Reply(sess.ID, "Data Bundle", "Enter recipient mobile number:", models.FieldTypePhone), nil
	}
	return d.release(ctx, sess.ID, "Data Bundle", "Invalid selection.")
}

func (d *Dispatcher) bundleOptions(sess *models.Session) []BundleOption {
	groups := bundleCatalog[sess.Network]
	if sess.BundleGroup < 0 || sess.BundleGroup >= len(groups) {
		return nil
	}
	return groups[sess.BundleGroup].Options
}

func (d *Dispatcher) bundlePageOptions(sess *models.Session) []BundleOption {
	options := d.bundleOptions(sess)
	start := sess.BundlePage * bundlePageSize
	if start >= len(options) {
		return nil
	}
	end := start + bundlePageSize
	if end > len(options) {
		end = len(options)
	}
	return options[start:end]
}

func (d *Dispatcher) bundlePageReply(sess *models.Session) *models.TurnResponse {
	page := d.bundlePageOptions(sess)
	names := make([]string, len(page))
	for i, o := range page {
		names[i] = o.Name
	}

	menu := numberedMenu("Select bundle:", names)
	menu += "\n0. Next  00. Previous  99. Back"
	return Reply(sess.ID, "Data Bundle", menu, models.FieldTypeNumber)
}

func (d *Dispatcher) bundleSummaryReply(sess *models.Session) *models.TurnResponse {
	summary := fmt.Sprintf("Buy %s (%s) for %s at GHS %.2f\n1. Confirm\n2. Cancel",
		sess.SelectedOption, sess.Network, sess.Destination, sess.TotalAmount)
	return Reply(sess.ID, "Order Summary", summary, models.FieldTypeNumber)
}

func (d *Dispatcher) bundleProductName(sess *models.Session) string {
	return fmt.Sprintf("%s Data Bundle %s", sess.Network, sess.SelectedOption)
}
