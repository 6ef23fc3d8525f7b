package ussd

import (
	// Go Internal Packages
	"context"
	goerrors "errors"
	"fmt"
	"strings"

	// Local Packages
	errors "e-wale/errors"
	models "e-wale/models"

	// External Packages
	"go.uber.org/zap"
)

// Store holds ephemeral per-session conversation state. No locking:
// the gateway serialises turns per session, updates are last-write-wins.
type Store interface {
	Create(ctx context.Context, id, mobile string) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, sess *models.Session) error
	Delete(ctx context.Context, id string) error
}

// PaymentRequester turns a confirmed order into a payment-collection
// instruction.
type PaymentRequester interface {
	RequestPayment(ctx context.Context, sess *models.Session, productName string) (*models.TurnResponse, error)
}

// EarningsService serves the earnings product line.
type EarningsService interface {
	GetUserEarnings(ctx context.Context, mobile string) (*models.Earnings, error)
	ProcessWithdrawalRequest(ctx context.Context, mobile string, amount float64, clientReference string) (*models.Withdrawal, error)
}

// SessionLogs records conversation outcomes for reporting.
type SessionLogs interface {
	Start(ctx context.Context, sessionID, mobile string) error
	Close(ctx context.Context, sessionID, status, reason string) error
}

type handlerFunc func(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error)

// routeKey addresses the two-dimensional dispatch: conversation depth
// crossed with the product line held in session state. Sub-flags (buyer
// flow, pagination state) pick among alternatives inside a handler.
type routeKey struct {
	sequence int
	service  models.ServiceType
}

// errDelegateBundle is the sentinel a depth-2 selection returns when
// the bundle route should be delegated straight to the network-selection
// handler instead of emitting a menu itself.
var errDelegateBundle = goerrors.New("delegate to bundle network selection")

type Dispatcher struct {
	store    Store
	payments PaymentRequester
	earnings EarningsService
	logs     SessionLogs
	logger   *zap.Logger
	routes   map[routeKey]handlerFunc
}

func NewDispatcher(store Store, payments PaymentRequester, earnings EarningsService, logs SessionLogs, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{store: store, payments: payments, earnings: earnings, logs: logs, logger: logger}
	d.routes = d.buildRoutes()
	return d
}

// buildRoutes is the declarative turn table: adding a product line is a
// new set of entries here, not a new branch in a conditional tree.
func (d *Dispatcher) buildRoutes() map[routeKey]handlerFunc {
	routes := map[routeKey]handlerFunc{
		{3, models.ServiceAirtime}: d.airtimeNetworkChosen,
		{4, models.ServiceAirtime}: d.airtimeBuyerTypeChosen,
		{5, models.ServiceAirtime}: d.airtimeStep5,
		{6, models.ServiceAirtime}: d.airtimeStep6,
		{7, models.ServiceAirtime}: d.airtimeStep7,

		{3, models.ServiceBundle}: d.bundleNetworkChosen,
		{4, models.ServiceBundle}: d.bundleCategoryChosen,

		{3, models.ServicePayBills}: d.tvProviderChosen,
		{4, models.ServicePayBills}: d.tvAccountEntered,
		{5, models.ServicePayBills}: d.tvAmountEntered,
		{6, models.ServicePayBills}: d.tvConfirm,

		{3, models.ServiceUtility}: d.utilityProviderChosen,
		{4, models.ServiceUtility}: d.utilityMeterEntered,
		{5, models.ServiceUtility}: d.utilityMeterSelected,
		{6, models.ServiceUtility}: d.utilityAmountEntered,
		{7, models.ServiceUtility}: d.utilityConfirm,

		{3, models.ServiceVoucher}: d.voucherTypeChosen,
		{4, models.ServiceVoucher}: d.voucherQuantityEntered,
		{5, models.ServiceVoucher}: d.voucherMobileEntered,
		{6, models.ServiceVoucher}: d.voucherConfirm,

		{3, models.ServiceEarnings}: d.earningsMenuChosen,
		{4, models.ServiceEarnings}: d.earningsAmountEntered,
		{5, models.ServiceEarnings}: d.earningsConfirm,
	}

	// Bundle browsing from depth 5 onward is not in this table: it
	// paginates in place at unbounded depth, so handleResponse routes
	// it as a fallback.
	return routes
}

// HandleTurn processes one inbound turn. It never returns an error and
// never panics outward: a failed turn marks the session log failed and
// releases the conversation with a generic retry message.
func (d *Dispatcher) HandleTurn(ctx context.Context, req *models.TurnRequest) (resp *models.TurnResponse) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic while handling turn",
				zap.String("session_id", req.SessionID), zap.Any("panic", r))
			resp = d.failTurn(ctx, req.SessionID, fmt.Sprintf("panic: %v", r))
		}
	}()

	switch req.Type {
	case models.TurnTypeInitiation:
		r, err := d.handleInitiation(ctx, req)
		if err != nil {
			d.logger.Error("initiation failed", zap.String("session_id", req.SessionID), zap.Error(err))
			return d.failTurn(ctx, req.SessionID, err.Error())
		}
		return r
	case models.TurnTypeResponse:
		r, err := d.handleResponse(ctx, req)
		if err != nil {
			d.logger.Error("turn failed", zap.String("session_id", req.SessionID),
				zap.Int("sequence", req.Sequence), zap.Error(err))
			return d.failTurn(ctx, req.SessionID, err.Error())
		}
		return r
	case models.TurnTypeTimeout, models.TurnTypeRelease:
		if err := d.logs.Close(ctx, req.SessionID, models.SessionFailed, "session "+req.Type); err != nil {
			d.logger.Warn("could not close session log", zap.String("session_id", req.SessionID), zap.Error(err))
		}
		_ = d.store.Delete(ctx, req.SessionID)
		return Release(req.SessionID, "E-Wale", "Thank you for using E-Wale.")
	}

	return Release(req.SessionID, "E-Wale", "Unsupported request.")
}

func (d *Dispatcher) handleInitiation(ctx context.Context, req *models.TurnRequest) (*models.TurnResponse, error) {
	if _, err := d.store.Create(ctx, req.SessionID, req.Mobile); err != nil {
		return nil, err
	}
	if err := d.logs.Start(ctx, req.SessionID, req.Mobile); err != nil {
		d.logger.Warn("could not start session log", zap.String("session_id", req.SessionID), zap.Error(err))
	}
	return Reply(req.SessionID, "E-Wale", mainMenu, models.FieldTypeNumber), nil
}

func (d *Dispatcher) handleResponse(ctx context.Context, req *models.TurnRequest) (*models.TurnResponse, error) {
	sess, err := d.store.Get(ctx, req.SessionID)
	if err != nil {
		if errors.IsKind(err, errors.NotFound) {
			return Release(req.SessionID, "E-Wale", "Your session has expired. Please dial again."), nil
		}
		return nil, err
	}

	if req.Sequence == 2 {
		resp, serr := d.selectService(ctx, sess, req)
		if goerrors.Is(serr, errDelegateBundle) {
			return d.bundleNetworkMenu(ctx, sess, req)
		}
		return resp, serr
	}

	handler, ok := d.routes[routeKey{req.Sequence, sess.ServiceType}]
	if !ok {
		// Bundle browsing multiplexes every depth from option selection
		// onward on session sub-flags; paging keeps the depth growing,
		// so it cannot be capped in the route table.
		if sess.ServiceType == models.ServiceBundle && req.Sequence >= 5 {
			return d.bundleBrowse(ctx, sess, req)
		}
		// Defensive default: a depth nothing routes to ends the session.
		return d.release(ctx, sess.ID, "E-Wale", "Session ended. Please dial again.")
	}
	return handler(ctx, sess, req)
}

// selectService interprets the main-menu digit at depth 2 and prompts
// the product-category choice for the selected line.
func (d *Dispatcher) selectService(ctx context.Context, sess *models.Session, req *models.TurnRequest) (*models.TurnResponse, error) {
	switch strings.TrimSpace(req.Message) {
	case "1":
		sess.ServiceType = models.ServiceAirtime
		if err := d.store.Update(ctx, sess); err != nil {
			return nil, err
		}
		return Reply(sess.ID, "Airtime Topup", numberedMenu("Select network:", networks), models.FieldTypeNumber), nil
	case "2":
		sess.ServiceType = models.ServiceBundle
		if err := d.store.Update(ctx, sess); err != nil {
			return nil, err
		}
		return nil, errDelegateBundle
	case "3":
		sess.ServiceType = models.ServicePayBills
		if err := d.store.Update(ctx, sess); err != nil {
			return nil, err
		}
		return Reply(sess.ID, "Pay TV Bills", numberedMenu("Select TV provider:", tvProviders), models.FieldTypeNumber), nil
	case "4":
		sess.ServiceType = models.ServiceUtility
		if err := d.store.Update(ctx, sess); err != nil {
			return nil, err
		}
		return Reply(sess.ID, "Utility Service", numberedMenu("Select provider:", utilityProviders), models.FieldTypeNumber), nil
	case "5":
		sess.ServiceType = models.ServiceVoucher
		if err := d.store.Update(ctx, sess); err != nil {
			return nil, err
		}
		return Reply(sess.ID, "Results Checker", numberedMenu("Select voucher:", voucherNames()), models.FieldTypeNumber), nil
	case "6":
		sess.ServiceType = models.ServiceEarnings
		if err := d.store.Update(ctx, sess); err != nil {
			return nil, err
		}
		return Reply(sess.ID, "My Earnings", "1. Check Balance\n2. Withdraw Earnings", models.FieldTypeNumber), nil
	case "7":
		sess.ServiceType = models.ServiceContact
		return d.release(ctx, sess.ID, "Contact Us", contactMessage)
	}
	return d.release(ctx, sess.ID, "E-Wale", "Invalid selection. Please dial again.")
}

// confirmPurchase is the shared final turn: "1" hands the order to the
// payment issuer, anything else releases the session.
func (d *Dispatcher) confirmPurchase(ctx context.Context, sess *models.Session, req *models.TurnRequest, productName string) (*models.TurnResponse, error) {
	if strings.TrimSpace(req.Message) != "1" {
		return d.release(ctx, sess.ID, "E-Wale", "Transaction cancelled.")
	}

	resp, err := d.payments.RequestPayment(ctx, sess, productName)
	if err != nil {
		if errors.IsKind(err, errors.Invalid) {
			return d.release(ctx, sess.ID, "E-Wale", "Invalid amount. Please dial again.")
		}
		return nil, err
	}
	return resp, nil
}

// release removes the session and returns a terminal response. Every
// release path goes through here so a released id can never resume.
func (d *Dispatcher) release(ctx context.Context, sessionID, label, message string) (*models.TurnResponse, error) {
	if err := d.store.Delete(ctx, sessionID); err != nil {
		d.logger.Warn("could not delete session", zap.String("session_id", sessionID), zap.Error(err))
	}
	return Release(sessionID, label, message), nil
}

func (d *Dispatcher) failTurn(ctx context.Context, sessionID, reason string) *models.TurnResponse {
	if err := d.logs.Close(ctx, sessionID, models.SessionFailed, reason); err != nil {
		d.logger.Warn("could not close session log", zap.String("session_id", sessionID), zap.Error(err))
	}
	if err := d.store.Delete(ctx, sessionID); err != nil {
		d.logger.Warn("could not delete session", zap.String("session_id", sessionID), zap.Error(err))
	}
	return Release(sessionID, "E-Wale", "Something went wrong. Please try again.")
}
