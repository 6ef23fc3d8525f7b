package payments

import (
	// Go Internal Packages
	"context"
	"fmt"
	"time"

	// Local Packages
	errors "e-wale/errors"
	models "e-wale/models"

	// External Packages
	"go.uber.org/zap"
)

// CommissionRepo appends earnings log entries and tracks delivery.
type CommissionRepo interface {
	InsertCommission(ctx context.Context, entry models.CommissionEntry) error
	MarkCommissionDelivered(ctx context.Context, reference string) error
}

// SessionReader reads (and reaps) conversation state. The session may
// already be gone when a callback lands; that race is handled, not
// treated as an error.
type SessionReader interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionLogs closes conversation activity records.
type SessionLogs interface {
	Close(ctx context.Context, sessionID, status, reason string) error
}

// FulfillmentClient delivers the purchased product via the commission
// provider.
type FulfillmentClient interface {
	Fulfill(ctx context.Context, req models.FulfillmentRequest) error
}

// GatewayClient posts the final status acknowledgment back to the
// originating USSD gateway.
type GatewayClient interface {
	Acknowledge(ctx context.Context, ack models.Acknowledgment) error
}

// VoucherStore draws result-checker inventory.
type VoucherStore interface {
	Draw(ctx context.Context, voucherType, mobile, reference string) (*models.Voucher, error)
}

// Notifier delivers voucher details to the buyer.
type Notifier interface {
	NotifyDelivery(ctx context.Context, mobile, message string) error
}

// Refunder credits a provisional withdrawal debit back to the user.
type Refunder interface {
	RefundWithdrawal(ctx context.Context, clientReference string) error
}

// EventPublisher emits ledger events to the audit stream.
type EventPublisher interface {
	Publish(ctx context.Context, event models.LedgerEvent)
}

// Processor consumes asynchronous payment results, updates the
// transaction ledger and triggers fulfillment on success. Every step
// runs even when an earlier one fails; only the idempotency guard can
// suppress fulfillment.
type Processor struct {
	txs         TransactionsRepo
	commissions CommissionRepo
	sessions    SessionReader
	logs        SessionLogs
	fulfillment FulfillmentClient
	gateway     GatewayClient
	vouchers    VoucherStore
	notifier    Notifier
	refunder    Refunder
	events      EventPublisher
	callbackURL string
	logger      *zap.Logger
}

type ProcessorDeps struct {
	Transactions TransactionsRepo
	Commissions  CommissionRepo
	Sessions     SessionReader
	SessionLogs  SessionLogs
	Fulfillment  FulfillmentClient
	Gateway      GatewayClient
	Vouchers     VoucherStore
	Notifier     Notifier
	Refunder     Refunder
	Events       EventPublisher
	CallbackURL  string
}

func NewProcessor(deps ProcessorDeps, logger *zap.Logger) *Processor {
	return &Processor{
		txs:         deps.Transactions,
		commissions: deps.Commissions,
		sessions:    deps.Sessions,
		logs:        deps.SessionLogs,
		fulfillment: deps.Fulfillment,
		gateway:     deps.Gateway,
		vouchers:    deps.Vouchers,
		notifier:    deps.Notifier,
		refunder:    deps.Refunder,
		events:      deps.Events,
		callbackURL: deps.CallbackURL,
		logger:      logger,
	}
}

// HandlePaymentCallback processes one payment result end to end:
// ledger upsert, session log, commission entry, fulfillment or refund,
// and always the gateway acknowledgment.
func (p *Processor) HandlePaymentCallback(ctx context.Context, cb *models.PaymentCallback) error {
	pay := cb.OrderInfo.Payment
	logger := p.logger.With(
		zap.String("order_id", cb.OrderID),
		zap.String("session_id", cb.SessionID),
		zap.Bool("successful", pay.IsSuccessful))
	logger.Info("payment callback received")

	// A duplicate callback for a transaction that already reached a
	// terminal state must not fulfill a second time.
	alreadySettled := false
	existing, err := p.txs.FindByReference(ctx, cb.OrderID)
	if err != nil && !errors.IsKind(err, errors.NotFound) {
		logger.Error("could not load existing transaction", zap.Error(err))
	}
	if existing != nil && existing.IsTerminal() {
		alreadySettled = true
	}

	status := models.TxFailed
	code := models.CodeGeneralFailure
	if pay.IsSuccessful {
		status = models.TxCompleted
		code = models.CodeSuccess
	}

	tx := p.mergeTransaction(existing, cb, status)
	if err = p.txs.Upsert(ctx, tx); err != nil {
		logger.Error("could not upsert transaction", zap.Error(err))
	} else {
		p.publishEvent(ctx, tx)
	}

	p.closeSessionLog(ctx, cb.SessionID, pay.IsSuccessful, logger)
	// The commission log is append-only, so a duplicate callback for a
	// settled order must not add a second entry.
	if !alreadySettled {
		p.appendCommission(ctx, tx, code, logger)
	}

	if pay.IsSuccessful && !alreadySettled {
		p.fulfill(ctx, tx, logger)
	}
	if !pay.IsSuccessful && tx.ServiceType == models.ServiceEarnings {
		if err = p.refunder.RefundWithdrawal(ctx, cb.OrderID); err != nil {
			logger.Error("could not refund failed withdrawal", zap.Error(err))
		}
	}

	// The acknowledgment goes out no matter what happened above.
	p.acknowledge(ctx, cb.SessionID, cb.OrderID, pay.IsSuccessful, logger)
	return nil
}

// RecordStatus feeds a poller-obtained status result through the same
// ledger/log/commission path as a callback. It deliberately never
// triggers fulfillment: reconciliation must not double-deliver.
func (p *Processor) RecordStatus(ctx context.Context, tx models.Transaction, result *models.StatusResult) {
	class := models.ClassifyResponseCode(result.ResponseCode)
	logger := p.logger.With(
		zap.String("client_reference", tx.ClientReference),
		zap.String("response_code", result.ResponseCode),
		zap.String("classified", class.Status))

	if class.ShouldRetry {
		logger.Info("transaction still pending, will retry later")
		return
	}

	// The snapshot may be stale: a callback can settle the transaction
	// between FindStale and this point. Re-read the ledger and keep
	// terminal states monotonic.
	if existing, err := p.txs.FindByReference(ctx, tx.ClientReference); err != nil {
		if !errors.IsKind(err, errors.NotFound) {
			logger.Error("could not load current transaction", zap.Error(err))
			return
		}
	} else {
		if existing.IsTerminal() {
			logger.Info("transaction settled since snapshot, skipping reconciliation")
			return
		}
		tx = *existing
	}

	updated := tx
	updated.Status = models.TxFailed
	if class.IsSuccessful {
		updated.Status = models.TxCompleted
	}
	updated.AmountPaid = result.Amount
	updated.AmountAfterCharges = result.AmountAfterCharges
	if result.PaymentMethod != "" {
		updated.PaymentMethod = result.PaymentMethod
	}

	if err := p.txs.Upsert(ctx, &updated); err != nil {
		logger.Error("could not upsert transaction", zap.Error(err))
	} else {
		p.publishEvent(ctx, &updated)
	}

	p.closeSessionLog(ctx, updated.SessionID, class.IsSuccessful, logger)
	p.appendCommission(ctx, &updated, result.ResponseCode, logger)
	logger.Info("stale transaction reconciled", zap.String("status", updated.Status))
}

// HandleServiceCallback records the fulfillment provider's delivery
// confirmation against the commission entry.
func (p *Processor) HandleServiceCallback(ctx context.Context, cb *models.ServiceCallback) error {
	if !cb.IsDelivered {
		p.logger.Warn("fulfillment reported undelivered",
			zap.String("client_reference", cb.ClientReference),
			zap.String("response_code", cb.ResponseCode))
		return nil
	}
	return p.commissions.MarkCommissionDelivered(ctx, cb.ClientReference)
}

func (p *Processor) mergeTransaction(existing *models.Transaction, cb *models.PaymentCallback, status string) *models.Transaction {
	tx := &models.Transaction{ClientReference: cb.OrderID, SessionID: cb.SessionID}
	if existing != nil {
		tx = existing
	}
	if tx.Mobile == "" {
		tx.Mobile = cb.OrderInfo.CustomerMobileNumber
	}
	// Terminal states are monotonic: a late or duplicate callback never
	// moves a settled transaction back.
	if !tx.IsTerminal() {
		tx.Status = status
	}
	tx.AmountPaid = cb.OrderInfo.Payment.AmountPaid
	tx.AmountAfterCharges = cb.OrderInfo.Payment.AmountAfterCharges
	tx.PaymentMethod = cb.OrderInfo.Payment.PaymentType
	tx.CallbackReceived = true
	return tx
}

func (p *Processor) closeSessionLog(ctx context.Context, sessionID string, successful bool, logger *zap.Logger) {
	status := models.SessionFailed
	reason := "payment failed"
	if successful {
		status = models.SessionCompleted
		reason = ""
	}
	if err := p.logs.Close(ctx, sessionID, status, reason); err != nil {
		logger.Error("could not close session log", zap.Error(err))
	}
}

func (p *Processor) appendCommission(ctx context.Context, tx *models.Transaction, code string, logger *zap.Logger) {
	class := models.ClassifyResponseCode(code)
	status := models.StatusUnpaid
	if class.IsSuccessful {
		status = models.StatusPaid
	}

	entry := models.CommissionEntry{
		ClientReference: tx.ClientReference,
		Mobile:          tx.Mobile,
		Amount:          tx.AmountPaid,
		Charges:         tx.AmountPaid - tx.AmountAfterCharges,
		NetAmount:       tx.AmountAfterCharges,
		ResponseCode:    code,
		Status:          status,
	}
	if err := p.commissions.InsertCommission(ctx, entry); err != nil {
		logger.Error("could not append commission entry", zap.Error(err))
	}
}

// fulfill hands the order to the fulfillment provider. A session that
// was reaped before the callback arrived is an accepted gap: the
// payment record stays, fulfillment is skipped.
func (p *Processor) fulfill(ctx context.Context, tx *models.Transaction, logger *zap.Logger) {
	sess, err := p.sessions.Get(ctx, tx.SessionID)
	if err != nil {
		if errors.IsKind(err, errors.NotFound) {
			logger.Warn("session gone before callback, skipping fulfillment")
			return
		}
		logger.Error("could not load session for fulfillment", zap.Error(err))
		return
	}

	if sess.ServiceType == models.ServiceVoucher {
		p.deliverVouchers(ctx, sess, tx.ClientReference, logger)
	} else {
		req := p.buildFulfillment(sess, tx.ClientReference)
		if err = p.fulfillment.Fulfill(ctx, req); err != nil {
			// Reconciliation gap: payment succeeded but delivery did
			// not. Logged, never rolled back.
			logger.Error("fulfillment failed after successful payment", zap.Error(err))
		}
	}

	if err = p.sessions.Delete(ctx, sess.ID); err != nil {
		logger.Warn("could not delete session after fulfillment", zap.Error(err))
	}
}

func (p *Processor) buildFulfillment(sess *models.Session, reference string) models.FulfillmentRequest {
	req := models.FulfillmentRequest{
		ClientReference: reference,
		Amount:          sess.TotalAmount,
		CallbackURL:     p.callbackURL,
		Destination:     sess.Destination,
		Extra:           map[string]string{},
	}

	switch sess.ServiceType {
	case models.ServiceAirtime:
		req.ServiceType = "airtime"
		req.Network = sess.Network
	case models.ServiceBundle:
		req.ServiceType = "bundle"
		req.Network = sess.Network
		req.Extra["bundle"] = sess.SelectedOption
	case models.ServicePayBills:
		req.ServiceType = "tvbill"
		req.TvProvider = sess.TvProvider
		req.Destination = sess.AccountNumber
	case models.ServiceUtility:
		req.ServiceType = "utility"
		req.UtilityProvider = sess.UtilityProvider
		req.Destination = sess.SelectedMeter
		req.Extra["meter"] = sess.MeterNumber
	}
	return req
}

func (p *Processor) deliverVouchers(ctx context.Context, sess *models.Session, reference string, logger *zap.Logger) {
	qty := sess.Quantity
	if qty < 1 {
		qty = 1
	}

	for n := 0; n < qty; n++ {
		v, err := p.vouchers.Draw(ctx, sess.VoucherType, sess.Destination, reference)
		if err != nil {
			logger.Error("could not draw voucher from inventory", zap.Int("drawn", n), zap.Error(err))
			return
		}

		msg := fmt.Sprintf("Your %s voucher\nSerial: %s\nPIN: %s", sess.VoucherType, v.Serial, v.Pin)
		if err = p.notifier.NotifyDelivery(ctx, sess.Destination, msg); err != nil {
			logger.Error("could not send voucher notification", zap.Error(err))
		}
	}

	if err := p.commissions.MarkCommissionDelivered(ctx, reference); err != nil {
		logger.Error("could not mark commission delivered", zap.Error(err))
	}
}

func (p *Processor) acknowledge(ctx context.Context, sessionID, orderID string, successful bool, logger *zap.Logger) {
	serviceStatus := "failed"
	if successful {
		serviceStatus = "success"
	}

	ack := models.Acknowledgment{
		SessionID:     sessionID,
		OrderID:       orderID,
		ServiceStatus: serviceStatus,
		MetaData:      map[string]string{"acknowledgedAt": time.Now().UTC().Format(time.RFC3339)},
	}
	if err := p.gateway.Acknowledge(ctx, ack); err != nil {
		logger.Error("could not acknowledge gateway", zap.Error(err))
	}
}

func (p *Processor) publishEvent(ctx context.Context, tx *models.Transaction) {
	p.events.Publish(ctx, models.LedgerEvent{
		ClientReference: tx.ClientReference,
		SessionID:       tx.SessionID,
		ServiceType:     tx.ServiceType,
		Status:          tx.Status,
		Amount:          tx.AmountPaid,
		At:              time.Now().UTC(),
	})
}
