package payments

import (
	"context"
	"time"

	errors "e-wale/errors"
	models "e-wale/models"
)

type fakeTxRepo struct {
	txs     map[string]models.Transaction
	stale   []models.Transaction
	upserts int
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{txs: make(map[string]models.Transaction)}
}

func (f *fakeTxRepo) Upsert(_ context.Context, tx *models.Transaction) error {
	f.upserts++
	f.txs[tx.ClientReference] = *tx
	return nil
}

func (f *fakeTxRepo) FindByReference(_ context.Context, reference string) (*models.Transaction, error) {
	tx, ok := f.txs[reference]
	if !ok {
		return nil, errors.TransactionNotFoundErr(reference)
	}
	copied := tx
	return &copied, nil
}

func (f *fakeTxRepo) FindStale(_ context.Context, _ time.Duration) ([]models.Transaction, error) {
	return f.stale, nil
}

type fakeCommissions struct {
	entries   []models.CommissionEntry
	delivered []string
}

func (f *fakeCommissions) InsertCommission(_ context.Context, entry models.CommissionEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeCommissions) MarkCommissionDelivered(_ context.Context, reference string) error {
	f.delivered = append(f.delivered, reference)
	return nil
}

type fakeSessionLogs struct {
	closed map[string]string
}

func (f *fakeSessionLogs) Close(_ context.Context, sessionID, status, _ string) error {
	if f.closed == nil {
		f.closed = map[string]string{}
	}
	f.closed[sessionID] = status
	return nil
}

type fakeFulfillment struct {
	requests []models.FulfillmentRequest
	err      error
}

func (f *fakeFulfillment) Fulfill(_ context.Context, req models.FulfillmentRequest) error {
	f.requests = append(f.requests, req)
	return f.err
}

type fakeGateway struct {
	acks []models.Acknowledgment
}

func (f *fakeGateway) Acknowledge(_ context.Context, ack models.Acknowledgment) error {
	f.acks = append(f.acks, ack)
	return nil
}

type fakeVouchers struct {
	drawn int
	err   error
}

func (f *fakeVouchers) Draw(_ context.Context, voucherType, mobile, reference string) (*models.Voucher, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.drawn++
	return &models.Voucher{Serial: "SER-1", Pin: "1234", VoucherType: voucherType, AssignedTo: mobile, Reference: reference}, nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) NotifyDelivery(_ context.Context, _ string, message string) error {
	f.messages = append(f.messages, message)
	return nil
}

type fakeRefunder struct {
	refunded []string
}

func (f *fakeRefunder) RefundWithdrawal(_ context.Context, clientReference string) error {
	f.refunded = append(f.refunded, clientReference)
	return nil
}

type fakeEvents struct {
	events []models.LedgerEvent
}

func (f *fakeEvents) Publish(_ context.Context, event models.LedgerEvent) {
	f.events = append(f.events, event)
}

type fakeCheckout struct {
	requests []models.CheckoutRequest
	err      error
}

func (f *fakeCheckout) InitiateCheckout(_ context.Context, req models.CheckoutRequest) error {
	if f.err != nil {
		return f.err
	}
	f.requests = append(f.requests, req)
	return nil
}

type fakeStatus struct {
	results map[string]*models.StatusResult
	queries []models.StatusQuery
	err     error
}

func (f *fakeStatus) CheckStatus(_ context.Context, query models.StatusQuery) (*models.StatusResult, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query.ClientReference], nil
}
