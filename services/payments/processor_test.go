package payments

import (
	"context"
	"testing"

	models "e-wale/models"
	memory "e-wale/repositories/memory"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type procEnv struct {
	processor   *Processor
	txs         *fakeTxRepo
	commissions *fakeCommissions
	sessions    *memory.SessionsRepository
	logs        *fakeSessionLogs
	fulfillment *fakeFulfillment
	gateway     *fakeGateway
	vouchers    *fakeVouchers
	notifier    *fakeNotifier
	refunder    *fakeRefunder
	events      *fakeEvents
}

func newProcEnv() *procEnv {
	env := &procEnv{
		txs:         newFakeTxRepo(),
		commissions: &fakeCommissions{},
		sessions:    memory.NewSessionsRepository(),
		logs:        &fakeSessionLogs{},
		fulfillment: &fakeFulfillment{},
		gateway:     &fakeGateway{},
		vouchers:    &fakeVouchers{},
		notifier:    &fakeNotifier{},
		refunder:    &fakeRefunder{},
		events:      &fakeEvents{},
	}
	env.processor = NewProcessor(ProcessorDeps{
		Transactions: env.txs,
		Commissions:  env.commissions,
		Sessions:     env.sessions,
		SessionLogs:  env.logs,
		Fulfillment:  env.fulfillment,
		Gateway:      env.gateway,
		Vouchers:     env.vouchers,
		Notifier:     env.notifier,
		Refunder:     env.refunder,
		Events:       env.events,
		CallbackURL:  "https://ewale.example.com/callback/service",
	}, zap.NewNop())
	return env
}

func (e *procEnv) seedSession(t *testing.T, mutate func(*models.Session)) {
	t.Helper()
	ctx := context.Background()
	sess, err := e.sessions.Create(ctx, "sess-1", "0244000001")
	require.NoError(t, err)
	mutate(sess)
	require.NoError(t, e.sessions.Update(ctx, sess))
}

func paymentCallback(successful bool) *models.PaymentCallback {
	return &models.PaymentCallback{
		SessionID: "sess-1",
		OrderID:   "ref-1",
		OrderInfo: models.OrderInfo{
			CustomerMobileNumber: "233244000001",
			Payment: models.PaymentDetails{
				PaymentType:        "mobilemoney",
				AmountPaid:         10,
				AmountAfterCharges: 9.8,
				IsSuccessful:       successful,
			},
		},
	}
}

func TestSuccessfulCallbackFulfillsAirtime(t *testing.T) {
	env := newProcEnv()
	env.seedSession(t, func(s *models.Session) {
		s.ServiceType = models.ServiceAirtime
		s.Network = "MTN"
		s.Destination = "233244000001"
		s.TotalAmount = 10
	})
	env.txs.txs["ref-1"] = models.Transaction{
		ClientReference: "ref-1", SessionID: "sess-1",
		Status: models.TxPending, ServiceType: models.ServiceAirtime,
	}

	require.NoError(t, env.processor.HandlePaymentCallback(context.Background(), paymentCallback(true)))

	tx := env.txs.txs["ref-1"]
	require.Equal(t, models.TxCompleted, tx.Status)
	require.Equal(t, 10.0, tx.AmountPaid)
	require.True(t, tx.CallbackReceived)

	require.Len(t, env.fulfillment.requests, 1)
	req := env.fulfillment.requests[0]
	require.Equal(t, "airtime", req.ServiceType)
	require.Equal(t, "MTN", req.Network)
	require.Equal(t, "233244000001", req.Destination)
	require.Equal(t, 10.0, req.Amount)

	require.Len(t, env.gateway.acks, 1)
	require.Equal(t, "success", env.gateway.acks[0].ServiceStatus)
	require.Equal(t, models.SessionCompleted, env.logs.closed["sess-1"])

	require.Len(t, env.commissions.entries, 1)
	require.Equal(t, models.StatusPaid, env.commissions.entries[0].Status)

	// Session is reaped once fulfillment is handed off.
	_, err := env.sessions.Get(context.Background(), "sess-1")
	require.Error(t, err)

	require.Len(t, env.events.events, 1)
	require.Equal(t, models.TxCompleted, env.events.events[0].Status)
}

func TestDuplicateCallbackFulfillsOnce(t *testing.T) {
	env := newProcEnv()
	env.seedSession(t, func(s *models.Session) {
		s.ServiceType = models.ServiceAirtime
		s.Network = "MTN"
		s.Destination = "233244000001"
		s.TotalAmount = 10
	})
	env.txs.txs["ref-1"] = models.Transaction{
		ClientReference: "ref-1", SessionID: "sess-1",
		Status: models.TxPending, ServiceType: models.ServiceAirtime,
	}

	ctx := context.Background()
	require.NoError(t, env.processor.HandlePaymentCallback(ctx, paymentCallback(true)))
	require.NoError(t, env.processor.HandlePaymentCallback(ctx, paymentCallback(true)))

	require.Len(t, env.fulfillment.requests, 1, "a settled transaction must not fulfill again")
	require.Equal(t, models.TxCompleted, env.txs.txs["ref-1"].Status)
	require.Len(t, env.gateway.acks, 2, "every callback is acknowledged")
	require.Len(t, env.commissions.entries, 1, "the commission log gets one entry per order")
}

func TestSessionGoneSkipsFulfillment(t *testing.T) {
	env := newProcEnv()
	env.txs.txs["ref-1"] = models.Transaction{
		ClientReference: "ref-1", SessionID: "sess-1",
		Status: models.TxPending, ServiceType: models.ServiceAirtime,
	}

	require.NoError(t, env.processor.HandlePaymentCallback(context.Background(), paymentCallback(true)))

	require.Empty(t, env.fulfillment.requests)
	require.Equal(t, models.TxCompleted, env.txs.txs["ref-1"].Status, "the payment record stays")
	require.Len(t, env.gateway.acks, 1)
}

func TestFailedCallbackDoesNotFulfill(t *testing.T) {
	env := newProcEnv()
	env.seedSession(t, func(s *models.Session) {
		s.ServiceType = models.ServiceAirtime
	})
	env.txs.txs["ref-1"] = models.Transaction{
		ClientReference: "ref-1", SessionID: "sess-1",
		Status: models.TxPending, ServiceType: models.ServiceAirtime,
	}

	require.NoError(t, env.processor.HandlePaymentCallback(context.Background(), paymentCallback(false)))

	require.Empty(t, env.fulfillment.requests)
	require.Equal(t, models.TxFailed, env.txs.txs["ref-1"].Status)
	require.Equal(t, "failed", env.gateway.acks[0].ServiceStatus)
	require.Equal(t, models.SessionFailed, env.logs.closed["sess-1"])
	require.Equal(t, models.StatusUnpaid, env.commissions.entries[0].Status)
	require.Empty(t, env.refunder.refunded)
}

func TestFailedWithdrawalPaymentTriggersRefund(t *testing.T) {
	env := newProcEnv()
	env.txs.txs["ref-1"] = models.Transaction{
		ClientReference: "ref-1", SessionID: "sess-1",
		Status: models.TxPending, ServiceType: models.ServiceEarnings,
	}

	require.NoError(t, env.processor.HandlePaymentCallback(context.Background(), paymentCallback(false)))

	require.Equal(t, []string{"ref-1"}, env.refunder.refunded)
}

func TestAcknowledgedEvenWhenFulfillmentFails(t *testing.T) {
	env := newProcEnv()
	env.fulfillment.err = context.DeadlineExceeded
	env.seedSession(t, func(s *models.Session) {
		s.ServiceType = models.ServiceAirtime
		s.Network = "MTN"
		s.Destination = "233244000001"
	})
	env.txs.txs["ref-1"] = models.Transaction{
		ClientReference: "ref-1", SessionID: "sess-1",
		Status: models.TxPending, ServiceType: models.ServiceAirtime,
	}

	require.NoError(t, env.processor.HandlePaymentCallback(context.Background(), paymentCallback(true)))

	require.Len(t, env.gateway.acks, 1)
	require.Equal(t, "success", env.gateway.acks[0].ServiceStatus)
}

func TestVoucherFulfillmentDrawsPerQuantity(t *testing.T) {
	env := newProcEnv()
	env.seedSession(t, func(s *models.Session) {
		s.ServiceType = models.ServiceVoucher
		s.VoucherType = "WASSCE Results Checker"
		s.Destination = "233244000001"
		s.Quantity = 2
	})
	env.txs.txs["ref-1"] = models.Transaction{
		ClientReference: "ref-1", SessionID: "sess-1",
		Status: models.TxPending, ServiceType: models.ServiceVoucher,
	}

	require.NoError(t, env.processor.HandlePaymentCallback(context.Background(), paymentCallback(true)))

	require.Equal(t, 2, env.vouchers.drawn)
	require.Len(t, env.notifier.messages, 2)
	require.Contains(t, env.notifier.messages[0], "Serial: SER-1")
	require.Contains(t, env.notifier.messages[0], "PIN: 1234")
	require.Equal(t, []string{"ref-1"}, env.commissions.delivered)
	require.Empty(t, env.fulfillment.requests, "voucher orders never hit the fulfillment provider")
}

func TestLateCallbackDoesNotRegressTerminalStatus(t *testing.T) {
	env := newProcEnv()
	env.txs.txs["ref-1"] = models.Transaction{
		ClientReference: "ref-1", SessionID: "sess-1",
		Status: models.TxCompleted, ServiceType: models.ServiceAirtime,
	}

	require.NoError(t, env.processor.HandlePaymentCallback(context.Background(), paymentCallback(false)))

	require.Equal(t, models.TxCompleted, env.txs.txs["ref-1"].Status)
}

func TestRecordStatusRetryLeavesLedgerAlone(t *testing.T) {
	env := newProcEnv()
	tx := models.Transaction{ClientReference: "ref-1", SessionID: "sess-1", Status: models.TxPending}

	env.processor.RecordStatus(context.Background(), tx, &models.StatusResult{ResponseCode: models.CodePending})

	require.Zero(t, env.txs.upserts)
	require.Empty(t, env.commissions.entries)
}

func TestRecordStatusKeepsSettledTransaction(t *testing.T) {
	env := newProcEnv()
	env.txs.txs["ref-1"] = models.Transaction{
		ClientReference: "ref-1", SessionID: "sess-1",
		Status: models.TxCompleted, CallbackReceived: true,
	}

	// The poller works from a snapshot taken before the callback
	// settled the transaction; its later result must not win.
	snapshot := models.Transaction{ClientReference: "ref-1", SessionID: "sess-1", Status: models.TxPending}
	env.processor.RecordStatus(context.Background(), snapshot, &models.StatusResult{
		ResponseCode: models.CodeGeneralFailure,
	})

	require.Equal(t, models.TxCompleted, env.txs.txs["ref-1"].Status)
	require.True(t, env.txs.txs["ref-1"].CallbackReceived)
	require.Zero(t, env.txs.upserts)
	require.Empty(t, env.commissions.entries)
}

func TestRecordStatusSettlesWithoutFulfillment(t *testing.T) {
	env := newProcEnv()
	env.seedSession(t, func(s *models.Session) {
		s.ServiceType = models.ServiceAirtime
	})
	tx := models.Transaction{ClientReference: "ref-1", SessionID: "sess-1", Status: models.TxPending}

	env.processor.RecordStatus(context.Background(), tx, &models.StatusResult{
		ResponseCode:       models.CodeSuccess,
		Amount:             10,
		AmountAfterCharges: 9.8,
		PaymentMethod:      "mobilemoney",
	})

	require.Equal(t, models.TxCompleted, env.txs.txs["ref-1"].Status)
	require.Empty(t, env.fulfillment.requests, "reconciliation must not double-deliver")
	require.Len(t, env.commissions.entries, 1)
	require.Equal(t, models.StatusPaid, env.commissions.entries[0].Status)
}

func TestServiceCallbackMarksDelivered(t *testing.T) {
	env := newProcEnv()

	err := env.processor.HandleServiceCallback(context.Background(), &models.ServiceCallback{
		ClientReference: "ref-1",
		IsDelivered:     true,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ref-1"}, env.commissions.delivered)

	err = env.processor.HandleServiceCallback(context.Background(), &models.ServiceCallback{
		ClientReference: "ref-2",
		IsDelivered:     false,
	})
	require.NoError(t, err)
	require.Len(t, env.commissions.delivered, 1, "undelivered callbacks only warn")
}
