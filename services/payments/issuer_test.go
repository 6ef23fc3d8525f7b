package payments

import (
	"context"
	"testing"

	errors "e-wale/errors"
	models "e-wale/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestPaymentBooksLedgerAndCheckout(t *testing.T) {
	txs := newFakeTxRepo()
	checkout := &fakeCheckout{}
	issuer := NewIssuer(checkout, txs, "https://ewale.example.com/callback/payment", zap.NewNop())

	sess := &models.Session{
		ID:          "sess-1",
		Mobile:      "0244000001",
		ServiceType: models.ServiceAirtime,
		Destination: "233244000001",
		TotalAmount: 10.50,
	}

	resp, err := issuer.RequestPayment(context.Background(), sess, "MTN Airtime Topup")
	require.NoError(t, err)
	require.Equal(t, models.ResponseAddToCart, resp.Type)
	require.Contains(t, resp.Message, "GHS 10.50")

	require.Len(t, checkout.requests, 1)
	req := checkout.requests[0]
	require.NotEmpty(t, req.ClientReference)
	require.Equal(t, "sess-1", req.SessionID)
	require.Equal(t, 10.50, req.Amount)
	require.Equal(t, "https://ewale.example.com/callback/payment", req.CallbackURL)

	tx, ok := txs.txs[req.ClientReference]
	require.True(t, ok, "a pending ledger record is booked before checkout")
	require.Equal(t, models.TxPending, tx.Status)
	require.Equal(t, models.ServiceAirtime, tx.ServiceType)
	require.Equal(t, "MTN Airtime Topup", tx.Extra["product"])
}

func TestRequestPaymentRejectsBadAmountBeforeCheckout(t *testing.T) {
	for _, amount := range []float64{10.505, 0, -3} {
		txs := newFakeTxRepo()
		checkout := &fakeCheckout{}
		issuer := NewIssuer(checkout, txs, "https://ewale.example.com/callback/payment", zap.NewNop())

		sess := &models.Session{ID: "sess-1", Mobile: "0244000001", TotalAmount: amount}
		_, err := issuer.RequestPayment(context.Background(), sess, "MTN Airtime Topup")
		require.Error(t, err)
		require.True(t, errors.IsKind(err, errors.Invalid))
		require.Empty(t, checkout.requests, "the provider is never contacted for a bad amount")
		require.Zero(t, txs.upserts)
	}
}

func TestValidateAmount(t *testing.T) {
	require.NoError(t, ValidateAmount(1))
	require.NoError(t, ValidateAmount(0.01))
	require.NoError(t, ValidateAmount(120.50))
	require.Error(t, ValidateAmount(0))
	require.Error(t, ValidateAmount(-1))
	require.Error(t, ValidateAmount(5.001))
}

func TestRequestPaymentCheckoutFailure(t *testing.T) {
	txs := newFakeTxRepo()
	checkout := &fakeCheckout{err: errors.CollaboratorErr("checkout", context.DeadlineExceeded)}
	issuer := NewIssuer(checkout, txs, "https://ewale.example.com/callback/payment", zap.NewNop())

	sess := &models.Session{ID: "sess-1", Mobile: "0244000001", TotalAmount: 10}
	_, err := issuer.RequestPayment(context.Background(), sess, "MTN Airtime Topup")
	require.Error(t, err)
	require.Equal(t, 1, txs.upserts, "the pending record stays for the poller to reconcile")
}
