package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	models "e-wale/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubDispatcher struct {
	got *models.TurnRequest
}

func (s *stubDispatcher) HandleTurn(_ context.Context, req *models.TurnRequest) *models.TurnResponse {
	s.got = req
	return &models.TurnResponse{SessionID: req.SessionID, Type: models.ResponseContinue, Message: "ok"}
}

type stubProcessor struct {
	payments []models.PaymentCallback
	services []models.ServiceCallback
	err      error
}

func (s *stubProcessor) HandlePaymentCallback(_ context.Context, cb *models.PaymentCallback) error {
	s.payments = append(s.payments, *cb)
	return s.err
}

func (s *stubProcessor) HandleServiceCallback(_ context.Context, cb *models.ServiceCallback) error {
	s.services = append(s.services, *cb)
	return s.err
}

type stubEarnings struct {
	callbacks []models.SendMoneyCallback
}

func (s *stubEarnings) HandleSendMoneyCallback(_ context.Context, cb *models.SendMoneyCallback) error {
	s.callbacks = append(s.callbacks, *cb)
	return nil
}

func postJSON(t *testing.T, srv *Server, path string, payload any) int {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := New(&stubDispatcher{}, &stubProcessor{}, &stubEarnings{}, zap.NewNop())

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)
}

func TestTurnEndpoint(t *testing.T) {
	dispatcher := &stubDispatcher{}
	srv := New(dispatcher, &stubProcessor{}, &stubEarnings{}, zap.NewNop())

	code := postJSON(t, srv, "/ussd", models.TurnRequest{
		Type:      models.TurnTypeInitiation,
		SessionID: "sess-1",
		Mobile:    "0244000001",
	})
	require.Equal(t, 200, code)
	require.NotNil(t, dispatcher.got)
	require.Equal(t, "sess-1", dispatcher.got.SessionID)
}

func TestTurnEndpointValidation(t *testing.T) {
	srv := New(&stubDispatcher{}, &stubProcessor{}, &stubEarnings{}, zap.NewNop())

	// Missing mobile number fails validation at the boundary.
	code := postJSON(t, srv, "/ussd", models.TurnRequest{
		Type:      models.TurnTypeInitiation,
		SessionID: "sess-1",
	})
	require.Equal(t, 400, code)
}

func TestPaymentCallbackEndpoint(t *testing.T) {
	processor := &stubProcessor{}
	srv := New(&stubDispatcher{}, processor, &stubEarnings{}, zap.NewNop())

	code := postJSON(t, srv, "/callback/payment", models.PaymentCallback{
		SessionID: "sess-1",
		OrderID:   "ref-1",
	})
	require.Equal(t, 200, code)
	require.Len(t, processor.payments, 1)

	code = postJSON(t, srv, "/callback/payment", models.PaymentCallback{OrderID: "ref-1"})
	require.Equal(t, 400, code, "missing session id fails validation")
	require.Len(t, processor.payments, 1)
}

func TestSendMoneyCallbackEndpoint(t *testing.T) {
	earnings := &stubEarnings{}
	srv := New(&stubDispatcher{}, &stubProcessor{}, earnings, zap.NewNop())

	code := postJSON(t, srv, "/callback/send-money", models.SendMoneyCallback{
		ClientReference: "ref-1",
		IsSuccessful:    true,
	})
	require.Equal(t, 200, code)
	require.Len(t, earnings.callbacks, 1)
}

func TestServiceCallbackEndpoint(t *testing.T) {
	processor := &stubProcessor{}
	srv := New(&stubDispatcher{}, processor, &stubEarnings{}, zap.NewNop())

	code := postJSON(t, srv, "/callback/service", models.ServiceCallback{
		ClientReference: "ref-1",
		IsDelivered:     true,
	})
	require.Equal(t, 200, code)
	require.Len(t, processor.services, 1)
}
