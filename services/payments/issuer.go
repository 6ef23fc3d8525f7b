package payments

import (
	// Go Internal Packages
	"context"
	"fmt"
	"time"

	// Local Packages
	errors "e-wale/errors"
	models "e-wale/models"
	ussd "e-wale/services/ussd"

	// External Packages
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutClient starts a mobile-money collection at the payment
// provider.
type CheckoutClient interface {
	InitiateCheckout(ctx context.Context, req models.CheckoutRequest) error
}

// TransactionsRepo is the durable ledger of payment attempts.
type TransactionsRepo interface {
	Upsert(ctx context.Context, tx *models.Transaction) error
	FindByReference(ctx context.Context, reference string) (*models.Transaction, error)
	FindStale(ctx context.Context, olderThan time.Duration) ([]models.Transaction, error)
}

// Issuer turns a confirmed order into a payment-collection instruction.
type Issuer struct {
	checkout    CheckoutClient
	txs         TransactionsRepo
	callbackURL string
	logger      *zap.Logger
}

func NewIssuer(checkout CheckoutClient, txs TransactionsRepo, callbackURL string, logger *zap.Logger) *Issuer {
	return &Issuer{checkout: checkout, txs: txs, callbackURL: callbackURL, logger: logger}
}

// RequestPayment validates the order amount, books a pending ledger
// record and instructs the provider to collect the money. The amount is
// validated before any external call: positive, at most 2 decimal
// places.
func (i *Issuer) RequestPayment(ctx context.Context, sess *models.Session, productName string) (*models.TurnResponse, error) {
	if err := ValidateAmount(sess.TotalAmount); err != nil {
		return nil, err
	}

	reference := uuid.NewString()
	tx := &models.Transaction{
		ClientReference: reference,
		SessionID:       sess.ID,
		Mobile:          sess.Mobile,
		Status:          models.TxPending,
		ServiceType:     sess.ServiceType,
		AmountPaid:      sess.TotalAmount,
		Extra:           map[string]string{"product": productName, "destination": sess.Destination},
	}
	if err := i.txs.Upsert(ctx, tx); err != nil {
		return nil, err
	}

	req := models.CheckoutRequest{
		ClientReference: reference,
		SessionID:       sess.ID,
		Mobile:          sess.Mobile,
		Amount:          sess.TotalAmount,
		Description:     productName,
		CallbackURL:     i.callbackURL,
	}
	if err := i.checkout.InitiateCheckout(ctx, req); err != nil {
		return nil, err
	}

	i.logger.Info("payment requested",
		zap.String("client_reference", reference),
		zap.String("session_id", sess.ID),
		zap.Float64("amount", sess.TotalAmount))

	msg := fmt.Sprintf("You will receive a prompt to approve payment of GHS %.2f for %s. Enter your mobile money PIN to complete.",
		sess.TotalAmount, productName)
	return ussd.AddToCart(sess.ID, "Approve Payment", msg), nil
}

// ValidateAmount enforces the order-amount format: strictly positive
// with at most two decimal places.
func ValidateAmount(amount float64) error {
	d := decimal.NewFromFloat(amount)
	if !d.IsPositive() || !d.Equal(d.Round(2)) {
		return errors.InvalidAmountErr(fmt.Sprintf("%v", amount))
	}
	return nil
}
