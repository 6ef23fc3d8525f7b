package earnings

import (
	// Go Internal Packages
	"context"
	"fmt"

	// Local Packages
	errors "e-wale/errors"
	models "e-wale/models"

	// External Packages
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CommissionRepo reads the earnings log.
type CommissionRepo interface {
	ListCommissions(ctx context.Context, mobile string) ([]models.CommissionEntry, error)
}

// WithdrawalsRepo persists the withdrawal lifecycle.
type WithdrawalsRepo interface {
	InsertWithdrawal(ctx context.Context, wd models.Withdrawal) error
	UpdateWithdrawalStatus(ctx context.Context, reference, status string, fulfilled bool) error
	FindWithdrawal(ctx context.Context, reference string) (*models.Withdrawal, error)
	ListWithdrawals(ctx context.Context, mobile string) ([]models.Withdrawal, error)
}

// SendMoneyClient initiates a payout. The bool result is whether the
// provider accepted the transfer for processing.
type SendMoneyClient interface {
	SendMoney(ctx context.Context, mobile string, amount float64, reference string) (bool, error)
}

// Service derives balances from the commission log and runs the
// withdrawal lifecycle. The invariant it maintains:
// available = totalEarnings - totalWithdrawn - pendingWithdrawals.
type Service struct {
	commissions   CommissionRepo
	withdrawals   WithdrawalsRepo
	sendMoney     SendMoneyClient
	rate          float64
	minWithdrawal float64
	logger        *zap.Logger
}

func NewService(commissions CommissionRepo, withdrawals WithdrawalsRepo, sendMoney SendMoneyClient, rate, minWithdrawal float64, logger *zap.Logger) *Service {
	return &Service{
		commissions:   commissions,
		withdrawals:   withdrawals,
		sendMoney:     sendMoney,
		rate:          rate,
		minWithdrawal: minWithdrawal,
		logger:        logger,
	}
}

// GetUserEarnings sums commission over paid, delivered entries and
// subtracts completed and in-flight withdrawals.
func (s *Service) GetUserEarnings(ctx context.Context, mobile string) (*models.Earnings, error) {
	entries, err := s.commissions.ListCommissions(ctx, mobile)
	if err != nil {
		return nil, err
	}

	rate := decimal.NewFromFloat(s.rate)
	total := decimal.Zero
	for _, entry := range entries {
		if entry.Status != models.StatusPaid || !entry.IsDelivered {
			continue
		}
		total = total.Add(decimal.NewFromFloat(entry.Amount).Mul(rate))
	}
	total = total.Round(2)

	wds, err := s.withdrawals.ListWithdrawals(ctx, mobile)
	if err != nil {
		return nil, err
	}

	withdrawn := decimal.Zero
	pending := decimal.Zero
	for _, wd := range wds {
		switch wd.Status {
		case models.WithdrawalCompleted:
			withdrawn = withdrawn.Add(decimal.NewFromFloat(wd.Amount))
		case models.WithdrawalPending:
			pending = pending.Add(decimal.NewFromFloat(wd.Amount))
		}
	}

	available, _ := total.Sub(withdrawn).Sub(pending).Float64()
	totalF, _ := total.Float64()
	withdrawnF, _ := withdrawn.Float64()
	pendingF, _ := pending.Float64()

	return &models.Earnings{
		Mobile:             mobile,
		TotalEarnings:      totalF,
		AvailableBalance:   available,
		TotalWithdrawn:     withdrawnF,
		PendingWithdrawals: pendingF,
	}, nil
}

// ProcessWithdrawalRequest validates locally first: below-minimum and
// over-balance requests are rejected without the send-money provider
// ever being contacted. An accepted transfer books a Pending record,
// which provisionally debits the balance.
func (s *Service) ProcessWithdrawalRequest(ctx context.Context, mobile string, amount float64, clientReference string) (*models.Withdrawal, error) {
	if amount < s.minWithdrawal {
		return nil, errors.E(errors.Invalid,
			fmt.Sprintf("withdrawal amount %.2f is below the minimum %.2f", amount, s.minWithdrawal), nil)
	}

	earnings, err := s.GetUserEarnings(ctx, mobile)
	if err != nil {
		return nil, err
	}
	if amount > earnings.AvailableBalance {
		return nil, errors.InsufficientBalanceErr(amount, earnings.AvailableBalance)
	}

	accepted, err := s.sendMoney.SendMoney(ctx, mobile, amount, clientReference)
	if err != nil {
		return nil, err
	}

	status := models.WithdrawalFailed
	if accepted {
		status = models.WithdrawalPending
	}

	wd := models.Withdrawal{
		ClientReference: clientReference,
		Mobile:          mobile,
		Amount:          amount,
		Status:          status,
	}
	if err = s.withdrawals.InsertWithdrawal(ctx, wd); err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal requested",
		zap.String("client_reference", clientReference),
		zap.Float64("amount", amount),
		zap.String("status", status))
	return &wd, nil
}

// HandleSendMoneyCallback settles a withdrawal. A failure marks the
// record Failed, which releases the provisional debit back into the
// available balance.
func (s *Service) HandleSendMoneyCallback(ctx context.Context, cb *models.SendMoneyCallback) error {
	wd, err := s.withdrawals.FindWithdrawal(ctx, cb.ClientReference)
	if err != nil {
		return err
	}

	if wd.Status != models.WithdrawalPending {
		// Duplicate or late callback for a settled withdrawal.
		s.logger.Warn("send-money callback for settled withdrawal",
			zap.String("client_reference", cb.ClientReference),
			zap.String("status", wd.Status))
		return nil
	}

	if cb.IsSuccessful {
		return s.withdrawals.UpdateWithdrawalStatus(ctx, cb.ClientReference, models.WithdrawalCompleted, true)
	}
	return s.RefundWithdrawal(ctx, cb.ClientReference)
}

// RefundWithdrawal marks the withdrawal Failed so its amount counts
// toward the available balance again.
func (s *Service) RefundWithdrawal(ctx context.Context, clientReference string) error {
	if err := s.withdrawals.UpdateWithdrawalStatus(ctx, clientReference, models.WithdrawalFailed, false); err != nil {
		return err
	}
	s.logger.Info("withdrawal refunded", zap.String("client_reference", clientReference))
	return nil
}
