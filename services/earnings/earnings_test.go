package earnings

import (
	"context"
	"testing"

	errors "e-wale/errors"
	models "e-wale/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCommissions struct {
	entries []models.CommissionEntry
}

func (f *fakeCommissions) ListCommissions(_ context.Context, _ string) ([]models.CommissionEntry, error) {
	return f.entries, nil
}

type fakeWithdrawals struct {
	withdrawals map[string]models.Withdrawal
	inserts     int
}

func newFakeWithdrawals() *fakeWithdrawals {
	return &fakeWithdrawals{withdrawals: make(map[string]models.Withdrawal)}
}

func (f *fakeWithdrawals) InsertWithdrawal(_ context.Context, wd models.Withdrawal) error {
	f.inserts++
	f.withdrawals[wd.ClientReference] = wd
	return nil
}

func (f *fakeWithdrawals) UpdateWithdrawalStatus(_ context.Context, reference, status string, fulfilled bool) error {
	wd := f.withdrawals[reference]
	wd.Status = status
	wd.IsFulfilled = fulfilled
	f.withdrawals[reference] = wd
	return nil
}

func (f *fakeWithdrawals) FindWithdrawal(_ context.Context, reference string) (*models.Withdrawal, error) {
	wd, ok := f.withdrawals[reference]
	if !ok {
		return nil, errors.TransactionNotFoundErr(reference)
	}
	copied := wd
	return &copied, nil
}

func (f *fakeWithdrawals) ListWithdrawals(_ context.Context, _ string) ([]models.Withdrawal, error) {
	var out []models.Withdrawal
	for _, wd := range f.withdrawals {
		out = append(out, wd)
	}
	return out, nil
}

type fakeSendMoney struct {
	accepted bool
	err      error
	calls    int
}

func (f *fakeSendMoney) SendMoney(_ context.Context, _ string, _ float64, _ string) (bool, error) {
	f.calls++
	return f.accepted, f.err
}

func paidEntry(amount float64) models.CommissionEntry {
	return models.CommissionEntry{Amount: amount, Status: models.StatusPaid, IsDelivered: true}
}

func newService(commissions *fakeCommissions, withdrawals *fakeWithdrawals, sendMoney *fakeSendMoney) *Service {
	return NewService(commissions, withdrawals, sendMoney, 0.05, 1.0, zap.NewNop())
}

func TestGetUserEarningsBalanceInvariant(t *testing.T) {
	commissions := &fakeCommissions{entries: []models.CommissionEntry{
		paidEntry(60),
		paidEntry(40),
	}}
	withdrawals := newFakeWithdrawals()
	withdrawals.withdrawals["w1"] = models.Withdrawal{ClientReference: "w1", Amount: 1, Status: models.WithdrawalCompleted}
	withdrawals.withdrawals["w2"] = models.Withdrawal{ClientReference: "w2", Amount: 1, Status: models.WithdrawalPending}
	withdrawals.withdrawals["w3"] = models.Withdrawal{ClientReference: "w3", Amount: 2, Status: models.WithdrawalFailed}

	svc := newService(commissions, withdrawals, &fakeSendMoney{})
	e, err := svc.GetUserEarnings(context.Background(), "233244000001")
	require.NoError(t, err)

	// 5% of 100 earned, minus 1 withdrawn and 1 pending. Failed
	// withdrawals do not reduce the balance.
	require.Equal(t, 5.0, e.TotalEarnings)
	require.Equal(t, 1.0, e.TotalWithdrawn)
	require.Equal(t, 1.0, e.PendingWithdrawals)
	require.Equal(t, 3.0, e.AvailableBalance)
	require.Equal(t, e.TotalEarnings-e.TotalWithdrawn-e.PendingWithdrawals, e.AvailableBalance)
}

func TestGetUserEarningsExcludesUnpaidAndUndelivered(t *testing.T) {
	commissions := &fakeCommissions{entries: []models.CommissionEntry{
		paidEntry(100),
		{Amount: 100, Status: models.StatusUnpaid, IsDelivered: true},
		{Amount: 100, Status: models.StatusPaid, IsDelivered: false},
	}}

	svc := newService(commissions, newFakeWithdrawals(), &fakeSendMoney{})
	e, err := svc.GetUserEarnings(context.Background(), "233244000001")
	require.NoError(t, err)
	require.Equal(t, 5.0, e.TotalEarnings)
}

func TestWithdrawalOverBalanceRejectedLocally(t *testing.T) {
	commissions := &fakeCommissions{entries: []models.CommissionEntry{paidEntry(60)}}
	sendMoney := &fakeSendMoney{accepted: true}
	withdrawals := newFakeWithdrawals()

	svc := newService(commissions, withdrawals, sendMoney)

	// Available is 3.00; asking for 5.00 must fail before the provider
	// is contacted.
	_, err := svc.ProcessWithdrawalRequest(context.Background(), "233244000001", 5, "ref-1")
	require.Error(t, err)
	require.True(t, errors.IsKind(err, errors.Unprocessable))
	require.Zero(t, sendMoney.calls)
	require.Zero(t, withdrawals.inserts)
}

func TestWithdrawalBelowMinimumRejectedLocally(t *testing.T) {
	commissions := &fakeCommissions{entries: []models.CommissionEntry{paidEntry(1000)}}
	sendMoney := &fakeSendMoney{accepted: true}
	withdrawals := newFakeWithdrawals()

	svc := newService(commissions, withdrawals, sendMoney)

	_, err := svc.ProcessWithdrawalRequest(context.Background(), "233244000001", 0.50, "ref-1")
	require.Error(t, err)
	require.True(t, errors.IsKind(err, errors.Invalid))
	require.Zero(t, sendMoney.calls)
}

func TestWithdrawalAcceptedBooksPending(t *testing.T) {
	commissions := &fakeCommissions{entries: []models.CommissionEntry{paidEntry(1000)}}
	withdrawals := newFakeWithdrawals()

	svc := newService(commissions, withdrawals, &fakeSendMoney{accepted: true})
	wd, err := svc.ProcessWithdrawalRequest(context.Background(), "233244000001", 10, "ref-1")
	require.NoError(t, err)
	require.Equal(t, models.WithdrawalPending, wd.Status)
	require.Equal(t, models.WithdrawalPending, withdrawals.withdrawals["ref-1"].Status)
}

func TestWithdrawalRejectedByProviderBooksFailed(t *testing.T) {
	commissions := &fakeCommissions{entries: []models.CommissionEntry{paidEntry(1000)}}
	withdrawals := newFakeWithdrawals()

	svc := newService(commissions, withdrawals, &fakeSendMoney{accepted: false})
	wd, err := svc.ProcessWithdrawalRequest(context.Background(), "233244000001", 10, "ref-1")
	require.NoError(t, err)
	require.Equal(t, models.WithdrawalFailed, wd.Status)
}

func TestPendingWithdrawalDebitsBalance(t *testing.T) {
	commissions := &fakeCommissions{entries: []models.CommissionEntry{paidEntry(1000)}}
	withdrawals := newFakeWithdrawals()
	svc := newService(commissions, withdrawals, &fakeSendMoney{accepted: true})

	before, err := svc.GetUserEarnings(context.Background(), "233244000001")
	require.NoError(t, err)

	_, err = svc.ProcessWithdrawalRequest(context.Background(), "233244000001", 10, "ref-1")
	require.NoError(t, err)

	after, err := svc.GetUserEarnings(context.Background(), "233244000001")
	require.NoError(t, err)
	require.Equal(t, before.AvailableBalance-10, after.AvailableBalance)
}

func TestSendMoneyCallbackCompletesWithdrawal(t *testing.T) {
	withdrawals := newFakeWithdrawals()
	withdrawals.withdrawals["ref-1"] = models.Withdrawal{ClientReference: "ref-1", Amount: 10, Status: models.WithdrawalPending}

	svc := newService(&fakeCommissions{}, withdrawals, &fakeSendMoney{})
	err := svc.HandleSendMoneyCallback(context.Background(), &models.SendMoneyCallback{
		ClientReference: "ref-1",
		IsSuccessful:    true,
	})
	require.NoError(t, err)
	require.Equal(t, models.WithdrawalCompleted, withdrawals.withdrawals["ref-1"].Status)
	require.True(t, withdrawals.withdrawals["ref-1"].IsFulfilled)
}

func TestSendMoneyCallbackFailureRefunds(t *testing.T) {
	commissions := &fakeCommissions{entries: []models.CommissionEntry{paidEntry(1000)}}
	withdrawals := newFakeWithdrawals()
	withdrawals.withdrawals["ref-1"] = models.Withdrawal{ClientReference: "ref-1", Amount: 10, Status: models.WithdrawalPending}

	svc := newService(commissions, withdrawals, &fakeSendMoney{})
	err := svc.HandleSendMoneyCallback(context.Background(), &models.SendMoneyCallback{
		ClientReference: "ref-1",
		IsSuccessful:    false,
	})
	require.NoError(t, err)
	require.Equal(t, models.WithdrawalFailed, withdrawals.withdrawals["ref-1"].Status)

	// The failed amount no longer counts against the balance.
	e, err := svc.GetUserEarnings(context.Background(), "233244000001")
	require.NoError(t, err)
	require.Equal(t, 50.0, e.AvailableBalance)
}

func TestSendMoneyCallbackIgnoresSettledWithdrawal(t *testing.T) {
	withdrawals := newFakeWithdrawals()
	withdrawals.withdrawals["ref-1"] = models.Withdrawal{ClientReference: "ref-1", Amount: 10, Status: models.WithdrawalCompleted, IsFulfilled: true}

	svc := newService(&fakeCommissions{}, withdrawals, &fakeSendMoney{})
	err := svc.HandleSendMoneyCallback(context.Background(), &models.SendMoneyCallback{
		ClientReference: "ref-1",
		IsSuccessful:    false,
	})
	require.NoError(t, err)
	require.Equal(t, models.WithdrawalCompleted, withdrawals.withdrawals["ref-1"].Status, "a settled withdrawal never regresses")
}
