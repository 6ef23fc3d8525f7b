package payments

import (
	"context"
	"testing"
	"time"

	models "e-wale/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPollerEnv(stale []models.Transaction, results map[string]*models.StatusResult) (*Poller, *procEnv, *fakeStatus) {
	env := newProcEnv()
	env.txs.stale = stale
	for _, tx := range stale {
		env.txs.txs[tx.ClientReference] = tx
	}

	status := &fakeStatus{results: results}
	poller := NewPoller(env.txs, status, env.processor, PollerConfig{
		PendingAge: 5 * time.Minute,
		BatchSize:  5,
		BatchPause: time.Millisecond,
	}, zap.NewNop())
	return poller, env, status
}

func TestCheckPendingSettlesStaleTransaction(t *testing.T) {
	stale := []models.Transaction{
		{ClientReference: "ref-1", SessionID: "sess-1", Status: models.TxPending},
	}
	results := map[string]*models.StatusResult{
		"ref-1": {ResponseCode: models.CodeSuccess, Amount: 10, AmountAfterCharges: 9.8},
	}
	poller, env, status := newPollerEnv(stale, results)

	require.NoError(t, poller.CheckPending(context.Background()))

	require.Len(t, status.queries, 1)
	require.Equal(t, "ref-1", status.queries[0].ClientReference)
	require.Equal(t, models.TxCompleted, env.txs.txs["ref-1"].Status)
	require.Empty(t, env.fulfillment.requests, "the poller never fulfills")
}

func TestCheckPendingLeavesStillPendingAlone(t *testing.T) {
	stale := []models.Transaction{
		{ClientReference: "ref-1", SessionID: "sess-1", Status: models.TxPending},
	}
	results := map[string]*models.StatusResult{
		"ref-1": {ResponseCode: models.CodePending},
	}
	poller, env, _ := newPollerEnv(stale, results)

	require.NoError(t, poller.CheckPending(context.Background()))

	require.Equal(t, models.TxPending, env.txs.txs["ref-1"].Status)
	require.Zero(t, env.txs.upserts)
}

func TestCheckPendingFailsStaleTransaction(t *testing.T) {
	stale := []models.Transaction{
		{ClientReference: "ref-1", SessionID: "sess-1", Status: models.TxProcessing},
	}
	results := map[string]*models.StatusResult{
		"ref-1": {ResponseCode: models.CodeGeneralFailure},
	}
	poller, env, _ := newPollerEnv(stale, results)

	require.NoError(t, poller.CheckPending(context.Background()))

	require.Equal(t, models.TxFailed, env.txs.txs["ref-1"].Status)
	require.Equal(t, models.StatusUnpaid, env.commissions.entries[0].Status)
}

func TestCheckPendingBatchesAllTransactions(t *testing.T) {
	var stale []models.Transaction
	results := map[string]*models.StatusResult{}
	refs := []string{"ref-1", "ref-2", "ref-3", "ref-4", "ref-5", "ref-6", "ref-7"}
	for _, ref := range refs {
		stale = append(stale, models.Transaction{ClientReference: ref, Status: models.TxPending})
		results[ref] = &models.StatusResult{ResponseCode: models.CodeSuccess}
	}
	poller, _, status := newPollerEnv(stale, results)

	require.NoError(t, poller.CheckPending(context.Background()))
	require.Len(t, status.queries, len(refs), "every stale transaction is queried across batches")
}

func TestCheckPendingQueryErrorSkipsTransaction(t *testing.T) {
	stale := []models.Transaction{
		{ClientReference: "ref-1", SessionID: "sess-1", Status: models.TxPending},
	}
	poller, env, status := newPollerEnv(stale, nil)
	status.err = context.DeadlineExceeded

	require.NoError(t, poller.CheckPending(context.Background()))
	require.Equal(t, models.TxPending, env.txs.txs["ref-1"].Status)
}

func TestCheckPendingStopsOnCancelledContext(t *testing.T) {
	var stale []models.Transaction
	results := map[string]*models.StatusResult{}
	for _, ref := range []string{"ref-1", "ref-2", "ref-3", "ref-4", "ref-5", "ref-6"} {
		stale = append(stale, models.Transaction{ClientReference: ref, Status: models.TxPending})
		results[ref] = &models.StatusResult{ResponseCode: models.CodePending}
	}
	poller, _, _ := newPollerEnv(stale, results)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := poller.CheckPending(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
