package payments

import (
	// Go Internal Packages
	"context"
	"time"

	// Local Packages
	models "e-wale/models"

	// External Packages
	"go.uber.org/zap"
)

// StatusClient re-queries the payment provider for a transaction's
// current state.
type StatusClient interface {
	CheckStatus(ctx context.Context, query models.StatusQuery) (*models.StatusResult, error)
}

type PollerConfig struct {
	PendingAge    time.Duration
	PollInterval  time.Duration
	BatchSize     int
	BatchPause    time.Duration
	StatusTimeout time.Duration
}

// Poller reconciles stuck transactions. Results flow through the same
// ledger update path as callbacks, minus fulfillment. The batch pause
// is backpressure against the provider's rate limits, not a concurrency
// primitive.
type Poller struct {
	txs       TransactionsRepo
	status    StatusClient
	processor *Processor
	conf      PollerConfig
	logger    *zap.Logger
}

func NewPoller(txs TransactionsRepo, status StatusClient, processor *Processor, conf PollerConfig, logger *zap.Logger) *Poller {
	if conf.BatchSize <= 0 {
		conf.BatchSize = 5
	}
	if conf.StatusTimeout <= 0 {
		conf.StatusTimeout = 30 * time.Second
	}
	return &Poller{txs: txs, status: status, processor: processor, conf: conf, logger: logger}
}

// CheckPending re-queries every pending or processing transaction older
// than the configured age, in batches with a pause between them.
func (p *Poller) CheckPending(ctx context.Context) error {
	stale, err := p.txs.FindStale(ctx, p.conf.PendingAge)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}
	p.logger.Info("reconciling stale transactions", zap.Int("count", len(stale)))

	for start := 0; start < len(stale); start += p.conf.BatchSize {
		end := start + p.conf.BatchSize
		if end > len(stale) {
			end = len(stale)
		}

		for _, tx := range stale[start:end] {
			p.checkOne(ctx, tx)
		}

		if end < len(stale) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.conf.BatchPause):
			}
		}
	}
	return nil
}

func (p *Poller) checkOne(ctx context.Context, tx models.Transaction) {
	qctx, cancel := context.WithTimeout(ctx, p.conf.StatusTimeout)
	defer cancel()

	result, err := p.status.CheckStatus(qctx, models.StatusQuery{ClientReference: tx.ClientReference})
	if err != nil {
		p.logger.Error("status query failed",
			zap.String("client_reference", tx.ClientReference), zap.Error(err))
		return
	}

	p.processor.RecordStatus(ctx, tx, result)
}

// Run drives CheckPending on a ticker until the context is done.
func (p *Poller) Run(ctx context.Context) {
	interval := p.conf.PollInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.CheckPending(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("reconciliation sweep failed", zap.Error(err))
			}
		}
	}
}
