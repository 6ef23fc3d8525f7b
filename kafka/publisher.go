package kafka

import (
	// Go Internal Packages
	"context"
	"encoding/json"

	// Local Packages
	models "e-wale/models"

	// External Packages
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

type PublisherConfig struct {
	Brokers    []string
	Topic      string
	ClientName string
}

// Publisher produces one ledger event per transaction update to the
// configured topic. Publishing is fire-and-forget: an audit-stream
// failure must never block payment processing.
type Publisher struct {
	Client *kgo.Client
	Config *PublisherConfig
	Logger *zap.Logger
}

// NewPublisher creates a kafka producer client with monitoring hooks.
// When no brokers are configured it returns a nil publisher, which is
// safe to call Publish on; the event stream is simply disabled.
func NewPublisher(conf *PublisherConfig, metrics *kprom.Metrics, logger *zap.Logger) (*Publisher, error) {
	if len(conf.Brokers) == 0 {
		return nil, nil
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(conf.Brokers...), // Connects to Kafka brokers
		kgo.ClientID(conf.ClientName),    // Identifies this producer
		kgo.WithHooks(metrics),           // Attaches monitoring hooks
		kgo.DefaultProduceTopic(conf.Topic),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, err
	}

	return &Publisher{Client: client, Config: conf, Logger: logger}, nil
}

// Publish produces a ledger event keyed by client reference so all
// updates for one transaction land on the same partition.
func (p *Publisher) Publish(ctx context.Context, event models.LedgerEvent) {
	if p == nil {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.Logger.Error("failed to marshal ledger event", zap.Error(err))
		return
	}

	record := &kgo.Record{Key: []byte(event.ClientReference), Value: value}
	p.Client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.Logger.Error("failed to produce ledger event",
				zap.String("client_reference", event.ClientReference), zap.Error(err))
		}
	})
}

// Close flushes buffered records and closes the client.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.Client.Close()
}
