package config

import (
	// Go Internal Packages
	"time"

	// Local Packages
	errors "e-wale/errors"
)

var DefaultConfig = []byte(`
application: "e-wale"

logger:
  level: "debug"

is_prod_mode: false

server:
  port: 8080

mongo:
  uri: "mongodb://localhost:27017"
  database: "ewale"

redis:
  uri: "localhost:6379"
  password: ""

kafka:
  brokers: []
  topic: "transaction-events"
  client_name: "e-wale"

session:
  ttl: 0s

payments:
  callback_url: "http://localhost:8080/callback/payment"
  status_timeout: 30s
  pending_age: 5m
  poll_interval: 5m
  batch_size: 5
  batch_pause: 1s

earnings:
  commission_rate: 0.05
  min_withdrawal: 1.0

providers:
  checkout_url: "https://payproxyapi.example.com/items/initiate"
  status_url: "https://api-txnstatus.example.com/transactions/status"
  fulfillment_url: "https://cs.example.com/commissionservices"
  send_money_url: "https://smp.example.com/merchants/send"
  gateway_ack_url: "https://gs-callback.example.com/api/fulfilment"
  notify_url: "https://sms.example.com/v1/messages/send"
  api_key: ""
`)

type Config struct {
	Application string    `koanf:"application"`
	Logger      Logger    `koanf:"logger"`
	IsProdMode  bool      `koanf:"is_prod_mode"`
	Server      Server    `koanf:"server"`
	Mongo       Mongo     `koanf:"mongo"`
	Redis       Redis     `koanf:"redis"`
	Kafka       Kafka     `koanf:"kafka"`
	Session     Session   `koanf:"session"`
	Payments    Payments  `koanf:"payments"`
	Earnings    Earnings  `koanf:"earnings"`
	Providers   Providers `koanf:"providers"`
}

type Logger struct {
	Level string `koanf:"level"`
}

type Server struct {
	Port int `koanf:"port"`
}

type Mongo struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

type Redis struct {
	URI      string `koanf:"uri"`
	Password string `koanf:"password"`
}

type Kafka struct {
	Brokers    []string `koanf:"brokers"`
	Topic      string   `koanf:"topic"`
	ClientName string   `koanf:"client_name"`
}

// Session controls the conversation store. TTL 0 means sessions never
// expire on their own; an abandoned conversation simply never receives
// another turn.
type Session struct {
	TTL time.Duration `koanf:"ttl"`
}

type Payments struct {
	CallbackURL   string        `koanf:"callback_url"`
	StatusTimeout time.Duration `koanf:"status_timeout"`
	PendingAge    time.Duration `koanf:"pending_age"`
	PollInterval  time.Duration `koanf:"poll_interval"`
	BatchSize     int           `koanf:"batch_size"`
	BatchPause    time.Duration `koanf:"batch_pause"`
}

type Earnings struct {
	CommissionRate float64 `koanf:"commission_rate"`
	MinWithdrawal  float64 `koanf:"min_withdrawal"`
}

type Providers struct {
	CheckoutURL    string `koanf:"checkout_url"`
	StatusURL      string `koanf:"status_url"`
	FulfillmentURL string `koanf:"fulfillment_url"`
	SendMoneyURL   string `koanf:"send_money_url"`
	GatewayAckURL  string `koanf:"gateway_ack_url"`
	NotifyURL      string `koanf:"notify_url"`
	APIKey         string `koanf:"api_key"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	ve := errors.ValidationErrs()

	if c.Application == "" {
		ve.Add("application", "cannot be empty")
	}
	if c.Logger.Level == "" {
		ve.Add("logger.level", "cannot be empty")
	}
	if c.Server.Port <= 0 {
		ve.Add("server.port", "must be positive")
	}
	if c.Mongo.URI == "" {
		ve.Add("mongo.uri", "cannot be empty")
	}
	if c.Mongo.Database == "" {
		ve.Add("mongo.database", "cannot be empty")
	}
	if c.Payments.BatchSize <= 0 {
		ve.Add("payments.batch_size", "must be positive")
	}
	if c.Payments.PendingAge <= 0 {
		ve.Add("payments.pending_age", "must be positive")
	}
	if c.Earnings.CommissionRate <= 0 || c.Earnings.CommissionRate >= 1 {
		ve.Add("earnings.commission_rate", "must be between 0 and 1")
	}
	if c.Earnings.MinWithdrawal < 0 {
		ve.Add("earnings.min_withdrawal", "cannot be negative")
	}

	return ve.Err()
}
