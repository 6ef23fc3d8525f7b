package main

import (
	// Go Internal Packages
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	// Local Packages
	clients "e-wale/clients"
	config "e-wale/config"
	kafka "e-wale/kafka"
	memory "e-wale/repositories/memory"
	mongodb "e-wale/repositories/mongodb"
	redisrepo "e-wale/repositories/redis"
	server "e-wale/server"
	earningssvc "e-wale/services/earnings"
	payments "e-wale/services/payments"
	ussd "e-wale/services/ussd"

	// External Packages
	"github.com/alecthomas/kingpin/v2"
	_ "github.com/jsternberg/zap-logfmt"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

// LoadConfig loads the default configuration and overrides it with the config file
// specified by the path defined in the config flag
func LoadConfig() *koanf.Koanf {
	configPathMsg := "Path to the application config file"
	configPath := kingpin.Flag("config", configPathMsg).Short('c').Default("config.yml").String()

	kingpin.Parse()
	k := koanf.New(".")
	_ = k.Load(rawbytes.Provider(config.DefaultConfig), yaml.Parser())
	if *configPath != "" {
		_ = k.Load(file.Provider(*configPath), yaml.Parser())
	}
	return k
}

func main() {
	k := LoadConfig()
	appKonf := config.Config{}

	// Unmarshalling config into struct
	err := k.Unmarshal("", &appKonf)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Validate the config loaded
	if err = appKonf.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if !appKonf.IsProdMode {
		k.Print()
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "logfmt"
	_ = cfg.Level.UnmarshalText([]byte(k.String("logger.level")))
	cfg.InitialFields = make(map[string]any)
	cfg.InitialFields["host"], _ = os.Hostname()
	cfg.InitialFields["service"] = appKonf.Application
	cfg.OutputPaths = []string{"stdout"}
	logger, _ := cfg.Build()
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Mongo Connection
	mongoClient, err := mongodb.Connect(ctx, appKonf.Mongo.URI)
	if err != nil {
		logger.Fatal("cannot create mongo client", zap.Error(err))
	}

	txRepo := mongodb.NewTransactionsRepository(mongoClient, appKonf.Mongo.Database)
	earningsRepo := mongodb.NewEarningsRepository(mongoClient, appKonf.Mongo.Database)
	logsRepo := mongodb.NewSessionLogsRepository(mongoClient, appKonf.Mongo.Database)
	vouchersRepo := mongodb.NewVouchersRepository(mongoClient, appKonf.Mongo.Database)

	// Session store: redis when configured, in-memory otherwise.
	var sessions ussd.Store = memory.NewSessionsRepository()
	if appKonf.Redis.URI != "" {
		redisClient, rerr := redisrepo.Connect(ctx, appKonf.Redis.URI, appKonf.Redis.Password)
		if rerr != nil {
			logger.Fatal("cannot create redis client", zap.Error(rerr))
		}
		sessions = redisrepo.NewSessionsRepository(redisClient, appKonf.Session.TTL)
	}

	// Ledger event stream, disabled when no brokers are configured.
	metrics := kprom.NewMetrics("ew")
	publisher, err := kafka.NewPublisher(&kafka.PublisherConfig{
		Brokers:    appKonf.Kafka.Brokers,
		Topic:      appKonf.Kafka.Topic,
		ClientName: appKonf.Kafka.ClientName,
	}, metrics, logger)
	if err != nil {
		logger.Fatal("cannot create kafka publisher", zap.Error(err))
	}
	defer publisher.Close()

	providers := clients.New(clients.Config{
		CheckoutURL:    appKonf.Providers.CheckoutURL,
		StatusURL:      appKonf.Providers.StatusURL,
		FulfillmentURL: appKonf.Providers.FulfillmentURL,
		SendMoneyURL:   appKonf.Providers.SendMoneyURL,
		GatewayAckURL:  appKonf.Providers.GatewayAckURL,
		NotifyURL:      appKonf.Providers.NotifyURL,
		APIKey:         appKonf.Providers.APIKey,
		Timeout:        appKonf.Payments.StatusTimeout,
	}, logger)

	earningsService := earningssvc.NewService(earningsRepo, earningsRepo, providers,
		appKonf.Earnings.CommissionRate, appKonf.Earnings.MinWithdrawal, logger)

	issuer := payments.NewIssuer(providers, txRepo, appKonf.Payments.CallbackURL, logger)
	processor := payments.NewProcessor(payments.ProcessorDeps{
		Transactions: txRepo,
		Commissions:  earningsRepo,
		Sessions:     sessions,
		SessionLogs:  logsRepo,
		Fulfillment:  providers,
		Gateway:      providers,
		Vouchers:     vouchersRepo,
		Notifier:     providers,
		Refunder:     earningsService,
		Events:       publisher,
		CallbackURL:  appKonf.Payments.CallbackURL,
	}, logger)

	poller := payments.NewPoller(txRepo, providers, processor, payments.PollerConfig{
		PendingAge:    appKonf.Payments.PendingAge,
		PollInterval:  appKonf.Payments.PollInterval,
		BatchSize:     appKonf.Payments.BatchSize,
		BatchPause:    appKonf.Payments.BatchPause,
		StatusTimeout: appKonf.Payments.StatusTimeout,
	}, logger)
	go poller.Run(ctx)

	dispatcher := ussd.NewDispatcher(sessions, issuer, earningsService, logsRepo, logger)
	srv := server.New(dispatcher, processor, earningsService, logger)

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown()
	}()

	logger.Info("starting server", zap.Int("port", appKonf.Server.Port))
	if err = srv.Listen(appKonf.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
