package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"switch-collector/config"
	"switch-collector/db"
	model_msg "switch-collector/models/msg"
	"switch-collector/pkg/cache"
	"switch-collector/pkg/collector"
	"switch-collector/pkg/logger"
	"switch-collector/pkg/rabbitmq"
	"switch-collector/pkg/transport"
	"switch-collector/services"
	"switch-collector/util/crypt_util"
)

func main() {
	if err := logger.Init(logger.DefaultConfig()); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.ExitIfErr(run(ctx), "collector stopped")
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	manager := cache.NewManager(store, cfg.CacheTTL)
	services.RegisterCollector(collector.New(cfg.SNMP, newTransport(cfg), manager))

	conn, err := dial(cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer conn.Conn.Close()

	handler := rabbitmq.NewHandler(services.Collector(), cfg.SlaveID, cfg.CacheDir)
	var crypt rabbitmq.Encrypter
	if cfg.PublicKeyPath != "" {
		cu, err := crypt_util.NewFromFile(cfg.PublicKeyPath)
		if err != nil {
			return err
		}
		crypt = cu
	}

	returnChan := make(chan model_msg.Msg, 1000)
	ctrls := map[string]*rabbitmq.Controller{}
	for _, name := range []string{rabbitmq.MainQueue, rabbitmq.RetryQueue, rabbitmq.ReturnQueue} {
		ctrl := rabbitmq.NewCtrl(name, returnChan, handler)
		ctrl.SlaveID = cfg.SlaveID
		ctrl.Crypt = crypt
		if err := ctrl.SetupChannelAndQueue(name, conn.Conn); err != nil {
			return err
		}
		defer ctrl.Channel.Close()
		ctrls[name] = ctrl
	}

	retry := ctrls[rabbitmq.RetryQueue]
	for _, name := range []string{rabbitmq.MainQueue, rabbitmq.RetryQueue} {
		ctrls[name].RetryChannel = retry.Channel
		ctrls[name].RetryQueue = retry.Queue
	}

	errs := make(chan error, 2)
	go func() { errs <- ctrls[rabbitmq.MainQueue].ListenQueue(ctx) }()
	go func() { errs <- ctrls[rabbitmq.RetryQueue].ListenQueue(ctx) }()
	go ctrls[rabbitmq.ReturnQueue].ListenReturnQueue(ctx)

	logger.Info().Str("slave_id", cfg.SlaveID).Str("transport", cfg.Transport).Str("cache", cfg.CacheBackend).Msg("collector started")

	select {
	case <-ctx.Done():
		return nil
	case err := <-errs:
		return err
	}
}

func newTransport(cfg config.Config) transport.Transport {
	if cfg.Transport == config.TransportNetSNMP {
		return transport.NewNetSNMP()
	}
	return transport.NewNative()
}

func newStore(ctx context.Context, cfg config.Config) (cache.Store, error) {
	if cfg.CacheBackend != config.BackendRedis {
		return cache.NewFileStore(cfg.CacheDir), nil
	}
	client, err := db.NewRedisConnection(ctx, db.RedisOptions{
		Network: cfg.Redis.Network,
		Addr:    cfg.Redis.Addr,
		DB:      cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	return cache.NewRedisStore(client, cfg.Redis.Prefix), nil
}

func dial(cfg config.RabbitMQConfig) (rabbitmq.Connection, error) {
	if !cfg.TLS() {
		return rabbitmq.NewConnection(rabbitmq.Config{Url: cfg.DSN()})
	}

	pems := map[string]string{}
	for name, path := range map[string]string{"ca": cfg.CACert, "cert": cfg.ClientCert, "key": cfg.ClientKey} {
		data, err := os.ReadFile(path)
		if err != nil {
			return rabbitmq.Connection{}, fmt.Errorf("rabbitmq tls %s: %w", name, err)
		}
		pems[name] = string(data)
	}
	return rabbitmq.NewConnectionWithTLS(rabbitmq.Config{
		Url:             cfg.DSN(),
		SSLCACrtPem:     pems["ca"],
		SSLClientCrtPem: pems["cert"],
		SSLClientKeyPem: pems["key"],
	})
}
