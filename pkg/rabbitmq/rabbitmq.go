package rabbitmq

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/bytedance/gopkg/util/gopool"
	"github.com/streadway/amqp"

	model_msg "switch-collector/models/msg"
	"switch-collector/pkg/logger"
)

const (
	MainQueue   = "collector-main"
	RetryQueue  = "collector-retry"
	ReturnQueue = "collector-return"

	PoolCap     int32 = 100
	MaxTryTimes int8  = 5
)

type Connection struct {
	Config Config
	Conn   *amqp.Connection
}

type Config struct {
	Url             string
	SSLCACrtPem     string
	SSLClientCrtPem string
	SSLClientKeyPem string
}

func NewConnection(config Config) (Connection, error) {
	amqpConn, err := amqp.Dial(config.Url)
	if err != nil {
		return Connection{}, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return Connection{Config: config, Conn: amqpConn}, nil
}

func NewConnectionWithTLS(config Config) (Connection, error) {
	cert, err := tls.X509KeyPair([]byte(config.SSLClientCrtPem), []byte(config.SSLClientKeyPem))
	if err != nil {
		return Connection{}, fmt.Errorf("failed to load X509 key pair: %w", err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM([]byte(config.SSLCACrtPem)) {
		return Connection{}, errors.New("no CA certificate found in PEM")
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caCertPool,
	}

	amqpConn, err := amqp.DialTLS(config.Url, tlsConfig)
	if err != nil {
		return Connection{}, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return Connection{Config: config, Conn: amqpConn}, nil
}

// Publisher is the part of *amqp.Channel used to send messages.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Controller struct {
	Channel      *amqp.Channel
	Queue        amqp.Queue
	Publisher    Publisher
	Pool         gopool.Pool
	RetryChannel Publisher
	RetryQueue   amqp.Queue
	ReturnChann  chan model_msg.Msg
	SlaveID      string
	Handler      *Handler
	Crypt        Encrypter
}

func NewCtrl(poolName string, returnChan chan model_msg.Msg, handler *Handler) *Controller {
	return &Controller{
		Pool:        gopool.NewPool(poolName, PoolCap, gopool.NewConfig()),
		ReturnChann: returnChan,
		Handler:     handler,
	}
}

func (ctrl *Controller) SetupChannelAndQueue(name string, amqpConn *amqp.Connection) error {
	ch, err := amqpConn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open a channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		name,  // name
		false, // durable
		true,  // auto delete
		false, // exclusive
		false, // no wait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}

	logger.Printf("%s channel & queue declared", name)

	ctrl.Channel = ch
	ctrl.Publisher = ch
	ctrl.Queue = q

	return nil
}

// ListenQueue consumes request messages until ctx is done or the channel
// closes. Requests run on the controller's pool.
func (ctrl *Controller) ListenQueue(ctx context.Context) error {
	consumeTag := "slave-" + ctrl.SlaveID
	msgs, err := ctrl.Channel.Consume(
		ctrl.Queue.Name, // queue
		consumeTag,      // consumer
		true,            // auto ack
		true,            // exclusive
		true,            // no local
		false,           // no wait
		nil,             // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			ctrl.dispatch(ctx, d.Body)
		}
	}
}

func (ctrl *Controller) dispatch(ctx context.Context, body []byte) {
	msg, err := DecodeBody(body)
	if err != nil {
		logger.Warn().Err(err).Str("queue", ctrl.Queue.Name).Msg("dropping message")
		return
	}
	if msg.TryTimes >= MaxTryTimes {
		logger.Warn().Str("type", msg.Type).Int8("try_times", msg.TryTimes).Msg("try timeout")
		return
	}
	msg.TryTimes++

	if msg.Type == "" {
		if err := ctrl.publishMsg(ctrl.RetryChannel, ctrl.RetryQueue, msg); err != nil {
			logger.Error().Err(err).Msg("fail to requeue message")
		}
		return
	}

	ctrl.Pool.CtxGo(ctx, func() {
		if reply, ok := ctrl.Handler.Handle(ctx, msg); ok {
			select {
			case ctrl.ReturnChann <- reply:
			case <-ctx.Done():
			}
		}
	})
}

// ListenReturnQueue publishes replies to this controller's queue until ctx
// is done.
func (ctrl *Controller) ListenReturnQueue(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ctrl.ReturnChann:
			if err := ctrl.publishMsg(ctrl.Publisher, ctrl.Queue, msg); err != nil {
				logger.Error().Err(err).Str("type", msg.Type).Msg("fail to publish")
			}
		}
	}
}

func (ctrl *Controller) publishMsg(ch Publisher, q amqp.Queue, msg model_msg.Msg) error {
	body, err := EncodeBody(ctrl.SlaveID, msg, ctrl.Crypt)
	if err != nil {
		return err
	}
	return ch.Publish(
		"",     // exchange
		q.Name, // routing key
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType: "text/plain",
			Body:        body,
		},
	)
}
