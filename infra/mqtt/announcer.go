package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/trainyard/core/events"
	"github.com/kilianp07/trainyard/core/model"
	"github.com/kilianp07/trainyard/core/monitoring"
	"github.com/kilianp07/trainyard/infra/logger"
	"github.com/kilianp07/trainyard/internal/eventbus"
)

// Announcer publishes dispatched trains to an MQTT broker.
type Announcer struct {
	cli        pahoClient
	prefix     string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	logger     logger.Logger
}

// NewAnnouncer connects to the broker described by cfg.
func NewAnnouncer(cfg Config) (*Announcer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_announcer")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(paho.Client, *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, token.Error())
	}
	return &Announcer{
		cli:        c,
		prefix:     strings.TrimSuffix(cfg.TopicPrefix, "/"),
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		logger:     log,
	}, nil
}

// Topic returns the topic a train is announced on.
func (a *Announcer) Topic(trainID string) string {
	return fmt.Sprintf("%s/%s/dispatched", a.prefix, trainID)
}

// Announce publishes the train, retrying with exponential backoff. The final
// failure is reported to the monitor.
func (a *Announcer) Announce(ctx context.Context, t model.Train) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}
	topic := a.Topic(t.ID)
	var publishErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		token := a.cli.Publish(topic, a.qos, a.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			a.logger.Debugw("train announced", map[string]any{"topic": topic, "wagons": t.WagonCount()})
			return nil
		}
		a.logger.Warnf("publish attempt %d to %s failed: %v", attempt+1, topic, publishErr)
		if attempt == a.maxRetries {
			break
		}
		if err := sleep(ctx, a.backoff*time.Duration(1<<attempt)); err != nil {
			publishErr = err
			break
		}
	}
	err = fmt.Errorf("announce train %s: %w", t.ID, publishErr)
	monitoring.CaptureException(err, map[string]string{"component": "mqtt_announcer", "train_id": t.ID})
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run announces every TrainDispatched event from the bus until ctx is
// canceled or the bus closes. Events already buffered when ctx is canceled are
// still announced. Failures are logged and never stop the loop. The returned
// channel is closed once Run has exited.
func (a *Announcer) Run(ctx context.Context, bus *eventbus.Bus[events.Event]) <-chan struct{} {
	done := make(chan struct{})
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				a.drain(context.WithoutCancel(ctx), sub)
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				a.handle(ctx, ev)
			}
		}
	}()
	return done
}

// drain announces the events pending on sub without waiting for new ones.
func (a *Announcer) drain(ctx context.Context, sub <-chan events.Event) {
	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return
			}
			a.handle(ctx, ev)
		default:
			return
		}
	}
}

func (a *Announcer) handle(ctx context.Context, ev events.Event) {
	td, ok := ev.(events.TrainDispatched)
	if !ok {
		return
	}
	if err := a.Announce(ctx, td.Train); err != nil {
		a.logger.Errorf("%v", err)
	}
}

// Close gracefully disconnects from the broker.
func (a *Announcer) Close() {
	if a.cli != nil && a.cli.IsConnected() {
		a.cli.Disconnect(250)
	}
}
