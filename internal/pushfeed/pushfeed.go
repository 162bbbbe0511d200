// Package pushfeed subscribes to the push-delivery channel and hands
// raw push payloads and token updates to the coordinator. Delivery
// retry/backoff beyond the client's reconnect options is the channel's
// own concern.
package pushfeed

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

// Handler receives what arrives on the push channel.
type Handler interface {
	// Push receives a raw push notification payload.
	Push(raw []byte)
	// Token receives an updated push token.
	Token(token string)
}

// Options configures the feed.
type Options struct {
	Broker      string
	ClientID    string
	TopicPrefix string
}

// Feed is an MQTT subscription delivering push traffic.
type Feed struct {
	client mqtt.Client
	opts   Options
	log    *logrus.Entry
}

// Connect creates and connects a Feed.
func Connect(opts Options, log *logrus.Entry) (*Feed, error) {
	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(60 * time.Second)

	client := mqtt.NewClient(clientOpts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", opts.Broker, err)
	}

	return &Feed{client: client, opts: opts, log: log}, nil
}

// Subscribe attaches h to the push and token topics.
func (f *Feed) Subscribe(h Handler) error {
	pushTopic := f.opts.TopicPrefix + "/push"
	tokenTopic := f.opts.TopicPrefix + "/token"

	token := f.client.Subscribe(pushTopic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		f.log.Debugf("push message on %s (%d bytes)", msg.Topic(), len(msg.Payload()))
		h.Push(msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribing to %s: %w", pushTopic, err)
	}

	token = f.client.Subscribe(tokenTopic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		h.Token(string(msg.Payload()))
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribing to %s: %w", tokenTopic, err)
	}

	f.log.Infof("subscribed to %s and %s", pushTopic, tokenTopic)
	return nil
}

// Close disconnects from the broker.
func (f *Feed) Close() error {
	f.client.Disconnect(1000)
	return nil
}
