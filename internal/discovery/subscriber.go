package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/config"
	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/model"
)

// reconnectDelay is the fixed backoff between reconnect attempts. The
// subscriber never gives up on the broker.
const reconnectDelay = 5 * time.Second

var errNoAuction = errors.New("message carries no auction")

// Subscriber feeds auction announcements from the MQTT event bus into the
// intake channel. Malformed payloads are dropped with a warning; connection
// loss is retried forever at a fixed interval.
type Subscriber struct {
	broker       string
	topic        string
	clientID     string
	username     string
	password     string
	defaultHouse string
	out          chan<- model.Auction
}

func NewSubscriber(cfg config.Config, out chan<- model.Auction) *Subscriber {
	return &Subscriber{
		broker: fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort),
		topic:  cfg.MQTTTopic,
		// Unique suffix so several instances under the same name do not
		// evict each other's broker session.
		clientID:     fmt.Sprintf("%s-%s", cfg.Name, uuid.NewString()[:8]),
		username:     cfg.MQTTUsername,
		password:     cfg.MQTTPassword,
		defaultHouse: cfg.AuctionHouseURL,
		out:          out,
	}
}

func (s *Subscriber) Run(ctx context.Context) {
	opts := mqtt.NewClientOptions().
		AddBroker(s.broker).
		SetClientID(s.clientID).
		SetKeepAlive(60 * time.Second).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(reconnectDelay).
		SetConnectRetry(true).
		SetConnectRetryInterval(reconnectDelay).
		SetOnConnectHandler(func(client mqtt.Client) {
			slog.Info("bus_connected", "broker", s.broker, "topic", s.topic)
			token := client.Subscribe(s.topic, 0, s.handleMessage(ctx))
			if token.Wait() && token.Error() != nil {
				slog.Error("bus_subscribe_failed", "topic", s.topic, "error", token.Error())
			}
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			slog.Warn("bus_connection_lost", "broker", s.broker, "error", err)
		})

	if s.username != "" && s.password != "" {
		opts.SetUsername(s.username)
		opts.SetPassword(s.password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		slog.Error("bus_connect_failed", "broker", s.broker, "error", token.Error())
		return
	}

	<-ctx.Done()
	client.Disconnect(250)
	slog.Info("bus_disconnected")
}

func (s *Subscriber) handleMessage(ctx context.Context) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		auction, err := ParseBusMessage(msg.Payload(), s.defaultHouse)
		if err != nil {
			slog.Warn("bus_payload_invalid", "topic", msg.Topic(), "error", err)
			return
		}
		slog.Info("bus_auction_observed",
			"auction_id", auction.AuctionID,
			"job_type", auction.JobType,
			"topic", msg.Topic(),
		)
		select {
		case s.out <- auction:
		case <-ctx.Done():
		}
	}
}

// ParseBusMessage extracts an auction descriptor from a bus payload of the
// shape {data:{auction:{...}}}. Missing status defaults to OPEN and a
// missing house URI falls back to defaultHouse.
func ParseBusMessage(payload []byte, defaultHouse string) (model.Auction, error) {
	var msg model.BusMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return model.Auction{}, fmt.Errorf("decode bus message: %w", err)
	}
	if msg.Data.Auction == nil || msg.Data.Auction.AuctionID == "" {
		return model.Auction{}, errNoAuction
	}

	auction := *msg.Data.Auction
	if auction.Status == "" {
		auction.Status = model.StatusOpen
	}
	if auction.AuctionHouseURI == "" {
		auction.AuctionHouseURI = defaultHouse
	}
	return auction, nil
}
