package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anjiri1684/torah_tutor/logger"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "torah_tutor:changes"

type envelope struct {
	Origin       string      `json:"origin"`
	Kind         string      `json:"kind"`
	Conversation uuid.UUID   `json:"conversation_id"`
	Recipients   []uuid.UUID `json:"recipients"`
}

// RedisBridge fans change events out to every API instance. Local delivery
// happens immediately; peers receive the event over redis pub/sub.
type RedisBridge struct {
	hub     *Hub
	client  *redis.Client
	channel string
	origin  string
}

var _ services.EventPublisher = (*RedisBridge)(nil)

func NewRedisBridge(hub *Hub, client *redis.Client, channel string) *RedisBridge {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBridge{hub: hub, client: client, channel: channel, origin: uuid.NewString()}
}

// ConnectRedis parses a redis:// URL and checks the server is reachable.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (b *RedisBridge) Publish(ev services.ChangeEvent) {
	b.hub.Publish(ev)

	data, err := json.Marshal(envelope{
		Origin:       b.origin,
		Kind:         ev.Kind,
		Conversation: ev.ConversationID,
		Recipients:   ev.Recipients,
	})
	if err != nil {
		logger.Error().Err(err).Msg("marshal change envelope")
		return
	}
	if err := b.client.Publish(context.Background(), b.channel, data).Err(); err != nil {
		logger.Warn().Err(err).Str("kind", ev.Kind).Msg("redis publish failed, peers will miss this event")
	}
}

// Run relays events published by other instances into the local hub until
// ctx is cancelled.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	logger.Info().Str("channel", b.channel).Msg("redis change bridge subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.relay(msg.Payload)
		}
	}
}

func (b *RedisBridge) relay(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		logger.Warn().Err(err).Msg("malformed change envelope")
		return
	}
	if env.Origin == b.origin {
		return
	}
	b.hub.Publish(services.ChangeEvent{
		Kind:           env.Kind,
		ConversationID: env.Conversation,
		Recipients:     env.Recipients,
	})
}
