package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher forwards events to a Redis channel so other instances can
// relay them to their own subscribers. Events are queued and sent by Run;
// when the queue is full the event is dropped.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	origin  string
	queue   chan Event
}

func NewRedisPublisher(rdb *redis.Client, channel, origin string, buffer int) *RedisPublisher {
	return &RedisPublisher{
		rdb:     rdb,
		channel: channel,
		origin:  origin,
		queue:   make(chan Event, buffer),
	}
}

func (p *RedisPublisher) Publish(ev Event) {
	ev.Origin = p.origin
	select {
	case p.queue <- ev:
	default:
		zap.L().Warn("redis event queue full, dropping event",
			zap.String("event_id", ev.ID.String()), zap.String("type", string(ev.Type)))
	}
}

// Run drains the queue until ctx is cancelled.
func (p *RedisPublisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-p.queue:
			payload, err := json.Marshal(ev)
			if err != nil {
				zap.L().Error("failed to encode event", zap.Error(err))
				continue
			}
			if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
				zap.L().Warn("failed to publish event to redis",
					zap.String("channel", p.channel), zap.Error(err))
			}
		}
	}
}

// RedisRelay subscribes to the shared channel and republishes events that
// other instances produced on the local publisher.
type RedisRelay struct {
	rdb     *redis.Client
	channel string
	origin  string
	local   Publisher
}

func NewRedisRelay(rdb *redis.Client, channel, origin string, local Publisher) *RedisRelay {
	return &RedisRelay{rdb: rdb, channel: channel, origin: origin, local: local}
}

func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	zap.L().Info("relaying events from redis", zap.String("channel", r.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.relay(msg.Payload)
		}
	}
}

func (r *RedisRelay) relay(payload string) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		zap.L().Warn("ignoring malformed event", zap.Error(err))
		return
	}
	if ev.Origin == r.origin {
		return
	}
	r.local.Publish(ev)
}
