package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v9"
	"github.com/johnewart/go-clubmember/club"
	"zombiezen.com/go/log"
)

type RedisEmitter struct {
	redisClient *redis.Client
	channel     string
}

func NewRedisEmitter(redisHostPort string, clubName string) *RedisEmitter {
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisHostPort,
	})

	return NewRedisEmitterWithClient(redisClient, clubName)
}

func NewRedisEmitterWithClient(redisClient *redis.Client, clubName string) *RedisEmitter {
	return &RedisEmitter{
		redisClient: redisClient,
		channel:     ChannelForClub(clubName),
	}
}

func ChannelForClub(clubName string) string {
	return "club:" + clubName + ":events"
}

func (r *RedisEmitter) Emit(ctx context.Context, event club.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Warnf(ctx, "Unable to marshal event %v: %v", event, err)
		return
	}

	if err := r.redisClient.Publish(ctx, r.channel, payload).Err(); err != nil {
		log.Warnf(ctx, "Unable to publish event %v to %s: %v", event, r.channel, err)
	}
}

// Subscribe streams events published on channel until ctx is cancelled. Messages that
// do not decode are logged and skipped.
func Subscribe(ctx context.Context, redisClient *redis.Client, channel string) (<-chan club.Event, error) {
	sub := redisClient.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("unable to subscribe to %s: %v", channel, err)
	}

	out := make(chan club.Event)
	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event club.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Warnf(ctx, "Unable to decode event on %s: %v", channel, err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
