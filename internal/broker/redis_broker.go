package broker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const runFeedChannel = "runs:created"

// RedisRunEventBroker implements RunEventBroker over redis pub/sub.
type RedisRunEventBroker struct {
	client *redis.Client
	pubsub *redis.PubSub
	ctx    context.Context
}

func NewRedisRunEventBroker(redisURL string) (*RedisRunEventBroker, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisRunEventBroker{
		client: client,
		ctx:    ctx,
	}, nil
}

func (r *RedisRunEventBroker) PublishRunCreated(event RunEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Publish(r.ctx, runFeedChannel, data).Err()
}

func (r *RedisRunEventBroker) Subscribe() (<-chan RunEvent, error) {
	r.pubsub = r.client.Subscribe(r.ctx, runFeedChannel)

	eventChan := make(chan RunEvent, 100)

	go func() {
		defer close(eventChan)

		for redisMsg := range r.pubsub.Channel() {
			var event RunEvent

			if err := json.Unmarshal([]byte(redisMsg.Payload), &event); err != nil {
				continue
			}

			eventChan <- event
		}
	}()

	return eventChan, nil
}

func (r *RedisRunEventBroker) Close() error {
	if r.pubsub != nil {
		r.pubsub.Close()
	}
	return r.client.Close()
}

// Client exposes the underlying redis client so the rate limiter can share
// one connection pool.
func (r *RedisRunEventBroker) Client() *redis.Client {
	return r.client
}
