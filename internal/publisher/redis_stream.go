package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/quadra/internal/match"
	"github.com/fortuna/quadra/internal/stats"
)

// Stream names
const (
	LiveStream  = "matches.live.futsal"
	FinalStream = "matches.final.futsal"
)

// EventMessage is the payload of a live stream entry.
type EventMessage struct {
	SessionID string      `json:"sessionId"`
	Event     match.Event `json:"event"`
}

// RedisStreamPublisher publishes events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		now:    time.Now,
	}
}

// PublishEvent publishes a captured or corrected event to the live stream
func (rsp *RedisStreamPublisher) PublishEvent(ctx context.Context, sessionID string, e match.Event) error {
	return rsp.publish(ctx, LiveStream, EventMessage{SessionID: sessionID, Event: e})
}

// PublishRecord publishes the final match record
func (rsp *RedisStreamPublisher) PublishRecord(ctx context.Context, rec stats.MatchRecord) error {
	return rsp.publish(ctx, FinalStream, rec)
}

func (rsp *RedisStreamPublisher) publish(ctx context.Context, stream string, v interface{}) error {
	args, err := streamArgs(stream, v, rsp.now())
	if err != nil {
		return err
	}
	return rsp.client.XAdd(ctx, args).Err()
}

func streamArgs(stream string, v interface{}, at time.Time) (*redis.XAddArgs, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": at.Unix(),
		},
	}, nil
}
