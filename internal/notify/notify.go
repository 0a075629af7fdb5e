package notify

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"github.com/tiply/tiply/internal/domain"
	"go.uber.org/zap"
)

// Notifier is the best-effort balance-change fan-out. Implementations
// must never fail the caller: errors are logged and dropped.
type Notifier interface {
	BalanceChanged(ctx context.Context, userID int)
	PayoutResolved(ctx context.Context, payout *domain.PayoutRequest)
}

const redisChannel = "balance.updates"

type Event struct {
	Type     string    `json:"type"`
	UserID   int       `json:"user_id"`
	PayoutID int       `json:"payout_id,omitempty"`
	Amount   int64     `json:"amount,omitempty"`
	Status   string    `json:"status,omitempty"`
	At       time.Time `json:"at"`
}

// Fanout publishes to the redis live-update channel and the kafka event
// topic. Either sink may be absent; a Fanout with neither is a no-op.
type Fanout struct {
	redis  *redis.Client
	writer *kafka.Writer
}

func NewFanout(redisClient *redis.Client, brokers []string, topic string) *Fanout {
	f := &Fanout{redis: redisClient}
	if len(brokers) > 0 {
		f.writer = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			WriteTimeout: 5 * time.Second,
		}
	}
	return f
}

func (f *Fanout) BalanceChanged(ctx context.Context, userID int) {
	f.publish(ctx, Event{
		Type:   "balance.changed",
		UserID: userID,
		At:     time.Now().UTC(),
	})
}

func (f *Fanout) PayoutResolved(ctx context.Context, payout *domain.PayoutRequest) {
	eventType := "payout.completed"
	if payout.Status == domain.PayoutStatusRejected {
		eventType = "payout.rejected"
	}
	f.publish(ctx, Event{
		Type:     eventType,
		UserID:   payout.UserID,
		PayoutID: payout.ID,
		Amount:   payout.Amount,
		Status:   payout.Status,
		At:       time.Now().UTC(),
	})
}

func (f *Fanout) publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("can't marshal notify event", zap.Error(err))
		return
	}

	if f.redis != nil {
		if err := f.redis.Publish(ctx, redisChannel, payload).Err(); err != nil {
			zap.L().Warn("redis publish failed", zap.String("type", event.Type), zap.Error(err))
		}
	}

	if f.writer != nil {
		msg := kafka.Message{
			Key:   []byte(strconv.Itoa(event.UserID)),
			Value: payload,
		}
		if err := f.writer.WriteMessages(ctx, msg); err != nil {
			zap.L().Warn("kafka publish failed", zap.String("type", event.Type), zap.Error(err))
		}
	}
}

func (f *Fanout) Close() error {
	if f.writer != nil {
		return f.writer.Close()
	}
	return nil
}

// Noop discards all events; used in tests and when no sinks are
// configured.
type Noop struct{}

func (Noop) BalanceChanged(context.Context, int) {}
func (Noop) PayoutResolved(context.Context, *domain.PayoutRequest) {}
