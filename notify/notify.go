// Package notify publishes proposal status changes for the delivery side
// (email, chat) to pick up. Nothing here delivers messages itself.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"cfp/config"
	"cfp/logging"
	"cfp/models"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type Notifier interface {
	Notify(ctx context.Context, changes []models.StatusChange) error
}

// ConfirmationChanged builds the event the speaker flow emits when a speaker
// confirms or declines an accepted proposal.
func ConfirmationChanged(p *models.Proposal, next models.ConfirmationStatus) models.StatusChange {
	return models.StatusChange{
		ProposalID: p.ID,
		EventID:    p.EventID,
		Kind:       models.StatusChangeConfirmation,
		OldStatus:  string(p.ConfirmationStatus),
		NewStatus:  string(next),
	}
}

// LogNotifier only records changes in the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, changes []models.StatusChange) error {
	for _, c := range changes {
		logging.LogEvent("proposal_status_changed", logrus.Fields{
			"proposal_id": c.ProposalID,
			"event_id":    c.EventID,
			"kind":        c.Kind,
			"old_status":  c.OldStatus,
			"new_status":  c.NewStatus,
		})
	}
	return nil
}

// RedisPublisher publishes each change as JSON on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(cfg config.RedisConfig) *RedisPublisher {
	return &RedisPublisher{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		channel: cfg.Channel,
	}
}

func (p *RedisPublisher) Notify(ctx context.Context, changes []models.StatusChange) error {
	if len(changes) == 0 {
		return nil
	}

	pipe := p.client.Pipeline()
	for _, c := range changes {
		payload, err := Encode(c)
		if err != nil {
			return err
		}
		pipe.Publish(ctx, p.channel, payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish %d status changes: %w", len(changes), err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

func Encode(c models.StatusChange) ([]byte, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode status change for proposal %d: %w", c.ProposalID, err)
	}
	return payload, nil
}

// Multi fans changes out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, changes []models.StatusChange) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, changes); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every notifier holding a connection.
func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		if c, ok := n.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// New returns the notifier configured for the process.
func New(cfg *config.Config) Notifier {
	if cfg.Redis.Enabled {
		return Multi{LogNotifier{}, NewRedisPublisher(cfg.Redis)}
	}
	return LogNotifier{}
}
