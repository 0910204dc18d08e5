package queue

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/unclebandit/linkleopard-backend/internal/engine"
	"github.com/unclebandit/linkleopard-backend/internal/model"
)

// AMQPPublisher publishes run jobs to the durable campaign_runs queue
// and action_completed events to the campaign_events fanout consumed by
// the push-update gateway.
type AMQPPublisher struct {
	Ch  *amqp.Channel
	Log *zap.Logger
}

func NewAMQPPublisher(conn *amqp.Connection, log *zap.Logger) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		TopicCampaignRuns,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return nil, err
	}

	if err := ch.ExchangeDeclare(
		TopicCampaignEvents,
		"fanout",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, err
	}

	return &AMQPPublisher{Ch: ch, Log: log}, nil
}

// RunRetryCount reads the x-retry-count header from a delivery. Absent
// or malformed headers count as zero.
func RunRetryCount(headers amqp.Table) int32 {
	if v, ok := headers["x-retry-count"].(int32); ok {
		return v
	}
	return 0
}

// RedeliverRun builds a persistent copy of a run job body with the
// retry count incremented. A plain Nack requeues the original headers
// unchanged, so the count would never grow; redelivery republishes
// through this instead.
func RedeliverRun(body []byte, retryCount int32) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Headers:      amqp.Table{"x-retry-count": retryCount + 1},
		Body:         body,
	}
}

// PublishRun enqueues a start/stop job for the worker.
func (p *AMQPPublisher) PublishRun(job RunJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return p.Ch.Publish("", TopicCampaignRuns, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// ActionCompleted is the push-notification channel: fire-and-forget, a
// delivery failure never fails the action that produced it.
func (p *AMQPPublisher) ActionCompleted(campaignID, actionID int64, stats model.ActionStats) {
	payload := map[string]any{
		"room":  fmt.Sprintf("campaign:%d", campaignID),
		"event": "action_completed",
		"data": map[string]any{
			"action_id":  actionID,
			"successful": stats.Successful,
			"failed":     stats.Failed,
			"queue":      stats.Queue,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		p.Log.Warn("could not encode action_completed event", zap.Error(err))
		return
	}
	if err := p.Ch.Publish(TopicCampaignEvents, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	}); err != nil {
		p.Log.Warn("could not publish action_completed event",
			zap.Int64("campaign_id", campaignID),
			zap.Int64("action_id", actionID),
			zap.Error(err))
	}
}

var _ engine.Notifier = (*AMQPPublisher)(nil)
