// cmd/worker/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/unclebandit/linkleopard-backend/internal/db"
	"github.com/unclebandit/linkleopard-backend/internal/engine"
	"github.com/unclebandit/linkleopard-backend/internal/platform"
	"github.com/unclebandit/linkleopard-backend/internal/queue"
	"github.com/unclebandit/linkleopard-backend/internal/repository"
	"github.com/unclebandit/linkleopard-backend/internal/service"
)

const maxJobRetries = 3

func main() {
	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on OS environment variables")
	}

	conn, err := db.Open()
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	defer conn.Close()

	amqpConn, err := amqp.Dial(os.Getenv("AMQP_URL"))
	if err != nil {
		logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer amqpConn.Close()

	publisher, err := queue.NewAMQPPublisher(amqpConn, logger)
	if err != nil {
		logger.Fatal("failed to set up publisher", zap.Error(err))
	}

	ch, err := amqpConn.Channel()
	if err != nil {
		logger.Fatal("failed to open a channel", zap.Error(err))
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		queue.TopicCampaignRuns,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		logger.Fatal("failed to declare queue", zap.Error(err))
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // manual ack for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Fatal("failed to register consumer", zap.Error(err))
	}

	campaignRepo := &repository.CampaignRepository{DB: conn}
	store := repository.NewStore(repository.DBDeps{
		Campaigns: campaignRepo,
		Actions:   &repository.ActionRepository{DB: conn},
		Leads:     &repository.LeadRepository{DB: conn},
		Logs:      &repository.ExecutionLogRepository{DB: conn},
	})

	client := platform.NewClient(
		os.Getenv("PLATFORM_API_URL"),
		os.Getenv("PLATFORM_API_KEY"),
		os.Getenv("PLATFORM_API_MOCK") == "true",
	)

	runner := engine.NewRunner(store, client, publisher, logger)
	stepper := engine.NewStepper(store, runner, logger)
	controller := engine.NewController(store, stepper, logger)
	worker := service.NewRunWorker(campaignRepo, controller, logger)

	ctx := context.Background()
	logger.Info("worker running, waiting for run jobs")

	for d := range msgs {
		var job queue.RunJob
		if err := json.Unmarshal(d.Body, &job); err != nil {
			logger.Warn("invalid run job", zap.Error(err))
			d.Ack(false)
			continue
		}

		if err := worker.Handle(ctx, job); err != nil {
			logger.Error("run job failed",
				zap.Int64("campaign_id", job.CampaignID),
				zap.String("op", job.Op),
				zap.Error(err))

			// Redeliver jobs that never reached the engine (campaign
			// lookup failures and the like). A run the engine finished
			// already recorded its Failed status and must not rerun.
			// Republishing carries the incremented retry count.
			retryCount := queue.RunRetryCount(d.Headers)
			if errors.Is(err, service.ErrJobNotStarted) && retryCount < maxJobRetries {
				if perr := ch.Publish("", q.Name, false, false, queue.RedeliverRun(d.Body, retryCount)); perr != nil {
					logger.Error("could not requeue run job", zap.Error(perr))
					d.Nack(false, true)
					continue
				}
			}
		}

		d.Ack(false)
	}
}
