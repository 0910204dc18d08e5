// cmd/server/main.go
package main

import (
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/unclebandit/linkleopard-backend/internal/controller"
	"github.com/unclebandit/linkleopard-backend/internal/db"
	"github.com/unclebandit/linkleopard-backend/internal/engine"
	"github.com/unclebandit/linkleopard-backend/internal/handler"
	"github.com/unclebandit/linkleopard-backend/internal/platform"
	"github.com/unclebandit/linkleopard-backend/internal/queue"
	"github.com/unclebandit/linkleopard-backend/internal/repository"
	"github.com/unclebandit/linkleopard-backend/internal/service"
)

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

	campaignRepo := &repository.CampaignRepository{DB: conn}
	actionRepo := &repository.ActionRepository{DB: conn}
	leadRepo := &repository.LeadRepository{DB: conn}
	logRepo := &repository.ExecutionLogRepository{DB: conn}

	var publisher service.RunPublisher
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		amqpConn, err := amqp.Dial(amqpURL)
		if err != nil {
			logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer amqpConn.Close()

		publisher, err = queue.NewAMQPPublisher(amqpConn, logger)
		if err != nil {
			logger.Fatal("failed to set up publisher", zap.Error(err))
		}
	} else {
		// No broker configured: run campaign workflows in process.
		logger.Info("AMQP_URL not set, running campaign jobs in process")

		store := repository.NewStore(repository.DBDeps{
			Campaigns: campaignRepo,
			Actions:   actionRepo,
			Leads:     leadRepo,
			Logs:      logRepo,
		})
		client := platform.NewClient(
			os.Getenv("PLATFORM_API_URL"),
			os.Getenv("PLATFORM_API_KEY"),
			os.Getenv("PLATFORM_API_MOCK") == "true",
		)
		runner := engine.NewRunner(store, client, nil, logger)
		engineController := engine.NewController(store, engine.NewStepper(store, runner, logger), logger)
		worker := service.NewRunWorker(campaignRepo, engineController, logger)

		// Redeliver only jobs that never reached the engine; a run that
		// started already mutated state and must not re-execute.
		local := queue.NewLocalRunQueue(func(err error) bool {
			return errors.Is(err, service.ErrJobNotStarted)
		})
		local.Subscribe(worker.Handle)
		publisher = local
	}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		ActionRepo:   actionRepo,
		LeadRepo:     leadRepo,
		LogRepo:      logRepo,
		Publisher:    publisher,
		Log:          logger,
	}

	campaignController := &controller.CampaignController{CampaignService: campaignService}
	campaignHandler := &handler.CampaignHandler{Service: campaignService}

	r := chi.NewRouter()

	// Campaign routes
	r.Post("/campaigns", campaignController.CreateCampaign)
	r.Get("/campaigns", campaignController.ListCampaigns)
	r.Get("/campaigns/{id}", campaignHandler.GetCampaignWithStats)
	r.Get("/campaigns/{id}/logs", campaignHandler.ListExecutionLogs)
	r.Post("/campaigns/{id}/actions", campaignController.AddAction)
	r.Post("/campaigns/{id}/actions/{actionID}/reorder", campaignController.ReorderAction)
	r.Delete("/campaigns/{id}/actions/{actionID}", campaignController.RemoveAction)
	r.Post("/campaigns/{id}/leads", campaignController.QueueLeads)
	r.Post("/campaigns/{id}/start", campaignController.StartCampaign)
	r.Post("/campaigns/{id}/stop", campaignController.StopCampaign)
	r.Post("/campaigns/personalized-preview", campaignController.PersonalizedPreview)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logger.Info("server running", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
