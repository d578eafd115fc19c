package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/gmail"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/openai"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/pipedrive"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Repositórios
	clientRepo := database.NewClientRepository(db)
	emailRepo := database.NewEmailRepository(db)
	followUpRepo := database.NewFollowUpRepository(db)

	// 2. Gateways e Adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	aiClient := openai.NewClient(cfg.OpenAIKey, cfg.OpenAIModel)
	gmailClient := gmail.NewClient(cfg.GmailToken)

	// Pipedrive é opcional: sem token o cadastro e o funil seguem sem
	// espelho no CRM externo
	var syncer usecase.DealSyncer
	var stageSyncer handlers.DealStageSyncer
	if cfg.PipedriveKey != "" {
		pd := pipedrive.NewClient(cfg.PipedriveKey, cfg.PipedriveHost)
		syncer = pd
		stageSyncer = pd
	}

	// 3. UseCases
	processFollowUpUC := usecase.NewProcessFollowUpUseCase(
		emailRepo, followUpRepo, aiClient, cfg.FollowUpThresholdDays,
	)
	reconcileReplyUC := usecase.NewReconcileReplyUseCase(
		emailRepo, followUpRepo, clientRepo, aiClient, cfg.FollowUpThresholdDays,
	)
	createFollowUpUC := usecase.NewCreateFollowUpUseCase(emailRepo, followUpRepo, producer)
	sendFollowUpUC := usecase.NewSendFollowUpUseCase(followUpRepo, clientRepo, mailSender)
	composeEmailUC := usecase.NewComposeEmailUseCase(emailRepo, clientRepo, mailSender)
	createClientUC := usecase.NewCreateClientUseCase(clientRepo, syncer)

	// 4. Worker (consome a fila) e Scheduler (varre vencidos + polling)
	queueWorker := queue.NewWorker(rabbitMQ.Ch, processFollowUpUC, reconcileReplyUC)
	go queueWorker.Start(ctx, queue.QueueName)

	scheduler := worker.NewScheduler(
		emailRepo, clientRepo, producer, gmailClient,
		cfg.FollowUpThresholdDays, cfg.ScanInterval,
	)
	go scheduler.Start(ctx)

	// 5. Handlers
	cronHandler := handlers.NewCronHandler(scheduler, queueWorker, queue.QueueName, cfg.DrainBudget, cfg.CronSecret)
	followUpHandler := handlers.NewFollowUpHandler(followUpRepo, createFollowUpUC, sendFollowUpUC)
	replyHandler := handlers.NewReplyHandler(reconcileReplyUC)
	emailHandler := handlers.NewEmailHandler(emailRepo, composeEmailUC)
	clientHandler := handlers.NewClientHandler(clientRepo, createClientUC, stageSyncer)
	aiHandler := handlers.NewAIHandler(aiClient)
	analyticsHandler := handlers.NewAnalyticsHandler(emailRepo, followUpRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	}))

	r.Get("/cron", cronHandler.Handle)

	r.Get("/follow-ups", followUpHandler.HandleList)
	r.Post("/follow-ups", followUpHandler.HandleCreate)
	r.Get("/follow-ups/{id}", followUpHandler.HandleGet)
	r.Put("/follow-ups/{id}", followUpHandler.HandleUpdateContent)
	r.Put("/follow-ups/{id}/send", followUpHandler.HandleSend)

	r.Post("/replies", replyHandler.Handle)

	r.Get("/emails", emailHandler.HandleList)
	r.Post("/emails", emailHandler.HandleCreate)
	r.Get("/emails/{id}", emailHandler.HandleGet)

	r.Post("/ai/draft", aiHandler.HandleDraft)

	r.Get("/clients", clientHandler.HandleList)
	r.Post("/clients", clientHandler.HandleCreate)
	r.Get("/clients/{id}", clientHandler.HandleGet)
	r.Patch("/clients/{id}/status", clientHandler.HandleUpdateStatus)

	r.Get("/analytics/{type}", analyticsHandler.Handle)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + cfg.Port
	log.Printf("🔥 Server LigueCRM rodando na porta %s", port)

	server := &http.Server{Addr: port, Handler: r}
	go func() {
		<-ctx.Done()
		log.Println("⚠️ Encerrando servidor...")
		server.Shutdown(context.Background())
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
