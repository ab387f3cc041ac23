package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/lead-manager/internal/infra/auth"
	"github.com/xavierca1/lead-manager/internal/infra/database"
	"github.com/xavierca1/lead-manager/internal/infra/http/handlers"
	"github.com/xavierca1/lead-manager/internal/infra/http/middleware"
	"github.com/xavierca1/lead-manager/internal/infra/mail"
	"github.com/xavierca1/lead-manager/internal/infra/queue"
	"github.com/xavierca1/lead-manager/internal/usecase"
)

func main() {
	godotenv.Load()

	ctx := context.Background()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.InitSchema(ctx, db); err != nil {
		log.Fatal(err)
	}

	hasher := auth.BcryptHasher{}

	if os.Getenv("SEED") == "true" {
		if err := database.Seed(ctx, db, hasher); err != nil {
			log.Printf("⚠️ Seed falhou: %v", err)
		}
	}

	tokens := auth.NewJWTManager(os.Getenv("JWT_SECRET"))

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	userRepo := database.NewUserRepository(db)

	// 2. Fila de eventos + worker de notificação (opcionais: sem
	// RABBITMQ_URL a API roda sozinha, só sem avisos por email)
	var events usecase.LeadEventPublisher
	var rabbitConn *amqp.Connection

	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		rabbitMQ, err := queue.NewRabbitMQ(url)
		if err != nil {
			log.Fatal(err)
		}
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()

		rabbitConn = rabbitMQ.Conn
		events = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

		mailSender := mail.NewEmailSender(
			os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		)

		worker := queue.NewWorker(rabbitMQ.Ch, mailSender)
		go worker.Start(queue.QueueName)
	}

	// 3. UseCases
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, events)
	updateLeadUC := usecase.NewUpdateLeadUseCase(leadRepo, events)

	// 4. Handlers
	leadHandler := handlers.NewLeadHandler(createLeadUC, updateLeadUC, leadRepo, events)
	authHandler := handlers.NewAuthHandler(userRepo, tokens, hasher)
	healthHandler := handlers.NewHealthHandler(db, rabbitConn)

	// 5. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Metrics)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	authenticated := middleware.Authenticate(tokens, userRepo)
	limiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.Limit(limiter)).Post("/register", authHandler.Register)
		r.With(middleware.Limit(limiter)).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.With(authenticated).Get("/me", authHandler.Me)
	})

	r.Route("/api/leads", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", leadHandler.List)
		r.Post("/", leadHandler.Create)
		r.Get("/{id}", leadHandler.Get)
		r.Put("/{id}", leadHandler.Update)
		r.Delete("/{id}", leadHandler.Delete)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🔥 Lead Manager API rodando na porta :%s", port)
	http.ListenAndServe(":"+port, r)
}
