package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/config"
	"github.com/xavierca1/woo-crm/internal/entity"
	"github.com/xavierca1/woo-crm/internal/infra/cache"
	"github.com/xavierca1/woo-crm/internal/infra/database"
	"github.com/xavierca1/woo-crm/internal/infra/http/handlers"
	"github.com/xavierca1/woo-crm/internal/infra/http/middleware"
	"github.com/xavierca1/woo-crm/internal/infra/integration/facebook"
	"github.com/xavierca1/woo-crm/internal/infra/integration/hubspot"
	"github.com/xavierca1/woo-crm/internal/infra/integration/kommo"
	"github.com/xavierca1/woo-crm/internal/infra/integration/whatsapp"
	"github.com/xavierca1/woo-crm/internal/infra/integration/zoho"
	"github.com/xavierca1/woo-crm/internal/infra/mail"
	"github.com/xavierca1/woo-crm/internal/infra/queue"
	"github.com/xavierca1/woo-crm/internal/infra/ratelimit"
	"github.com/xavierca1/woo-crm/internal/infra/shipping"
	"github.com/xavierca1/woo-crm/internal/infra/worker"
	"github.com/xavierca1/woo-crm/internal/logger"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

var version = "dev"

type cacheBackend interface {
	usecase.CacheStore
	handlers.CachePinger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "woo-crm")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Database
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.MigrateUp(db); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	contactRepo := database.NewContactRepository(db)
	leadRepo := database.NewLeadRepository(db)
	formRepo := database.NewFormRepository(db)
	variantRepo := database.NewFormVariantRepository(db)
	submissionRepo := database.NewSubmissionRepository(db)
	tagRepo := database.NewTagRepository(db)
	interestRepo := database.NewInterestRepository(db)
	productRepo := database.NewProductRepository(db)
	retentionRepo := database.NewRetentionRepository(db)
	statsRepo := database.NewStatsRepository(db)

	// 2. Cache and rate limiters
	var (
		store         cacheBackend
		leadLimiter   ratelimit.Limiter
		exportLimiter ratelimit.Limiter
	)
	if cfg.Cache.Addr != "" {
		client, err := cache.NewRedisClient(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		if err != nil {
			log.Fatal("cache connection failed", zap.Error(err))
		}
		defer client.Close()
		store = cache.NewRedisStore(client)
		leadLimiter = ratelimit.NewRedisLimiter(client, "lead", cfg.RateLimit.LeadLimit, cfg.RateLimit.LeadWindow)
		exportLimiter = ratelimit.NewRedisLimiter(client, "export", cfg.RateLimit.ExportLimit, cfg.RateLimit.ExportWindow)
	} else {
		log.Warn("CACHE_ADDR not set, using in-process cache and rate limiting")
		mem := cache.NewMemoryStore()
		go sweepLoop(ctx, mem)
		store = mem

		ll := ratelimit.NewMemoryLimiter(cfg.RateLimit.LeadLimit, cfg.RateLimit.LeadWindow)
		defer ll.Close()
		el := ratelimit.NewMemoryLimiter(cfg.RateLimit.ExportLimit, cfg.RateLimit.ExportWindow)
		defer el.Close()
		leadLimiter, exportLimiter = ll, el
	}

	// 3. Integrations, queue and worker
	dispatcher := queue.NewDispatcher(log, integrations(cfg, log)...)
	dispatcher.OnError(middleware.RecordIntegrationError)

	var (
		producer usecase.QueueProducerInterface
		rabbit   *amqp.Connection
	)
	if cfg.AMQPURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			log.Fatal("rabbitmq connection failed", zap.Error(err))
		}
		defer rabbitMQ.Close()
		rabbit = rabbitMQ.Conn
		producer = queue.NewProducer(rabbitMQ.Ch)

		w := queue.NewWorker(rabbitMQ.Ch, dispatcher, log)
		go func() {
			if err := w.Start(ctx, queue.QueueName); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("lead worker stopped", zap.Error(err))
			}
		}()
	} else {
		log.Warn("AMQP_URL not set, forwarding leads in-process", zap.Int("integrations", dispatcher.Len()))
		producer = queue.NewInlineProducer(dispatcher, log)
	}

	mailer := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From, cfg.Mail.AdminTo)
	if !mailer.Enabled() {
		log.Info("admin notifications disabled, MAIL_HOST or MAIL_ADMIN_TO missing")
	}

	// 4. UseCases
	dictionary, err := config.LoadInterests(cfg.InterestsFile)
	if err != nil {
		log.Fatal("interest dictionary", zap.Error(err))
	}
	specs, err := config.LoadCarriers(cfg.CarriersFile)
	if err != nil {
		log.Fatal("carrier config", zap.Error(err))
	}
	carriers, err := shipping.FromSpecs(specs)
	if err != nil {
		log.Fatal("carrier config", zap.Error(err))
	}

	interests := usecase.NewInterestUpdater(interestRepo, dictionary)
	resolver := usecase.NewFormSchemaResolver(formRepo, variantRepo)
	submitUC := usecase.NewSubmitFormUseCase(resolver, contactRepo, submissionRepo, tagRepo, interests, producer, mailer, log)
	captureUC := usecase.NewCaptureLeadUseCase(leadRepo, contactRepo, interests, producer, mailer, log)
	contactAdmin := usecase.NewContactAdmin(contactRepo, leadRepo, tagRepo, interestRepo, submissionRepo, log)
	formAdmin := usecase.NewFormAdmin(formRepo, variantRepo, log)
	exportUC := usecase.NewExportUseCase(contactRepo)
	quotes := usecase.NewQuoteService(carriers, store, cfg.QuoteCacheTTL, log)
	retentionUC := usecase.NewRetentionUseCase(retentionRepo, cfg.Retention.Days, log)
	statsUC := usecase.NewStatsUseCase(statsRepo)

	retentionWorker := worker.NewRetentionWorker(retentionUC, cfg.Retention.Interval, log)
	retentionWorker.OnResult(func(res *entity.RetentionResult) {
		middleware.RecordRetention(res.Deleted)
	})
	go retentionWorker.Start(ctx)

	// 5. Handlers
	healthHandler := handlers.NewHealthHandler(db, rabbit, store, version)
	leadHandler := handlers.NewLeadHandler(captureUC, log)
	formHandler := handlers.NewFormHandler(resolver, submitUC, log)
	shippingHandler := handlers.NewShippingHandler(quotes, log)
	contactHandler := handlers.NewContactHandler(contactAdmin, log)
	formAdminHandler := handlers.NewFormAdminHandler(formAdmin, log)
	exportHandler := handlers.NewExportHandler(exportUC, log)
	productHandler := handlers.NewProductHandler(productRepo, log)
	maintenanceHandler := handlers.NewMaintenanceHandler(statsUC, retentionUC, quotes, log)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	leadRL := middleware.RateLimit("lead", leadLimiter, middleware.ClientIP, log)
	exportRL := middleware.RateLimit("export", exportLimiter, middleware.ByUserOrIP, log)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.With(leadRL).Post("/leads", leadHandler.CaptureLead)
	r.Get("/forms/{slug}", formHandler.GetSchema)
	r.With(leadRL).Post("/forms/{slug}/submissions", formHandler.Submit)
	r.Post("/shipping/quote", shippingHandler.Quote)
	r.Get("/shipping/carriers", shippingHandler.Carriers)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireCapability([]byte(cfg.JWTSecret), middleware.CapabilityManageStore))

		r.Get("/contacts", contactHandler.List)
		r.Get("/contacts/{id}", contactHandler.Get)
		r.Patch("/contacts/{id}/status", contactHandler.UpdateStatus)
		r.Post("/contacts/{id}/tags", contactHandler.AddTag)
		r.Delete("/contacts/{id}/tags/{tagID}", contactHandler.RemoveTag)
		r.Delete("/contacts/{id}", contactHandler.Delete)
		r.Get("/leads", contactHandler.ListLeads)

		r.Get("/forms", formAdminHandler.List)
		r.Post("/forms", formAdminHandler.Create)
		r.Put("/forms/{slug}", formAdminHandler.Update)
		r.Get("/forms/{slug}/variants", formAdminHandler.ListVariants)
		r.Put("/forms/{slug}/variants/{key}", formAdminHandler.SaveVariant)

		r.With(exportRL).Get("/export/contacts", exportHandler.ExportContacts)
		r.With(exportRL).Get("/products", productHandler.Search)

		r.Get("/stats", maintenanceHandler.Stats)
		r.Post("/retention", maintenanceHandler.RunRetention)
		r.Delete("/cache", maintenanceHandler.FlushCache)
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.HTTPAddr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// integrations returns the forwarding targets that have credentials.
func integrations(cfg *config.Config, log *zap.Logger) []queue.Integration {
	var out []queue.Integration
	if cfg.HubSpot.Token != "" {
		out = append(out, hubspot.NewClient(cfg.HubSpot.BaseURL, cfg.HubSpot.Token, log))
	}
	if cfg.Zoho.Token != "" {
		out = append(out, zoho.NewClient(cfg.Zoho.BaseURL, cfg.Zoho.Token, log))
	}
	if cfg.Kommo.Token != "" && cfg.Kommo.BaseURL != "" {
		out = append(out, kommo.NewClient(cfg.Kommo.BaseURL, cfg.Kommo.Token, cfg.Kommo.StatusID, log))
	}
	if cfg.WhatsApp.Token != "" && cfg.WhatsApp.PhoneID != "" {
		out = append(out, whatsapp.NewClient(cfg.WhatsApp.BaseURL, cfg.WhatsApp.Token, cfg.WhatsApp.PhoneID, cfg.WhatsApp.Template, cfg.WhatsApp.Language, log))
	}
	if cfg.Facebook.Token != "" && cfg.Facebook.PixelID != "" {
		out = append(out, facebook.NewClient(cfg.Facebook.BaseURL, cfg.Facebook.PixelID, cfg.Facebook.Token, log))
	}
	return out
}

func sweepLoop(ctx context.Context, mem *cache.MemoryStore) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mem.Sweep()
		}
	}
}
