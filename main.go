package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"
	"github.com/nexsy/server/config"
	"github.com/nexsy/server/handlers"
	"github.com/nexsy/server/middleware"
	"github.com/nexsy/server/service"
	"github.com/nexsy/server/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb")
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
		}
	}()
	log.Info().Str("db", cfg.DBName).Msg("connected to MongoDB")

	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongodb indexes")
	}

	var s3Service *service.S3Service
	if cfg.S3Bucket != "" {
		s3Service, err = service.NewS3Service(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			log.Fatal().Err(err).Msg("s3")
		}
	} else {
		log.Warn().Msg("AWS_S3_BUCKET not set; image uploads disabled")
	}
	mailer := service.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	if mailer == nil {
		log.Warn().Msg("SMTP not configured; receipt mail disabled")
	}
	var stripeService service.PaymentIntentCreator
	if s := service.NewStripeService(cfg.StripeSecretKey); s != nil {
		stripeService = s
	} else {
		log.Warn().Msg("STRIPE_SECRET_KEY not set; payments disabled")
	}

	authHandler := &handlers.AuthHandler{JWTSecret: cfg.JWTSecret, Production: cfg.Production()}
	usersHandler := &handlers.UsersHandler{DB: db, Mailer: mailer, PriceCents: cfg.MembershipPriceCents}
	productsHandler := &handlers.ProductsHandler{DB: db, Roles: db}
	couponsHandler := &handlers.CouponsHandler{DB: db}
	reviewsHandler := &handlers.ReviewsHandler{DB: db}
	paymentsHandler := &handlers.PaymentsHandler{DB: db, Stripe: stripeService, PriceCents: cfg.MembershipPriceCents}
	statsHandler := &handlers.StatisticsHandler{DB: db}
	uploadHandler := &handlers.UploadHandler{DB: db, S3: s3Service, MaxBytes: cfg.MaxUploadMB * 1024 * 1024}

	authed := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.AdminOnly(db)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestLogger(log.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Nexsy Server"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Credential issue and teardown.
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(20, time.Minute))
		r.Post("/jwt", authHandler.IssueToken)
	})
	r.Get("/logout", authHandler.Logout)

	// Public listings.
	r.Get("/acceptedProducts", productsHandler.Accepted)
	r.Get("/trendingProducts", productsHandler.Trending)
	r.Get("/featuredProducts", productsHandler.Featured)
	r.Get("/product/{id}", productsHandler.Get)
	r.Get("/reviews/{productId}", reviewsHandler.ListByProduct)
	r.Get("/api/coupons", couponsHandler.List)
	r.Post("/users", usersHandler.Create)

	// Credential-gated routes.
	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Get("/myProducts", productsHandler.Mine)
		r.Post("/products", productsHandler.Create)
		r.Patch("/product/{id}", productsHandler.Update)
		r.Delete("/products/{id}", productsHandler.Delete)
		r.Patch("/products/upvote/{id}", productsHandler.Upvote)
		r.Post("/products/report/{id}", productsHandler.Report)
		r.Post("/products/{id}/image", uploadHandler.UploadImage)
		r.Post("/reviews", reviewsHandler.Create)
		r.Get("/users/role/{email}", usersHandler.Role)
		r.Get("/user/profile", usersHandler.Profile)
		r.Patch("/user/subscribe", usersHandler.Subscribe)
		r.Get("/api/couponCode", couponsHandler.Validate)
		r.Post("/create-payment-intent", paymentsHandler.CreateIntent)
	})

	// Admin routes: authenticated, then role checked against the store.
	r.Group(func(r chi.Router) {
		r.Use(authed, adminOnly)
		r.Get("/products", productsHandler.List)
		r.Patch("/products/{id}", productsHandler.Moderate)
		r.Get("/products/reported", productsHandler.Reported)
		r.Patch("/products/ignore-report/{id}", productsHandler.IgnoreReports)
		r.Get("/users", usersHandler.List)
		r.Patch("/users/{id}", usersHandler.UpdateRole)
		r.Delete("/users/{id}", usersHandler.Delete)
		r.Get("/admin/statistics", statsHandler.Get)
		r.Post("/api/coupons", couponsHandler.Create)
		r.Put("/api/coupons/{id}", couponsHandler.Update)
		r.Delete("/api/coupons/{id}", couponsHandler.Delete)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
