package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/api/v1/handler"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/blog"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/config"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/database"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/middleware"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/notify"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/pubsub"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/repository"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Shutdown releases the clients New opened.
type Shutdown func(ctx context.Context) error

// New connects to the backing services and builds the HTTP handler.
// Optional integrations are wired only when configured.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, Shutdown, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	var closers []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i](ctx))
		}
		return errors.Join(errs...)
	}
	fail := func(err error) (http.Handler, Shutdown, error) {
		_ = shutdown(context.Background())
		return nil, nil, err
	}

	// 1. Document store
	client, err := database.Connect(ctx, cfg.MongoURI, cfg.DBTimeout(), logger)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, client.Disconnect)
	db := client.Database(cfg.DatabaseName)
	indexCtx, cancel := context.WithTimeout(ctx, cfg.DBTimeout())
	err = database.EnsureIndexes(indexCtx, db)
	cancel()
	if err != nil {
		return fail(err)
	}

	// 2. Object storage for course and blog images
	var s3Client *s3.Client
	if cfg.StorageEnabled() {
		s3Client, err = newS3Client(ctx, cfg)
		if err != nil {
			return fail(err)
		}
	} else {
		logger.Info().Msg("S3 storage not configured, image uploads disabled")
	}

	// 3. Lead events
	var publisher pubsub.Publisher = pubsub.NopPublisher{}
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		publisher = p
		closers = append(closers, func(context.Context) error { return p.Close() })
	}

	// 4. Lead notification email
	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.SMTPEnabled() {
		notifier = notify.NewMailNotifier(cfg)
	}

	// 5. Rate limiting
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		closers = append(closers, func(context.Context) error { return redisClient.Close() })
	}
	limiter := middleware.NewRateLimiter(redisClient, cfg.LeadRateLimit, cfg.LeadRateWindow(), logger)
	if err := limiter.TrustProxies(cfg.TrustedProxies); err != nil {
		return fail(err)
	}

	// 6. Chat upstream
	var chatClient service.ChatClient
	if cfg.ChatEnabled() {
		apiKey, err := chatAPIKey(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		chatClient = service.NewChatClient(cfg.ChatAPIURL, apiKey, logger)
	}

	// 7. Repositories, services and handlers
	validate := handler.NewValidator()

	courseRepo := repository.NewCourseRepo(db, logger)
	leadRepo := repository.NewLeadRepo(db)
	userRepo := repository.NewUserRepo(db)
	blogRepo := repository.NewBlogRepo(db)

	courseSvc := service.NewCourseService(courseRepo, logger)
	leadSvc := service.NewLeadService(leadRepo, publisher, cfg.LeadTopic, notifier, logger)
	userSvc := service.NewUserService(userRepo, courseRepo, cfg.JWTSecret, cfg.TokenTTL(), logger)
	blogSvc := service.NewBlogService(blogRepo, blog.NewSource(cfg.BlogDir), logger)
	storageSvc := service.NewStorageService(s3Client, cfg.S3Bucket, storageBaseURL(cfg), logger)
	chatSvc := service.NewChatService(chatClient, cfg.ChatModel, logger)
	dashboardSvc := service.NewDashboardService(courseSvc, leadSvc, userSvc, blogSvc, logger)

	authMw := middleware.AuthMiddleware(cfg.JWTSecret, logger)
	accountMw := middleware.RequireAccount(handler.AccountLookup(userSvc), logger)
	adminMw := func(next http.Handler) http.Handler {
		return authMw(middleware.RequireRole(model.RoleSuperAdmin)(accountMw(next)))
	}

	r := mux.NewRouter()
	r.Handle("/health", handler.NewHealthHandler(func(ctx context.Context) error {
		return database.Ping(ctx, client)
	}, logger)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	handler.NewCourseHandler(courseSvc, validate, logger).RegisterRoutes(api, adminMw)
	handler.NewLeadHandler(leadSvc, validate, logger).RegisterRoutes(api, limiter)
	handler.NewUserHandler(userSvc, validate, cfg.TokenTTL(), cfg.CookieSecure, logger).RegisterRoutes(api, authMw, limiter)
	handler.NewBlogHandler(blogSvc, logger).RegisterRoutes(api)
	handler.NewAdminHandler(dashboardSvc, courseSvc, leadSvc, userSvc, blogSvc, storageSvc, validate, logger).RegisterRoutes(api, adminMw)
	handler.NewChatHandler(chatSvc, validate, logger).RegisterRoutes(api, limiter)

	// 8. CORS; credentials are allowed so the token cookie reaches the API
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
	})

	logger.Info().Msg("Router initialized")
	return middleware.LoggerMiddleware(logger)(c.Handler(r)), shutdown, nil
}

func newS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		return nil, fmt.Errorf("loading S3 config: %w", err)
	}
	return s3.NewFromConfig(s3Config, func(o *s3.Options) {
		if cfg.S3URL != "" {
			o.BaseEndpoint = aws.String(cfg.S3URL)
			o.UsePathStyle = true
		}
	}), nil
}

// storageBaseURL is where uploaded objects are publicly served from.
func storageBaseURL(cfg *config.Config) string {
	if cfg.S3URL != "" {
		return cfg.S3URL
	}
	return fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.S3Region)
}

// chatAPIKey prefers the key from Secret Manager when a secret name is set.
func chatAPIKey(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.ChatAPIKeySecret == "" {
		return cfg.ChatAPIKey, nil
	}
	sm, err := service.NewSecretManagerService(ctx, cfg)
	if err != nil {
		return "", err
	}
	defer sm.Close()
	key, err := sm.GetSecret(ctx, cfg.ChatAPIKeySecret)
	if err != nil {
		return "", fmt.Errorf("resolving chat API key: %w", err)
	}
	return key, nil
}

// removeDisableGzip is a workaround for S3 signature errors with some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		// Presigning inspects the stack too, so only remove what is there.
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
