// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/advisory-portal/backend/config"
	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/application/usecase/admin"
	"github.com/advisory-portal/backend/internal/application/usecase/auth"
	"github.com/advisory-portal/backend/internal/application/usecase/portfolio"
	"github.com/advisory-portal/backend/internal/domain/payout"
	"github.com/advisory-portal/backend/internal/domain/valueobject"
	"github.com/advisory-portal/backend/internal/infra/server/router"
	"github.com/advisory-portal/backend/internal/integration/adapters"
	"github.com/advisory-portal/backend/internal/integration/cache"
	"github.com/advisory-portal/backend/internal/integration/email"
	"github.com/advisory-portal/backend/internal/integration/email/templates"
	"github.com/advisory-portal/backend/internal/integration/entrypoint/controller"
	"github.com/advisory-portal/backend/internal/integration/entrypoint/dto"
	"github.com/advisory-portal/backend/internal/integration/entrypoint/middleware"
	"github.com/advisory-portal/backend/internal/integration/persistence"
)

const appName = "Advisory Portal"

// Options overrides infrastructure that is normally built from configuration.
type Options struct {
	RedisClient *redis.Client       // nil connects using cfg.Redis
	EmailSender adapter.EmailSender // nil uses Resend, or a log-only sender without an API key
	Clock       controller.Clock    // nil uses time.Now

	RateSchedule *payout.RateSchedule // nil uses payout.DefaultRateSchedule
}

// Injector holds all application dependencies.
type Injector struct {
	Config       *config.Config
	DB           *gorm.DB
	Router       *router.Router
	EmailWorker  *email.Worker
	SummaryCache adapter.SummaryCache
	redisClient  *redis.Client
}

// NewInjector creates a new dependency injector with all dependencies wired.
// It fails when the payout rate schedule does not split into investor and advisory shares.
func NewInjector(cfg *config.Config, db *gorm.DB, opts Options) (*Injector, error) {
	schedule := payout.DefaultRateSchedule
	if opts.RateSchedule != nil {
		schedule = *opts.RateSchedule
	}
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid payout rate schedule: %w", err)
	}

	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Portfolio summary cache
	redisClient := opts.RedisClient
	if redisClient == nil {
		redisClient = connectRedis(cfg.Redis)
	}
	var summaryCache adapter.SummaryCache
	var cacheHealthChecker func() bool
	if redisClient != nil {
		summaryCache = cache.NewRedisSummaryCache(redisClient, cfg.Payout.SummaryCacheTTL)
		cacheHealthChecker = func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(ctx).Err() == nil
		}
	} else {
		summaryCache = cache.NewMemorySummaryCache(cfg.Payout.SummaryCacheTTL)
	}

	// Payout policy
	resolver := payout.NewResolver(cfg.Payout.LockupMonths, cfg.Payout.WindowOverrides)
	calculator := portfolio.NewSummaryCalculator(resolver, schedule, cfg.Payout.CycleMonths)
	rate := valueobject.ExchangeRate{
		Base:  cfg.Currency.BaseCode,
		Quote: cfg.Currency.SecondaryCode,
		Rate:  cfg.Currency.SecondaryRate,
	}
	formatter := dto.NewAmountFormatter(rate)

	// Create adapters/services
	passwordService := adapters.NewPasswordService(adapters.DefaultBcryptCost)
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, adapters.TokenDurations{
		Access:  cfg.JWT.AccessTokenExpiry,
		Refresh: cfg.JWT.RefreshTokenExpiry,
	}, tokenRepo)
	resetTokenService := adapters.NewPasswordResetTokenService(tokenRepo)

	// Email queue and worker
	emailService := email.NewService(emailQueueRepo, appName)
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	sender := opts.EmailSender
	if sender == nil {
		if cfg.Email.ResendAPIKey == "" {
			slog.Warn("RESEND_API_KEY not set, emails will be logged instead of sent")
			sender = email.NewMockEmailSender()
		} else {
			resendClient := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
			if cfg.Email.ResendBaseURL != "" {
				if resendClient, err = resendClient.WithBaseURL(cfg.Email.ResendBaseURL); err != nil {
					return nil, err
				}
			}
			sender = resendClient
		}
	}
	emailWorker := email.NewWorker(emailQueueRepo, sender, renderer, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
	})

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(userRepo, tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)
	forgotPasswordUseCase := auth.NewForgotPasswordUseCase(userRepo, resetTokenService, emailService, cfg.Email.AppBaseURL)
	resetPasswordUseCase := auth.NewResetPasswordUseCase(userRepo, passwordService, resetTokenService, tokenService)

	// Create portfolio use cases
	getPortfolioUseCase := portfolio.NewGetPortfolioUseCase(userRepo, transactionRepo, calculator, summaryCache)
	listTransactionsUseCase := portfolio.NewListTransactionsUseCase(transactionRepo)
	exportStatementUseCase := portfolio.NewExportStatementUseCase(transactionRepo, rate)

	// Create back office use cases
	adminUseCases := controller.AdminUseCases{
		CreateUser:         admin.NewCreateUserUseCase(userRepo, passwordService),
		ListInvestors:      admin.NewListInvestorsUseCase(userRepo),
		GetInvestorSummary: admin.NewGetInvestorSummaryUseCase(userRepo, transactionRepo, calculator),
		SetPayoutWindow:    admin.NewSetPayoutWindowUseCase(userRepo, summaryCache),
		GeneratePayout: admin.NewGeneratePayoutUseCase(userRepo, transactionRepo, calculator, summaryCache, admin.PayoutNotifier{
			EmailService: emailService,
			Rate:         rate,
			PortalURL:    cfg.Email.AppBaseURL + "/portfolio",
		}),
		CreateTransaction: admin.NewCreateTransactionUseCase(userRepo, transactionRepo, resolver, summaryCache),
		UpdateTransaction: admin.NewUpdateTransactionUseCase(transactionRepo, resolver, summaryCache),
		DeleteTransaction: admin.NewDeleteTransactionUseCase(transactionRepo, resolver, summaryCache, emailService),
	}

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, cacheHealthChecker)

	authController := controller.NewAuthController(controller.AuthUseCases{
		Register:       registerUseCase,
		Login:          loginUseCase,
		Refresh:        refreshTokenUseCase,
		Logout:         logoutUseCase,
		ForgotPassword: forgotPasswordUseCase,
		ResetPassword:  resetPasswordUseCase,
	})

	portfolioController := controller.NewPortfolioController(
		getPortfolioUseCase,
		listTransactionsUseCase,
		exportStatementUseCase,
		formatter,
		opts.Clock,
	)

	adminController := controller.NewAdminController(adminUseCases, formatter, opts.Clock)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var loginRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		loginRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(healthController, authController, portfolioController, adminController, loginRateLimiter, authMiddleware)

	return &Injector{
		Config:       cfg,
		DB:           db,
		Router:       r,
		EmailWorker:  emailWorker,
		SummaryCache: summaryCache,
		redisClient:  redisClient,
	}, nil
}

// Close releases the Redis connection, if any.
func (i *Injector) Close() error {
	if i.redisClient == nil {
		return nil
	}
	return i.redisClient.Close()
}

// connectRedis returns a live client, or nil when Redis is unreachable so the in-process cache is used.
func connectRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.URL == "" {
		return nil
	}

	options, err := redis.ParseURL(cfg.URL)
	if err != nil {
		slog.Warn("Invalid REDIS_URL, using in-process summary cache", "error", err)
		return nil
	}
	if cfg.Password != "" {
		options.Password = cfg.Password
	}
	if cfg.DB != 0 {
		options.DB = cfg.DB
	}

	client := redis.NewClient(options)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis unavailable, using in-process summary cache", "error", err)
		_ = client.Close()
		return nil
	}

	slog.Info("Connected to Redis", "addr", options.Addr, "db", options.DB)
	return client
}
