package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mandarin-cards/studyd/internal/adapter/postgres"
	accountrepo "github.com/mandarin-cards/studyd/internal/adapter/postgres/account"
	cardrepo "github.com/mandarin-cards/studyd/internal/adapter/postgres/card"
	deckrepo "github.com/mandarin-cards/studyd/internal/adapter/postgres/deck"
	"github.com/mandarin-cards/studyd/internal/adapter/postgres/reviewlog"
	internalauth "github.com/mandarin-cards/studyd/internal/auth"
	"github.com/mandarin-cards/studyd/internal/config"
	"github.com/mandarin-cards/studyd/internal/domain"
	authsvc "github.com/mandarin-cards/studyd/internal/service/auth"
	"github.com/mandarin-cards/studyd/internal/service/study"
	"github.com/mandarin-cards/studyd/internal/service/study/sm2"
	teachersvc "github.com/mandarin-cards/studyd/internal/service/teacher"
	"github.com/mandarin-cards/studyd/internal/transport/middleware"
	"github.com/mandarin-cards/studyd/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// repositories and services together, and serves HTTP until the context
// is cancelled. Shutdown drains in-flight requests up to the configured
// timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	cards := cardrepo.New(pool)
	accounts := accountrepo.New(pool)
	decks := deckrepo.New(pool)
	reviews := reviewlog.New(pool)
	txm := postgres.NewTxManager(pool)

	tokens := internalauth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	clock := clockwork.NewRealClock()

	tz, err := time.LoadLocation(cfg.Study.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	authService := authsvc.NewService(logger, accounts, accounts, tokens, clock)
	studyService := study.NewService(logger, cards, accounts, reviews, decks, txm, clock, study.Options{
		Scheduler:    schedulerConfig(cfg.SRS),
		Mode:         domain.StudyMode(cfg.Study.Mode),
		Timezone:     tz,
		FetchCeiling: cfg.Study.FetchCeiling,
	})
	teacherService := teachersvc.NewService(logger, accounts, clock, tz)

	mux := rest.NewRouter(
		rest.NewHealthHandler(pool, BuildVersion()),
		rest.NewAuthHandler(authService, logger),
		rest.NewCardsHandler(studyService, logger),
		rest.NewStudyHandler(studyService, logger),
		rest.NewTeacherHandler(teacherService, logger),
	)

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.CORS(cfg.CORS),
		middleware.Auth(tokens),
		middleware.Logger(logger),
	)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func schedulerConfig(cfg config.SRSConfig) sm2.Config {
	return sm2.Config{
		WithLearningSteps: domain.SchedulerVariant(cfg.Variant) == domain.VariantLearningSteps,
		LearningSteps:     cfg.LearningSteps,
		HardWait:          cfg.HardWait,
		EasyBoost:         cfg.EasyBoost,
		MinEase:           cfg.MinEaseFactor,
	}
}
