// Package portal собирает локальную оболочку портала клуба: HTTP-клиент к
// REST API, держатели сессии и корзины, платёжный поток и локальный
// HTTP-сервер представлений.
package portal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/cart"
	"github.com/magabrotheeeer/club-portal/internal/config"
	"github.com/magabrotheeeer/club-portal/internal/metrics"
	"github.com/magabrotheeeer/club-portal/internal/payment"
	athletesservice "github.com/magabrotheeeer/club-portal/internal/services/athletes"
	authservice "github.com/magabrotheeeer/club-portal/internal/services/auth"
	notificationsservice "github.com/magabrotheeeer/club-portal/internal/services/notifications"
	paymentsservice "github.com/magabrotheeeer/club-portal/internal/services/payments"
	schedulesservice "github.com/magabrotheeeer/club-portal/internal/services/schedules"
	storeservice "github.com/magabrotheeeer/club-portal/internal/services/store"
	usersservice "github.com/magabrotheeeer/club-portal/internal/services/users"
	"github.com/magabrotheeeer/club-portal/internal/session"
	"github.com/magabrotheeeer/club-portal/internal/storage"
)

// App — собранное приложение оболочки.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	store   *storage.Store
	session *session.Session
}

// New конструирует приложение: открывает локальное хранилище, собирает
// клиент API и доменные сервисы, тихо восстанавливает сессию и регистрирует
// маршруты локального сервера.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := storage.New(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	api := apiclient.New(apiclient.Options{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.TimeoutAPI,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
	}, store, logger, m)

	authSvc := authservice.New(api, store, logger)
	usersSvc := usersservice.New(api)
	athletesSvc := athletesservice.New(api)
	paymentsSvc := paymentsservice.New(api)
	storeSvc := storeservice.New(api)
	schedulesSvc := schedulesservice.New(api)
	notificationsSvc := notificationsservice.New(api)

	sess := session.New(authSvc, usersSvc, paymentsSvc, store, cfg.Bloqueo.DiasBloqueo, logger)
	// невосстановимый отказ refresh-а чистит хранилище внутри клиента,
	// процессное состояние сбрасываем здесь
	api.SetSessionExpiredHandler(sess.Clear)

	cartHolder := cart.New(storeSvc, logger)
	flow := payment.NewFlow(paymentsSvc, storeSvc, sess, m, logger)

	sess.Restore(ctx)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, sess, cartHolder, flow,
		athletesSvc, schedulesSvc, notificationsSvc, paymentsSvc, storeSvc, usersSvc, registry)

	srv := &http.Server{
		Addr:         cfg.Shell.AddressShell,
		Handler:      router,
		ReadTimeout:  cfg.Shell.TimeoutShell,
		WriteTimeout: cfg.Shell.TimeoutShell,
		IdleTimeout:  cfg.Shell.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		store:   store,
		session: sess,
	}, nil
}

// Run запускает локальный сервер и блокируется до его остановки или отмены
// контекста. При отмене сервер гасится мягко, хранилище закрывается.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("portal shell starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down portal shell gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.store.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		return err
	}
}
