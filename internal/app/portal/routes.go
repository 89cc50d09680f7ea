// Package portal предоставляет маршруты локальной оболочки.
package portal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/club-portal/internal/cart"
	"github.com/magabrotheeeer/club-portal/internal/payment"
	athletesservice "github.com/magabrotheeeer/club-portal/internal/services/athletes"
	notificationsservice "github.com/magabrotheeeer/club-portal/internal/services/notifications"
	paymentsservice "github.com/magabrotheeeer/club-portal/internal/services/payments"
	schedulesservice "github.com/magabrotheeeer/club-portal/internal/services/schedules"
	storeservice "github.com/magabrotheeeer/club-portal/internal/services/store"
	usersservice "github.com/magabrotheeeer/club-portal/internal/services/users"
	"github.com/magabrotheeeer/club-portal/internal/session"
	"github.com/magabrotheeeer/club-portal/internal/shell/handlers/auth/login"
	"github.com/magabrotheeeer/club-portal/internal/shell/handlers/auth/logout"
	"github.com/magabrotheeeer/club-portal/internal/shell/handlers/auth/register"
	"github.com/magabrotheeeer/club-portal/internal/shell/handlers/autopay"
	"github.com/magabrotheeeer/club-portal/internal/shell/handlers/cards"
	"github.com/magabrotheeeer/club-portal/internal/shell/handlers/cartitems"
	"github.com/magabrotheeeer/club-portal/internal/shell/handlers/checkout"
	"github.com/magabrotheeeer/club-portal/internal/shell/handlers/gatewayreturn"
	"github.com/magabrotheeeer/club-portal/internal/shell/handlers/matricula"
	"github.com/magabrotheeeer/club-portal/internal/shell/handlers/orders"
	"github.com/magabrotheeeer/club-portal/internal/shell/handlers/portaldata"
	"github.com/magabrotheeeer/club-portal/internal/shell/handlers/profile"
	"github.com/magabrotheeeer/club-portal/internal/shell/handlers/view"
)

// RegisterRoutes регистрирует все маршруты локальной оболочки.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	sess *session.Session,
	cartHolder *cart.Holder,
	flow *payment.Flow,
	athletesSvc *athletesservice.Service,
	schedulesSvc *schedulesservice.Service,
	notificationsSvc *notificationsservice.Service,
	paymentsSvc *paymentsservice.Service,
	storeSvc *storeservice.Service,
	usersSvc *usersservice.Service,
	registry *prometheus.Registry,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Пути возврата со шлюза Webpay. Имена зафиксированы в return_url,
	// которые бэкенд регистрирует в Transbank, и не меняются.
	returnHandler := gatewayreturn.New(logger, flow, sess)
	r.Get(payment.PathReturnMatricula, returnHandler.ServeHTTP)
	r.Get(payment.PathReturnStore, returnHandler.ServeHTTP)
	r.Get(payment.PathReturnOnline, returnHandler.ServeHTTP)

	viewHandler := view.New(logger, sess)
	cartHandler := cartitems.New(logger, cartHolder)
	dataHandler := portaldata.New(logger, athletesSvc, schedulesSvc, notificationsSvc, paymentsSvc, storeSvc, usersSvc)
	profileHandler := profile.New(logger, sess)
	cardsHandler := cards.New(logger, paymentsSvc)
	ordersHandler := orders.New(logger, storeSvc, cartHolder)

	r.Route("/portal", func(r chi.Router) {
		r.Post("/auth/login", login.New(logger, sess).ServeHTTP)
		r.Post("/auth/register", register.New(logger, sess).ServeHTTP)
		r.Post("/auth/logout", logout.New(logger, sess, cartHolder).ServeHTTP)

		r.Get("/view", viewHandler.ServeHTTP)
		r.Get("/view/{page}", viewHandler.ServeHTTP)

		r.Post("/checkout", checkout.New(logger, flow).ServeHTTP)
		r.Post("/matricula", matricula.New(logger, paymentsSvc).ServeHTTP)
		r.Post("/autopay", autopay.New(logger, flow).ServeHTTP)

		r.Get("/tarjetas", cardsHandler.List)
		r.Post("/tarjetas", cardsHandler.Create)
		r.Patch("/tarjetas/{id}", cardsHandler.Update)
		r.Delete("/tarjetas/{id}", cardsHandler.Delete)
		r.Post("/obligaciones/{id}/pagar-con-tarjeta", cardsHandler.PayObligation)

		r.Get("/perfil", profileHandler.Me)
		r.Patch("/perfil", profileHandler.Update)
		r.Patch("/usuarios/{id}/rol", profileHandler.ChangeRole)
		r.Post("/password-reset", profileHandler.RequestReset)
		r.Post("/password-reset/validar", profileHandler.ValidateReset)
		r.Post("/password-reset/confirmar", profileHandler.ConfirmReset)

		r.Get("/carrito", cartHandler.List)
		r.Post("/carrito", cartHandler.Add)
		r.Patch("/carrito/{id}", cartHandler.Update)
		r.Delete("/carrito/{id}", cartHandler.Remove)

		r.Get("/atletas/mis-atletas", dataHandler.MyAthletes)
		r.Get("/atletas/{id}", dataHandler.Athlete)
		r.Get("/atletas/{id}/certificaciones", dataHandler.AthleteCertifications)
		r.Get("/usuarios", dataHandler.Users)
		r.Get("/usuarios/{id}", dataHandler.User)
		r.Get("/horarios", dataHandler.MySchedules)
		r.Get("/notificaciones", dataHandler.Notifications)
		r.Get("/notificaciones/no-leidas", dataHandler.UnreadCount)
		r.Post("/notificaciones/{id}/marcar-leida", dataHandler.MarkNotificationRead)
		r.Get("/deudas", dataHandler.MyDebts)
		r.Get("/obligaciones", dataHandler.Obligations)
		r.Get("/pagos", dataHandler.MyPayments)
		r.Get("/periodos-matricula", dataHandler.MatriculaPeriods)
		r.Get("/productos", dataHandler.Products)
		r.Get("/productos/{id}", dataHandler.Product)
		r.Get("/pedidos", dataHandler.Orders)
		r.Post("/pedidos", ordersHandler.Create)
		r.Get("/pedidos/{id}", dataHandler.Order)
	})
}
