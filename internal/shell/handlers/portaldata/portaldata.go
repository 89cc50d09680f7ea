// Package portaldata реализует тонкие HTTP-обработчики чтения данных
// портала: атлеты, расписания, уведомления, задолженности, обязательства,
// товары и заказы. Обработчики не несут бизнес-логики, они транслируют
// ответ доменного сервиса в единый JSON-конверт оболочки.
package portaldata

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/models"
	"github.com/magabrotheeeer/club-portal/internal/shell/response"
)

// Athletes описывает чтение атлетов апода.
type Athletes interface {
	MyAthletes(ctx context.Context) apiclient.Response[[]models.Athlete]
	Get(ctx context.Context, athleteID string) apiclient.Response[models.Athlete]
	Certifications(ctx context.Context, athleteID string) apiclient.Response[[]map[string]any]
}

// Schedules описывает чтение расписаний.
type Schedules interface {
	MySchedules(ctx context.Context) apiclient.Response[[]models.Schedule]
}

// Notifications описывает операции с уведомлениями.
type Notifications interface {
	List(ctx context.Context) apiclient.Response[[]models.Notification]
	MarkRead(ctx context.Context, notificationID string) apiclient.Response[models.Notification]
	UnreadCount(ctx context.Context) apiclient.Response[models.UnreadCount]
}

// Payments описывает чтение платёжных данных.
type Payments interface {
	MyDebts(ctx context.Context) apiclient.Response[[]models.Debt]
	Obligations(ctx context.Context, estado string) apiclient.Response[[]models.Obligation]
	MyPayments(ctx context.Context) apiclient.Response[[]models.Matricula]
	MatriculaPeriods(ctx context.Context) apiclient.Response[[]models.MatriculaPeriod]
}

// Tienda описывает чтение витрины и заказов.
type Tienda interface {
	Products(ctx context.Context, tipo string) apiclient.Response[[]models.Product]
	Product(ctx context.Context, productID string) apiclient.Response[models.Product]
	Orders(ctx context.Context) apiclient.Response[[]models.Order]
	Order(ctx context.Context, orderID string) apiclient.Response[models.Order]
}

// Users описывает чтение пользователей, доступное админской странице.
type Users interface {
	List(ctx context.Context) apiclient.Response[[]models.User]
	Get(ctx context.Context, userID string) apiclient.Response[models.User]
}

// Handler обрабатывает запросы данных портала.
type Handler struct {
	log           *slog.Logger
	athletes      Athletes
	schedules     Schedules
	notifications Notifications
	payments      Payments
	tienda        Tienda
	users         Users
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, athletes Athletes, schedules Schedules, notifications Notifications, payments Payments, tienda Tienda, users Users) *Handler {
	return &Handler{
		log:           log,
		athletes:      athletes,
		schedules:     schedules,
		notifications: notifications,
		payments:      payments,
		tienda:        tienda,
		users:         users,
	}
}

// MyAthletes возвращает атлетов текущего апода.
func (h *Handler) MyAthletes(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.my_athletes", h.athletes.MyAthletes(r.Context()))
}

// Athlete возвращает карточку атлета.
func (h *Handler) Athlete(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.athlete", h.athletes.Get(r.Context(), chi.URLParam(r, "id")))
}

// AthleteCertifications возвращает сертификаты атлета.
func (h *Handler) AthleteCertifications(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.athlete_certifications",
		h.athletes.Certifications(r.Context(), chi.URLParam(r, "id")))
}

// MySchedules возвращает расписания тренировок.
func (h *Handler) MySchedules(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.my_schedules", h.schedules.MySchedules(r.Context()))
}

// Notifications возвращает уведомления пользователя.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.notifications", h.notifications.List(r.Context()))
}

// MarkNotificationRead помечает уведомление прочитанным.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.mark_read", h.notifications.MarkRead(r.Context(), chi.URLParam(r, "id")))
}

// UnreadCount возвращает счётчик непрочитанных уведомлений.
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.unread_count", h.notifications.UnreadCount(r.Context()))
}

// MyDebts возвращает задолженности текущего пользователя.
func (h *Handler) MyDebts(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.my_debts", h.payments.MyDebts(r.Context()))
}

// Obligations возвращает обязательства онлайн-оплаты, опционально
// отфильтрованные параметром estado.
func (h *Handler) Obligations(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.obligations",
		h.payments.Obligations(r.Context(), r.URL.Query().Get("estado")))
}

// MyPayments возвращает матрикулы пользователя.
func (h *Handler) MyPayments(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.my_payments", h.payments.MyPayments(r.Context()))
}

// MatriculaPeriods возвращает открытые периоды матрикуляции.
func (h *Handler) MatriculaPeriods(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.matricula_periods", h.payments.MatriculaPeriods(r.Context()))
}

// Products возвращает витрину, опционально отфильтрованную по tipo.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.products",
		h.tienda.Products(r.Context(), r.URL.Query().Get("tipo")))
}

// Product возвращает карточку товара.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.product", h.tienda.Product(r.Context(), chi.URLParam(r, "id")))
}

// Orders возвращает заказы пользователя.
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.orders", h.tienda.Orders(r.Context()))
}

// Order возвращает заказ по идентификатору.
func (h *Handler) Order(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.order", h.tienda.Order(r.Context(), chi.URLParam(r, "id")))
}

// Users возвращает список пользователей для админской страницы.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.users", h.users.List(r.Context()))
}

// User возвращает пользователя по идентификатору.
func (h *Handler) User(w http.ResponseWriter, r *http.Request) {
	relay(h, w, r, "handlers.portaldata.user", h.users.Get(r.Context(), chi.URLParam(r, "id")))
}

// relay переводит ответ доменного сервиса в конверт оболочки: успех уходит
// как OK с данными, нормализованная ошибка выставляет подходящий HTTP-код.
func relay[T any](h *Handler, w http.ResponseWriter, r *http.Request, op string, res apiclient.Response[T]) {
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if !res.Success {
		status := http.StatusBadGateway
		msg := apiclient.MsgServerError
		if res.Error != nil {
			if res.Error.Status > 0 {
				status = res.Error.Status
			}
			if res.Error.Message != "" {
				msg = res.Error.Message
			}
		}
		log.Error("upstream request failed", slog.Int("status", status), slog.String("message", msg))
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}
	render.JSON(w, r, response.OKWithData(res.Data))
}
