// Package gatewayreturn реализует HTTP-обработчик возвратов со шлюза Webpay.
//
// Один обработчик обслуживает все три пути возврата: матрикула, магазин и
// онлайн-оплата. Браузер приходит сюда верхнеуровневой навигацией со шлюза,
// поэтому подтверждение работает по схеме POST-redirect-GET: токен
// подтверждается один раз, ответ — 303 на адрес без token_ws, итог
// отдаётся уже на чистом адресе. Повторная загрузка страницы и кнопка
// "назад" не подтверждают транзакцию второй раз.
package gatewayreturn

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/club-portal/internal/models"
	"github.com/magabrotheeeer/club-portal/internal/payment"
	"github.com/magabrotheeeer/club-portal/internal/shell/response"
	"github.com/magabrotheeeer/club-portal/internal/viewrouter"
)

// Flow описывает подтверждение платежа.
type Flow interface {
	HandleReturn(ret payment.Return)
	Confirm(ctx context.Context, ret payment.Return) payment.ConfirmOutcome
}

// Session описывает чтение состояния сессии после подтверждения.
type Session interface {
	User() *models.User
	IsBlocked() bool
}

// Handler обрабатывает возвраты со шлюза. Итог последнего подтверждения
// запоминается, чтобы отдать его на чистом адресе после редиректа.
type Handler struct {
	log     *slog.Logger
	flow    Flow
	session Session

	mu          sync.Mutex
	lastToken   string
	lastOutcome *payment.ConfirmOutcome
}

// Result — тело ответа обработчика на чистом адресе.
type Result struct {
	Outcome payment.ConfirmOutcome `json:"outcome"`
	View    viewrouter.View        `json:"view"`
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, flow Flow, session Session) *Handler {
	return &Handler{log: log, flow: flow, session: session}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.gatewayreturn"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ret, ok := payment.DetectReturn(r.URL)
	if !ok {
		log.Warn("not a gateway return", slog.String("path", r.URL.Path))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("unknown gateway return path"))
		return
	}

	if !hasGatewayParams(r.URL) {
		// чистый адрес после редиректа: подтверждения не было и не будет
		h.renderOutcome(w, r)
		return
	}

	h.mu.Lock()
	alreadyConfirmed := ret.Token != "" && ret.Token == h.lastToken
	h.mu.Unlock()

	if !alreadyConfirmed {
		h.flow.HandleReturn(ret)
		outcome := h.flow.Confirm(r.Context(), ret)
		log.Info("gateway return processed",
			slog.String("kind", string(ret.Kind)),
			slog.String("status", outcome.Status),
			slog.Bool("success", outcome.Success))

		h.mu.Lock()
		h.lastToken = ret.Token
		h.lastOutcome = &outcome
		h.mu.Unlock()
	} else {
		log.Info("token already confirmed, skipping", slog.String("kind", string(ret.Kind)))
	}

	http.Redirect(w, r, payment.StripToken(r.URL), http.StatusSeeOther)
}

// renderOutcome отдаёт итог последнего подтверждения на чистом адресе.
// Адрес возврата без параметров и без истории трактуется как прерванная
// оплата.
func (h *Handler) renderOutcome(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	outcome := h.lastOutcome
	h.mu.Unlock()

	if outcome == nil {
		aborted := payment.ConfirmOutcome{Success: false, Status: "aborted", Detail: "El pago fue anulado"}
		outcome = &aborted
	}

	// представление резолвится уже после подтверждения: роль и блокировка
	// могли измениться
	view := viewrouter.Resolve(h.session.User(), h.session.IsBlocked(), viewrouter.PageHome, r.URL)

	render.JSON(w, r, response.OKWithData(Result{
		Outcome: *outcome,
		View:    view,
	}))
}

// hasGatewayParams сообщает, несёт ли URL параметры шлюза: token_ws при
// завершённой оплате либо TBK_* при прерванной.
func hasGatewayParams(u *url.URL) bool {
	q := u.Query()
	return q.Get("token_ws") != "" ||
		q.Get("TBK_TOKEN") != "" ||
		q.Get("TBK_ORDEN_COMPRA") != "" ||
		q.Get("TBK_ID_SESION") != ""
}
