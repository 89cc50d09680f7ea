// Package logout реализует HTTP-обработчик выхода локальной оболочки.
// Выход локально успешен всегда: отказ серверной инвалидации refresh-токена
// проглатывается держателем сессии.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/club-portal/internal/shell/response"
)

// Service описывает нужные обработчику операции: завершение сессии и сброс
// кеша корзины.
type Service interface {
	Logout(ctx context.Context)
}

// CartClearer сбрасывает локальный кеш корзины при выходе.
type CartClearer interface {
	Clear()
}

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log     *slog.Logger
	session Service
	cart    CartClearer
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessionSvc Service, cart CartClearer) *Handler {
	return &Handler{log: log, session: sessionSvc, cart: cart}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	h.session.Logout(r.Context())
	if h.cart != nil {
		h.cart.Clear()
	}

	log.Info("session terminated")
	render.JSON(w, r, response.OK())
}
