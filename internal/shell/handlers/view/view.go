// Package view реализует HTTP-обработчик резолвинга представления: по
// текущей сессии и запрошенной странице возвращает, что показывать.
package view

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/club-portal/internal/models"
	"github.com/magabrotheeeer/club-portal/internal/shell/response"
	"github.com/magabrotheeeer/club-portal/internal/viewrouter"
)

// Session описывает чтение состояния сессии.
type Session interface {
	User() *models.User
	IsBlocked() bool
}

// Handler обрабатывает запросы страниц портала.
type Handler struct {
	log     *slog.Logger
	session Session
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, session Session) *Handler {
	return &Handler{log: log, session: session}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.view"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	requested := viewrouter.PageHome
	if page := chi.URLParam(r, "page"); page != "" {
		requested = viewrouter.Page(page)
	}

	resolved := viewrouter.Resolve(h.session.User(), h.session.IsBlocked(), requested, r.URL)
	log.Info("view resolved",
		slog.String("requested", string(requested)),
		slog.String("page", string(resolved.Page)),
		slog.Bool("restricted", resolved.Restricted))

	render.JSON(w, r, response.OKWithData(resolved))
}
