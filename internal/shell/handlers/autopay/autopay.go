// Package autopay реализует HTTP-обработчик батч-автосписания: все
// ожидающие обязательства списываются с карты по умолчанию одним вызовом,
// без редиректа на шлюз.
package autopay

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
	"github.com/magabrotheeeer/club-portal/internal/models"
	"github.com/magabrotheeeer/club-portal/internal/shell/response"
)

// Flow описывает запуск автосписания.
type Flow interface {
	Autopay(ctx context.Context) (models.AutopayResult, error)
}

// Handler обрабатывает автосписание.
type Handler struct {
	log  *slog.Logger
	flow Flow
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, flow Flow) *Handler {
	return &Handler{log: log, flow: flow}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.autopay"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.flow.Autopay(r.Context())
	if err != nil {
		log.Error("autopay failed", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudo procesar el pago automatico"))
		return
	}

	log.Info("autopay finished", slog.Int("paid", res.Pagadas))
	render.JSON(w, r, response.OKWithData(res))
}
