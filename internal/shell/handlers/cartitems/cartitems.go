// Package cartitems реализует HTTP-обработчики корзины магазина поверх
// локального держателя корзины.
package cartitems

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
	"github.com/magabrotheeeer/club-portal/internal/models"
	"github.com/magabrotheeeer/club-portal/internal/shell/response"
)

// AddRequest — структура входных данных добавления товара.
type AddRequest struct {
	ProductoID string `json:"producto_id" validate:"required"`
	Cantidad   int    `json:"cantidad" validate:"required,gt=0"`
	Talla      string `json:"talla,omitempty"`
}

// UpdateRequest — структура входных данных смены количества.
type UpdateRequest struct {
	Cantidad int `json:"cantidad" validate:"required,gt=0"`
}

// Holder описывает операции держателя корзины.
type Holder interface {
	Fetch(ctx context.Context, force bool) bool
	Items() []models.CartItem
	Total() float64
	Add(ctx context.Context, productID string, cantidad int, talla string) bool
	UpdateQuantity(ctx context.Context, itemID string, cantidad int) bool
	Remove(ctx context.Context, itemID string) bool
}

// Handler обрабатывает HTTP-запросы корзины.
type Handler struct {
	log      *slog.Logger
	cart     Holder
	validate *validator.Validate
}

// cartBody — тело ответа с содержимым корзины.
type cartBody struct {
	Items []models.CartItem `json:"items"`
	Total float64           `json:"total"`
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, cart Holder) *Handler {
	return &Handler{
		log:      log,
		cart:     cart,
		validate: validator.New(),
	}
}

// List возвращает содержимое корзины, лениво подтягивая его с сервера.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cartitems.list"
	log := h.requestLog(r, op)

	if !h.cart.Fetch(r.Context(), r.URL.Query().Get("refresh") == "1") {
		log.Error("failed to fetch cart")
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudo cargar el carrito"))
		return
	}
	h.renderCart(w, r)
}

// Add кладёт товар в корзину.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cartitems.add"
	log := h.requestLog(r, op)

	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if !h.cart.Add(r.Context(), req.ProductoID, req.Cantidad, req.Talla) {
		log.Error("failed to add cart item", slog.String("producto_id", req.ProductoID))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudo agregar al carrito"))
		return
	}
	h.renderCart(w, r)
}

// Update меняет количество строки корзины.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cartitems.update"
	log := h.requestLog(r, op)

	itemID := chi.URLParam(r, "id")
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if !h.cart.UpdateQuantity(r.Context(), itemID, req.Cantidad) {
		log.Error("failed to update cart item", slog.String("item_id", itemID))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudo actualizar el carrito"))
		return
	}
	h.renderCart(w, r)
}

// Remove удаляет строку корзины.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cartitems.remove"
	log := h.requestLog(r, op)

	itemID := chi.URLParam(r, "id")
	if !h.cart.Remove(r.Context(), itemID) {
		log.Error("failed to remove cart item", slog.String("item_id", itemID))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudo quitar del carrito"))
		return
	}
	h.renderCart(w, r)
}

func (h *Handler) renderCart(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(cartBody{
		Items: h.cart.Items(),
		Total: h.cart.Total(),
	}))
}

func (h *Handler) requestLog(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
