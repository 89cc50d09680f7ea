// Package cart реализует процессный держатель корзины магазина. Сервер
// остаётся источником истины: каждая мутация уходит в tienda/carrito/, а
// локально кешируется только последний успешный снимок.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
	"github.com/magabrotheeeer/club-portal/internal/models"
)

// StoreService описывает нужные держателю операции магазина.
type StoreService interface {
	Cart(ctx context.Context) apiclient.Response[models.Cart]
	AddToCart(ctx context.Context, productID string, cantidad int, talla string) apiclient.Response[models.Cart]
	UpdateCartItem(ctx context.Context, itemID string, cantidad int) apiclient.Response[models.Cart]
	RemoveCartItem(ctx context.Context, itemID string) apiclient.Response[models.Cart]
}

// Holder — держатель корзины. Ленивый: содержимое не тянется с сервера,
// пока корзина кому-то не понадобилась.
type Holder struct {
	mu      sync.RWMutex
	cart    models.Cart
	fetched bool

	store StoreService
	log   *slog.Logger
}

// New создаёт пустой держатель корзины.
func New(store StoreService, log *slog.Logger) *Holder {
	return &Holder{store: store, log: log}
}

// Items возвращает копию строк корзины из кеша.
func (h *Holder) Items() []models.CartItem {
	h.mu.RLock()
	defer h.mu.RUnlock()
	items := make([]models.CartItem, len(h.cart.Items))
	copy(items, h.cart.Items)
	return items
}

// Total считает сумму корзины по кешу.
func (h *Holder) Total() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cart.Total()
}

// Fetch подтягивает корзину с сервера, если она ещё не загружалась за время
// жизни сессии. force заставляет перечитать в любом случае.
func (h *Holder) Fetch(ctx context.Context, force bool) bool {
	const op = "cart.Fetch"

	h.mu.RLock()
	fetched := h.fetched
	h.mu.RUnlock()
	if fetched && !force {
		return true
	}

	res := h.store.Cart(ctx)
	if !res.Success {
		h.log.Warn("failed to fetch cart", slog.String("op", op), sl.Err(res.Error))
		return false
	}
	h.adopt(res.Data)
	return true
}

// Add кладёт товар в корзину и обновляет кеш снимком из ответа.
func (h *Holder) Add(ctx context.Context, productID string, cantidad int, talla string) bool {
	const op = "cart.Add"

	if cantidad < 1 {
		return false
	}
	res := h.store.AddToCart(ctx, productID, cantidad, talla)
	if !res.Success {
		h.log.Warn("failed to add cart item", slog.String("op", op), sl.Err(res.Error))
		return false
	}
	h.adopt(res.Data)
	return true
}

// UpdateQuantity меняет количество строки. Значения меньше единицы
// отклоняются до запроса: для удаления существует Remove.
func (h *Holder) UpdateQuantity(ctx context.Context, itemID string, cantidad int) bool {
	const op = "cart.UpdateQuantity"

	if cantidad < 1 {
		return false
	}
	res := h.store.UpdateCartItem(ctx, itemID, cantidad)
	if !res.Success {
		h.log.Warn("failed to update cart item", slog.String("op", op), sl.Err(res.Error))
		return false
	}
	h.adopt(res.Data)
	return true
}

// Remove удаляет строку корзины.
func (h *Holder) Remove(ctx context.Context, itemID string) bool {
	const op = "cart.Remove"

	res := h.store.RemoveCartItem(ctx, itemID)
	if !res.Success {
		h.log.Warn("failed to remove cart item", slog.String("op", op), sl.Err(res.Error))
		return false
	}
	h.adopt(res.Data)
	return true
}

// Clear сбрасывает кеш корзины. Вызывается при logout; серверная корзина
// при этом не трогается.
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cart = models.Cart{}
	h.fetched = false
}

func (h *Holder) adopt(cart models.Cart) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cart = cart
	h.fetched = true
}
