// Package store оборачивает эндпоинты магазина (tienda/): каталог, корзина,
// заказы и Webpay-операции заказа.
package store

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/models"
)

// Service — обёртка над tienda-эндпоинтами.
type Service struct {
	api *apiclient.Client
}

// New создаёт сервис магазина.
func New(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// Products возвращает каталог. Пустой tipo означает все товары.
func (s *Service) Products(ctx context.Context, tipo string) apiclient.Response[[]models.Product] {
	path := "tienda/productos/"
	if tipo != "" {
		path += "?tipo=" + tipo
	}
	return apiclient.As[[]models.Product](s.api.Get(ctx, path))
}

// Product возвращает карточку товара.
func (s *Service) Product(ctx context.Context, productID string) apiclient.Response[models.Product] {
	return apiclient.As[models.Product](s.api.Get(ctx, fmt.Sprintf("tienda/productos/%s/", productID)))
}

// Cart возвращает корзину текущего пользователя.
func (s *Service) Cart(ctx context.Context) apiclient.Response[models.Cart] {
	return apiclient.As[models.Cart](s.api.Get(ctx, "tienda/carrito/"))
}

// AddToCart добавляет товар в корзину.
func (s *Service) AddToCart(ctx context.Context, productID string, cantidad int, talla string) apiclient.Response[models.Cart] {
	body := map[string]any{
		"producto_id": productID,
		"cantidad":    cantidad,
	}
	if talla != "" {
		body["talla"] = talla
	}
	return apiclient.As[models.Cart](s.api.Post(ctx, "tienda/carrito/agregar/", body))
}

// UpdateCartItem меняет количество строки корзины.
func (s *Service) UpdateCartItem(ctx context.Context, itemID string, cantidad int) apiclient.Response[models.Cart] {
	return apiclient.As[models.Cart](s.api.Patch(ctx,
		fmt.Sprintf("tienda/carrito/actualizar/%s/", itemID),
		map[string]int{"cantidad": cantidad},
	))
}

// RemoveCartItem удаляет строку корзины.
func (s *Service) RemoveCartItem(ctx context.Context, itemID string) apiclient.Response[models.Cart] {
	return apiclient.As[models.Cart](s.api.Delete(ctx, fmt.Sprintf("tienda/carrito/eliminar/%s/", itemID)))
}

// CreateOrder создаёт заказ из текущей корзины.
func (s *Service) CreateOrder(ctx context.Context, payload map[string]any) apiclient.Response[models.Order] {
	return apiclient.As[models.Order](s.api.Post(ctx, "tienda/pedidos/", payload))
}

// Orders возвращает заказы пользователя.
func (s *Service) Orders(ctx context.Context) apiclient.Response[[]models.Order] {
	return apiclient.As[[]models.Order](s.api.Get(ctx, "tienda/pedidos/"))
}

// Order возвращает заказ по идентификатору.
func (s *Service) Order(ctx context.Context, orderID string) apiclient.Response[models.Order] {
	return apiclient.As[models.Order](s.api.Get(ctx, fmt.Sprintf("tienda/pedidos/%s/", orderID)))
}

// InitOrderWebpay начинает Webpay-транзакцию оплаты заказа.
func (s *Service) InitOrderWebpay(ctx context.Context, orderID string) apiclient.Response[models.WebpayInit] {
	return apiclient.As[models.WebpayInit](s.api.Post(ctx,
		fmt.Sprintf("tienda/pedidos/%s/webpay/init/", orderID), nil))
}

// ConfirmOrderWebpay подтверждает оплату заказа по token_ws.
func (s *Service) ConfirmOrderWebpay(ctx context.Context, token string) apiclient.Response[models.WebpayConfirmation] {
	return apiclient.As[models.WebpayConfirmation](s.api.Post(ctx,
		"tienda/pedidos/webpay/confirmar/", map[string]string{"token": token}))
}
