package models

import "encoding/json"

// Product — товар из tienda/productos/.
type Product struct {
	ID          json.Number `json:"id"`
	Nombre      string      `json:"nombre"`
	Descripcion string      `json:"descripcion,omitempty"`
	Precio      Amount      `json:"precio"`
	Tipo        string      `json:"tipo,omitempty"`
	Stock       int         `json:"stock,omitempty"`
	Tallas      []string    `json:"tallas,omitempty"`
}

// CartItem — строка корзины. Инвариант: Cantidad всегда >= 1 после любого
// успешного обновления; значения меньше отклоняются до запроса.
type CartItem struct {
	ID             json.Number `json:"id"`
	ProductoID     json.Number `json:"producto_id"`
	Nombre         string      `json:"nombre,omitempty"`
	Cantidad       int         `json:"cantidad"`
	PrecioUnitario Amount      `json:"precio_unitario"`
	Talla          string      `json:"talla,omitempty"`
}

// Cart — корзина пользователя, какой её отдаёт tienda/carrito/.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Total считает сумму корзины: precio_unitario * cantidad по всем строкам.
func (c Cart) Total() float64 {
	var total float64
	for _, it := range c.Items {
		total += float64(it.PrecioUnitario) * float64(it.Cantidad)
	}
	return total
}

// Order — заказ из tienda/pedidos/.
type Order struct {
	ID        json.Number `json:"id"`
	Total     Amount      `json:"total"`
	Estado    string      `json:"estado"`
	CreatedAt string      `json:"created_at,omitempty"`
	Items     []CartItem  `json:"items,omitempty"`
}
