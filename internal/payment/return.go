// Package payment реализует поток платежей Webpay: создание транзакции,
// редирект на шлюз, распознавание возврата и подтверждение на бэкенде.
package payment

import "net/url"

// ReturnKind различает три пути возврата со шлюза. Их имена — часть
// контракта с бэкендом, который регистрирует return_url при init.
type ReturnKind string

const (
	// ReturnMatricula — возврат оплаты матрикулы.
	ReturnMatricula ReturnKind = "matricula"
	// ReturnStore — возврат оплаты заказа магазина.
	ReturnStore ReturnKind = "tienda"
	// ReturnOnline — возврат онлайн-оплаты обязательства.
	ReturnOnline ReturnKind = "online"
)

// Пути возврата, фиксированные контрактом.
const (
	PathReturnMatricula = "/webpay-retorno"
	PathReturnStore     = "/tienda-webpay-retorno"
	PathReturnOnline    = "/pagos-online-retorno"
)

// Return — распознанный возврат со шлюза. Пустой Token означает, что
// пользователь прервал оплату на стороне Webpay.
type Return struct {
	Kind  ReturnKind
	Token string
}

// DetectReturn распознаёт возврат со шлюза по URL. Путь магазина содержит
// "webpay-retorno" как подстроку, поэтому проверяется раньше общего пути
// матрикулы.
func DetectReturn(u *url.URL) (Return, bool) {
	token := u.Query().Get("token_ws")
	switch u.Path {
	case PathReturnStore:
		return Return{Kind: ReturnStore, Token: token}, true
	case PathReturnOnline:
		return Return{Kind: ReturnOnline, Token: token}, true
	case PathReturnMatricula:
		return Return{Kind: ReturnMatricula, Token: token}, true
	}
	return Return{}, false
}

// StripToken убирает параметры шлюза из URL, возвращая адрес, пригодный для
// показа пользователю. Идемпотентна: URL без параметров остаётся как есть.
func StripToken(u *url.URL) string {
	q := u.Query()
	q.Del("token_ws")
	q.Del("TBK_TOKEN")
	q.Del("TBK_ORDEN_COMPRA")
	q.Del("TBK_ID_SESION")
	clean := *u
	clean.RawQuery = q.Encode()
	return clean.String()
}
