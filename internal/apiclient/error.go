// Package apiclient реализует HTTP-клиент к REST API клуба: нормализацию
// базового URL, подстановку bearer-токена, однократный тихий refresh при 401
// и приведение любых отказов к единому виду.
package apiclient

import "fmt"

// Статусы нормализованной ошибки за пределами HTTP-кодов.
const (
	// StatusNetworkError — запрос ушёл, ответа от сервера не было.
	StatusNetworkError = 0
	// StatusSetupError — запрос не удалось даже построить или отправить.
	StatusSetupError = -1
)

// Тексты по умолчанию, показываемые пользователю.
const (
	MsgNetworkError = "No se pudo conectar con el servidor. Verifica tu conexión."
	MsgServerError  = "Error del servidor"
	MsgUnknownError = "Error desconocido"
)

// APIError — нормализованная ошибка запроса: {status, message, errors, data}.
// Status 0 означает сетевой сбой, -1 — ошибку построения запроса, иначе это
// HTTP-код ответа сервера.
type APIError struct {
	Status  int            `json:"status"`
	Message string         `json:"message"`
	Errors  map[string]any `json:"errors,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}
