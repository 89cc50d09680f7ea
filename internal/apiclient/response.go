package apiclient

import "encoding/json"

// Result — сырой результат запроса. Данные остаются неразобранными, чтобы
// каждый сервис декодировал их в свой тип через As.
type Result struct {
	Success bool
	Data    json.RawMessage
	Error   *APIError
}

// Response — типизированный конверт {success, data?, error?}, который сервисы
// отдают вызывающему коду. Вызывающие ветвятся по Success и никогда не
// получают паник на ожидаемых отказах.
type Response[T any] struct {
	Success bool
	Data    T
	Error   *APIError
}

// As декодирует данные результата в T. Ошибка декодирования превращается в
// отказ с StatusSetupError — сервер прислал то, чего контракт не обещал.
func As[T any](res Result) Response[T] {
	if !res.Success {
		return Response[T]{Error: res.Error}
	}
	var data T
	if len(res.Data) > 0 && string(res.Data) != "null" {
		if err := json.Unmarshal(res.Data, &data); err != nil {
			return Response[T]{Error: &APIError{Status: StatusSetupError, Message: err.Error()}}
		}
	}
	return Response[T]{Success: true, Data: data}
}

// Err строит отказ с единственной нормализованной ошибкой.
func Err[T any](status int, message string) Response[T] {
	return Response[T]{Error: &APIError{Status: status, Message: message}}
}
