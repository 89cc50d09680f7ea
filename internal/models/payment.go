package models

import "encoding/json"

// Debt — элемент ответа pagos/deudas/mis-deudas/. Источником может быть
// мензуальность или обязательство онлайн-платежа, формат у обоих общий.
type Debt struct {
	Fuente           string      `json:"fuente"`
	ID               json.Number `json:"id"`
	Atleta           json.Number `json:"atleta"`
	AtletaNombre     string      `json:"atleta_nombre"`
	MontoTotal       Amount      `json:"monto_total"`
	FechaVencimiento string      `json:"fecha_vencimiento"`
	Estado           string      `json:"estado"`
	Concepto         string      `json:"concepto"`
}

// Matricula — запись о матрикуле, возвращаемая pagos/matriculas/.
type Matricula struct {
	ID          json.Number `json:"id"`
	MontoTotal  Amount      `json:"monto_total"`
	MontoPagado Amount      `json:"monto_pagado"`
	EstadoPago  string      `json:"estado_pago"`
	Division    string      `json:"division"`
	Nivel       string      `json:"nivel"`
}

// MatriculaPeriod — период матрикуляции (pagos/periodos-matricula/).
type MatriculaPeriod struct {
	ID             json.Number `json:"id"`
	Nombre         string      `json:"nombre"`
	Estado         string      `json:"estado"`
	Monto          Amount      `json:"monto"`
	CostoMatricula Amount      `json:"costo_matricula"`
}

// Obligation — обязательство онлайн-платежа (pagos/online-obligaciones/).
type Obligation struct {
	ID               json.Number `json:"id"`
	Concepto         string      `json:"concepto,omitempty"`
	Monto            Amount      `json:"monto"`
	Estado           string      `json:"estado"`
	MetodoPago       string      `json:"metodo_pago,omitempty"`
	FechaVencimiento string      `json:"fecha_vencimiento,omitempty"`
	FechaPago        string      `json:"fecha_pago,omitempty"`
}

// Card — сохранённая (токенизированная) карта пользователя.
type Card struct {
	ID             json.Number `json:"id"`
	Alias          string      `json:"alias,omitempty"`
	UltimosDigitos string      `json:"ultimos_digitos,omitempty"`
	IsDefault      bool        `json:"is_default"`
	AutopayEnabled bool        `json:"autopay_enabled"`
}

// WebpayInit — ответ любого webpay/init/ эндпоинта: адрес шлюза и токен,
// которые уходят в скрытую форму token_ws.
type WebpayInit struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// WebpayConfirmation — ответ подтверждения платежа. Поле User присутствует
// только у матрикульного подтверждения и несёт обновлённый снимок
// пользователя (роль может смениться public -> apoderado).
type WebpayConfirmation struct {
	Status    string     `json:"status"`
	Detail    string     `json:"detail,omitempty"`
	User      *User      `json:"user,omitempty"`
	Matricula *Matricula `json:"matricula,omitempty"`
}

// AutopayResult — итог батч-автосписания обязательств.
type AutopayResult struct {
	Pagadas      int          `json:"pagadas"`
	Obligaciones []Obligation `json:"obligaciones"`
}
