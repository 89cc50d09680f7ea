package models

import "encoding/json"

// Athlete — атлет апода (atletas/mis-atletas/).
type Athlete struct {
	ID              json.Number `json:"id"`
	NombreCompleto  string      `json:"nombre_completo"`
	Rut             string      `json:"rut,omitempty"`
	FechaNacimiento string      `json:"fecha_nacimiento,omitempty"`
	Division        string      `json:"division,omitempty"`
	Nivel           string      `json:"nivel,omitempty"`
	Equipo          json.Number `json:"equipo,omitempty"`
}

// Schedule — расписание тренировок (horarios/mis-horarios/).
type Schedule struct {
	ID         json.Number `json:"id"`
	Dia        string      `json:"dia"`
	HoraInicio string      `json:"hora_inicio"`
	HoraFin    string      `json:"hora_fin"`
	Categoria  string      `json:"categoria,omitempty"`
	Lugar      string      `json:"lugar,omitempty"`
}

// Notification — уведомление пользователя (notificaciones/).
type Notification struct {
	ID        json.Number `json:"id"`
	Titulo    string      `json:"titulo"`
	Mensaje   string      `json:"mensaje"`
	Leida     bool        `json:"leida"`
	CreatedAt string      `json:"created_at,omitempty"`
}

// UnreadCount — счётчик непрочитанных уведомлений.
type UnreadCount struct {
	Count int `json:"count"`
}
