// Package models содержит доменную модель клиента портала клуба:
// пользователь сессии, задолженности, корзина, платежи и прочие сущности,
// приходящие из REST API. Структуры повторяют wire-формат бэкенда один в один.
package models

import "encoding/json"

// Роли пользователя, какими их отдаёт бэкенд.
const (
	RolePublic     = "public"
	RoleApoderado  = "apoderado"
	RoleAdmin      = "admin"
	RoleEntrenador = "entrenador"
)

// User представляет пользователя текущей сессии. Ключи JSON соответствуют
// сериализатору бэкенда (camelCase для составных полей).
type User struct {
	ID               json.Number `json:"id"`
	Email            string      `json:"email"`
	Name             string      `json:"name"`
	Role             string      `json:"role"`
	Phone            string      `json:"phone,omitempty"`
	Rut              string      `json:"rut,omitempty"`
	Direccion        string      `json:"direccion,omitempty"`
	FechaNacimiento  string      `json:"fechaNacimiento,omitempty"`
	Ocupacion        string      `json:"ocupacion,omitempty"`
	EmergencyContact string      `json:"emergencyContact,omitempty"`
	EmergencyPhone   string      `json:"emergencyPhone,omitempty"`
	CreatedAt        string      `json:"createdAt,omitempty"`
	CustomRole       string      `json:"customRole,omitempty"`
}

// IsAdmin сообщает, имеет ли пользователь роль администратора.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ProfileUpdate — частичное обновление профиля. Нулевые указатели означают
// "поле не трогаем", по аналогии с PATCH auth/me/.
type ProfileUpdate struct {
	Name             *string `json:"name,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Rut              *string `json:"rut,omitempty"`
	Direccion        *string `json:"direccion,omitempty"`
	FechaNacimiento  *string `json:"fechaNacimiento,omitempty"`
	Ocupacion        *string `json:"ocupacion,omitempty"`
	EmergencyContact *string `json:"emergencyContact,omitempty"`
	EmergencyPhone   *string `json:"emergencyPhone,omitempty"`
}

// Apply накладывает ненулевые поля обновления на копию пользователя.
func (p ProfileUpdate) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Rut != nil {
		u.Rut = *p.Rut
	}
	if p.Direccion != nil {
		u.Direccion = *p.Direccion
	}
	if p.FechaNacimiento != nil {
		u.FechaNacimiento = *p.FechaNacimiento
	}
	if p.Ocupacion != nil {
		u.Ocupacion = *p.Ocupacion
	}
	if p.EmergencyContact != nil {
		u.EmergencyContact = *p.EmergencyContact
	}
	if p.EmergencyPhone != nil {
		u.EmergencyPhone = *p.EmergencyPhone
	}
	return u
}
