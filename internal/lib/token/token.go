// Package token содержит вспомогательные функции инспекции JWT на стороне
// клиента. Подпись не проверяется: ключа у портала нет и быть не должно,
// решает всегда сервер.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expired сообщает, истёк ли exp токена к моменту now. Токен без exp или
// неразбираемый токен не считается истёкшим: его судьбу решит сервер.
func Expired(raw string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}

// Subject возвращает sub токена или пустую строку.
func Subject(raw string) string {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return ""
	}
	return claims.Subject
}
