// Package storage реализует локальное долговременное хранилище портала —
// аналог localStorage браузерного клиента. Значения лежат в одной таблице
// ключ-значение в SQLite; сервер остаётся источником истины для всех
// бизнес-данных, здесь живут только токены сессии и локальные настройки.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Ключи хранилища. Имена фиксированы контрактом клиента и не меняются.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
	KeyDebtConfig   = "configuracionDeuda"
)

// ErrNotFound возвращается при чтении отсутствующего ключа.
var ErrNotFound = errors.New("key not found")

// Store — хранилище ключ-значение поверх SQLite.
type Store struct {
	db *sql.DB
}

// New открывает (или создаёт) файл хранилища и таблицу local_storage.
func New(path string) (*Store, error) {
	const op = "storage.New"
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS local_storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{db: db}, nil
}

// Get читает значение ключа. Для отсутствующего ключа возвращает ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	const op = "storage.Get"
	var value string
	err := s.db.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return value, nil
}

// GetOr читает ключ, возвращая fallback при его отсутствии или ошибке.
func (s *Store) GetOr(key, fallback string) string {
	value, err := s.Get(key)
	if err != nil {
		return fallback
	}
	return value
}

// Set записывает значение ключа, перезаписывая существующее.
func (s *Store) Set(key, value string) error {
	const op = "storage.Set"
	_, err := s.db.Exec(
		`INSERT INTO local_storage (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет ключ. Отсутствие ключа не считается ошибкой.
func (s *Store) Delete(key string) error {
	const op = "storage.Delete"
	if _, err := s.db.Exec(`DELETE FROM local_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает файл хранилища.
func (s *Store) Close() error {
	return s.db.Close()
}

// AccessToken возвращает сохранённый access-токен или пустую строку.
func (s *Store) AccessToken() string {
	return s.GetOr(KeyAccessToken, "")
}

// RefreshToken возвращает сохранённый refresh-токен или пустую строку.
func (s *Store) RefreshToken() string {
	return s.GetOr(KeyRefreshToken, "")
}

// SetAccessToken сохраняет новый access-токен.
func (s *Store) SetAccessToken(token string) error {
	return s.Set(KeyAccessToken, token)
}

// ClearSession удаляет токены и снимок пользователя. Вызывается при logout
// и при невосстановимом отказе refresh-а.
func (s *Store) ClearSession() error {
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
		if err := s.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
