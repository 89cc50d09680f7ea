// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек портала
type Config struct {
	Env     string `yaml:"env"`
	API     `yaml:"api"`
	Shell   `yaml:"shell"`
	Store   `yaml:"store"`
	Bloqueo `yaml:"bloqueo"`
}

// API структура для подключения к REST API клуба
type API struct {
	BaseURL           string        `yaml:"base_url"`
	TimeoutAPI        time.Duration `yaml:"timeout" env-default:"10s"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env-default:"10"`
	Burst             int           `yaml:"burst" env-default:"20"`
}

// Shell структура для настройки локального HTTP-сервера портала
type Shell struct {
	AddressShell string        `yaml:"address"`
	TimeoutShell time.Duration `yaml:"timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// Store структура для настройки локального хранилища
type Store struct {
	Path string `yaml:"path"`
}

// Bloqueo политика блокировки аккаунта по просроченной задолженности.
// DiasBloqueo — значение по умолчанию; на рантайме переопределяется
// через ключ configuracionDeuda в локальном хранилище.
type Bloqueo struct {
	DiasBloqueo int `yaml:"dias_bloqueo" env-default:"30"`
}

// MustLoad функция для загрузки конфига, путь берется из переменной CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"API:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"  RequestsPerSecond: %.1f\n"+
			"  Burst: %d\n"+
			"Shell:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Store:\n"+
			"  Path: %s\n"+
			"Bloqueo:\n"+
			"  DiasBloqueo: %d\n",
		c.Env,
		c.BaseURL,
		c.TimeoutAPI,
		c.RequestsPerSecond,
		c.Burst,
		c.AddressShell,
		c.TimeoutShell,
		c.IdleTimeout,
		c.Path,
		c.DiasBloqueo,
	)
}
