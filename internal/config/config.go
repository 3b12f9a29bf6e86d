// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	Session                 `yaml:"session"`
	OTP                     `yaml:"otp"`
	Admin                   `yaml:"admin"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":4000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// Session структура для настройки cookie-сессий.
type Session struct {
	CookieName string        `yaml:"cookie_name" env-default:"ded.sid"`
	SessionTTL time.Duration `yaml:"session_ttl" env-default:"720h"`
}

// OTP структура для настройки одноразовых кодов входа по телефону.
// Демо-номер принимает фиксированный код и не требует отправки.
type OTP struct {
	OTPTTL    time.Duration `yaml:"otp_ttl" env-default:"5m"`
	DemoPhone string        `yaml:"demo_phone" env-default:"1234567890"`
	DemoCode  string        `yaml:"demo_code" env-default:"123456"`
}

// Admin структура для настройки выдачи роли администратора.
// AdminEmailDomain — суффикс email, дающий роль admin при регистрации.
type Admin struct {
	AdminEmailDomain string `yaml:"admin_email_domain" env-default:"@ded.com"`
	BootstrapEmail   string `yaml:"bootstrap_email" env-default:"admin@test.com"`
	BootstrapName    string `yaml:"bootstrap_name" env-default:"Super Admin"`
	BootstrapPhone   string `yaml:"bootstrap_phone" env-default:"0000000000"`
	BootstrapPass    string `yaml:"bootstrap_password" env:"ADMIN_BOOTSTRAP_PASSWORD"`
}

// MustLoad загружает конфиг по пути из переменной окружения CONFIG_PATH.
// Завершает процесс при отсутствии файла или ошибке парсинга.
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
