package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort             = "8080"
	defaultLanguage         = "en"
	defaultReminderInterval = 5 * time.Minute
	minSecretKeyLength      = 32
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Port             string
	DBPath           string
	Location         *time.Location
	SecretKey        string
	DefaultLanguage  string
	LogLevel         string
	LogFile          string
	EventsBackend    string
	KafkaBrokers     []string
	KafkaTopic       string
	SQSQueueURL      string
	ReminderInterval time.Duration
}

// Load reads an optional .env file, then the process environment. Existing variables win.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	secretKey, err := ResolveSecretKey()
	if err != nil {
		return Config{}, err
	}
	port, err := ResolvePort()
	if err != nil {
		return Config{}, err
	}
	interval, err := resolveReminderInterval()
	if err != nil {
		return Config{}, err
	}
	location, err := resolveLocation(getEnv("TZ", "UTC"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		Port:             port,
		DBPath:           getEnv("DB_PATH", filepath.Join("data", "vitalcheck.db")),
		Location:         location,
		SecretKey:        secretKey,
		DefaultLanguage:  getEnv("DEFAULT_LANGUAGE", defaultLanguage),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
		EventsBackend:    strings.ToLower(getEnv("EVENTS_BACKEND", "log")),
		KafkaBrokers:     splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "vitalcheck.events"),
		SQSQueueURL:      getEnv("SQS_QUEUE_URL", ""),
		ReminderInterval: interval,
	}, nil
}

func ResolveSecretKey() (string, error) {
	secretKey := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secretKey == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secretKey)]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secretKey) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secretKey, nil
}

func ResolvePort() (string, error) {
	raw := getEnv("PORT", defaultPort)
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(port), nil
}

func resolveReminderInterval() (time.Duration, error) {
	raw := getEnv("REMINDER_INTERVAL", "")
	if raw == "" {
		return defaultReminderInterval, nil
	}
	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		return 0, fmt.Errorf("invalid REMINDER_INTERVAL %q", raw)
	}
	return interval, nil
}

func resolveLocation(name string) (*time.Location, error) {
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ %q: %w", name, err)
	}
	return location, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
