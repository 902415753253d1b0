package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	// Дефолтный минимальный балл поиска клиентов.
	SearchMinScore float64

	// Пороговые годы приоритетов потерянных клиентов (персидский календарь).
	// Привязаны к эпохе исходных данных; двигаются только конфигом.
	PriorityHighYear   int
	PriorityMediumYear int
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "256"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	minScore, _ := strconv.ParseFloat(getenv("SEARCH_MIN_SCORE", "60"), 64)
	highYear, _ := strconv.Atoi(getenv("PRIORITY_HIGH_YEAR", "1402"))
	mediumYear, _ := strconv.Atoi(getenv("PRIORITY_MEDIUM_YEAR", "1401"))
	return Config{
		Host:               getenv("HOST", "127.0.0.1"),
		Port:               port,
		AllowOrigins:       origins,
		LogLevel:           getenv("LOG_LEVEL", "info"),
		MaxUploadMB:        mb,
		LogFile:            getenv("LOG_FILE", "logs/customer-insight.log"),
		SearchMinScore:     minScore,
		PriorityHighYear:   highYear,
		PriorityMediumYear: mediumYear,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
