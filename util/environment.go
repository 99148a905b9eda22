package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type tableServerEnvironment struct {
	WSPort        string
	RestPort      string
	PersistMethod string
	RedisHost     string
	RedisPort     string
	RedisPW       string
	RedisDB       string
	NatsURL       string
	AdminAddr     string
	RakeBps       string
	TimingsFile   string
	LogLevel      string
}

// Env is a helper object for accessing environment variables.
var Env = &tableServerEnvironment{
	WSPort:        "WS_PORT",
	RestPort:      "REST_PORT",
	PersistMethod: "PERSIST_METHOD",
	RedisHost:     "REDIS_HOST",
	RedisPort:     "REDIS_PORT",
	RedisPW:       "REDIS_PW",
	RedisDB:       "REDIS_DB",
	NatsURL:       "NATS_URL",
	AdminAddr:     "ADMIN_ADDR",
	RakeBps:       "RT_RAKE_BPS",
	TimingsFile:   "TIMINGS_FILE",
	LogLevel:      "LOG_LEVEL",
}

func (e *tableServerEnvironment) GetWSPort() int {
	portStr := os.Getenv(e.WSPort)
	if portStr == "" {
		return 8787
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid websocket port %s", portStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return portNum
}

func (e *tableServerEnvironment) GetRestPort() int {
	portStr := os.Getenv(e.RestPort)
	if portStr == "" {
		return 8080
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid rest port %s", portStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return portNum
}

func (e *tableServerEnvironment) GetPersistMethod() string {
	method := os.Getenv(e.PersistMethod)
	if method == "" {
		return "memory"
	}
	return strings.ToLower(method)
}

func (e *tableServerEnvironment) GetRedisHost() string {
	host := os.Getenv(e.RedisHost)
	if host == "" {
		msg := fmt.Sprintf("%s is not defined", e.RedisHost)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return host
}

func (e *tableServerEnvironment) GetRedisPort() int {
	portStr := os.Getenv(e.RedisPort)
	if portStr == "" {
		return 6379
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid Redis port %s", portStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return portNum
}

func (e *tableServerEnvironment) GetRedisPW() string {
	return os.Getenv(e.RedisPW)
}

func (e *tableServerEnvironment) GetRedisDB() int {
	dbStr := os.Getenv(e.RedisDB)
	if dbStr == "" {
		return 0
	}
	dbNum, err := strconv.Atoi(dbStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid Redis db %s", dbStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return dbNum
}

// GetNatsURL returns the NATS server url, or empty when event
// publishing is disabled.
func (e *tableServerEnvironment) GetNatsURL() string {
	return os.Getenv(e.NatsURL)
}

// GetAdminAddrs returns the lowercased admin allow-list. The addresses
// are self-declared by clients; see the trust boundary note.
func (e *tableServerEnvironment) GetAdminAddrs() []string {
	raw := strings.ToLower(os.Getenv(e.AdminAddr))
	parts := strings.Split(raw, ",")
	addrs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			addrs = append(addrs, p)
		}
	}
	return addrs
}

func (e *tableServerEnvironment) GetRakeBps() int64 {
	s := os.Getenv(e.RakeBps)
	if s == "" {
		return 0
	}
	bps, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		msg := fmt.Sprintf("Invalid integer [%s] for rake bps value", s)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return bps
}

func (e *tableServerEnvironment) GetTimingsFile() string {
	return os.Getenv(e.TimingsFile)
}

func (e *tableServerEnvironment) GetZeroLogLogLevel() zerolog.Level {
	s := os.Getenv(e.LogLevel)
	if s == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		msg := fmt.Sprintf("Invalid log level [%s]", s)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return level
}
