package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host string `env:"HOST,required=true"`
	Port int    `env:"PORT,required=true"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,required=true"`

	ConnectionBufferSize int    `env:"CONNECTION_BUFFER_SIZE,required=true"`
	LimitMessages        *int   `env:"LIMIT_MESSAGES"`
	CharReplacement      string `env:"CHARACTER_REPLACEMENT,required=true"`

	SchedulerMaxAttempts  int           `env:"SCHEDULER_MAX_ATTEMPTS,required=true"`
	SchedulerRetryBackoff time.Duration `env:"SCHEDULER_RETRY_BACKOFF,required=true"`

	RestartInterval   time.Duration `env:"RESTART_INTERVAL,required=true"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,required=true"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
