package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrInvalidEnv は環境変数の値を解釈できなかった場合に返されるエラーです。
var ErrInvalidEnv = errors.New("invalid environment variable")

func GetEnvDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt は未設定なら defaultValue を返します。
func GetEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue, fmt.Errorf("%w: %s=%q: %w", ErrInvalidEnv, key, raw, err)
	}
	return v, nil
}

// GetEnvDuration は "1s" や "250ms" の形式を受け付けます。
func GetEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue, fmt.Errorf("%w: %s=%q: %w", ErrInvalidEnv, key, raw, err)
	}
	return v, nil
}
