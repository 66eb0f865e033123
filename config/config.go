package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"lighthousebot/utils"
)

var (
	ErrMissingListenAddr     = errors.New("listen address is required")
	ErrMissingGameServerAddr = errors.New("game server address is required")
	ErrMissingBotName        = errors.New("bot name must not be empty")
	ErrInvalidWorkers        = errors.New("workers must be positive")
	ErrInvalidDuration       = errors.New("duration must be positive")
	ErrInvalidHistorySize    = errors.New("history size must not be negative")
	ErrInvalidLogLevel       = errors.New("unknown log level")
	// ErrInvalidValue は環境変数や設定ファイルの値を解釈できなかった場合に返されるエラーです。
	ErrInvalidValue = errors.New("invalid config value")
)

var cfgFile = "lighthousebot/config.json"

// Config はボットプロセスの起動設定です。
type Config struct {
	BotName        string
	ListenAddr     string
	GameServerAddr string
	// DebugAddr が空ならデバッグ用のHTTPサーバーは起動しません。
	DebugAddr      string
	LogLevel       string
	Verbose        bool
	JoinTimeout    time.Duration
	JoinRetryDelay time.Duration
	Workers        int
	ShutdownGrace  time.Duration
	HistorySize    int
}

var Default = Config{
	BotName:        "random-bot",
	LogLevel:       "info",
	JoinTimeout:    time.Second,
	JoinRetryDelay: time.Second,
	Workers:        10,
	ShutdownGrace:  10 * time.Second,
	HistorySize:    64,
}

// fileConfig は設定ファイルのJSON表現です。書かれていない項目は上書きしません。
type fileConfig struct {
	BotName        *string `json:"bot_name"`
	ListenAddr     *string `json:"listen_addr"`
	GameServerAddr *string `json:"game_server_addr"`
	DebugAddr      *string `json:"debug_addr"`
	LogLevel       *string `json:"log_level"`
	Verbose        *bool   `json:"verbose"`
	JoinTimeout    *string `json:"join_timeout"`
	JoinRetryDelay *string `json:"join_retry_delay"`
	Workers        *int    `json:"workers"`
	ShutdownGrace  *string `json:"shutdown_grace"`
	HistorySize    *int    `json:"history_size"`
}

// Load は既定値、設定ファイル、.env と環境変数、コマンドライン引数の順に設定を重ねます。
// 後から読んだものが優先されます。
func Load(args []string) (*Config, error) {
	flags := flag.NewFlagSet("lighthousebot", flag.ContinueOnError)
	var (
		botName    = flags.String("bn", Default.BotName, "bot name")
		listenAddr = flags.String("la", "", "listen address for the game service (required)")
		gameServer = flags.String("gs", "", "game server address (required)")
		debugAddr  = flags.String("debug-addr", "", "debug feed HTTP address (disabled when empty)")
		logLevel   = flags.String("log-level", Default.LogLevel, "log level: debug|info|warn|error")
		verbose    = flags.Bool("verbose", false, "log every message at debug level")
		configPath = flags.String("config", "", "path to a JSON config file")
	)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cfg := Default

	path := *configPath
	if path == "" {
		if found, err := xdg.SearchConfigFile(cfgFile); err == nil {
			path = found
		}
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env", "err", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bn":
			cfg.BotName = *botName
		case "la":
			cfg.ListenAddr = *listenAddr
		case "gs":
			cfg.GameServerAddr = *gameServer
		case "debug-addr":
			cfg.DebugAddr = *debugAddr
		case "log-level":
			cfg.LogLevel = *logLevel
		case "verbose":
			cfg.Verbose = *verbose
		}
	})
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	return &cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidValue, path, err)
	}

	setString(&c.BotName, fc.BotName)
	setString(&c.ListenAddr, fc.ListenAddr)
	setString(&c.GameServerAddr, fc.GameServerAddr)
	setString(&c.DebugAddr, fc.DebugAddr)
	setString(&c.LogLevel, fc.LogLevel)
	if fc.Verbose != nil {
		c.Verbose = *fc.Verbose
	}
	if fc.Workers != nil {
		c.Workers = *fc.Workers
	}
	if fc.HistorySize != nil {
		c.HistorySize = *fc.HistorySize
	}
	for _, d := range []struct {
		name string
		src  *string
		dst  *time.Duration
	}{
		{"join_timeout", fc.JoinTimeout, &c.JoinTimeout},
		{"join_retry_delay", fc.JoinRetryDelay, &c.JoinRetryDelay},
		{"shutdown_grace", fc.ShutdownGrace, &c.ShutdownGrace},
	} {
		if d.src == nil {
			continue
		}
		v, err := time.ParseDuration(*d.src)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidValue, d.name, err)
		}
		*d.dst = v
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.BotName = utils.GetEnvDefault("BOT_NAME", c.BotName)
	c.ListenAddr = utils.GetEnvDefault("LISTEN_ADDR", c.ListenAddr)
	c.GameServerAddr = utils.GetEnvDefault("GAME_SERVER_ADDR", c.GameServerAddr)
	c.DebugAddr = utils.GetEnvDefault("DEBUG_ADDR", c.DebugAddr)
	c.LogLevel = utils.GetEnvDefault("LOG_LEVEL", c.LogLevel)

	var errs []error
	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{"JOIN_TIMEOUT", &c.JoinTimeout},
		{"JOIN_RETRY_DELAY", &c.JoinRetryDelay},
		{"SHUTDOWN_GRACE", &c.ShutdownGrace},
	} {
		v, err := utils.GetEnvDuration(d.key, *d.dst)
		*d.dst = v
		errs = append(errs, err)
	}
	for _, n := range []struct {
		key string
		dst *int
	}{
		{"WORKERS", &c.Workers},
		{"HISTORY_SIZE", &c.HistorySize},
	} {
		v, err := utils.GetEnvInt(n.key, *n.dst)
		*n.dst = v
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return nil
}

// Validate は起動前に設定の整合性を確認します。
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return ErrMissingListenAddr
	}
	if c.GameServerAddr == "" {
		return ErrMissingGameServerAddr
	}
	if strings.TrimSpace(c.BotName) == "" {
		return ErrMissingBotName
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	if c.JoinTimeout <= 0 || c.JoinRetryDelay <= 0 || c.ShutdownGrace <= 0 {
		return fmt.Errorf("%w: join_timeout=%s join_retry_delay=%s shutdown_grace=%s",
			ErrInvalidDuration, c.JoinTimeout, c.JoinRetryDelay, c.ShutdownGrace)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidHistorySize, c.HistorySize)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel は LogLevel を slog のレベルに変換します。
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return level, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
