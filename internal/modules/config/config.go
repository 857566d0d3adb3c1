package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDirENV      = "CONFIG_DIR"
	defaultConfigFile = "values_local.yaml"
	defaultConfigDir  = "configs"
	dotenvPath        = "config/.env"
)

// Config — единая конфигурация процесса. Создаётся один раз и прокидывается через fx.
type Config struct {
	Service struct {
		Name      string `yaml:"name"`
		AdminAddr string `yaml:"admin_addr"` // ":8080"; пусто — HTTP не поднимаем
	} `yaml:"service"`

	Log struct {
		Level       string   `yaml:"level"` // debug|info|warn|error
		Development bool     `yaml:"development"`
		OutputPaths []string `yaml:"output_paths"`
	} `yaml:"log"`

	Upbit struct {
		RESTURL     string        `yaml:"rest_url"`
		WSURL       string        `yaml:"ws_url"`
		AccessKey   string        `yaml:"access_key"`
		SecretKey   string        `yaml:"secret_key"`
		HTTPTimeout time.Duration `yaml:"http_timeout"`
		RoundToTick bool          `yaml:"round_to_tick"`
		Retry       struct {
			MaxAttempts int           `yaml:"max_attempts"`
			Backoff     time.Duration `yaml:"backoff"`
		} `yaml:"retry"`
	} `yaml:"upbit"`

	Telegram struct {
		Token     string `yaml:"token"`
		ChatID    int64  `yaml:"chat_id"`
		ParseMode string `yaml:"parse_mode"`
	} `yaml:"telegram"`

	DB    string `yaml:"db_dsn"`
	Redis struct {
		Addr    string        `yaml:"addr"`
		LockTTL time.Duration `yaml:"lock_ttl"`
	} `yaml:"redis"`

	Tracing struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"tracing"`

	Runner struct {
		Interval     time.Duration `yaml:"interval"` // 0 — один проход
		NotifyOrders bool          `yaml:"notify_orders"`
		Jobs         []Job         `yaml:"jobs"`
	} `yaml:"runner"`

	Sampler struct {
		Window      time.Duration `yaml:"window"`
		ReadTimeout time.Duration `yaml:"read_timeout"`
		DialTimeout time.Duration `yaml:"dial_timeout"`
		TopN        int           `yaml:"top_n"`
		QuotePrefix string        `yaml:"quote_prefix"`
	} `yaml:"sampler"`
}

// Job — одна пара рынок/стратегия. Params перекрывают значения по умолчанию.
type Job struct {
	Market   string         `yaml:"market"`
	Strategy string         `yaml:"strategy"`
	Params   StrategyParams `yaml:"params"`
}

// StrategyParams — плоский набор параметров; каждая стратегия берёт свои.
type StrategyParams struct {
	Interval    string  `yaml:"interval"`
	Count       int     `yaml:"count"`
	Volume      float64 `yaml:"volume"`
	ShortWindow int     `yaml:"short_window"`
	LongWindow  int     `yaml:"long_window"`
	Window      int     `yaml:"window"`
	Period      int     `yaml:"period"`
	Oversold    float64 `yaml:"oversold"`
	Overbought  float64 `yaml:"overbought"`
	K           float64 `yaml:"k"`
	Fast        int     `yaml:"fast"`
	Slow        int     `yaml:"slow"`
	Signal      int     `yaml:"signal"`
	Spacing     float64 `yaml:"spacing"`
	Levels      int     `yaml:"levels"`
	BaseVolume  float64 `yaml:"base_volume"`
	MaxAttempts int     `yaml:"max_attempts"`
	Mode        string  `yaml:"mode"`
	BuyDiscount float64 `yaml:"buy_discount"`
	SellPremium float64 `yaml:"sell_premium"`
	CashFloor   float64 `yaml:"cash_floor"`
}

func defaults() Config {
	var c Config
	c.Service.Name = "upbit_bot"
	c.Service.AdminAddr = ":8080"
	c.Log.Level = "info"
	c.Log.OutputPaths = []string{"stdout"}
	c.Upbit.RESTURL = "https://api.upbit.com/v1"
	c.Upbit.WSURL = "wss://api.upbit.com/websocket/v1"
	c.Upbit.HTTPTimeout = 10 * time.Second
	c.Upbit.RoundToTick = true
	c.Upbit.Retry.MaxAttempts = 3
	c.Upbit.Retry.Backoff = 300 * time.Millisecond
	c.Telegram.ParseMode = "Markdown"
	c.Redis.LockTTL = time.Minute
	c.Tracing.Host = "localhost"
	c.Tracing.Port = 6831
	c.Sampler.Window = 10 * time.Second
	c.Sampler.ReadTimeout = 30 * time.Second
	c.Sampler.DialTimeout = 10 * time.Second
	c.Sampler.TopN = 10
	c.Sampler.QuotePrefix = "KRW-"
	return c
}

// NewConfig читает configs/<CONFIG_FILE>, затем config/.env и переменные окружения.
// Отсутствующий файл не ошибка — остаются значения по умолчанию.
func NewConfig() (*Config, error) {
	dir := os.Getenv(configDirENV)
	if dir == "" {
		dir = defaultConfigDir
	}
	name := os.Getenv(configFilePathENV)
	if name == "" {
		name = defaultConfigFile
	}
	return Load(filepath.Join(dir, name))
}

// Load — то же, что NewConfig, но с явным путём к yaml.
func Load(path string) (*Config, error) {
	cfg := defaults()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer func() {
			_ = file.Close()
		}()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, errors.Wrapf(err, "decode config file %s", path)
		}
	case os.IsNotExist(err):
		// только дефолты + env
	default:
		return nil, errors.Wrapf(err, "open config file %s", path)
	}

	// .env не обязателен, как и в исходных скриптах
	_ = godotenv.Load(dotenvPath)

	applyEnv(&cfg, newEnv())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// applyEnv — секреты и адреса из окружения важнее файла.
func applyEnv(cfg *Config, v *viper.Viper) {
	if s := v.GetString("UPBIT_ACCESS_KEY"); s != "" {
		cfg.Upbit.AccessKey = s
	}
	if s := v.GetString("UPBIT_SECRET_KEY"); s != "" {
		cfg.Upbit.SecretKey = s
	}
	if s := v.GetString("TELEGRAM_BOT_TOKEN"); s != "" {
		cfg.Telegram.Token = s
	}
	if v.IsSet("TELEGRAM_CHAT_ID") {
		if id := v.GetInt64("TELEGRAM_CHAT_ID"); id != 0 {
			cfg.Telegram.ChatID = id
		}
	}
	if s := v.GetString("DATABASE_DSN"); s != "" {
		cfg.DB = s
	}
	if s := v.GetString("REDIS_ADDR"); s != "" {
		cfg.Redis.Addr = s
	}
	if s := v.GetString("LOG_LEVEL"); s != "" {
		cfg.Log.Level = s
	}
	if d := v.GetDuration("SAMPLER_WINDOW"); d > 0 {
		cfg.Sampler.Window = d
	}
	if v.IsSet("RUNNER_INTERVAL") {
		cfg.Runner.Interval = v.GetDuration("RUNNER_INTERVAL")
	}
}

func (c *Config) Validate() error {
	if c.Upbit.RESTURL == "" {
		return fmt.Errorf("upbit.rest_url is required")
	}
	if c.Upbit.HTTPTimeout <= 0 {
		return fmt.Errorf("upbit.http_timeout must be > 0")
	}
	if c.Upbit.Retry.MaxAttempts < 1 {
		return fmt.Errorf("upbit.retry.max_attempts must be >= 1")
	}
	if c.Runner.Interval < 0 {
		return fmt.Errorf("runner.interval must be >= 0")
	}
	if c.Sampler.Window <= 0 {
		return fmt.Errorf("sampler.window must be > 0")
	}
	if c.Sampler.TopN <= 0 {
		return fmt.Errorf("sampler.top_n must be > 0")
	}
	for i, j := range c.Runner.Jobs {
		if strings.TrimSpace(j.Market) == "" {
			return fmt.Errorf("runner.jobs[%d]: market is required", i)
		}
		// неизвестная стратегия не ошибка конфигурации: роутер её пропустит с предупреждением
	}
	return nil
}

// HasCredentials — можно ли подписывать приватные запросы.
func (c *Config) HasCredentials() bool {
	return c.Upbit.AccessKey != "" && c.Upbit.SecretKey != ""
}
