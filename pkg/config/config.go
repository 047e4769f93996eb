package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Gateway struct {
		URL            string        `yaml:"url"`
		Token          string        `yaml:"token"`
		BalanceType    string        `yaml:"balance_type"` // PRACTICE or REAL
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"gateway"`
	Trading struct {
		DefaultAssets       []string      `yaml:"default_assets"`
		Timeframe           int           `yaml:"timeframe"`       // seconds per candle
		CandleCount         int           `yaml:"candle_count"`    // bars per analysis
		ExpirationTime      int           `yaml:"expiration_time"` // minutes
		MaxBankPercentage   float64       `yaml:"max_bank_percentage"`
		DailyStopLoss       float64       `yaml:"daily_stop_loss"`
		DailyStopGain       float64       `yaml:"daily_stop_gain"`
		StrengthThreshold   float64       `yaml:"strength_threshold"`
		MinTradeAmount      float64       `yaml:"min_trade_amount"`
		ResultsPollInterval time.Duration `yaml:"results_poll_interval"`
	} `yaml:"trading"`
	Indicators struct {
		RSIPeriod        int     `yaml:"rsi_period"`
		RSIOverbought    float64 `yaml:"rsi_overbought"`
		RSIOversold      float64 `yaml:"rsi_oversold"`
		MACDFast         int     `yaml:"macd_fast"`
		MACDSlow         int     `yaml:"macd_slow"`
		MACDSignal       int     `yaml:"macd_signal"`
		VolumeWindow     int     `yaml:"volume_window"`
		VolumeSpikeRatio float64 `yaml:"volume_spike_ratio"`
	} `yaml:"indicators"`
	Journal struct {
		Backend string `yaml:"backend"` // kafka, clickhouse, or none
		Kafka   struct {
			Brokers      []string `yaml:"brokers"`
			Topic        string   `yaml:"topic"`
			RequiredAcks int      `yaml:"required_acks"`
			Compression  string   `yaml:"compression"`
			Producer     struct {
				MaxAttempts  int           `yaml:"max_attempts"`
				Linger       time.Duration `yaml:"linger"`
				BatchBytes   int           `yaml:"batch_bytes"`
				BatchSize    int           `yaml:"batch_size"`
				WriteTimeout time.Duration `yaml:"write_timeout"`
				ReadTimeout  time.Duration `yaml:"read_timeout"`
				Async        bool          `yaml:"async"`
			} `yaml:"producer"`
		} `yaml:"kafka"`
		ClickHouse struct {
			Host             string        `yaml:"host"`
			Port             int           `yaml:"port"`
			Database         string        `yaml:"database"`
			User             string        `yaml:"user"`
			Password         string        `yaml:"password"`
			UseHTTP          bool          `yaml:"use_http"`
			AsyncInsert      bool          `yaml:"async_insert"`
			WaitForAsync     bool          `yaml:"wait_for_async_insert"`
			DialTimeout      time.Duration `yaml:"dial_timeout"`
			ReadTimeout      time.Duration `yaml:"read_timeout"`
			WriteTimeout     time.Duration `yaml:"write_timeout"`
			MaxExecutionTime time.Duration `yaml:"max_execution_time"`
		} `yaml:"clickhouse"`
	} `yaml:"journal"`
	Cache struct {
		Enabled bool          `yaml:"enabled"`
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("GATEWAY_URL"); v != "" {
		c.Gateway.URL = v
	}
	if v := os.Getenv("GATEWAY_TOKEN"); v != "" {
		c.Gateway.Token = v
	}
	if v := os.Getenv("ASSETS"); v != "" {
		c.Trading.DefaultAssets = strings.Split(v, ",")
	}
	if v := os.Getenv("JOURNAL_BACKEND"); v != "" {
		c.Journal.Backend = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Journal.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Journal.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Gateway.BalanceType == "" {
		c.Gateway.BalanceType = "PRACTICE"
	}
	if c.Trading.Timeframe == 0 {
		c.Trading.Timeframe = 60
	}
	if c.Trading.CandleCount == 0 {
		c.Trading.CandleCount = 100
	}
	if c.Trading.ExpirationTime == 0 {
		c.Trading.ExpirationTime = 1
	}
	if c.Trading.MaxBankPercentage == 0 {
		c.Trading.MaxBankPercentage = 0.20
	}
	if c.Trading.DailyStopLoss == 0 {
		c.Trading.DailyStopLoss = 0.40
	}
	if c.Trading.DailyStopGain == 0 {
		c.Trading.DailyStopGain = 0.50
	}
	if c.Trading.StrengthThreshold == 0 {
		c.Trading.StrengthThreshold = 60
	}
	if c.Trading.MinTradeAmount == 0 {
		c.Trading.MinTradeAmount = 1
	}
	if c.Trading.ResultsPollInterval == 0 {
		c.Trading.ResultsPollInterval = 30 * time.Second
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.RSIOverbought == 0 {
		c.Indicators.RSIOverbought = 70
	}
	if c.Indicators.RSIOversold == 0 {
		c.Indicators.RSIOversold = 30
	}
	if c.Indicators.MACDFast == 0 {
		c.Indicators.MACDFast = 12
	}
	if c.Indicators.MACDSlow == 0 {
		c.Indicators.MACDSlow = 26
	}
	if c.Indicators.MACDSignal == 0 {
		c.Indicators.MACDSignal = 9
	}
	if c.Indicators.VolumeWindow == 0 {
		c.Indicators.VolumeWindow = 10
	}
	if c.Indicators.VolumeSpikeRatio == 0 {
		c.Indicators.VolumeSpikeRatio = 1.5
	}
	if c.Journal.Backend == "" {
		c.Journal.Backend = "none"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Gateway.URL == "" {
		return fmt.Errorf("gateway.url is required")
	}
	switch c.Journal.Backend {
	case "kafka", "clickhouse", "none":
	default:
		return fmt.Errorf("journal.backend must be 'kafka', 'clickhouse' or 'none', got '%s'", c.Journal.Backend)
	}
	switch c.Gateway.BalanceType {
	case "PRACTICE", "REAL":
	default:
		return fmt.Errorf("gateway.balance_type must be 'PRACTICE' or 'REAL', got '%s'", c.Gateway.BalanceType)
	}
	if c.Trading.MaxBankPercentage < 0 || c.Trading.MaxBankPercentage > 1 {
		return fmt.Errorf("trading.max_bank_percentage must be within [0, 1]")
	}
	if c.Trading.DailyStopLoss < 0 || c.Trading.DailyStopLoss > 1 {
		return fmt.Errorf("trading.daily_stop_loss must be within [0, 1]")
	}
	if c.Trading.DailyStopGain < 0 {
		return fmt.Errorf("trading.daily_stop_gain must not be negative")
	}
	return nil
}
