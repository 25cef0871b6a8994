package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"memescout/internal/secrets"
)

// Config holds all application configuration.
type Config struct {
	// Networks to scan, by GeckoTerminal network id (e.g. solana, base).
	Networks []string `yaml:"networks"`

	Feed struct {
		BaseURL string  `yaml:"base_url"`
		RPS     float64 `yaml:"rps"`
	} `yaml:"feed"`

	Solana struct {
		RPCURL string  `yaml:"rpc_url"`
		RPS    float64 `yaml:"rps"`
	} `yaml:"solana"`

	// Filters are the hard numeric bands a candidate must clear.
	Filters struct {
		LiqMinUSD   float64 `yaml:"liq_min_usd"`
		LiqMaxUSD   float64 `yaml:"liq_max_usd"`
		FDVMinUSD   float64 `yaml:"fdv_min_usd"`
		FDVMaxUSD   float64 `yaml:"fdv_max_usd"`
		VolLiqMin   float64 `yaml:"vol_liq_min"`
		Txns24Min   int     `yaml:"txns24_min"`
		Pchg1hMin   float64 `yaml:"pchg1h_min"`
		Pchg1hMax   float64 `yaml:"pchg1h_max"`
		MaxAgeHours float64 `yaml:"max_age_hours"`
	} `yaml:"filters"`

	Score struct {
		LiqTargetUSD     float64 `yaml:"liq_target_usd"`
		FDVTargetUSD     float64 `yaml:"fdv_target_usd"`
		VolLiqCap        float64 `yaml:"vol_liq_cap"`
		TxCap            int     `yaml:"tx_cap"`
		HealthyPchg1hMin float64 `yaml:"healthy_pchg1h_min"`
		HealthyPchg1hMax float64 `yaml:"healthy_pchg1h_max"`
		Min              float64 `yaml:"min"`
	} `yaml:"score"`

	// MintOpenGate is the stricter secondary gate that lets a candidate with
	// an open mint authority avoid an outright HIGH classification.
	MintOpenGate struct {
		FDVMinUSD float64 `yaml:"fdv_min_usd"`
		Txns24Min int     `yaml:"txns24_min"`
		VolLiqMin float64 `yaml:"vol_liq_min"`
	} `yaml:"mint_open_gate"`

	Waves struct {
		HotFragmentMin int       `yaml:"hot_fragment_min"`
		TopWaves       int       `yaml:"top_waves"`
		VolumeDivisor  float64   `yaml:"volume_divisor"`
		TxDivisor      float64   `yaml:"tx_divisor"`
		FDVBandsUSD    []float64 `yaml:"fdv_bands_usd"` // ascending edges; N edges -> N+1 buckets
	} `yaml:"waves"`

	Alerting struct {
		Mode            string  `yaml:"mode"` // log, telegram, discord (comma separated)
		DailyAlertLimit int     `yaml:"daily_alert_limit"`
		CooldownHours   float64 `yaml:"cooldown_hours"`
		TopN            int     `yaml:"top_n"`
		TZOffsetHours   int     `yaml:"tz_offset_hours"`
	} `yaml:"alerting"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`

	Discord struct {
		WebhookURL string `yaml:"webhook_url"`
	} `yaml:"discord"`

	Gemini struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`

	StatePath  string `yaml:"state_path"`
	ScanCron   string `yaml:"scan_cron"`
	HealthPort int    `yaml:"health_port"`
}

// Load builds config in layers: defaults first, then the YAML file (if it
// exists), then environment variable overrides. Later layers replace earlier
// ones only for keys they actually set, so an explicit zero survives.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("NETWORKS"); v != "" {
		c.Networks = parseCSV(v)
	}
	overrideString(&c.Feed.BaseURL, "GT_BASE_URL")
	overrideString(&c.Solana.RPCURL, "SOLANA_RPC_URL")

	overrideFloat(&c.Filters.LiqMinUSD, "LIQ_MIN")
	overrideFloat(&c.Filters.LiqMaxUSD, "LIQ_MAX")
	overrideFloat(&c.Filters.FDVMinUSD, "FDV_MIN")
	overrideFloat(&c.Filters.FDVMaxUSD, "FDV_MAX")
	overrideFloat(&c.Filters.VolLiqMin, "VOL_LIQ_MIN")
	overrideInt(&c.Filters.Txns24Min, "TXNS24_MIN")
	overrideFloat(&c.Filters.Pchg1hMin, "PCHG1H_MIN")
	overrideFloat(&c.Filters.Pchg1hMax, "PCHG1H_MAX")
	overrideFloat(&c.Filters.MaxAgeHours, "MAX_AGE_HOURS")

	overrideFloat(&c.Score.Min, "SCORE_MIN")

	overrideFloat(&c.MintOpenGate.FDVMinUSD, "MINT_OPEN_FDV_MIN")
	overrideInt(&c.MintOpenGate.Txns24Min, "MINT_OPEN_TXNS_MIN")
	overrideFloat(&c.MintOpenGate.VolLiqMin, "MINT_OPEN_VOL_LIQ_MIN")

	overrideString(&c.Alerting.Mode, "ALERT_MODE")
	overrideInt(&c.Alerting.DailyAlertLimit, "DAILY_ALERT_LIMIT")
	overrideFloat(&c.Alerting.CooldownHours, "COOLDOWN_HOURS")
	overrideInt(&c.Alerting.TopN, "TOP_N")
	overrideInt(&c.Alerting.TZOffsetHours, "REPORT_TZ_OFFSET_HOURS")

	overrideString(&c.StatePath, "STATE_PATH")
	overrideString(&c.ScanCron, "SCAN_CRON")
	overrideInt(&c.HealthPort, "HEALTH_PORT")

	c.Telegram.BotToken = secrets.GetOptional("TELEGRAM_BOT_TOKEN", c.Telegram.BotToken)
	c.Telegram.ChatID = secrets.GetOptional("TELEGRAM_CHAT_ID", c.Telegram.ChatID)
	c.Discord.WebhookURL = secrets.GetOptional("DISCORD_WEBHOOK_URL", c.Discord.WebhookURL)
	c.Gemini.APIKey = secrets.GetOptional("GEMINI_API_KEY", c.Gemini.APIKey)
}

func (c *Config) applyDefaults() {
	c.Networks = []string{"solana", "base"}
	c.Feed.BaseURL = "https://api.geckoterminal.com/api/v2"
	c.Feed.RPS = 2.0
	c.Solana.RPCURL = "https://api.mainnet-beta.solana.com"
	c.Solana.RPS = 4.0

	c.Filters.LiqMinUSD = 15000
	c.Filters.LiqMaxUSD = 80000
	c.Filters.FDVMinUSD = 200000
	c.Filters.FDVMaxUSD = 3000000
	c.Filters.VolLiqMin = 0.40
	c.Filters.Txns24Min = 120
	c.Filters.Pchg1hMin = 5
	c.Filters.Pchg1hMax = 120
	c.Filters.MaxAgeHours = 24

	c.Score.LiqTargetUSD = 50000
	c.Score.FDVTargetUSD = 1200000
	c.Score.VolLiqCap = 1.5
	c.Score.TxCap = 400
	c.Score.HealthyPchg1hMin = 5
	c.Score.HealthyPchg1hMax = 40
	c.Score.Min = 50

	c.MintOpenGate.FDVMinUSD = 500000
	c.MintOpenGate.Txns24Min = 300
	c.MintOpenGate.VolLiqMin = 1.0

	c.Waves.HotFragmentMin = 2
	c.Waves.TopWaves = 2
	c.Waves.VolumeDivisor = 100000
	c.Waves.TxDivisor = 200
	c.Waves.FDVBandsUSD = []float64{250000, 1000000, 3000000}

	c.Alerting.Mode = "log"
	c.Alerting.DailyAlertLimit = 3
	c.Alerting.CooldownHours = 24
	c.Alerting.TopN = 2

	c.Gemini.Model = "gemini-2.5-flash"

	c.StatePath = "data/memescout.db"
	c.ScanCron = "@every 90s"
	c.HealthPort = 8080
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Networks) == 0 {
		return fmt.Errorf("networks must not be empty")
	}
	if c.Filters.LiqMinUSD > c.Filters.LiqMaxUSD {
		return fmt.Errorf("filters: liq_min_usd (%v) exceeds liq_max_usd (%v)", c.Filters.LiqMinUSD, c.Filters.LiqMaxUSD)
	}
	if c.Filters.FDVMinUSD > c.Filters.FDVMaxUSD {
		return fmt.Errorf("filters: fdv_min_usd (%v) exceeds fdv_max_usd (%v)", c.Filters.FDVMinUSD, c.Filters.FDVMaxUSD)
	}
	if c.Filters.Pchg1hMin > c.Filters.Pchg1hMax {
		return fmt.Errorf("filters: pchg1h_min (%v) exceeds pchg1h_max (%v)", c.Filters.Pchg1hMin, c.Filters.Pchg1hMax)
	}
	if c.Alerting.TopN < 1 {
		return fmt.Errorf("alerting: top_n must be at least 1")
	}
	if c.Alerting.DailyAlertLimit < 1 {
		return fmt.Errorf("alerting: daily_alert_limit must be at least 1")
	}
	if c.Alerting.CooldownHours < 0 {
		return fmt.Errorf("alerting: cooldown_hours must not be negative")
	}
	for i := 1; i < len(c.Waves.FDVBandsUSD); i++ {
		if c.Waves.FDVBandsUSD[i] <= c.Waves.FDVBandsUSD[i-1] {
			return fmt.Errorf("waves: fdv_bands_usd must be strictly ascending")
		}
	}

	for _, mode := range parseCSV(c.Alerting.Mode) {
		switch mode {
		case "log":
		case "telegram":
			if c.Telegram.BotToken == "" || c.Telegram.ChatID == "" {
				return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required when telegram is in alert mode")
			}
		case "discord":
			if c.Discord.WebhookURL == "" {
				return fmt.Errorf("DISCORD_WEBHOOK_URL is required when discord is in alert mode")
			}
		default:
			return fmt.Errorf("invalid alert mode value: %s (valid values: log, telegram, discord)", mode)
		}
	}

	return nil
}

// Modes returns the configured alert modes.
func (c *Config) Modes() []string {
	return parseCSV(c.Alerting.Mode)
}

// Location returns the reporting timezone as a fixed offset from UTC. The
// daily quota resets on date boundaries in this zone.
func (c *Config) Location() *time.Location {
	if c.Alerting.TZOffsetHours == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.Alerting.TZOffsetHours), c.Alerting.TZOffsetHours*3600)
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overrideFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func parseCSV(s string) []string {
	var result []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
