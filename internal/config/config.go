package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"WeeklyArticles/internal/domain"
)

const (
	defaultTimezone = "UTC"
	// PathEnv names the YAML file read by Load when no explicit path is given.
	PathEnv            = "WEEKLY_ARTICLES_CONFIG"
	databaseDSNEnv     = "DATABASE_DSN"
	logLevelEnv        = "LOG_LEVEL"
	metricsTextfileEnv = "METRICS_TEXTFILE"
	positiveURLEnv     = "LEXICON_POSITIVE_URL"
	negativeURLEnv     = "LEXICON_NEGATIVE_URL"
	exportDirEnv       = "EXPORT_DIR"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"

	defaultPositiveURL = "https://raw.githubusercontent.com/AmeriFinn/NLP-Projects/main/LoughranMcDonald_Positive.csv"
	defaultNegativeURL = "https://raw.githubusercontent.com/AmeriFinn/NLP-Projects/main/LoughranMcDonald_Negative.csv"
	defaultUserAgent   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig       `yaml:"logging"`
	Schedule      SchedulerConfig     `yaml:"schedule"`
	Topics        []TopicConfig       `yaml:"topics"`
	TopicNames    map[string]string   `yaml:"topicNames"`
	AssetClasses  map[string][]string `yaml:"assetClasses"`
	Lexicon       LexiconConfig       `yaml:"lexicon"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Fetch         FetchConfig         `yaml:"fetch"`
	Summary       SummaryConfig       `yaml:"summary"`
	Export        ExportConfig        `yaml:"export"`
	Database      DatabaseConfig      `yaml:"database"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Notifications NotificationConfig  `yaml:"notifications"`
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines when the weekly run fires.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// TopicConfig is one ticker to report on.
type TopicConfig struct {
	Key        string `yaml:"key"`
	AssetClass string `yaml:"assetClass"`
}

// LexiconConfig points at the positive and negative finance term lists.
type LexiconConfig struct {
	PositiveURL string `yaml:"positiveUrl"`
	NegativeURL string `yaml:"negativeUrl"`
}

// ScoringConfig tunes the composite score. Zero values keep the defaults.
type ScoringConfig struct {
	LexicalWeight       float64  `yaml:"lexicalWeight"`
	TopicalWeight       float64  `yaml:"topicalWeight"`
	IdealScore          int      `yaml:"idealScore"`
	PreferredScore      int      `yaml:"preferredScore"`
	OtherScore          int      `yaml:"otherScore"`
	IdealPublishers     []string `yaml:"idealPublishers"`
	PreferredPublishers []string `yaml:"preferredPublishers"`
}

// FetchConfig controls the browsing session and how many articles are read.
type FetchConfig struct {
	UserAgent       string        `yaml:"userAgent"`
	Timeout         time.Duration `yaml:"timeout"`
	Delay           time.Duration `yaml:"delay"`
	TopN            int           `yaml:"topN"`
	FutureTolerance time.Duration `yaml:"futureTolerance"`
	IgnoreRobotsTxt *bool         `yaml:"ignoreRobotsTxt"`
}

// RobotsIgnored reports whether robots.txt is skipped; unset means true.
func (f FetchConfig) RobotsIgnored() bool {
	return f.IgnoreRobotsTxt == nil || *f.IgnoreRobotsTxt
}

// SummaryConfig sizes the corpus summary and the displayed table.
type SummaryConfig struct {
	CorpusSentences int `yaml:"corpusSentences"`
	DisplayRows     int `yaml:"displayRows"`
}

// ExportConfig enables the workbook sink when Dir is set.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// DatabaseConfig enables the Postgres archive when DSN is set.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// MetricsConfig enables the Prometheus textfile when Textfile is set.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig enables the Telegram digest when both values are set.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether a digest can be sent.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load reads .env and the YAML configuration (if present) and applies
// environment overrides. An empty path falls back to WEEKLY_ARTICLES_CONFIG.
func Load(path string) Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot read .env: %v", err)
	}

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

// TopicList converts the configured topics into domain values.
func (c Config) TopicList() ([]domain.Topic, error) {
	list := make([]domain.Topic, 0, len(c.Topics))
	for _, t := range c.Topics {
		class, err := domain.ParseAssetClass(t.AssetClass)
		if err != nil {
			return nil, fmt.Errorf("topic %s: %w", t.Key, err)
		}
		list = append(list, domain.Topic{Key: t.Key, AssetClass: class})
	}
	return list, nil
}

// PublisherOverrides converts the assetClasses section, keyed by canonical class.
func (c Config) PublisherOverrides() (map[domain.AssetClass][]string, error) {
	if len(c.AssetClasses) == 0 {
		return nil, nil
	}
	out := make(map[domain.AssetClass][]string, len(c.AssetClasses))
	for name, publishers := range c.AssetClasses {
		class, err := domain.ParseAssetClass(name)
		if err != nil {
			return nil, err
		}
		out[class] = append([]string(nil), publishers...)
	}
	return out, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(metricsTextfileEnv); v != "" {
		c.Metrics.Textfile = v
	}

	if v := os.Getenv(positiveURLEnv); v != "" {
		c.Lexicon.PositiveURL = v
	}

	if v := os.Getenv(negativeURLEnv); v != "" {
		c.Lexicon.NegativeURL = v
	}

	if v := os.Getenv(exportDirEnv); v != "" {
		c.Export.Dir = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Schedule.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Schedule.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Schedule.CronExpression != "" {
		base.Schedule.CronExpression = override.Schedule.CronExpression
	}
	if override.Schedule.Timezone != "" {
		base.Schedule.Timezone = override.Schedule.Timezone
	}

	if len(override.Topics) > 0 {
		base.Topics = override.Topics
	}
	if len(override.TopicNames) > 0 {
		base.TopicNames = override.TopicNames
	}
	if len(override.AssetClasses) > 0 {
		base.AssetClasses = override.AssetClasses
	}

	if override.Lexicon.PositiveURL != "" {
		base.Lexicon.PositiveURL = override.Lexicon.PositiveURL
	}
	if override.Lexicon.NegativeURL != "" {
		base.Lexicon.NegativeURL = override.Lexicon.NegativeURL
	}

	if override.Scoring.LexicalWeight != 0 {
		base.Scoring.LexicalWeight = override.Scoring.LexicalWeight
	}
	if override.Scoring.TopicalWeight != 0 {
		base.Scoring.TopicalWeight = override.Scoring.TopicalWeight
	}
	if override.Scoring.IdealScore != 0 {
		base.Scoring.IdealScore = override.Scoring.IdealScore
	}
	if override.Scoring.PreferredScore != 0 {
		base.Scoring.PreferredScore = override.Scoring.PreferredScore
	}
	if override.Scoring.OtherScore != 0 {
		base.Scoring.OtherScore = override.Scoring.OtherScore
	}
	if len(override.Scoring.IdealPublishers) > 0 {
		base.Scoring.IdealPublishers = override.Scoring.IdealPublishers
	}
	if len(override.Scoring.PreferredPublishers) > 0 {
		base.Scoring.PreferredPublishers = override.Scoring.PreferredPublishers
	}

	if override.Fetch.UserAgent != "" {
		base.Fetch.UserAgent = override.Fetch.UserAgent
	}
	if override.Fetch.Timeout != 0 {
		base.Fetch.Timeout = override.Fetch.Timeout
	}
	if override.Fetch.Delay != 0 {
		base.Fetch.Delay = override.Fetch.Delay
	}
	if override.Fetch.TopN != 0 {
		base.Fetch.TopN = override.Fetch.TopN
	}
	if override.Fetch.FutureTolerance != 0 {
		base.Fetch.FutureTolerance = override.Fetch.FutureTolerance
	}
	if override.Fetch.IgnoreRobotsTxt != nil {
		base.Fetch.IgnoreRobotsTxt = override.Fetch.IgnoreRobotsTxt
	}

	if override.Summary.CorpusSentences != 0 {
		base.Summary.CorpusSentences = override.Summary.CorpusSentences
	}
	if override.Summary.DisplayRows != 0 {
		base.Summary.DisplayRows = override.Summary.DisplayRows
	}

	if override.Export.Dir != "" {
		base.Export = override.Export
	}
	if override.Database.DSN != "" {
		base.Database = override.Database
	}
	if override.Metrics.Textfile != "" {
		base.Metrics = override.Metrics
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Schedule: SchedulerConfig{CronExpression: "0 18 * * 5", Timezone: defaultTimezone, location: tz},
		Topics: []TopicConfig{
			{Key: "^GSPC", AssetClass: "equity"},
			{Key: "BTC-USD", AssetClass: "crypto"},
			{Key: "YIELD", AssetClass: "fixed-income"},
		},
		Lexicon: LexiconConfig{PositiveURL: defaultPositiveURL, NegativeURL: defaultNegativeURL},
		Scoring: ScoringConfig{
			LexicalWeight:  20,
			TopicalWeight:  20,
			IdealScore:     50,
			PreferredScore: 25,
			OtherScore:     -25,
		},
		Fetch: FetchConfig{
			UserAgent:       defaultUserAgent,
			Timeout:         30 * time.Second,
			Delay:           2 * time.Second,
			TopN:            15,
			FutureTolerance: 24 * time.Hour,
		},
		Summary: SummaryConfig{CorpusSentences: 15, DisplayRows: 11},
	}
}
