package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alantheprice/outreach/pkg/utils"
)

// Providers understood by llm.NewGenerator.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Dispatch modes for the serve command.
const (
	DispatchInProcess = "inprocess"
	DispatchKafka     = "kafka"
)

const configDirName = ".outreach"

type Config struct {
	Provider           string  `json:"provider"`
	ProviderURL        string  `json:"provider_url"`
	Model              string  `json:"model"`
	Temperature        float64 `json:"temperature"`
	MaxTokens          int     `json:"max_tokens"`
	TimeoutSeconds     int     `json:"timeout_seconds"`
	ScoreThreshold     int     `json:"score_threshold"`
	RepairAttempts     int     `json:"repair_attempts"`
	RegenerateAttempts int     `json:"regenerate_attempts"`

	ScorerURL    string `json:"scorer_url"`
	DirectoryURL string `json:"directory_url"`

	Port     int    `json:"port"`
	Dispatch string `json:"dispatch"`

	// Async dispatch and multi-replica delivery
	KafkaBrokers []string `json:"kafka_brokers"`
	KafkaTopic   string   `json:"kafka_topic"`
	KafkaGroupID string   `json:"kafka_group_id"`
	RedisAddr    string   `json:"redis_addr"`
	RedisChannel string   `json:"redis_channel"`

	JSONLogs bool `json:"json_logs"`

	path string // file the config was loaded from, empty for defaults
}

// DefaultConfig returns a config with every default applied.
func DefaultConfig() *Config {
	return &Config{
		Provider:           ProviderOpenAI,
		Model:              "gpt-4o",
		Temperature:        1,
		MaxTokens:          4095,
		TimeoutSeconds:     45,
		ScoreThreshold:     70,
		RepairAttempts:     3,
		RegenerateAttempts: 3,
		Port:               8080,
		Dispatch:           DispatchInProcess,
		KafkaTopic:         "outreach-jobs",
		KafkaGroupID:       "outreach-workers",
		RedisChannel:       "outreach-events",
	}
}

// Timeout is the per-call timeout for generation and scoring round-trips.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Path returns the file the config was read from, if any.
func (c *Config) Path() string {
	return c.path
}

func getHomeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDirName, "config.json")
}

func getCurrentConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, configDirName, "config.json")
}

// Load reads the config. An explicit path must exist; otherwise the working
// directory and then the home directory are searched and defaults are used
// when neither has a config file. Environment overrides apply last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		for _, candidate := range []string{getCurrentConfigPath(), getHomeConfigPath()} {
			if candidate == "" {
				continue
			}
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return utils.NewConfigError("config file", err).WithResource(path)
	}
	// Fields missing from the file keep their defaults.
	if err := json.Unmarshal(data, cfg); err != nil {
		return utils.NewConfigError("config file", fmt.Errorf("parse %s: %w", path, err)).WithResource(path)
	}
	cfg.path = path
	return nil
}

// Save writes the config as indented JSON.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv("OUTREACH_" + key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := os.LookupEnv("OUTREACH_" + key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return utils.NewConfigError("OUTREACH_"+key, err)
		}
		*dst = n
		return nil
	}

	str("PROVIDER", &c.Provider)
	str("PROVIDER_URL", &c.ProviderURL)
	str("MODEL", &c.Model)
	str("SCORER_URL", &c.ScorerURL)
	str("DIRECTORY_URL", &c.DirectoryURL)
	str("DISPATCH", &c.Dispatch)
	str("KAFKA_TOPIC", &c.KafkaTopic)
	str("KAFKA_GROUP_ID", &c.KafkaGroupID)
	str("REDIS_ADDR", &c.RedisAddr)
	str("REDIS_CHANNEL", &c.RedisChannel)

	for key, dst := range map[string]*int{
		"MAX_TOKENS":          &c.MaxTokens,
		"TIMEOUT_SECONDS":     &c.TimeoutSeconds,
		"SCORE_THRESHOLD":     &c.ScoreThreshold,
		"REPAIR_ATTEMPTS":     &c.RepairAttempts,
		"REGENERATE_ATTEMPTS": &c.RegenerateAttempts,
		"PORT":                &c.Port,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}

	if v := strings.TrimSpace(os.Getenv("OUTREACH_TEMPERATURE")); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return utils.NewConfigError("OUTREACH_TEMPERATURE", err)
		}
		c.Temperature = t
	}

	if v := strings.TrimSpace(os.Getenv("OUTREACH_KAFKA_BROKERS")); v != "" {
		c.KafkaBrokers = nil
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				c.KafkaBrokers = append(c.KafkaBrokers, b)
			}
		}
	}

	if os.Getenv("OUTREACH_JSON_LOGS") == "1" {
		c.JSONLogs = true
	}
	return nil
}
