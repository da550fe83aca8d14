package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

type SummaryPrompts struct {
	// Interactions is the instruction template; a single %s receives the
	// newline-separated interaction lines.
	Interactions string `toml:"interactions"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Project  string `toml:"project"`
	Location string `toml:"location"`
}

type StringConfig struct {
	BaseURL        string  `toml:"base_url" validate:"required,url"`
	Species        int     `toml:"species" validate:"gt=0"`
	CallerIdentity string  `toml:"caller_identity" validate:"required"`
	TimeoutSeconds int     `toml:"timeout_seconds" validate:"gt=0"`
	RatePerSecond  float64 `toml:"rate_per_second" validate:"gt=0"`
	// BreakerFailures consecutive failures open the circuit for BreakerCooldownSeconds.
	BreakerFailures        uint32 `toml:"breaker_failures" validate:"gt=0"`
	BreakerCooldownSeconds int    `toml:"breaker_cooldown_seconds" validate:"gt=0"`
}

func (s StringConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func (s StringConfig) BreakerCooldown() time.Duration {
	return time.Duration(s.BreakerCooldownSeconds) * time.Second
}

type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds" validate:"gt=0"`
	// MaxEntries caps the cache with LRU eviction. 0 keeps every entry for
	// the whole TTL.
	MaxEntries int `toml:"max_entries" validate:"gte=0"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type RenderConfig struct {
	Palette             []string `toml:"palette" validate:"min=1,dive,hexcolor"`
	Height              string   `toml:"height"`
	Background          string   `toml:"background"`
	EdgeColor           string   `toml:"edge_color"`
	NodeSize            int      `toml:"node_size" validate:"gt=0"`
	StabilizationRounds int      `toml:"stabilization_iterations" validate:"gt=0"`
	VisNetworkScriptURL string   `toml:"vis_network_script_url"`
}

type PipelineConfig struct {
	// DefaultThreshold is a pointer so an explicit 0 survives ApplyDefaults.
	DefaultThreshold *float64 `toml:"default_threshold" validate:"omitempty,gte=0,lte=1"`
	ModuleAlgorithm  string   `toml:"module_algorithm" validate:"omitempty,oneof=label_propagation components"`
}

const fallbackThreshold = 0.7

// Threshold returns the configured default threshold.
func (p PipelineConfig) Threshold() float64 {
	if p.DefaultThreshold == nil {
		return fallbackThreshold
	}
	return *p.DefaultThreshold
}

type MemgraphConfig struct {
	Enabled  bool   `toml:"enabled"`
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type LoggerConfig struct {
	Level       string `toml:"level"`
	Format      string `toml:"format" validate:"omitempty,oneof=json console"`
	ServiceName string `toml:"service_name"`
	AddSource   bool   `toml:"add_source"`
	LogFile     string `toml:"log_file"`
	MaxSize     int    `toml:"max_size"`
	MaxBackups  int    `toml:"max_backups"`
	MaxAge      int    `toml:"max_age"`
	Compress    bool   `toml:"compress"`
}

type Config struct {
	LLM      LLMConfig      `toml:"llm"`
	String   StringConfig   `toml:"string"`
	Cache    CacheConfig    `toml:"cache"`
	Render   RenderConfig   `toml:"render"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Summary  SummaryPrompts `toml:"summary"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	Server   ServerConfig   `toml:"server"`
	Logger   LoggerConfig   `toml:"logger"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads path if it exists, applies environment overrides and
// defaults, and validates the result. A missing file is not an error.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		c.LLM.Project = v
	}
	if v := os.Getenv("STRING_BASE_URL"); v != "" {
		c.String.BaseURL = v
	}
	if v := os.Getenv("STRING_CALLER_IDENTITY"); v != "" {
		c.String.CallerIdentity = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
	if v := os.Getenv("MEMGRAPH_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Memgraph.Enabled = b
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
}

var defaultPalette = []string{
	"#FFB3BA", "#FFDFBA", "#FFFFBA",
	"#BAFFC9", "#BAE1FF", "#E2BAFF", "#FFC3E1",
}

// ApplyDefaults fills every zero value with the built-in default.
func (c *Config) ApplyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-2.5-flash"
	}
	if c.LLM.Location == "" {
		c.LLM.Location = "us-central1"
	}

	if c.String.BaseURL == "" {
		c.String.BaseURL = "https://string-db.org"
	}
	if c.String.Species == 0 {
		c.String.Species = 9606
	}
	if c.String.CallerIdentity == "" {
		c.String.CallerIdentity = "genepath"
	}
	if c.String.TimeoutSeconds == 0 {
		c.String.TimeoutSeconds = 30
	}
	if c.String.RatePerSecond == 0 {
		c.String.RatePerSecond = 1
	}
	if c.String.BreakerFailures == 0 {
		c.String.BreakerFailures = 5
	}
	if c.String.BreakerCooldownSeconds == 0 {
		c.String.BreakerCooldownSeconds = 60
	}

	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 3600
	}

	if len(c.Render.Palette) == 0 {
		c.Render.Palette = append([]string(nil), defaultPalette...)
	}
	if c.Render.Height == "" {
		c.Render.Height = "700px"
	}
	if c.Render.Background == "" {
		c.Render.Background = "#f8f9fa"
	}
	if c.Render.EdgeColor == "" {
		c.Render.EdgeColor = "#9e9e9e"
	}
	if c.Render.NodeSize == 0 {
		c.Render.NodeSize = 24
	}
	if c.Render.StabilizationRounds == 0 {
		c.Render.StabilizationRounds = 120
	}
	if c.Render.VisNetworkScriptURL == "" {
		c.Render.VisNetworkScriptURL = "https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"
	}

	if c.Pipeline.DefaultThreshold == nil {
		t := fallbackThreshold
		c.Pipeline.DefaultThreshold = &t
	}
	if c.Pipeline.ModuleAlgorithm == "" {
		c.Pipeline.ModuleAlgorithm = "label_propagation"
	}

	if c.Memgraph.URI == "" {
		c.Memgraph.URI = "bolt://localhost:7687"
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}

	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "console"
	}
	if c.Logger.ServiceName == "" {
		c.Logger.ServiceName = "genepath"
	}
}

// Default returns a configuration built purely from defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
