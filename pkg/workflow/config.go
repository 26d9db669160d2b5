package workflow

import (
	"time"
)

// デフォルト値の定義なのだ
const (
	DefaultGeminiModel  = "gemini-3-flash-preview"
	DefaultImageModel   = "gemini-3-pro-image-preview"
	DefaultNumPanels    = 4
	MaxNumPanels        = 12
	DefaultRateInterval = 30 * time.Second
	DefaultStyle        = "webtoon"
	DefaultOutputDir    = "output"
)

// Config は Go Webtoon Kit の各 Runner を動作させるための基本設定なのだ。
type Config struct {
	// --- AI Model Settings ---
	GeminiAPIKey string
	GeminiModel  string
	ImageModel   string

	// --- Generation Settings ---
	Style        string
	NumPanels    int
	RateInterval time.Duration
	SkipImages   bool

	// --- Storage & Output Settings ---
	OutputDir string

	// --- Timeout & Retries ---
	RequestTimeout time.Duration
}

// NewConfig はデフォルト値で初期化された Config を作成し、必要最小限の値をセットして返すのだ。
func NewConfig(apiKey string) Config {
	cfg := DefaultConfig()
	cfg.GeminiAPIKey = apiKey
	return cfg
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数なのだ。
func DefaultConfig() Config {
	return Config{
		GeminiModel:    DefaultGeminiModel,
		ImageModel:     DefaultImageModel,
		Style:          DefaultStyle,
		NumPanels:      DefaultNumPanels,
		RateInterval:   DefaultRateInterval,
		OutputDir:      DefaultOutputDir,
		RequestTimeout: 5 * time.Minute,
	}
}

// normalized は範囲外の設定値を安全側に丸めた Config を返すのだ。
func (c Config) normalized() Config {
	if c.GeminiModel == "" {
		c.GeminiModel = DefaultGeminiModel
	}
	if c.ImageModel == "" {
		c.ImageModel = DefaultImageModel
	}
	if c.Style == "" {
		c.Style = DefaultStyle
	}
	if c.NumPanels <= 0 {
		c.NumPanels = DefaultNumPanels
	}
	if c.NumPanels > MaxNumPanels {
		c.NumPanels = MaxNumPanels
	}
	if c.RateInterval <= 0 {
		c.RateInterval = DefaultRateInterval
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	return c
}
