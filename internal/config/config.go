package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel       = "gemini-3-flash-preview"
	DefaultImageModel  = "gemini-3-pro-image-preview"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultPanelCount  = 4
	MaxPanelCount      = 12
	DefaultRateLimit   = 30 * time.Second
	DefaultStyle       = "webtoon"
	DefaultOutputDir   = "output"
	DefaultImageDir    = "output/images"
)

// Config はアプリケーション全体の環境設定（APIキーやクラウド設定）を保持する構造体なのだ。
type Config struct {
	ProjectID    string
	LocationID   string
	GeminiAPIKey string
	GeminiModel  string
	ImageModel   string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		ProjectID:    envutil.GetEnv("PROJECT_ID", ""),
		LocationID:   envutil.GetEnv("REGION", ""),
		GeminiAPIKey: envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:  envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		ImageModel:   envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ソース入力関連
	Prompt     string // --prompt
	PromptFile string // --prompt-file
	StoryFile  string // --story-file: 中間成果物（story.json / webtoon.json）の入力パス
	OutputDir  string // --output-dir

	// 生成内容の設定
	NumPanels int    // --panels
	Style     string // --style: manga / webtoon / comic
	Context   string // --context: ストーリー生成に渡す追加コンテキスト

	// AI挙動設定
	AIModel    string // --model: テキスト生成用のGeminiモデル
	ImageModel string // --image-model: 画像生成用のGeminiモデル
	SkipImages bool   // --skip-images: プロット確認用に画像生成を省略する

	// 実行制御
	HTTPTimeout time.Duration // --http-timeout
}
