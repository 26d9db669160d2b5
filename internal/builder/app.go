// Package builder はCLI実行に必要な共通コンテキストの組み立てを担当します。
package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-webtoon-kit/internal/config"
	"github.com/shouni/go-webtoon-kit/pkg/workflow"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"google.golang.org/genai"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各実行関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config          // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、モデル名など）。
	Options    config.GenerateOptions  // Optionsは、コマンドラインから渡された実行時の設定です。
	Reader     remoteio.InputReader    // Readerは、プロンプトファイルや中間成果物の読み込みに使用する入力元です。
	Writer     remoteio.OutputWriter   // Writerは、生成された内容を保存するための出力先です。
	HTTPClient httpkit.ClientInterface // HTTPClientは外部APIとの通信に使う共通クライアント
	AIClient   gemini.GenerativeModel  // AIClientはGeminiの通信に使う共通クライアント
}

// NewAppContext は、提供された設定と共有コンポーネントを使用して、
// アプリケーションコンテキストを初期化して返すのだ。
func NewAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	timeout := cfg.Options.HTTPTimeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	httpClient := httpkit.New(timeout)

	aiClient, err := InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai client: %w", err)
	}

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	return &AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		Reader:     reader,
		Writer:     writer,
		HTTPClient: httpClient,
		AIClient:   aiClient,
	}, nil
}

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.2)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return aiClient, nil
}

// WorkflowConfig は CLI の設定値を pkg/workflow 用の Config に詰め替えるのだ。
func (a *AppContext) WorkflowConfig() workflow.Config {
	cfg := workflow.NewConfig(a.Config.GeminiAPIKey)
	cfg.GeminiModel = a.Config.GeminiModel
	cfg.ImageModel = a.Config.ImageModel
	if a.Options.AIModel != "" {
		cfg.GeminiModel = a.Options.AIModel
	}
	if a.Options.ImageModel != "" {
		cfg.ImageModel = a.Options.ImageModel
	}
	if a.Options.Style != "" {
		cfg.Style = a.Options.Style
	}
	if a.Options.NumPanels > 0 {
		cfg.NumPanels = a.Options.NumPanels
	}
	if a.Options.OutputDir != "" {
		cfg.OutputDir = a.Options.OutputDir
	}
	cfg.SkipImages = a.Options.SkipImages
	return cfg
}

// NewWorkflowBuilder は AppContext の依存を使ってワークフロービルダーを構築するのだ。
func (a *AppContext) NewWorkflowBuilder(ctx context.Context) (*workflow.Builder, error) {
	return workflow.New(ctx, workflow.BuilderArgs{
		Config:     a.WorkflowConfig(),
		HTTPClient: a.HTTPClient,
		Reader:     a.Reader,
		Writer:     a.Writer,
		AIClient:   a.AIClient,
	})
}
