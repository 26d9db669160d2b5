// Package workflow はウェブトゥーン生成の全工程を束ねるオーケストレーターです。
// Runner 群の構築と、ストーリー生成から公開までの一連の流れを管理するのだ。
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/assembler"
	"github.com/shouni/go-webtoon-kit/pkg/prompts"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
	"github.com/shouni/go-webtoon-kit/pkg/runner"
	"github.com/shouni/go-webtoon-kit/pkg/task"

	"github.com/patrickmn/go-cache"
	imageKit "github.com/shouni/gemini-image-kit/pkg/generator"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"google.golang.org/genai"
)

const (
	defaultCacheExpiration   = 5 * time.Minute
	cacheCleanupInterval     = 15 * time.Minute
	defaultTTL               = 5 * time.Minute
	defaultGeminiTemperature = float32(0.2)
)

// BuilderArgs は Builder の構築に必要な依存一式なのだ。
// AIClient と PromptBuilder は省略可能で、nil の場合は内部で新規作成するのだ。
type BuilderArgs struct {
	Config        Config
	HTTPClient    httpkit.ClientInterface
	Reader        remoteio.InputReader
	Writer        remoteio.OutputWriter
	AIClient      gemini.GenerativeModel
	PromptBuilder prompts.PromptBuilder
}

// Builder は、ワークフローの各工程を担う Runner 群を構築・管理します。
type Builder struct {
	cfg           Config
	httpClient    httpkit.ClientInterface
	reader        remoteio.InputReader
	writer        remoteio.OutputWriter
	aiClient      gemini.GenerativeModel
	promptBuilder prompts.PromptBuilder
	imgGen        imageKit.ImageGenerator
	tasks         *task.CacheStore
}

// New は、設定と外部依存を基に新しい Builder を初期化します。
func New(ctx context.Context, args BuilderArgs) (*Builder, error) {
	if args.HTTPClient == nil {
		return nil, fmt.Errorf("httpClient は必須です")
	}
	if args.Reader == nil {
		return nil, fmt.Errorf("InputReader は必須です")
	}
	if args.Writer == nil {
		return nil, fmt.Errorf("OutputWriter は必須です")
	}

	cfg := args.Config.normalized()

	aiClient := args.AIClient
	if aiClient == nil {
		var err error
		aiClient, err = initializeAIClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
	}

	pb := args.PromptBuilder
	if pb == nil {
		var err error
		pb, err = prompts.NewTextPromptBuilder()
		if err != nil {
			return nil, fmt.Errorf("TextPromptBuilder の新規作成に失敗しました: %w", err)
		}
	}

	imgGen, err := initializeImageGenerator(cfg.ImageModel, args.Reader, args.HTTPClient, aiClient)
	if err != nil {
		return nil, fmt.Errorf("画像生成エンジンの初期化に失敗しました: %w", err)
	}

	return &Builder{
		cfg:           cfg,
		httpClient:    args.HTTPClient,
		reader:        args.Reader,
		writer:        args.Writer,
		aiClient:      aiClient,
		promptBuilder: pb,
		imgGen:        imgGen,
		tasks:         task.NewCacheStore(),
	}, nil
}

// Tasks はこの Builder が管理するタスクストアを返すのだ。
func (b *Builder) Tasks() *task.CacheStore {
	return b.tasks
}

// BuildGenerator は全工程を実行できる Generator を組み立てて返すのだ。
func (b *Builder) BuildGenerator() (*Generator, error) {
	layouter := runner.NewBubbleLayoutRunner(b.aiClient, b.promptBuilder, b.cfg.GeminiModel)
	asm, err := assembler.New(layouter)
	if err != nil {
		return nil, fmt.Errorf("アセンブラーの初期化に失敗しました: %w", err)
	}

	pub, err := publisher.NewWebtoonPublisher(b.writer)
	if err != nil {
		return nil, fmt.Errorf("パブリッシャーの初期化に失敗しました: %w", err)
	}

	imageDir, err := publisher.ResolveOutputPath(b.cfg.OutputDir, "images")
	if err != nil {
		return nil, err
	}

	return &Generator{
		cfg:       b.cfg,
		story:     runner.NewStoryRunner(b.aiClient, b.promptBuilder, b.cfg.GeminiModel),
		panels:    runner.NewPanelRunner(b.aiClient, b.promptBuilder, b.cfg.GeminiModel),
		assembler: asm,
		images:    runner.NewImageRunner(b.imgGen, b.aiClient, b.promptBuilder, b.writer, b.cfg.GeminiModel, b.cfg.Style, b.cfg.RateInterval),
		publisher: pub,
		tasks:     b.tasks,
		imageDir:  imageDir,
	}, nil
}

// initializeAIClient は gemini クライアントを初期化します。
func initializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// initializeImageGenerator は、画像キャッシュを含む ImageGenerator を初期化します。
func initializeImageGenerator(model string, reader remoteio.InputReader, httpClient httpkit.ClientInterface, aiClient gemini.GenerativeModel) (imageKit.ImageGenerator, error) {
	imgCache := cache.New(defaultCacheExpiration, cacheCleanupInterval)
	core, err := imageKit.NewGeminiImageCore(
		aiClient,
		reader,
		httpClient,
		imgCache,
		defaultTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCoreの初期化に失敗しました: %w", err)
	}

	imgGen, err := imageKit.NewGeminiGenerator(
		core,
		aiClient,
		model,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiGeneratorの初期化に失敗しました: %w", err)
	}
	return imgGen, nil
}
