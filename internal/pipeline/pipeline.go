// Package pipeline は各CLIコマンドの実行ロジック本体なのだ。
// AppContext の組み立てと pkg/workflow の呼び出しをここで束ねるのだよ。
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shouni/go-webtoon-kit/internal/builder"
	"github.com/shouni/go-webtoon-kit/internal/config"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/prompts"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
	"github.com/shouni/go-webtoon-kit/pkg/runner"
	"github.com/shouni/go-webtoon-kit/pkg/workflow"
)

const storyFileName = "story.json"

// Execute は、プロンプトから完成したウェブトゥーンまでの全工程を実行するのだ。
func Execute(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	prompt, err := readPrompt(ctx, appCtx)
	if err != nil {
		return err
	}

	wb, err := appCtx.NewWorkflowBuilder(ctx)
	if err != nil {
		return err
	}
	gen, err := wb.BuildGenerator()
	if err != nil {
		return err
	}

	t := gen.NewTask(prompt)
	result, err := gen.Generate(ctx, workflow.GenerateRequest{
		Prompt:    prompt,
		Context:   cfg.Options.Context,
		NumPanels: cfg.Options.NumPanels,
		TaskID:    t.ID,
	})
	if err != nil {
		return fmt.Errorf("ウェブトゥーンの生成に失敗したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！",
		"task_id", t.ID,
		"title", result.Title,
		"html", result.HTMLPath,
	)
	return nil
}

// ExecuteStoryOnly は、物語アウトラインだけを生成して story.json として保存するのだ。
// コマ割りや画像に進む前にプロットを確認したいときに使うのだ。
func ExecuteStoryOnly(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	prompt, err := readPrompt(ctx, appCtx)
	if err != nil {
		return err
	}

	pb, err := prompts.NewTextPromptBuilder()
	if err != nil {
		return err
	}

	wcfg := appCtx.WorkflowConfig()
	storyRunner := runner.NewStoryRunner(appCtx.AIClient, pb, wcfg.GeminiModel)
	story, err := storyRunner.Run(ctx, prompt, cfg.Options.Context)
	if err != nil {
		return fmt.Errorf("アウトラインの生成に失敗したのだ: %w", err)
	}

	data, err := json.MarshalIndent(story, "", "  ")
	if err != nil {
		return fmt.Errorf("アウトラインのJSON化に失敗したのだ: %w", err)
	}

	outputPath, err := publisher.ResolveOutputPath(wcfg.OutputDir, storyFileName)
	if err != nil {
		return err
	}
	if err := appCtx.Writer.Write(ctx, outputPath, bytes.NewReader(data), "application/json; charset=utf-8"); err != nil {
		return fmt.Errorf("アウトラインの保存に失敗したのだ: %w", err)
	}

	slog.Info("物語アウトラインを保存したのだ", "title", story.Title, "path", outputPath)
	return nil
}

// ExecutePanelsOnly は、保存済みの story.json からコマ割りと吹き出しの
// 組み立てまでを実行し、画像なしの webtoon.json を出力するのだ。
func ExecutePanelsOnly(ctx context.Context, cfg *config.Config) error {
	// 画像生成を省略した設定でフルパイプラインの後半だけを使うのだ
	cfg.Options.SkipImages = true

	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	var story domain.StoryOutline
	if err := readJSONFile(ctx, appCtx, cfg.Options.StoryFile, &story); err != nil {
		return err
	}

	wb, err := appCtx.NewWorkflowBuilder(ctx)
	if err != nil {
		return err
	}
	gen, err := wb.BuildGenerator()
	if err != nil {
		return err
	}

	result, err := gen.AssembleFromStory(ctx, &story, cfg.Options.NumPanels)
	if err != nil {
		return fmt.Errorf("コマの組み立てに失敗したのだ: %w", err)
	}

	slog.Info("コマ割りと吹き出しの組み立てが完了したのだ",
		"title", result.Title,
		"panels", len(result.Panels),
	)
	return nil
}

// ExecuteImageOnly は、保存済みの webtoon.json を読み込み、
// 画像の再生成とビューアの再出力だけを実行するのだ。
func ExecuteImageOnly(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	var result domain.WebtoonResult
	if err := readJSONFile(ctx, appCtx, cfg.Options.StoryFile, &result); err != nil {
		return err
	}

	wb, err := appCtx.NewWorkflowBuilder(ctx)
	if err != nil {
		return err
	}
	gen, err := wb.BuildGenerator()
	if err != nil {
		return err
	}

	updated, err := gen.RegenerateImages(ctx, &result)
	if err != nil {
		return fmt.Errorf("画像の再生成に失敗したのだ: %w", err)
	}

	slog.Info("画像生成と公開処理が完了したのだ！",
		"title", updated.Title,
		"html", updated.HTMLPath,
	)
	return nil
}

// readPrompt は --prompt または --prompt-file からユーザープロンプトを取得するのだ。
func readPrompt(ctx context.Context, appCtx *builder.AppContext) (string, error) {
	if p := strings.TrimSpace(appCtx.Options.Prompt); p != "" {
		return p, nil
	}
	if appCtx.Options.PromptFile == "" {
		return "", fmt.Errorf("プロンプト（--prompt または --prompt-file）を指定してほしいのだ")
	}

	// '-' は標準入力の指定なのだ
	if appCtx.Options.PromptFile == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("標準入力の読み込みに失敗したのだ: %w", err)
		}
		prompt := strings.TrimSpace(string(data))
		if prompt == "" {
			return "", fmt.Errorf("標準入力が空なのだ")
		}
		return prompt, nil
	}

	rc, err := appCtx.Reader.Open(ctx, appCtx.Options.PromptFile)
	if err != nil {
		return "", fmt.Errorf("プロンプトファイル '%s' の読み込みに失敗したのだ: %w", appCtx.Options.PromptFile, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("プロンプトファイル '%s' が空なのだ", appCtx.Options.PromptFile)
	}
	return prompt, nil
}

// readJSONFile は中間成果物のJSONを読み込んでデコードするのだ。
func readJSONFile(ctx context.Context, appCtx *builder.AppContext, path string, v any) error {
	if path == "" {
		return fmt.Errorf("入力ファイル（--story-file）を指定してほしいのだ")
	}

	rc, err := appCtx.Reader.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("JSONファイル '%s' の読み込みに失敗したのだ: %w", path, err)
	}
	defer rc.Close()

	if err := json.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("JSONファイル '%s' のデコードに失敗したのだ: %w", path, err)
	}
	return nil
}
