package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/fallback"
	"github.com/shouni/go-webtoon-kit/pkg/prompts"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	imageKit "github.com/shouni/gemini-image-kit/pkg/generator"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ImageRunner は、組み立て済みのコマ群に対して並列で画像生成を行う実体なのだ。
// 個々のコマの画像生成が失敗してもリクエスト全体は落とさず、
// プレースホルダー画像のパスを差し込んで継続するのだ。
type ImageRunner struct {
	imgGen        imageKit.ImageGenerator // 画像生成AI（Gemini）へのアダプター
	aiClient      gemini.GenerativeModel  // 詳細プロンプト生成用のテキストモデル
	promptBuilder prompts.PromptBuilder
	writer        remoteio.OutputWriter // ローカルやGCSへ画像を書き出すライター
	model         string                // 詳細プロンプト生成に使うモデル名
	style         string                // manga / webtoon / comic
	rateInterval  time.Duration         // 画像生成リクエストの流量制限の間隔
}

// ProgressFunc は完了したコマ数の通知を受け取るコールバックです。
// 並列ゴルーチンから呼ばれるため、実装はゴルーチン安全でなければなりません。
type ProgressFunc func(completed, total int)

// NewImageRunner は、ImageRunnerの新しいインスタンスを生成して返すのだ。
func NewImageRunner(
	imgGen imageKit.ImageGenerator,
	ai gemini.GenerativeModel,
	pb prompts.PromptBuilder,
	writer remoteio.OutputWriter,
	model, style string,
	rateInterval time.Duration,
) *ImageRunner {
	return &ImageRunner{
		imgGen:        imgGen,
		aiClient:      ai,
		promptBuilder: pb,
		writer:        writer,
		model:         model,
		style:         style,
		rateInterval:  rateInterval,
	}
}

// Run は並列処理を用いて、各コマの画像を生成して保存するメインロジックなのだ。
// 戻り値のスライスは入力と同じ順序で、各コマの ImagePath が埋まっているのだ。
// onProgress は nil で省略できるのだ。リクエストごとの通知先なので、
// Runner の状態としては持たず呼び出しごとに受け取るのだ。
func (ir *ImageRunner) Run(ctx context.Context, panels domain.Panels, imageDir string, onProgress ProgressFunc) (domain.Panels, error) {
	results := make(domain.Panels, len(panels))
	copy(results, panels)

	eg, egCtx := errgroup.WithContext(ctx)

	// Burst 2 により、開始直後に2枚までは同時にリクエストを開始できるのだ
	limiter := rate.NewLimiter(rate.Every(ir.rateInterval), 2)
	slog.Info("並列画像生成を開始するのだ", "count", len(panels), "interval", ir.rateInterval)

	var completed atomic.Int64
	for i, panel := range panels {
		i, panel := i, panel // ゴルーチンのクロージャ対策なのだ

		eg.Go(func() error {
			// 1. レートリミットに従って、自分の番が来るまで待機するのだ
			if err := limiter.Wait(egCtx); err != nil {
				return err
			}

			// 2. 画像を生成して保存するのだ。失敗はプレースホルダーで吸収するのだ
			imagePath := ir.generateOne(egCtx, i, panel, imageDir)
			if egCtx.Err() != nil {
				return egCtx.Err()
			}
			results[i].ImagePath = imagePath

			done := int(completed.Add(1))
			if onProgress != nil {
				onProgress(done, len(panels))
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slog.Info("すべてのコマの画像処理が完了したのだ", "total", len(results))
	return results, nil
}

// generateOne は1コマ分の画像生成と保存を行い、保存先のパスを返すのだ。
// 生成にも保存にも失敗した場合はプレースホルダーのパスを返すのだ。
func (ir *ImageRunner) generateOne(ctx context.Context, index int, panel domain.Panel, imageDir string) string {
	// 1. テキストモデルに視覚描写を膨らませた詳細プロンプトを作らせるのだ
	// 失敗しても元の描写をそのまま使えばよいので、エラーは警告止まりなのだ
	detailed := ir.buildDetailedPrompt(ctx, panel)

	positive, negative := prompts.BuildImagePrompt(panel.Description, detailed, panel.Characters, ir.style)

	slog.Info("コマを生成中...", "panel", index+1, "characters", panel.Characters)

	resp, err := ir.imgGen.GenerateMangaPanel(ctx, imagedom.ImageGenerationRequest{
		Prompt:         positive,
		NegativePrompt: negative,
		AspectRatio:    "16:9",
	})
	if err != nil {
		slog.Error("コマの画像生成に失敗したため、プレースホルダーで継続するのだ", "panel", index+1, "error", err)
		return fallback.PlaceholderImagePath
	}

	// ファイル名はパネルIDに紐づける。同じパネルを作り直したときに
	// 古い画像をそのまま置き換えられるのだ。
	name := fmt.Sprintf("panel_%s.png", panel.PanelID)
	fullPath, err := publisher.ResolveOutputPath(imageDir, name)
	if err != nil {
		slog.Error("出力パスの解決に失敗したのだ", "panel", index+1, "error", err)
		return fallback.PlaceholderImagePath
	}

	if err := ir.writer.Write(ctx, fullPath, bytes.NewReader(resp.Data), "image/png"); err != nil {
		slog.Error("コマ画像の書き込みに失敗したため、プレースホルダーで継続するのだ", "panel", index+1, "error", err)
		return fallback.PlaceholderImagePath
	}

	slog.Info("コマの生成に成功したのだ", "panel", index+1, "path", fullPath)
	return fullPath
}

func (ir *ImageRunner) buildDetailedPrompt(ctx context.Context, panel domain.Panel) string {
	promptContent, err := ir.promptBuilder.Build(prompts.ModeImage, prompts.TemplateData{
		PanelDescription: panel.Description,
		Characters:       strings.Join(panel.Characters, ", "),
		Style:            ir.style,
	})
	if err != nil {
		slog.Warn("画像プロンプトの構築に失敗したため、視覚描写をそのまま使うのだ", "error", err)
		return ""
	}

	resp, err := ir.aiClient.GenerateContent(ctx, ir.model, promptContent)
	if err != nil {
		slog.Warn("詳細プロンプトの生成に失敗したため、視覚描写をそのまま使うのだ", "error", err)
		return ""
	}
	return resp.Text
}
