package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/assembler"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/fallback"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
	"github.com/shouni/go-webtoon-kit/pkg/runner"
	"github.com/shouni/go-webtoon-kit/pkg/task"
)

// 各工程の完了時点での進捗率なのだ。画像生成は件数に応じて
// progressImagesStart から progressImagesEnd まで段階的に進むのだ。
const (
	progressStory       = 20
	progressPanels      = 40
	progressAssembled   = 60
	progressImagesStart = 60
	progressImagesEnd   = 90
)

// GenerateRequest は1回のウェブトゥーン生成リクエストなのだ。
type GenerateRequest struct {
	Prompt    string
	Context   string // ストーリー生成に渡す追加指示（任意）
	NumPanels int    // 0 なら Config の値を使うのだ
	TaskID    string // 設定すると進捗がタスクストアに反映されるのだ
}

// Generator はストーリー生成から公開までの全工程を実行する実体なのだ。
type Generator struct {
	cfg       Config
	story     *runner.StoryRunner
	panels    *runner.PanelRunner
	assembler *assembler.Assembler
	images    *runner.ImageRunner
	publisher *publisher.WebtoonPublisher
	tasks     *task.CacheStore
	imageDir  string
}

// NewTask は生成リクエストをタスクとして登録し、そのIDを返すのだ。
func (g *Generator) NewTask(prompt string) *task.Task {
	return g.tasks.Create(prompt)
}

// Generate はプロンプトから完成したウェブトゥーンまでを一気に生成するのだ。
// ストーリーは失敗しても最小構成で継続するが、コマ割りと組み立ての失敗は
// リクエスト全体の失敗として扱うのだ。
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*domain.WebtoonResult, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("プロンプトは必須です")
	}

	if g.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.RequestTimeout)
		defer cancel()
	}

	result, err := g.generate(ctx, req)
	if err != nil {
		if req.TaskID != "" {
			g.tasks.Fail(req.TaskID, err)
		}
		return nil, err
	}

	if req.TaskID != "" {
		g.tasks.Complete(req.TaskID, result)
	}
	return result, nil
}

func (g *Generator) generate(ctx context.Context, req GenerateRequest) (*domain.WebtoonResult, error) {
	numPanels := req.NumPanels
	if numPanels <= 0 {
		numPanels = g.cfg.NumPanels
	}
	if numPanels > MaxNumPanels {
		numPanels = MaxNumPanels
	}

	// 1. 物語アウトラインの生成
	story, err := g.story.Run(ctx, req.Prompt, req.Context)
	if err != nil {
		return nil, err
	}
	g.report(req.TaskID, progressStory)

	// 2. コマ割りの生成
	descriptors, err := g.panels.Run(ctx, story, numPanels)
	if err != nil {
		return nil, err
	}
	g.report(req.TaskID, progressPanels)

	// 3. 吹き出しを含むコマの組み立て
	panels, err := g.assembler.Assemble(ctx, story, descriptors)
	if err != nil {
		return nil, err
	}
	g.report(req.TaskID, progressAssembled)

	// 4. 画像の生成と保存
	assembled := domain.Panels(panels)
	if g.cfg.SkipImages {
		for i := range assembled {
			assembled[i].ImagePath = fallback.PlaceholderImagePath
		}
	} else {
		onProgress := func(completed, total int) {
			span := progressImagesEnd - progressImagesStart
			g.report(req.TaskID, progressImagesStart+span*completed/total)
		}
		assembled, err = g.images.Run(ctx, assembled, g.imageDir, onProgress)
		if err != nil {
			return nil, err
		}
	}

	result := &domain.WebtoonResult{
		Title:       story.TitleOrDefault(),
		GeneratedAt: time.Now().UTC(),
		Panels:      assembled,
	}

	// 5. HTMLビューアとJSONダンプの書き出し
	pubResult, err := g.publisher.Publish(ctx, result, publisher.Options{OutputDir: g.cfg.OutputDir})
	if err != nil {
		return nil, err
	}
	result.HTMLPath = pubResult.HTMLPath

	slog.Info("ウェブトゥーンの生成が完了したのだ",
		"title", result.Title,
		"panels", len(result.Panels),
		"html", result.HTMLPath,
	)
	return result, nil
}

// UpdatePanel は1コマだけを作り直すのだ。セリフの正規化、吹き出しの再配置、
// 画像の再生成までを行い、元のパネルIDを引き継いだ新しい Panel を返すのだ。
func (g *Generator) UpdatePanel(ctx context.Context, story *domain.StoryOutline, original domain.Panel, descriptor domain.PanelDescriptor) (domain.Panel, error) {
	panels, err := g.assembler.Assemble(ctx, story, []domain.PanelDescriptor{descriptor})
	if err != nil {
		return domain.Panel{}, fmt.Errorf("パネルの再組み立てに失敗しました: %w", err)
	}

	updated := domain.Panels(panels)
	if g.cfg.SkipImages {
		updated[0].ImagePath = fallback.PlaceholderImagePath
	} else {
		updated, err = g.images.Run(ctx, updated, g.imageDir, nil)
		if err != nil {
			return domain.Panel{}, err
		}
	}

	updated[0].PanelID = original.PanelID
	slog.Info("パネルを更新したのだ", "panel_id", original.PanelID)
	return updated[0], nil
}

// AssembleFromStory は既存のアウトラインからコマ割りと組み立てだけを実行するのだ。
// 画像は Config の SkipImages に従って生成またはプレースホルダーになるのだ。
func (g *Generator) AssembleFromStory(ctx context.Context, story *domain.StoryOutline, numPanels int) (*domain.WebtoonResult, error) {
	if story == nil {
		return nil, fmt.Errorf("アウトラインは必須です")
	}
	if numPanels <= 0 {
		numPanels = g.cfg.NumPanels
	}
	if numPanels > MaxNumPanels {
		numPanels = MaxNumPanels
	}

	descriptors, err := g.panels.Run(ctx, story, numPanels)
	if err != nil {
		return nil, err
	}

	panels, err := g.assembler.Assemble(ctx, story, descriptors)
	if err != nil {
		return nil, err
	}

	assembled := domain.Panels(panels)
	if g.cfg.SkipImages {
		for i := range assembled {
			assembled[i].ImagePath = fallback.PlaceholderImagePath
		}
	} else {
		assembled, err = g.images.Run(ctx, assembled, g.imageDir, nil)
		if err != nil {
			return nil, err
		}
	}

	result := &domain.WebtoonResult{
		Title:       story.TitleOrDefault(),
		GeneratedAt: time.Now().UTC(),
		Panels:      assembled,
	}

	pubResult, err := g.publisher.Publish(ctx, result, publisher.Options{OutputDir: g.cfg.OutputDir})
	if err != nil {
		return nil, err
	}
	result.HTMLPath = pubResult.HTMLPath
	return result, nil
}

// RegenerateImages は組み立て済みの結果に対して画像だけを作り直し、
// ビューアを出力し直すのだ。吹き出しやセリフには手を付けないのだ。
func (g *Generator) RegenerateImages(ctx context.Context, result *domain.WebtoonResult) (*domain.WebtoonResult, error) {
	if result == nil || len(result.Panels) == 0 {
		return nil, fmt.Errorf("作り直すパネルがありません")
	}

	panels, err := g.images.Run(ctx, result.Panels, g.imageDir, nil)
	if err != nil {
		return nil, err
	}

	updated := *result
	updated.Panels = panels
	updated.GeneratedAt = time.Now().UTC()

	pubResult, err := g.publisher.Publish(ctx, &updated, publisher.Options{OutputDir: g.cfg.OutputDir})
	if err != nil {
		return nil, err
	}
	updated.HTMLPath = pubResult.HTMLPath
	return &updated, nil
}

// report はタスクIDが設定されている場合のみ進捗を通知するのだ。
// タスクストア側が単調増加を保証するため、並列通知の順序は気にしなくてよいのだ。
func (g *Generator) report(taskID string, progress int) {
	if taskID == "" {
		return
	}
	g.tasks.SetProgress(taskID, progress)
}
