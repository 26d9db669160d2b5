package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/parser"
	"github.com/shouni/go-webtoon-kit/pkg/prompts"
	"github.com/shouni/go-webtoon-kit/pkg/retry"

	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// PanelRunner は、物語のアウトラインをコマ割りの設計図に分解する構造体なのだ。
// ここが失敗するとコマの枠組み自体が存在しなくなるため、フォールバックは
// 用意せず、リクエスト全体を失敗として扱うのだ。
type PanelRunner struct {
	aiClient      gemini.GenerativeModel
	promptBuilder prompts.PromptBuilder
	model         string
	policy        retry.Policy
}

// NewPanelRunner は、PanelRunnerの新しいインスタンスを生成して返すのだ。
func NewPanelRunner(ai gemini.GenerativeModel, pb prompts.PromptBuilder, model string) *PanelRunner {
	return &PanelRunner{
		aiClient:      ai,
		promptBuilder: pb,
		model:         model,
		policy:        retry.DefaultPolicy(),
	}
}

// Run はアウトラインをJSON化してAIに渡し、指定数のコマ記述子を取得するのだ。
func (pr *PanelRunner) Run(ctx context.Context, story *domain.StoryOutline, numPanels int) ([]domain.PanelDescriptor, error) {
	storyJSON, err := json.Marshal(story)
	if err != nil {
		return nil, fmt.Errorf("アウトラインのJSON化に失敗したのだ: %w", err)
	}

	promptContent, err := pr.promptBuilder.Build(prompts.ModePanels, prompts.TemplateData{
		StoryJSON: string(storyJSON),
		NumPanels: numPanels,
	})
	if err != nil {
		return nil, fmt.Errorf("コマ割りプロンプトの構築に失敗したのだ: %w", err)
	}

	raw, err := retry.Invoke(ctx, pr.policy, func(ctx context.Context) (string, error) {
		resp, err := pr.aiClient.GenerateContent(ctx, pr.model, promptContent)
		if err != nil {
			return "", retry.ClassifyUpstream(err)
		}
		return resp.Text, nil
	})
	if err != nil {
		return nil, fmt.Errorf("コマ割りの生成に失敗したのだ: %w", err)
	}

	descriptors, err := parser.CoercePanels(raw)
	if err != nil {
		return nil, fmt.Errorf("コマ割り応答の正規化に失敗したのだ: %w", err)
	}

	slog.Info("コマ割りを生成したのだ", "panels", len(descriptors))
	return descriptors, nil
}
