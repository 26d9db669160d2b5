package runner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/parser"
	"github.com/shouni/go-webtoon-kit/pkg/prompts"
	"github.com/shouni/go-webtoon-kit/pkg/retry"

	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// BubbleLayoutRunner は、コマの描写とセリフから吹き出しの配置案を取得するのだ。
// assembler.BubbleLayouter として組み立て工程に差し込まれる前提で、
// 1回の呼び出しにつき1回だけAIに問い合わせ、再試行はアセンブラー側に任せるのだ。
type BubbleLayoutRunner struct {
	aiClient      gemini.GenerativeModel
	promptBuilder prompts.PromptBuilder
	model         string
}

// NewBubbleLayoutRunner は、BubbleLayoutRunnerの新しいインスタンスを生成して返すのだ。
func NewBubbleLayoutRunner(ai gemini.GenerativeModel, pb prompts.PromptBuilder, model string) *BubbleLayoutRunner {
	return &BubbleLayoutRunner{
		aiClient:      ai,
		promptBuilder: pb,
		model:         model,
	}
}

// Layout は吹き出し配置のプロンプトを構築し、AIの応答を正規化前の形で返すのだ。
// 上流の失敗は種別付きで分類し、応答の構文崩れは再試行不能な失敗として扱うのだ。
func (br *BubbleLayoutRunner) Layout(ctx context.Context, description string, dialogue []domain.DialogueLine) ([]domain.RawSpeechBubble, error) {
	dialogueJSON, err := json.Marshal(dialogue)
	if err != nil {
		return nil, retry.Upstream(retry.KindInvalidRequest, fmt.Errorf("セリフのJSON化に失敗したのだ: %w", err))
	}

	promptContent, err := br.promptBuilder.Build(prompts.ModeBubbles, prompts.TemplateData{
		PanelDescription: description,
		DialogueJSON:     string(dialogueJSON),
	})
	if err != nil {
		return nil, retry.Upstream(retry.KindInvalidRequest, fmt.Errorf("吹き出しプロンプトの構築に失敗したのだ: %w", err))
	}

	resp, err := br.aiClient.GenerateContent(ctx, br.model, promptContent)
	if err != nil {
		return nil, retry.ClassifyUpstream(err)
	}

	raws, err := parser.CoerceBubbles(resp.Text)
	if err != nil {
		return nil, retry.Upstream(retry.KindMalformed, err)
	}
	return raws, nil
}
