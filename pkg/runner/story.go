// Package runner はウェブトゥーン生成パイプラインの各工程を担う実行単位を提供します。
// 各 Runner はプロンプト構築、Gemini API 呼び出し、応答の正規化を一気に行うのだ。
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/fallback"
	"github.com/shouni/go-webtoon-kit/pkg/parser"
	"github.com/shouni/go-webtoon-kit/pkg/prompts"
	"github.com/shouni/go-webtoon-kit/pkg/retry"

	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// StoryRunner は、ユーザープロンプトから物語のアウトラインを生成する核となる構造体なのだ。
type StoryRunner struct {
	aiClient      gemini.GenerativeModel // Gemini APIと通信するクライアント
	promptBuilder prompts.PromptBuilder  // AIに渡すプロンプトを構築するビルダー
	model         string                 // テキスト生成に使うモデル名
	policy        retry.Policy           // 一時的な失敗に対する再試行方針
}

// NewStoryRunner は、StoryRunnerの新しいインスタンスを生成して返すのだ。
func NewStoryRunner(ai gemini.GenerativeModel, pb prompts.PromptBuilder, model string) *StoryRunner {
	return &StoryRunner{
		aiClient:      ai,
		promptBuilder: pb,
		model:         model,
		policy:        retry.DefaultPolicy(),
	}
}

// Run は、プロンプト構築、AIによる生成、応答の正規化を順に実行するのだ。
// 再試行してもAIからまともな応答が得られない場合は、最小限の骨格で
// 組み立てたアウトラインを返してパイプラインを継続させるのだ。
func (sr *StoryRunner) Run(ctx context.Context, prompt, additionalContext string) (*domain.StoryOutline, error) {
	promptContent, err := sr.promptBuilder.Build(prompts.ModeStory, prompts.TemplateData{
		Prompt:            prompt,
		AdditionalContext: additionalContext,
	})
	if err != nil {
		return nil, fmt.Errorf("ストーリープロンプトの構築に失敗したのだ: %w", err)
	}

	// AI呼び出しだけを再試行の対象にするのだ。正規化の失敗は応答の質の問題
	// なので、ここで再試行しても無駄なのだ。
	raw, err := retry.Invoke(ctx, sr.policy, func(ctx context.Context) (string, error) {
		resp, err := sr.aiClient.GenerateContent(ctx, sr.model, promptContent)
		if err != nil {
			return "", retry.ClassifyUpstream(err)
		}
		return resp.Text, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Warn("ストーリー生成に失敗したため、最小構成のアウトラインで継続するのだ", "error", err)
		return fallback.MinimalStory(prompt), nil
	}

	story, err := parser.CoerceStory(raw, prompt)
	if err != nil {
		slog.Warn("ストーリー応答の正規化に失敗したため、最小構成のアウトラインで継続するのだ", "error", err)
		return fallback.MinimalStory(prompt), nil
	}

	slog.Info("ストーリーアウトラインを生成したのだ", "title", story.Title, "scenes", len(story.KeyScenes))
	return story, nil
}
