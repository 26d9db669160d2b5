package runner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shouni/go-webtoon-kit/pkg/parser"
	"github.com/shouni/go-webtoon-kit/pkg/prompts"
	"github.com/shouni/go-webtoon-kit/pkg/retry"
)

const storyResponse = `{
	"title": "The Last Garden",
	"setting": {"place": "Mars"},
	"main_characters": [{"name": "Aria"}],
	"plot_summary": "A botanist saves a garden.",
	"key_scenes": ["the dome"],
	"theme": "hope",
	"mood": "tense"
}`

func newTestPromptBuilder(t *testing.T) prompts.PromptBuilder {
	t.Helper()
	pb, err := prompts.NewTextPromptBuilder()
	if err != nil {
		t.Fatalf("プロンプトビルダーの初期化に失敗しました: %v", err)
	}
	return pb
}

func TestStoryRunner(t *testing.T) {
	t.Run("正常な応答からアウトラインが生成されること", func(t *testing.T) {
		ai := &mockAIClient{responses: []string{storyResponse}}
		sr := NewStoryRunner(ai, newTestPromptBuilder(t), "test-model")

		story, err := sr.Run(context.Background(), "a garden on mars", "")
		if err != nil {
			t.Fatalf("エラーが発生しました: %v", err)
		}
		if story.Title != "The Last Garden" {
			t.Errorf("タイトルが %q です", story.Title)
		}
		if ai.calls != 1 {
			t.Errorf("AI呼び出し回数が %d です", ai.calls)
		}
		if !strings.Contains(ai.prompts[0], "a garden on mars") {
			t.Error("プロンプトにユーザー入力が埋め込まれていません")
		}
	})

	t.Run("応答が壊れていても最小構成のアウトラインで継続すること", func(t *testing.T) {
		ai := &mockAIClient{responses: []string{"I refuse to answer in JSON."}}
		sr := NewStoryRunner(ai, newTestPromptBuilder(t), "test-model")

		story, err := sr.Run(context.Background(), "a lonely robot finds a flower", "")
		if err != nil {
			t.Fatalf("エラーが発生しました: %v", err)
		}
		if story.Theme != parser.ThemeGeneric {
			t.Errorf("テーマが %q です", story.Theme)
		}
		if story.Setting["description"] != "a lonely robot finds a flower" {
			t.Errorf("setting が %v です", story.Setting)
		}
	})

	t.Run("再試行不能なエラーでも最小構成で継続すること", func(t *testing.T) {
		ai := &mockAIClient{errs: []error{errors.New("API key not valid")}}
		sr := NewStoryRunner(ai, newTestPromptBuilder(t), "test-model")

		story, err := sr.Run(context.Background(), "prompt words here", "")
		if err != nil {
			t.Fatalf("エラーが発生しました: %v", err)
		}
		if ai.calls != 1 {
			t.Errorf("認証エラーが再試行されました: %d 回", ai.calls)
		}
		if story == nil || story.Title == "" {
			t.Error("最小構成のアウトラインが返りませんでした")
		}
	})

	t.Run("一時エラーからの回復で通常どおり生成されること", func(t *testing.T) {
		ai := &mockAIClient{
			errs:      []error{errors.New("503 service unavailable"), nil},
			responses: []string{"", storyResponse},
		}
		sr := NewStoryRunner(ai, newTestPromptBuilder(t), "test-model")
		sr.policy.BaseDelay = 0

		story, err := sr.Run(context.Background(), "prompt", "")
		if err != nil {
			t.Fatalf("エラーが発生しました: %v", err)
		}
		if story.Title != "The Last Garden" {
			t.Errorf("タイトルが %q です", story.Title)
		}
		if ai.calls != 2 {
			t.Errorf("AI呼び出し回数が %d です, 期待値 2", ai.calls)
		}
	})

	t.Run("キャンセル済みコンテキストではエラーになること", func(t *testing.T) {
		ai := &mockAIClient{errs: []error{errors.New("unavailable")}}
		sr := NewStoryRunner(ai, newTestPromptBuilder(t), "test-model")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := sr.Run(ctx, "prompt", ""); err == nil {
			t.Error("キャンセルがエラーとして伝播していません")
		}
	})
}

func TestPanelRunner(t *testing.T) {
	const panelsResponse = `{"panels": [
		{"visual_description": "A robot in a desert", "dialogue": "Robo: Alone."},
		{"visual_description": "A flower in the sand"}
	]}`

	t.Run("正常な応答から記述子列が生成されること", func(t *testing.T) {
		ai := &mockAIClient{responses: []string{panelsResponse}}
		pr := NewPanelRunner(ai, newTestPromptBuilder(t), "test-model")

		descriptors, err := pr.Run(context.Background(), testOutline(), 2)
		if err != nil {
			t.Fatalf("エラーが発生しました: %v", err)
		}
		if len(descriptors) != 2 {
			t.Fatalf("記述子数が %d です", len(descriptors))
		}
		if descriptors[0].Characters[0] != "Robo" {
			t.Errorf("登場人物が %v です", descriptors[0].Characters)
		}
	})

	t.Run("壊れた応答はフォールバックせずエラーになること", func(t *testing.T) {
		ai := &mockAIClient{responses: []string{"no json here"}}
		pr := NewPanelRunner(ai, newTestPromptBuilder(t), "test-model")

		_, err := pr.Run(context.Background(), testOutline(), 2)
		if err == nil {
			t.Fatal("壊れた応答でエラーが返りませんでした")
		}
		var schemaErr *parser.SchemaError
		if !errors.As(err, &schemaErr) {
			t.Errorf("SchemaError が包まれていません: %v", err)
		}
	})

	t.Run("認証エラーは再試行せずエラーになること", func(t *testing.T) {
		ai := &mockAIClient{errs: []error{errors.New("401 unauthorized")}}
		pr := NewPanelRunner(ai, newTestPromptBuilder(t), "test-model")

		_, err := pr.Run(context.Background(), testOutline(), 2)
		if err == nil {
			t.Fatal("認証エラーが返りませんでした")
		}
		if ai.calls != 1 {
			t.Errorf("認証エラーが再試行されました: %d 回", ai.calls)
		}
		if retry.KindOf(errors.Unwrap(err)) == retry.KindUnknown {
			// fmt.Errorf の包みを挟んでも分類が辿れること
			if retry.KindOf(err) == retry.KindUnknown {
				t.Errorf("エラー分類が失われています: %v", err)
			}
		}
	})
}
