package fallback

import (
	"testing"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/parser"
)

func TestMinimalStory(t *testing.T) {
	story := MinimalStory("a lonely robot finds a flower on mars")

	t.Run("タイトルはプロンプト先頭語から導出されること", func(t *testing.T) {
		if story.Title != "A Lonely Robot Finds A" {
			t.Errorf("タイトルが %q です", story.Title)
		}
	})

	t.Run("settingにプロンプト全文が保持されること", func(t *testing.T) {
		if story.Setting["description"] != "a lonely robot finds a flower on mars" {
			t.Errorf("setting が %v です", story.Setting)
		}
	})

	t.Run("テーマとムードは固定の既定値になること", func(t *testing.T) {
		if story.Theme != parser.ThemeGeneric {
			t.Errorf("テーマが %q です", story.Theme)
		}
		if story.Mood != parser.MoodBalanced {
			t.Errorf("ムードが %q です", story.Mood)
		}
	})

	t.Run("空のフィールドもnilではなく空値で初期化されること", func(t *testing.T) {
		if story.MainCharacters == nil || story.KeyScenes == nil {
			t.Error("スライスが nil のままです")
		}
		if story.GeneratedAt.IsZero() {
			t.Error("生成時刻が設定されていません")
		}
	})

	t.Run("決定的であること", func(t *testing.T) {
		again := MinimalStory("a lonely robot finds a flower on mars")
		if again.Title != story.Title || again.PlotSummary != story.PlotSummary {
			t.Error("同じプロンプトから異なる結果が生成されました")
		}
	})
}

func TestPlaceholderBubbles(t *testing.T) {
	dialogue := []domain.DialogueLine{
		{Character: "Hero", Text: "One"},
		{Character: "Villain", Text: "Two"},
		{Character: "Hero", Text: "Three"},
	}

	bubbles := PlaceholderBubbles(dialogue)
	if len(bubbles) != len(dialogue) {
		t.Fatalf("吹き出し数が %d です, 期待値 %d", len(bubbles), len(dialogue))
	}

	t.Run("左上・右下の交互配置になること", func(t *testing.T) {
		wantPositions := []string{"top-left", "bottom-right", "top-left"}
		for i, b := range bubbles {
			if b.Position != wantPositions[i] {
				t.Errorf("bubbles[%d].Position = %q, 期待値 %q", i, b.Position, wantPositions[i])
			}
		}
	})

	t.Run("スタイルと尻尾は固定値になること", func(t *testing.T) {
		for i, b := range bubbles {
			if b.Style != domain.StyleNormal {
				t.Errorf("bubbles[%d].Style = %q", i, b.Style)
			}
			if b.TailDirection != domain.TailBottom {
				t.Errorf("bubbles[%d].TailDirection = %q", i, b.TailDirection)
			}
		}
	})

	t.Run("セリフの内容が引き継がれること", func(t *testing.T) {
		if bubbles[1].Character != "Villain" || bubbles[1].Text != "Two" {
			t.Errorf("bubbles[1] = %+v", bubbles[1])
		}
	})

	t.Run("空のセリフ列からは空の吹き出し列になること", func(t *testing.T) {
		if got := PlaceholderBubbles(nil); len(got) != 0 {
			t.Errorf("空入力で %d 個の吹き出しが生成されました", len(got))
		}
	})
}
