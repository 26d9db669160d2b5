package assembler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/retry"
)

// mockLayouter はテスト用の BubbleLayouter 実装なのだ。
type mockLayouter struct {
	bubbles []domain.RawSpeechBubble
	err     error
	calls   int
}

func (m *mockLayouter) Layout(ctx context.Context, description string, dialogue []domain.DialogueLine) ([]domain.RawSpeechBubble, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.bubbles, nil
}

func testStory() *domain.StoryOutline {
	return &domain.StoryOutline{
		Title:       "Test Story",
		Setting:     map[string]string{"place": "nowhere"},
		PlotSummary: "p",
	}
}

func TestNew(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("layouter なしで初期化できてしまいました")
	}
}

func TestAssemble(t *testing.T) {
	t.Run("単一文字列のセリフから1つの吹き出しが作られること", func(t *testing.T) {
		layouter := &mockLayouter{bubbles: []domain.RawSpeechBubble{
			{Text: "I'm here!", Character: "Hero", Position: "top_left", Style: "shout", TailDirection: "down"},
		}}
		asm, err := New(layouter)
		if err != nil {
			t.Fatal(err)
		}

		descriptors := []domain.PanelDescriptor{{
			VisualDescription: "A hero arrives",
			Dialogue:          json.RawMessage(`"Hero: I'm here!"`),
		}}

		panels, err := asm.Assemble(context.Background(), testStory(), descriptors)
		if err != nil {
			t.Fatalf("組み立てに失敗しました: %v", err)
		}
		if len(panels) != 1 {
			t.Fatalf("パネル数が %d です", len(panels))
		}

		p := panels[0]
		if len(p.Characters) != 1 || p.Characters[0] != "Hero" {
			t.Errorf("登場人物が %v です", p.Characters)
		}
		if len(p.SpeechBubbles) != 1 {
			t.Fatalf("吹き出し数が %d です", len(p.SpeechBubbles))
		}
		b := p.SpeechBubbles[0]
		if b.Position != "top-left" || b.Style != domain.StyleShout || b.TailDirection != domain.TailBottom {
			t.Errorf("吹き出しの正準化結果が %+v です", b)
		}
		if p.PanelID == "" {
			t.Error("パネルIDが未設定です")
		}
	})

	t.Run("レイアウト失敗時は代替配置の吹き出しでセリフ数が保たれること", func(t *testing.T) {
		layouter := &mockLayouter{err: retry.Upstream(retry.KindMalformed, errors.New("broken json"))}
		asm, _ := New(layouter)

		descriptors := []domain.PanelDescriptor{{
			VisualDescription: "A tense standoff",
			Dialogue:          json.RawMessage(`["Hero: One", "Villain: Two", "Hero: Three"]`),
		}}

		panels, err := asm.Assemble(context.Background(), testStory(), descriptors)
		if err != nil {
			t.Fatalf("組み立てに失敗しました: %v", err)
		}

		p := panels[0]
		if len(p.SpeechBubbles) != 3 {
			t.Fatalf("吹き出し数が %d です, 期待値 3", len(p.SpeechBubbles))
		}
		for i, b := range p.SpeechBubbles {
			if b.Style != domain.StyleNormal {
				t.Errorf("bubbles[%d].Style = %q, 期待値 normal", i, b.Style)
			}
		}
		if p.SpeechBubbles[0].Position != "top-left" || p.SpeechBubbles[1].Position != "bottom-right" {
			t.Error("代替配置が交互になっていません")
		}
	})

	t.Run("吹き出しの過不足が補正されること", func(t *testing.T) {
		// モデルが2行のセリフに対して1つしか吹き出しを返さないケース
		layouter := &mockLayouter{bubbles: []domain.RawSpeechBubble{
			{Text: "One", Character: "Hero", Position: "top-left"},
		}}
		asm, _ := New(layouter)

		descriptors := []domain.PanelDescriptor{{
			VisualDescription: "Two lines",
			Dialogue:          json.RawMessage(`["Hero: One", "Villain: Two"]`),
		}}

		panels, err := asm.Assemble(context.Background(), testStory(), descriptors)
		if err != nil {
			t.Fatalf("組み立てに失敗しました: %v", err)
		}

		p := panels[0]
		if len(p.SpeechBubbles) != 2 {
			t.Fatalf("吹き出し数が %d です", len(p.SpeechBubbles))
		}
		if p.SpeechBubbles[1].Text != "Two" || p.SpeechBubbles[1].Character != "Villain" {
			t.Errorf("補完された吹き出しが %+v です", p.SpeechBubbles[1])
		}
	})

	t.Run("セリフなしのパネルはレイアウト呼び出しを行わないこと", func(t *testing.T) {
		layouter := &mockLayouter{}
		asm, _ := New(layouter)

		descriptors := []domain.PanelDescriptor{{
			VisualDescription: "A silent landscape",
			Characters:        []string{"Nobody"},
		}}

		panels, err := asm.Assemble(context.Background(), testStory(), descriptors)
		if err != nil {
			t.Fatalf("組み立てに失敗しました: %v", err)
		}
		if layouter.calls != 0 {
			t.Errorf("レイアウトが %d 回呼ばれました", layouter.calls)
		}
		if len(panels[0].SpeechBubbles) != 0 {
			t.Errorf("吹き出しが %d 個あります", len(panels[0].SpeechBubbles))
		}
	})

	t.Run("入力順が保存されること", func(t *testing.T) {
		layouter := &mockLayouter{}
		asm, _ := New(layouter)

		descriptors := []domain.PanelDescriptor{
			{VisualDescription: "first", Characters: []string{"A"}},
			{VisualDescription: "second", Characters: []string{"B"}},
			{VisualDescription: "third", Characters: []string{"C"}},
		}

		panels, err := asm.Assemble(context.Background(), testStory(), descriptors)
		if err != nil {
			t.Fatalf("組み立てに失敗しました: %v", err)
		}
		for i, want := range []string{"first", "second", "third"} {
			if panels[i].Description != want {
				t.Errorf("panels[%d].Description = %q, 期待値 %q", i, panels[i].Description, want)
			}
		}
	})

	t.Run("キャンセル済みコンテキストでは即時に打ち切られること", func(t *testing.T) {
		layouter := &mockLayouter{}
		asm, _ := New(layouter)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := asm.Assemble(ctx, testStory(), []domain.PanelDescriptor{
			{VisualDescription: "never assembled", Characters: []string{"A"}},
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("キャンセルが伝播していません: %v", err)
		}
	})

	t.Run("パネルサイズが正準化されること", func(t *testing.T) {
		layouter := &mockLayouter{}
		asm, _ := New(layouter)

		panels, err := asm.Assemble(context.Background(), testStory(), []domain.PanelDescriptor{
			{VisualDescription: "wide shot", Characters: []string{"A"}, PanelSize: "FULL_WIDTH"},
		})
		if err != nil {
			t.Fatal(err)
		}
		if panels[0].Size != domain.SizeFull {
			t.Errorf("サイズが %q です", panels[0].Size)
		}
	})
}
