package director

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

func TestNormalizeStyle(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"normal", domain.StyleNormal},
		{"Thinking", domain.StyleThought},
		{"SHOUTING", domain.StyleShout},
		{"yell", domain.StyleShout},
		{"whispering", domain.StyleWhisper},
		{"quiet", domain.StyleWhisper},
		{"dramatic", domain.StyleNormal},
		{"", domain.StyleNormal},
	}

	for _, tc := range cases {
		if got := NormalizeStyle(tc.input); got != tc.want {
			t.Errorf("NormalizeStyle(%q) = %q, 期待値 %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeSize(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"full", domain.SizeFull},
		{"full-width", domain.SizeFull},
		{"Half_Width", domain.SizeHalf},
		{"THIRD", domain.SizeThird},
		{"quarterwidth", domain.SizeQuarter},
		{"gigantic", domain.SizeFull},
		{"", domain.SizeFull},
	}

	for _, tc := range cases {
		if got := NormalizeSize(tc.input); got != tc.want {
			t.Errorf("NormalizeSize(%q) = %q, 期待値 %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeEffects(t *testing.T) {
	t.Run("文字列効果はdescriptionに変換されること", func(t *testing.T) {
		got := NormalizeEffects(json.RawMessage(`["BOOM", "flash of light"]`))
		want := []domain.Effect{{Description: "BOOM"}, {Description: "flash of light"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("効果の変換結果が %v です, 期待値 %v", got, want)
		}
	})

	t.Run("オブジェクト効果はそのまま通ること", func(t *testing.T) {
		got := NormalizeEffects(json.RawMessage(`[{"description": "explosion", "text": "BOOM!", "position": "center"}]`))
		if len(got) != 1 || got[0].Text != "BOOM!" || got[0].Description != "explosion" {
			t.Errorf("オブジェクト効果の通過結果が %v です", got)
		}
	})

	t.Run("解釈不能な形は空列になること", func(t *testing.T) {
		if got := NormalizeEffects(json.RawMessage(`"not an array"`)); got != nil {
			t.Errorf("非配列入力で %v が返りました", got)
		}
	})
}

func TestCanonicalizeBubble(t *testing.T) {
	raw := domain.RawSpeechBubble{
		Text:          "Hello",
		Character:     "Hero",
		Position:      "UPPER_RIGHT",
		Style:         "shouting",
		TailDirection: "pointing at Hero",
	}

	got := CanonicalizeBubble(raw)
	if got.Position != "top-right" {
		t.Errorf("位置の正準化結果が %q です", got.Position)
	}
	if got.Style != domain.StyleShout {
		t.Errorf("スタイルの正準化結果が %q です", got.Style)
	}
	if got.TailDirection != domain.TailBottom {
		t.Errorf("尻尾方向の正準化結果が %q です", got.TailDirection)
	}
	if got.Text != "Hello" || got.Character != "Hero" {
		t.Error("テキストと話者は正準化で変更されないはずです")
	}
}
