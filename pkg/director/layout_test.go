package director

import (
	"testing"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

func TestNormalizePosition(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"正準値はそのまま", "top-left", "top-left"},
		{"アンダースコア区切りを受理", "bottom_right", "bottom-right"},
		{"大文字混じりを受理", "TOP-RIGHT", "top-right"},
		{"middleはcenterに畳み込む", "middle-left", "center-left"},
		{"upper/lowerの同義語", "upper-right", "top-right"},
		{"縦だけの指定は横が既定値", "bottom", "bottom-left"},
		{"横だけの指定は縦が既定値", "right", "top-right"},
		{"未知の値は既定配置", "somewhere weird", "top-left"},
		{"空文字も既定配置", "", "top-left"},
		{"middle単体は横の中央に解釈される", "middle", "top-center"},
		{"横が確定済みならcenterは縦に回る", "center-right", "center-right"},
		{"縦が確定済みならcenterは横に回る", "top-center", "top-center"},
		{"middle-middleは中央に畳み込む", "middle-middle", "center-center"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizePosition(tc.input)
			if got != tc.want {
				t.Errorf("NormalizePosition(%q) = %q, 期待値 %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizePosition_Idempotent(t *testing.T) {
	t.Run("正準9値はすべて不動点であること", func(t *testing.T) {
		for _, v := range []string{"top", "center", "bottom"} {
			for _, h := range []string{"left", "center", "right"} {
				canonical := v + "-" + h
				if got := NormalizePosition(canonical); got != canonical {
					t.Errorf("NormalizePosition(%q) = %q, 正準値が動いています", canonical, got)
				}
			}
		}
	})

	t.Run("正規化の出力を再入力しても変化しないこと", func(t *testing.T) {
		inputs := []string{"upper_left", "MIDDLE-CENTER", "garbage", "bottom right", "middle", "center"}
		for _, input := range inputs {
			once := NormalizePosition(input)
			twice := NormalizePosition(once)
			if once != twice {
				t.Errorf("冪等性が破れています: %q -> %q -> %q", input, once, twice)
			}
		}
	})
}

func TestNormalizeTail(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"up", domain.TailTop},
		{"upward", domain.TailTop},
		{"down", domain.TailBottom},
		{"leftward", domain.TailLeft},
		{"Right", domain.TailRight},
		{"none", domain.TailNone},
		{"pointing to Hero", domain.TailBottom},
		{"", domain.TailBottom},
		{"mysterious", domain.TailBottom},
	}

	for _, tc := range cases {
		got := NormalizeTail(tc.input)
		if got != tc.want {
			t.Errorf("NormalizeTail(%q) = %q, 期待値 %q", tc.input, got, tc.want)
		}
	}
}

func TestFallbackPosition(t *testing.T) {
	t.Run("偶数行は左上、奇数行は右下に交互配置されること", func(t *testing.T) {
		if FallbackPosition(0) != "top-left" {
			t.Errorf("index 0 の配置が %q です", FallbackPosition(0))
		}
		if FallbackPosition(1) != "bottom-right" {
			t.Errorf("index 1 の配置が %q です", FallbackPosition(1))
		}
		if FallbackPosition(2) != "top-left" {
			t.Errorf("index 2 の配置が %q です", FallbackPosition(2))
		}
	})
}
