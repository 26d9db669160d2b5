// Package fallback は、上流ステージが回復不能に失敗したときに
// 後段へ渡せる最小限のスキーマ適合レコードを合成します。
// ここで作る値は決定的な構造的プレースホルダであり、創作的な内容は
// 一切含みません。
//
// パネル記述ステージには意図的にフォールバックがありません。
// 記述のないパネルは使い物にならないため、その失敗はリクエスト全体の
// 失敗として呼び出し元に表面化させます。
package fallback

import (
	"strings"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/director"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/parser"
)

// PlaceholderImagePath は画像生成が失敗したパネルに設定する固定の
// 代替画像ロケータです。画像ステージだけはエラー種別を問わず無条件に
// この値へフォールバックします。
const PlaceholderImagePath = "static/images/placeholder.jpg"

// MinimalStory はプロンプト文字列だけから決定的な最小アウトラインを
// 構築します。物語生成の呼び出し自体が回復不能だった場合にのみ使われ、
// coercion が既定値付きで成功した場合には使われません。
func MinimalStory(prompt string) *domain.StoryOutline {
	return &domain.StoryOutline{
		Title:          parser.DeriveTitle("", prompt),
		Setting:        map[string]string{"description": strings.TrimSpace(prompt)},
		MainCharacters: []map[string]string{},
		PlotSummary:    strings.TrimSpace(prompt),
		KeyScenes:      []string{},
		Theme:          parser.ThemeGeneric,
		Mood:           parser.MoodBalanced,
		GeneratedAt:    time.Now().UTC(),
	}
}

// PlaceholderBubbles はレイアウト呼び出しが再試行を使い切った後の
// 局所フォールバックです。セリフ1行につき吹き出しを1つ、
// 左上・右下の交互配置、標準スタイル、尻尾は下向きで合成します。
func PlaceholderBubbles(dialogue []domain.DialogueLine) []domain.RawSpeechBubble {
	bubbles := make([]domain.RawSpeechBubble, 0, len(dialogue))
	for i, line := range dialogue {
		bubbles = append(bubbles, domain.RawSpeechBubble{
			Text:          line.Text,
			Character:     line.Character,
			Position:      director.FallbackPosition(i),
			Style:         domain.StyleNormal,
			TailDirection: domain.TailBottom,
		})
	}
	return bubbles
}
