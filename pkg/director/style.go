package director

import (
	"encoding/json"
	"strings"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

var styleSynonyms = map[string]string{
	"normal":     domain.StyleNormal,
	"regular":    domain.StyleNormal,
	"thought":    domain.StyleThought,
	"thinking":   domain.StyleThought,
	"shout":      domain.StyleShout,
	"shouted":    domain.StyleShout,
	"shouting":   domain.StyleShout,
	"yell":       domain.StyleShout,
	"yelling":    domain.StyleShout,
	"whisper":    domain.StyleWhisper,
	"whispering": domain.StyleWhisper,
	"quiet":      domain.StyleWhisper,
}

// NormalizeStyle は吹き出しスタイルの表記揺れを正準値に畳み込みます。
// 認識できない値は normal になります。
func NormalizeStyle(style string) string {
	if canonical, ok := styleSynonyms[strings.ToLower(strings.TrimSpace(style))]; ok {
		return canonical
	}
	return domain.StyleNormal
}

var sizeSynonyms = map[string]string{
	"full":          domain.SizeFull,
	"full-width":    domain.SizeFull,
	"full_width":    domain.SizeFull,
	"fullwidth":     domain.SizeFull,
	"half":          domain.SizeHalf,
	"half-width":    domain.SizeHalf,
	"half_width":    domain.SizeHalf,
	"halfwidth":     domain.SizeHalf,
	"third":         domain.SizeThird,
	"third-width":   domain.SizeThird,
	"third_width":   domain.SizeThird,
	"thirdwidth":    domain.SizeThird,
	"quarter":       domain.SizeQuarter,
	"quarter-width": domain.SizeQuarter,
	"quarter_width": domain.SizeQuarter,
	"quarterwidth":  domain.SizeQuarter,
}

// NormalizeSize はパネルサイズ推奨値を {full, half, third, quarter} に
// 畳み込みます。認識できない値は full になります。
func NormalizeSize(size string) string {
	if canonical, ok := sizeSynonyms[strings.ToLower(strings.TrimSpace(size))]; ok {
		return canonical
	}
	return domain.SizeFull
}

// NormalizeEffects は special_effects の形状揺れを []domain.Effect に
// 正規化します。文字列の効果は {description} に変換し、オブジェクトの
// 効果はそのまま通します。どちらでもない入力は空列です。
func NormalizeEffects(raw json.RawMessage) []domain.Effect {
	if len(raw) == 0 {
		return nil
	}

	var mixed []json.RawMessage
	if err := json.Unmarshal(raw, &mixed); err != nil {
		return nil
	}

	effects := make([]domain.Effect, 0, len(mixed))
	for _, item := range mixed {
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			if strings.TrimSpace(text) != "" {
				effects = append(effects, domain.Effect{Description: text})
			}
			continue
		}

		var effect domain.Effect
		if err := json.Unmarshal(item, &effect); err == nil {
			effects = append(effects, effect)
		}
	}
	return effects
}

// CanonicalizeBubble は位置・スタイル・尻尾方向をまとめて正準化するのだ。
// モデル由来でもフォールバック由来でも、この関数を通した吹き出しは
// 必ず正準値を持つ。
func CanonicalizeBubble(raw domain.RawSpeechBubble) domain.RawSpeechBubble {
	raw.Position = NormalizePosition(raw.Position)
	raw.Style = NormalizeStyle(raw.Style)
	raw.TailDirection = NormalizeTail(raw.TailDirection)
	return raw
}
