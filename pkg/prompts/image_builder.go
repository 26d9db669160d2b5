package prompts

import (
	"fmt"
	"strings"
)

// スタイル名と画像生成AI向けのプレフィックスの対応表です。
var stylePrefixes = map[string]string{
	"manga":   "Manga style, black and white, detailed linework, ",
	"webtoon": "Webtoon style, vibrant colors, clean linework, ",
	"comic":   "Comic book style, strong outlines, flat colors, ",
}

// DefaultStyle は画像スタイル未指定時に適用されるスタイル名です。
const DefaultStyle = "webtoon"

// negativePrompt は吹き出し、文字、低品質な描写を排除するための標準セットです。
const negativePrompt = "speech bubble, dialogue balloon, text, alphabet, letters, words, signatures, watermark, username, low quality, distorted, bad anatomy"

// BuildImagePrompt はパネルの視覚描写とキャラクター情報から、
// 画像生成AIに渡すポジティブ/ネガティブプロンプトの組を構築します。
//
// パネル分析モデルが生成した詳細プロンプト(detailed)があればそれを優先し、
// なければ視覚描写(description)をそのまま本文として使うのだ。
func BuildImagePrompt(description, detailed string, characters []string, style string) (positive, negative string) {
	prefix, ok := stylePrefixes[strings.ToLower(strings.TrimSpace(style))]
	if !ok {
		prefix = stylePrefixes[DefaultStyle]
	}

	body := strings.TrimSpace(detailed)
	if body == "" {
		body = strings.TrimSpace(description)
	}

	if len(characters) > 0 {
		body = fmt.Sprintf("%s, featuring %s", body, strings.Join(characters, ", "))
	}

	positive = prefix + body + ", cinematic composition, high resolution, no speech bubbles"
	return positive, negativePrompt
}
