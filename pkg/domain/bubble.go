package domain

import "fmt"

// 吹き出しスタイルの正準値です。
const (
	StyleNormal  = "normal"
	StyleThought = "thought"
	StyleShout   = "shout"
	StyleWhisper = "whisper"
)

// 吹き出しの尻尾が指す方向の正準値です。
const (
	TailTop    = "top"
	TailRight  = "right"
	TailBottom = "bottom"
	TailLeft   = "left"
	TailNone   = "none"
)

// SpeechBubble は1つのセリフの描画単位です。
// position は「縦-横」形式の9分割グリッド（例: "top-left"）、
// style と tail_direction は上記の正準値のいずれかであることが
// NewSpeechBubble の構築時に保証されます。
type SpeechBubble struct {
	Text          string `json:"text"`
	Character     string `json:"character"`
	Position      string `json:"position"`
	Style         string `json:"style"`
	TailDirection string `json:"tail_direction"`
}

// RawSpeechBubble はレイアウト担当 AI から返される正規化前の吹き出し案です。
// 各属性は自由語彙のまま保持し、正準化は pkg/director が行います。
type RawSpeechBubble struct {
	Text          string `json:"text"`
	Character     string `json:"character"`
	Position      string `json:"position"`
	Style         string `json:"style"`
	TailDirection string `json:"tail_direction"`
}

var validStyles = map[string]struct{}{
	StyleNormal: {}, StyleThought: {}, StyleShout: {}, StyleWhisper: {},
}

var validTails = map[string]struct{}{
	TailTop: {}, TailRight: {}, TailBottom: {}, TailLeft: {}, TailNone: {},
}

var validAxis = map[string]struct{}{
	"top": {}, "center": {}, "bottom": {}, "left": {}, "right": {},
}

// NewSpeechBubble は正準化済みの属性から吹き出しを構築します。
// ここでの検証は修復ではなく表明です。失敗は正準化側（pkg/director）の
// 欠陥を意味するため、そのままエラーとして報告します。
func NewSpeechBubble(text, character, position, style, tail string) (SpeechBubble, error) {
	if text == "" {
		return SpeechBubble{}, fmt.Errorf("吹き出しのテキストが空です")
	}
	if err := validatePosition(position); err != nil {
		return SpeechBubble{}, err
	}
	if _, ok := validStyles[style]; !ok {
		return SpeechBubble{}, fmt.Errorf("不正な吹き出しスタイルです: %q", style)
	}
	if _, ok := validTails[tail]; !ok {
		return SpeechBubble{}, fmt.Errorf("不正な尻尾方向です: %q", tail)
	}
	return SpeechBubble{
		Text:          text,
		Character:     character,
		Position:      position,
		Style:         style,
		TailDirection: tail,
	}, nil
}

func validatePosition(position string) error {
	vert, horiz, ok := splitPosition(position)
	if !ok {
		return fmt.Errorf("位置は「縦-横」形式である必要があります: %q", position)
	}
	if _, ok := validAxis[vert]; !ok || vert == "left" || vert == "right" {
		return fmt.Errorf("不正な縦位置です: %q", position)
	}
	if _, ok := validAxis[horiz]; !ok || horiz == "top" || horiz == "bottom" {
		return fmt.Errorf("不正な横位置です: %q", position)
	}
	return nil
}

func splitPosition(position string) (vert, horiz string, ok bool) {
	for i := 0; i < len(position); i++ {
		if position[i] == '-' {
			return position[:i], position[i+1:], true
		}
	}
	return "", "", false
}
