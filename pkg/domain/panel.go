package domain

import (
	"encoding/json"
	"fmt"
)

// パネルサイズの正準値です。
const (
	SizeFull    = "full"
	SizeHalf    = "half"
	SizeThird   = "third"
	SizeQuarter = "quarter"
)

// PanelDescriptor は AI モデルから返される組み立て前のパネル記述です。
// dialogue と special_effects はモデルの応答ごとに形が揺れるため、
// json.RawMessage のまま保持し、pkg/director の正規化関数で展開します。
type PanelDescriptor struct {
	VisualDescription string          `json:"visual_description"`
	Characters        []string        `json:"characters"`
	Dialogue          json.RawMessage `json:"dialogue"`
	SpecialEffects    json.RawMessage `json:"special_effects"`
	PanelSize         string          `json:"panel_size"`
	Caption           string          `json:"caption"`
}

// DialogueLine は正規化済みのセリフ1行です。両フィールドとも常に非空です。
type DialogueLine struct {
	Character string `json:"character"`
	Text      string `json:"text"`
}

// Effect はパネル内の効果（効果音・集中線など）の記録です。
// 文字列由来の効果は Description のみ、オブジェクト由来の効果は
// Text/Position/Style を保持します。
type Effect struct {
	Description string `json:"description,omitempty"`
	Text        string `json:"text,omitempty"`
	Position    string `json:"position,omitempty"`
	Style       string `json:"style,omitempty"`
}

// Panel は検証済みの視覚出力単位です。PanelAssembler だけが生成し、
// 生成後は画像ステージ（ImagePath の設定）と明示的な更新操作以外から
// 変更されることはありません。
type Panel struct {
	PanelID       string         `json:"panel_id"`
	Description   string         `json:"description"`
	Characters    []string       `json:"characters"`
	Dialogue      []DialogueLine `json:"dialogue"`
	SpeechBubbles []SpeechBubble `json:"speech_bubbles"`
	Size          string         `json:"size"`
	ImagePath     string         `json:"image_path,omitempty"`
	Caption       string         `json:"caption,omitempty"`
	Effects       []Effect       `json:"effects"`
}

var validSizes = map[string]struct{}{
	SizeFull: {}, SizeHalf: {}, SizeThird: {}, SizeQuarter: {},
}

// ValidSize はサイズが4つの正準値のいずれかであるかを報告します。
func ValidSize(size string) bool {
	_, ok := validSizes[size]
	return ok
}

// Validate はパネルの不変条件を表明します。修復は行いません。
//   - characters は非空
//   - size は正準値
//   - dialogue が非空なら speech_bubbles と同数
func (p *Panel) Validate() error {
	if p.PanelID == "" {
		return fmt.Errorf("panel_id が未設定です")
	}
	if len(p.Characters) == 0 {
		return fmt.Errorf("パネル %s: characters が空です", p.PanelID)
	}
	if !ValidSize(p.Size) {
		return fmt.Errorf("パネル %s: 不正なサイズです: %q", p.PanelID, p.Size)
	}
	if len(p.Dialogue) > 0 && len(p.SpeechBubbles) != len(p.Dialogue) {
		return fmt.Errorf("パネル %s: 吹き出し数(%d)がセリフ数(%d)と一致しません",
			p.PanelID, len(p.SpeechBubbles), len(p.Dialogue))
	}
	return nil
}

// Panels はパネル列に対する補助メソッドを提供します。
type Panels []Panel
