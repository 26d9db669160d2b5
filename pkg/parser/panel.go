package parser

import (
	"encoding/json"
	"fmt"

	"github.com/shouni/go-webtoon-kit/pkg/director"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

type rawPanelsResponse struct {
	Panels []rawPanel `json:"panels"`
}

type rawPanel struct {
	VisualDescription *string         `json:"visual_description"`
	Characters        []string        `json:"characters"`
	Dialogue          json.RawMessage `json:"dialogue"`
	SpecialEffects    json.RawMessage `json:"special_effects"`
	PanelSize         string          `json:"panel_size"`
	Caption           string          `json:"caption"`
}

// CoercePanels はパネル記述生成の生応答を []PanelDescriptor に矯正します。
// characters が欠落・空のパネルには dialogue から話者を抽出して補い、
// それでも空なら単一のプレースホルダ名を与えます。
// dialogue / special_effects の形状正規化はここでは行わず、
// 組み立て段階（pkg/assembler）に委ねます。
func CoercePanels(raw string) ([]domain.PanelDescriptor, error) {
	var resp rawPanelsResponse
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &resp); err != nil {
		return nil, &SchemaError{
			Field:  "panels",
			Reason: "JSONとして解析できません (応答抜粋: " + truncate(raw, 200) + ")",
		}
	}
	if resp.Panels == nil {
		return nil, &SchemaError{Field: "panels", Reason: "必須フィールドが欠落しています"}
	}

	descriptors := make([]domain.PanelDescriptor, 0, len(resp.Panels))
	for i, rp := range resp.Panels {
		if rp.VisualDescription == nil || *rp.VisualDescription == "" {
			return nil, &SchemaError{
				Field:  fmt.Sprintf("panels[%d].visual_description", i),
				Reason: "必須フィールドが欠落しています",
			}
		}

		characters := rp.Characters
		if len(characters) == 0 {
			characters = director.SpeakersOf(director.NormalizeDialogue(rp.Dialogue))
		}
		if len(characters) == 0 {
			characters = []string{director.DefaultCharacterName}
		}

		descriptors = append(descriptors, domain.PanelDescriptor{
			VisualDescription: *rp.VisualDescription,
			Characters:        characters,
			Dialogue:          rp.Dialogue,
			SpecialEffects:    rp.SpecialEffects,
			PanelSize:         rp.PanelSize,
			Caption:           rp.Caption,
		})
	}
	return descriptors, nil
}
