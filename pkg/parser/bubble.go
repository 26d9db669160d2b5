package parser

import (
	"encoding/json"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

type rawBubblesResponse struct {
	SpeechBubbles []domain.RawSpeechBubble `json:"speechBubbles"`
}

// CoerceBubbles はレイアウト担当 AI の生応答を吹き出し案の列に矯正します。
// 正準の "speechBubbles" キーを優先し、モデルがキーを省いて
// 配列だけを返した場合も受理します。属性の語彙はまだ自由形のままで、
// 正準化は呼び出し側が pkg/director で行います。
func CoerceBubbles(raw string) ([]domain.RawSpeechBubble, error) {
	extracted := ExtractJSON(raw)

	var resp rawBubblesResponse
	if err := json.Unmarshal([]byte(extracted), &resp); err == nil && resp.SpeechBubbles != nil {
		return resp.SpeechBubbles, nil
	}

	var bare []domain.RawSpeechBubble
	if err := json.Unmarshal([]byte(extracted), &bare); err == nil {
		return bare, nil
	}

	return nil, &SchemaError{
		Field:  "speechBubbles",
		Reason: "JSONとして解析できません (応答抜粋: " + truncate(raw, 200) + ")",
	}
}
