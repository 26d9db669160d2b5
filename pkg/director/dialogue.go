package director

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

// DefaultCharacterName は話者を特定できなかったセリフに割り当てる名前です。
const DefaultCharacterName = "Character"

// DefaultDialogueText はテキストを特定できなかったセリフの代替表記です。
const DefaultDialogueText = "..."

// NormalizeDialogue はモデル応答の揺れる dialogue 形状を
// []domain.DialogueLine に正規化します。受理する形は4通りです:
//   - "Name: line" 形式の単一文字列
//   - 文字列の配列（各行を独立に分解）
//   - {character, text} オブジェクトの配列（欠けたキーを補完）
//   - 話者名→セリフのマップ（キー昇順で1エントリ1行）
//
// どの形にも一致しない入力は空列になります。全域関数であり、失敗しません。
func NormalizeDialogue(raw json.RawMessage) []domain.DialogueLine {
	if len(raw) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			return nil
		}
		return []domain.DialogueLine{splitDialogueLine(single)}
	}

	var objects []map[string]string
	if err := json.Unmarshal(raw, &objects); err == nil {
		lines := make([]domain.DialogueLine, 0, len(objects))
		for _, obj := range objects {
			lines = append(lines, fillDialogueLine(obj["character"], obj["text"]))
		}
		return lines
	}

	var strs []string
	if err := json.Unmarshal(raw, &strs); err == nil {
		lines := make([]domain.DialogueLine, 0, len(strs))
		for _, s := range strs {
			lines = append(lines, splitDialogueLine(s))
		}
		return lines
	}

	var byName map[string]string
	if err := json.Unmarshal(raw, &byName); err == nil {
		// マップの列挙順は不定のため、キー昇順で決定的にする
		names := make([]string, 0, len(byName))
		for name := range byName {
			names = append(names, name)
		}
		sort.Strings(names)

		lines := make([]domain.DialogueLine, 0, len(names))
		for _, name := range names {
			lines = append(lines, fillDialogueLine(name, byName[name]))
		}
		return lines
	}

	return nil
}

// splitDialogueLine は "Name: line" 形式の1行を最初のコロンで分解します。
// コロンがない場合は全体をセリフとして扱い、話者は既定名になります。
func splitDialogueLine(s string) domain.DialogueLine {
	s = strings.TrimSpace(s)
	if character, text, found := strings.Cut(s, ":"); found {
		return fillDialogueLine(character, text)
	}
	return fillDialogueLine("", s)
}

func fillDialogueLine(character, text string) domain.DialogueLine {
	character = strings.TrimSpace(character)
	text = strings.TrimSpace(text)
	if character == "" {
		character = DefaultCharacterName
	}
	if text == "" {
		text = DefaultDialogueText
	}
	return domain.DialogueLine{Character: character, Text: text}
}

// SpeakersOf はセリフ列から登場順・重複なしの話者リストを抽出するのだ。
func SpeakersOf(lines []domain.DialogueLine) []string {
	seen := make(map[string]struct{}, len(lines))
	var speakers []string
	for _, line := range lines {
		if _, ok := seen[line.Character]; ok {
			continue
		}
		seen[line.Character] = struct{}{}
		speakers = append(speakers, line.Character)
	}
	return speakers
}
