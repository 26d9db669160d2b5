package domain

import (
	"strings"
	"time"
)

// StoryOutline は AI モデルが生成した物語の骨子です。
// theme と mood は coercion（pkg/parser）適用後は必ず非空になります。
type StoryOutline struct {
	Title          string              `json:"title"`
	Setting        map[string]string   `json:"setting"`
	MainCharacters []map[string]string `json:"main_characters"`
	PlotSummary    string              `json:"plot_summary"`
	KeyScenes      []string            `json:"key_scenes"`
	Theme          string              `json:"theme"`
	Mood           string              `json:"mood"`
	GeneratedAt    time.Time           `json:"generated_at"`
}

// CharacterNames は main_characters の各記述から名前だけを抽出するのだ。
// "name" キーがない記述はスキップします。
func (s *StoryOutline) CharacterNames() []string {
	names := make([]string, 0, len(s.MainCharacters))
	for _, c := range s.MainCharacters {
		if name := strings.TrimSpace(c["name"]); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// TitleOrDefault はタイトルが未設定の場合にテーマから導出した値を返します。
func (s *StoryOutline) TitleOrDefault() string {
	if s.Title != "" {
		return s.Title
	}
	if s.Theme != "" {
		return s.Theme
	}
	return "Untitled"
}
