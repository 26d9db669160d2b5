package parser

import (
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

// theme / mood が欠落していた場合に補う固定の構造的プレースホルダです。
// 創作的な内容は決して発明しません。
const (
	ThemeFromPlot    = "Themes derived from the plot"
	ThemeFromSetting = "Themes related to the setting"
	ThemeGeneric     = "Adventure and discovery"

	MoodSomber   = "Somber and reflective"
	MoodIntense  = "Intense and dramatic"
	MoodBalanced = "Balanced mix of light and serious moments"
)

// titleWordLimit はプロンプトからタイトルを導出する際に使う語数です。
const titleWordLimit = 5

var titleCaser = cases.Title(language.English)

// rawStory は検証前の中間形です。必須フィールドの「欠落」と「空」を
// 区別するためにポインタと RawMessage を使います。
type rawStory struct {
	Title          string              `json:"title"`
	Setting        map[string]string   `json:"setting"`
	MainCharacters []map[string]string `json:"main_characters"`
	PlotSummary    *string             `json:"plot_summary"`
	KeyScenes      []json.RawMessage   `json:"key_scenes"`
	Theme          *string             `json:"theme"`
	Mood           *string             `json:"mood"`
}

// CoerceStory は物語生成の生応答を StoryOutline に矯正します。
// 構造検証の前に既定値推論を適用します:
//   - theme 欠落時: plot_summary があれば「plotから導出」の既定値、
//     なければ setting 非空で「settingに関連」の既定値、どちらも無ければ
//     固定の汎用既定値。
//   - mood 欠落時: plot_summary の語彙から推定（"tragic"→沈鬱、
//     "action"/"battle"→激烈、その他→中庸）。
//   - title 欠落時: theme、それも無ければ prompt の先頭数語から導出。
//
// 既定値適用後も必須フィールドが欠けていれば SchemaError を返します。
func CoerceStory(raw, prompt string) (*domain.StoryOutline, error) {
	var rs rawStory
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &rs); err != nil {
		return nil, &SchemaError{
			Field:  "story",
			Reason: "JSONとして解析できません (応答抜粋: " + truncate(raw, 200) + ")",
		}
	}

	theme := inferTheme(rs)
	mood := inferMood(rs)

	// 既定値適用後の構造検証。最初の欠落フィールドを報告する。
	switch {
	case rs.Setting == nil:
		return nil, &SchemaError{Field: "setting", Reason: "必須フィールドが欠落しています"}
	case rs.MainCharacters == nil:
		return nil, &SchemaError{Field: "main_characters", Reason: "必須フィールドが欠落しています"}
	case rs.PlotSummary == nil:
		return nil, &SchemaError{Field: "plot_summary", Reason: "必須フィールドが欠落しています"}
	case rs.KeyScenes == nil:
		return nil, &SchemaError{Field: "key_scenes", Reason: "必須フィールドが欠落しています"}
	}

	scenes, err := normalizeKeyScenes(rs.KeyScenes)
	if err != nil {
		return nil, err
	}

	outline := &domain.StoryOutline{
		Title:          rs.Title,
		Setting:        rs.Setting,
		MainCharacters: rs.MainCharacters,
		PlotSummary:    *rs.PlotSummary,
		KeyScenes:      scenes,
		Theme:          theme,
		Mood:           mood,
		GeneratedAt:    time.Now().UTC(),
	}
	if outline.Title == "" {
		outline.Title = DeriveTitle(theme, prompt)
	}
	return outline, nil
}

func inferTheme(rs rawStory) string {
	if rs.Theme != nil && *rs.Theme != "" {
		return *rs.Theme
	}
	if rs.PlotSummary != nil {
		return ThemeFromPlot
	}
	if len(rs.Setting) > 0 {
		return ThemeFromSetting
	}
	return ThemeGeneric
}

func inferMood(rs rawStory) string {
	if rs.Mood != nil && *rs.Mood != "" {
		return *rs.Mood
	}
	if rs.PlotSummary != nil {
		plot := strings.ToLower(*rs.PlotSummary)
		if strings.Contains(plot, "tragic") {
			return MoodSomber
		}
		if strings.Contains(plot, "action") || strings.Contains(plot, "battle") {
			return MoodIntense
		}
	}
	return MoodBalanced
}

// normalizeKeyScenes はシーン列の各要素を平文に正規化します。
// 要素は平文か {"scene": "..."} 形式の1キーラッパーを受理します。
func normalizeKeyScenes(raw []json.RawMessage) ([]string, error) {
	scenes := make([]string, 0, len(raw))
	for _, item := range raw {
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			scenes = append(scenes, text)
			continue
		}

		var wrapper map[string]string
		if err := json.Unmarshal(item, &wrapper); err == nil {
			if scene, ok := wrapper["scene"]; ok {
				scenes = append(scenes, scene)
				continue
			}
			// 1キーのラッパーなら "scene" 以外のキーでも中身を採用する
			if len(wrapper) == 1 {
				for _, v := range wrapper {
					scenes = append(scenes, v)
				}
				continue
			}
		}
		return nil, &SchemaError{Field: "key_scenes", Reason: "シーンは文字列か1キーのラッパーである必要があります"}
	}
	return scenes, nil
}

// DeriveTitle は theme または prompt の先頭数語からタイトルを導出します。
func DeriveTitle(theme, prompt string) string {
	if theme != "" {
		return titleCaser.String(theme)
	}
	words := strings.Fields(prompt)
	if len(words) > titleWordLimit {
		words = words[:titleWordLimit]
	}
	if len(words) == 0 {
		return "Untitled"
	}
	return titleCaser.String(strings.Join(words, " "))
}
