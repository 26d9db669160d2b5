package prompts

import (
	_ "embed"
)

// 各生成ステージのモード名です。
const (
	ModeStory   = "story"
	ModePanels  = "panels"
	ModeBubbles = "bubbles"
	ModeImage   = "image"
)

// TemplateData はプロンプトテンプレートに渡すデータ構造です。
// ステージごとに使うフィールドは異なります。
type TemplateData struct {
	// Prompt はユーザーの創作プロンプトです。(story)
	Prompt string
	// AdditionalContext は任意の追加指示です。(story)
	AdditionalContext string
	// StoryJSON は物語アウトラインのJSONダンプです。(panels)
	StoryJSON string
	// NumPanels は生成するパネル数です。(panels)
	NumPanels int
	// PanelDescription はパネルの視覚記述です。(bubbles, image)
	PanelDescription string
	// DialogueJSON は正規化済みセリフのJSONダンプです。(bubbles)
	DialogueJSON string
	// Characters はパネルの登場人物一覧です。(image)
	Characters string
	// Style は画風（webtoon, manga, comic 等）です。(image)
	Style string
}

var (
	//go:embed story.md
	StoryPrompt string
	//go:embed panels.md
	PanelsPrompt string
	//go:embed bubbles.md
	BubblesPrompt string
	//go:embed image.md
	ImagePrompt string
)

// allTemplates はモードとテンプレート本文を紐づけるマップなのだ。
var allTemplates = map[string]string{
	ModeStory:   StoryPrompt,
	ModePanels:  PanelsPrompt,
	ModeBubbles: BubblesPrompt,
	ModeImage:   ImagePrompt,
}
