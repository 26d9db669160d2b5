package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-webtoon-kit/internal/config"
	"github.com/shouni/go-webtoon-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// storyCmd は、物語アウトラインだけを生成して保存するのだ。
var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "プロンプトから物語アウトラインだけを生成するのだ。",
	Long: `コマ割りや画像生成に進む前に、プロットの方向性を確認したいときに使うのだ。
生成されたアウトラインは story.json として出力ディレクトリに保存されるのだ。`,
	Example: "  go-webtoon-kit story -p \"A lonely robot finds a flower on Mars\" -o output",
	RunE:    storyCommand,
}

// storyCommand は、story サブコマンドの実行ロジック本体なのだ。
func storyCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.Prompt == "" && opts.PromptFile == "" {
		return fmt.Errorf("プロンプト（--prompt または --prompt-file）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.Options = opts

	slog.Info("物語アウトラインの生成を開始するのだ！",
		"text_model", cfg.GeminiModel,
		"output", opts.OutputDir)

	if err := pipeline.ExecuteStoryOnly(ctx, cfg); err != nil {
		return fmt.Errorf("アウトライン生成中にエラーが発生したのだ: %w", err)
	}
	return nil
}
