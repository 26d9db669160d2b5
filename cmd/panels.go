package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-webtoon-kit/internal/config"
	"github.com/shouni/go-webtoon-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// panelsCmd は、保存済みのアウトラインからコマ割りと吹き出しを組み立てるのだ。
var panelsCmd = &cobra.Command{
	Use:   "panels",
	Short: "story.json からコマ割りと吹き出しを組み立てるのだ。",
	Long: `story コマンドで保存したアウトラインを読み込み、コマ割りの生成と
吹き出しの配置までを実行するのだ。画像はプレースホルダーのまま、
webtoon.json と HTML ビューアを出力するのだよ。`,
	Example: "  go-webtoon-kit panels --story-file output/story.json -n 4",
	RunE:    panelsCommand,
}

// panelsCommand は、panels サブコマンドの実行ロジック本体なのだ。
func panelsCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// デフォルト値の判定。指定がなければ story コマンドの出力先を読むのだ
	if !cmd.Flags().Changed("story-file") && opts.StoryFile == "" {
		opts.StoryFile = "output/story.json"
	}
	if opts.StoryFile == "" {
		return fmt.Errorf("読み込むアウトライン（--story-file）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.Options = opts

	slog.Info("コマ割りの組み立てを開始するのだ！",
		"input", opts.StoryFile,
		"panels", opts.NumPanels,
		"output", opts.OutputDir)

	if err := pipeline.ExecutePanelsOnly(ctx, cfg); err != nil {
		return fmt.Errorf("コマ割りの組み立て中にエラーが発生したのだ: %w", err)
	}
	return nil
}
