package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-webtoon-kit/internal/config"
	"github.com/shouni/go-webtoon-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// imageCmd は、組み立て済みの webtoon.json に対して画像だけを再生成するのだ。
var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "webtoon.json のパネル画像を再生成するのだ。",
	Long: `panels コマンドや generate コマンドで出力した webtoon.json を読み込み、
コマ割りと吹き出しはそのままに、パネル画像の生成とビューアの再出力だけを行うのだ。`,
	Example: "  go-webtoon-kit image --story-file output/webtoon.json -o output",
	RunE:    imageCommand,
}

// imageCommand は、image サブコマンドの実行ロジック本体なのだ。
func imageCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// デフォルト値の判定。指定がなければ前工程の出力先を読むのだ
	if !cmd.Flags().Changed("story-file") && opts.StoryFile == "" {
		opts.StoryFile = "output/webtoon.json"
	}
	if opts.StoryFile == "" {
		return fmt.Errorf("読み込む成果物（--story-file）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.ImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("パネル画像の再生成を開始するのだ！",
		"input", opts.StoryFile,
		"image_model", cfg.ImageModel,
		"output", opts.OutputDir)

	if err := pipeline.ExecuteImageOnly(ctx, cfg); err != nil {
		return fmt.Errorf("画像再生成中にエラーが発生したのだ: %w", err)
	}
	return nil
}
