package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-webtoon-kit/internal/config"
	"github.com/shouni/go-webtoon-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、AIによるウェブトゥーンの全工程生成を実行するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "プロンプトから完成したウェブトゥーンを一括生成するのだ。",
	Long: `創作プロンプトを解析し、物語アウトライン、コマ割り、吹き出し、
パネル画像を順に生成し、HTMLビューアとJSONダンプとして保存するのだ。`,
	Example: "  go-webtoon-kit generate -p \"A lonely robot finds a flower on Mars\" -n 4",
	RunE:    generateCommand,
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック
	if opts.Prompt == "" && opts.PromptFile == "" {
		if !isStdin() {
			return fmt.Errorf("プロンプト（--prompt または --prompt-file）を指定してほしいのだ")
		}
		// パイプで渡された場合は標準入力から読むのだ
		opts.PromptFile = "-"
	}

	// 2. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.ImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("ウェブトゥーン生成パイプラインを起動するのだ！",
		"text_model", cfg.GeminiModel,
		"image_model", cfg.ImageModel,
		"panels", opts.NumPanels,
		"style", opts.Style,
		"output", opts.OutputDir)

	// 3. 更新した config を考慮しつつパイプラインを実行するのだ
	err := pipeline.Execute(ctx, cfg)
	if err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}

func isStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
