package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-webtoon-kit/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// opts は各サブコマンドで共有する実行時オプションなのだ。
var opts config.GenerateOptions

// rootCmd は、アプリケーションのトップレベルコマンドなのだ。
var rootCmd = &cobra.Command{
	Use:   "go-webtoon-kit",
	Short: "プロンプトからウェブトゥーンを生成するAIパイプラインなのだ。",
	Long: `ユーザーの創作プロンプトを起点に、物語アウトライン、コマ割り、吹き出し、
パネル画像を順に生成し、縦スクロールのウェブトゥーンHTMLとして出力するのだ。`,
	PersistentPreRunE: preRunAppE,
	SilenceUsage:      true,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.Prompt, "prompt", "p", "", "創作プロンプト本文なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.PromptFile, "prompt-file", "f", "", "プロンプトを記載したファイルのパス（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.StoryFile, "story-file", "", "中間成果物（story.json / webtoon.json）の入力パスなのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "成果物の保存ディレクトリ（ローカル or gs://...）なのだ。")

	// --- 生成内容の設定 ---
	rootCmd.PersistentFlags().IntVarP(&opts.NumPanels, "panels", "n", config.DefaultPanelCount, "生成するコマ数なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.Style, "style", "s", config.DefaultStyle, "画風（webtoon / manga / comic）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Context, "context", "", "ストーリー生成に渡す追加の指示なのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", config.DefaultModel, "使用する Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "画像生成に使用する Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.SkipImages, "skip-images", false, "画像生成を省略してプレースホルダーを使うのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// Gemini APIを利用するため、APIキーの存在チェックは欠かせないのだ！
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	// .env があれば読み込む。無くてもエラーにはしないのだ
	if err := godotenv.Load(); err == nil {
		slog.Debug(".env を読み込んだのだ")
	}

	addAppFlags(rootCmd)
	rootCmd.AddCommand(
		generateCmd,
		storyCmd,
		panelsCmd,
		imageCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
