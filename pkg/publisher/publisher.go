// Package publisher は組み立て済みのウェブトゥーンを成果物として永続化します。
// 内蔵のHTMLテンプレートでビューアを描画し、構造化データをJSONとして併記するのだ。
package publisher

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/shouni/go-webtoon-kit/pkg/domain"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

//go:embed webtoon.html
var webtoonTemplate string

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
	Lang      string
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	HTMLPath string // 生成されたビューアHTMLのパス
	DataPath string // 生成された webtoon.json のパス
}

const (
	defaultHTMLName = "webtoon.html"
	defaultDataName = "webtoon.json"
	defaultLang     = "ja"
)

// WebtoonPublisher は成果物の永続化とフォーマット変換を担います。
type WebtoonPublisher struct {
	writer remoteio.OutputWriter
	tmpl   *template.Template
}

// NewWebtoonPublisher は内蔵テンプレートをパースしたパブリッシャーを返します。
func NewWebtoonPublisher(writer remoteio.OutputWriter) (*WebtoonPublisher, error) {
	if writer == nil {
		return nil, fmt.Errorf("webtoon_publisher: writer は必須です")
	}
	tmpl, err := template.New(defaultHTMLName).Parse(webtoonTemplate)
	if err != nil {
		return nil, fmt.Errorf("webtoon_publisher: テンプレートのパースに失敗しました: %w", err)
	}
	return &WebtoonPublisher{writer: writer, tmpl: tmpl}, nil
}

// Publish はHTMLの描画とJSONダンプの書き出しを一括して実行し、生成されたファイル情報を返却するのだ！
func (wp *WebtoonPublisher) Publish(ctx context.Context, result *domain.WebtoonResult, opts Options) (PublishResult, error) {
	out := PublishResult{}
	if result == nil {
		return out, fmt.Errorf("webtoon_publisher: データが空です")
	}

	lang := opts.Lang
	if lang == "" {
		lang = defaultLang
	}

	slog.Info("Webtoon HTMLのレンダリングを開始するのだ",
		"title", result.Title,
		"panels", len(result.Panels),
	)

	// 1. HTMLの描画。画像パスは出力ディレクトリからの相対に直すのだ
	view := *result
	view.Panels = relativizeImagePaths(result.Panels, opts.OutputDir)

	var buf bytes.Buffer
	if err := wp.tmpl.Execute(&buf, struct {
		Lang    string
		Webtoon *domain.WebtoonResult
	}{Lang: lang, Webtoon: &view}); err != nil {
		return out, fmt.Errorf("webtoon_publisher: HTML生成に失敗しました: %w", err)
	}

	htmlPath, err := ResolveOutputPath(opts.OutputDir, defaultHTMLName)
	if err != nil {
		return out, err
	}
	if err := wp.writer.Write(ctx, htmlPath, &buf, "text/html; charset=utf-8"); err != nil {
		return out, fmt.Errorf("webtoon_publisher: HTMLの書き込みに失敗しました: %w", err)
	}
	out.HTMLPath = htmlPath

	// 2. 構造化データのJSONダンプ。後続の再編集やAPI応答にそのまま使えるのだ
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return out, fmt.Errorf("webtoon_publisher: JSON化に失敗しました: %w", err)
	}
	dataPath, err := ResolveOutputPath(opts.OutputDir, defaultDataName)
	if err != nil {
		return out, err
	}
	if err := wp.writer.Write(ctx, dataPath, bytes.NewReader(data), "application/json; charset=utf-8"); err != nil {
		return out, fmt.Errorf("webtoon_publisher: JSONの書き込みに失敗しました: %w", err)
	}
	out.DataPath = dataPath

	return out, nil
}

// relativizeImagePaths は出力ディレクトリ配下の画像パスを相対参照に変換します。
// プレースホルダーなどディレクトリ外のパスはそのまま残すのだ。
func relativizeImagePaths(panels domain.Panels, outputDir string) domain.Panels {
	if outputDir == "" {
		return panels
	}
	result := make(domain.Panels, len(panels))
	copy(result, panels)
	prefix := filepath.ToSlash(outputDir)
	for i, p := range result {
		full := filepath.ToSlash(p.ImagePath)
		if rel, ok := trimDirPrefix(full, prefix); ok {
			result[i].ImagePath = rel
		}
	}
	return result
}

func trimDirPrefix(full, dir string) (string, bool) {
	dir = path.Clean(dir) + "/"
	if len(full) > len(dir) && full[:len(dir)] == dir {
		return full[len(dir):], true
	}
	return "", false
}
