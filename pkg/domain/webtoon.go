package domain

import "time"

// WebtoonResult は1回の生成リクエストの最終成果物です。
// ここに含まれる全パネルは組み立て時に不変条件を満たしていることが
// 保証され、レンダラー側での防御的分岐は不要です。
type WebtoonResult struct {
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generated_at"`
	Panels      []Panel   `json:"panels"`
	HTMLPath    string    `json:"html_path,omitempty"`
}
