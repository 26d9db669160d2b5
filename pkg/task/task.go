// Package task は生成リクエストのライフサイクルを追跡するタスクストアを提供します。
// ワークフローが進捗率とステータスを更新し、呼び出し側がポーリングで参照するのだ。
package task

import (
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

// Status はタスクの処理段階を表します。
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Task は1件の生成リクエストの状態スナップショットです。
type Task struct {
	ID        string                `json:"id"`
	Prompt    string                `json:"prompt"`
	Status    Status                `json:"status"`
	Progress  int                   `json:"progress"`
	Error     string                `json:"error,omitempty"`
	Result    *domain.WebtoonResult `json:"result,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Store はタスクの永続化境界です。実装はゴルーチン安全でなければなりません。
type Store interface {
	Get(id string) (*Task, bool)
	Put(t *Task)
	List() []*Task
}
