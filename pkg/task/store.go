package task

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

const (
	defaultTaskExpiration = 24 * time.Hour
	cleanupInterval       = 1 * time.Hour
)

// CacheStore は go-cache を背後に持つ Store 実装です。
// 完了済みタスクは有効期限切れで自動的に掃除されます。
// 取得系はスナップショットのコピーを返し、更新系は読み比べから書き込み
// までをミューテックスで括ります。画像工程は並列ゴルーチンから進捗を
// 報告してくるため、ここが排他されていないと進捗の巻き戻りが起きます。
type CacheStore struct {
	mu sync.Mutex
	c  *cache.Cache
}

// NewCacheStore は有効期限付きのタスクストアを生成します。
func NewCacheStore() *CacheStore {
	return &CacheStore{c: cache.New(defaultTaskExpiration, cleanupInterval)}
}

// Create は新しいタスクをキュー状態で登録し、そのスナップショットを返します。
func (s *CacheStore) Create(prompt string) *Task {
	now := time.Now().UTC()
	t := &Task{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		Status:    StatusQueued,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Put(t)
	return t
}

// Get は指定IDのタスクのコピーを返します。
// 戻り値への変更はストア内の状態に影響しません。
func (s *CacheStore) Get(id string) (*Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(id)
}

// Put はタスクのコピーを保存します。更新日時はここで刻印されます。
func (s *CacheStore) Put(t *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store(t)
}

// List は作成日時の降順で全タスクのコピーを返します。
func (s *CacheStore) List() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.c.Items()
	tasks := make([]*Task, 0, len(items))
	for _, item := range items {
		if t, ok := item.Object.(*Task); ok {
			cp := *t
			tasks = append(tasks, &cp)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks
}

// SetProgress は進捗率を単調増加で更新します。読み比べと書き込みが
// ひとつのロック区間に収まるため、並列ステージからの古い報告や
// 報告同士の競合で進捗が巻き戻ることはありません。
func (s *CacheStore) SetProgress(id string, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.snapshot(id)
	if !ok {
		return
	}
	if progress <= t.Progress {
		return
	}
	if progress > 100 {
		progress = 100
	}
	t.Progress = progress
	t.Status = StatusProcessing
	s.store(t)
}

// Complete はタスクを完了状態に遷移させ、結果を紐付けます。
func (s *CacheStore) Complete(id string, result *domain.WebtoonResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.snapshot(id)
	if !ok {
		return
	}
	t.Status = StatusCompleted
	t.Progress = 100
	t.Result = result
	s.store(t)
}

// Fail はタスクを失敗状態に遷移させます。
func (s *CacheStore) Fail(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.snapshot(id)
	if !ok {
		return
	}
	t.Status = StatusFailed
	t.Error = err.Error()
	s.store(t)
}

// snapshot は保持中のタスクをコピーして返します。呼び出し側がロックを持ちます。
func (s *CacheStore) snapshot(id string) (*Task, bool) {
	v, ok := s.c.Get(id)
	if !ok {
		return nil, false
	}
	t, ok := v.(*Task)
	if !ok {
		return nil, false
	}
	cp := *t
	return &cp, true
}

// store はタスクのコピーを保存します。呼び出し側がロックを持ちます。
func (s *CacheStore) store(t *Task) {
	cp := *t
	cp.UpdatedAt = time.Now().UTC()
	s.c.Set(cp.ID, &cp, cache.DefaultExpiration)
}
