package runner

import (
	"bytes"
	"context"
	"io"
	"sync"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// --- Mocks ---

// mockAIClient はテキスト生成の応答を逐次返すテスト用クライアントなのだ。
// responses を使い切った後は最後の要素を返し続けるのだ。
type mockAIClient struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (m *mockAIClient) GenerateContent(ctx context.Context, model string, prompt string) (*gemini.Response, error) {
	idx := m.calls
	m.calls++
	m.prompts = append(m.prompts, prompt)

	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}
	if len(m.responses) == 0 {
		return &gemini.Response{Text: ""}, nil
	}
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return &gemini.Response{Text: m.responses[idx]}, nil
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	return &gemini.Response{}, nil
}

func (m *mockAIClient) UploadFile(ctx context.Context, data []byte, mimeType, displayName string) (string, string, error) {
	return "", "", nil
}

func (m *mockAIClient) DeleteFile(ctx context.Context, name string) error {
	return nil
}

func (m *mockAIClient) GetFile(ctx context.Context, name string) (*genai.File, error) {
	return nil, nil
}

// mockImageGenerator は画像生成アダプターのテスト用実装なのだ。
type mockImageGenerator struct {
	err   error
	calls int
	mu    sync.Mutex
}

func (m *mockImageGenerator) GenerateMangaPanel(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return &imagedom.ImageResponse{Data: []byte("fake-png"), MimeType: "image/png"}, nil
}

func (m *mockImageGenerator) GenerateMangaPage(ctx context.Context, req imagedom.ImagePageRequest) (*imagedom.ImageResponse, error) {
	return &imagedom.ImageResponse{Data: []byte("fake-page"), MimeType: "image/png"}, nil
}

// mockWriter は書き込まれたパスと内容を記録するテスト用ライターなのだ。
type mockWriter struct {
	mu      sync.Mutex
	written map[string][]byte
	err     error
}

func newMockWriter() *mockWriter {
	return &mockWriter{written: make(map[string][]byte)}
}

func (m *mockWriter) Write(ctx context.Context, path string, r io.Reader, mimeType string) error {
	if m.err != nil {
		return m.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	m.mu.Lock()
	m.written[path] = buf.Bytes()
	m.mu.Unlock()
	return nil
}
