package retry

import (
	"errors"
	"fmt"
	"strings"
)

// Kind は上流呼び出しで観測されるエラーの分類です。
type Kind int

const (
	// KindUnknown は分類できなかったエラーです。
	KindUnknown Kind = iota
	// KindRateLimit はレート制限による一時的な拒否です（再試行可能）。
	KindRateLimit
	// KindService は上流サービスの一時障害です（再試行可能）。
	KindService
	// KindAuth は認証・認可の失敗です（再試行不能）。
	KindAuth
	// KindInvalidRequest はリクエスト自体の不備です（再試行不能）。
	KindInvalidRequest
	// KindMalformed は上流応答がスキーマに適合しない failure です（再試行不能）。
	KindMalformed
	// KindValidation は正準化後の値の不変条件違反です。
	// 正常系では到達しない欠陥の通知であり、再試行しません。
	KindValidation
)

// String は分類名を返します。
func (k Kind) String() string {
	switch k {
	case KindRateLimit:
		return "rate_limit"
	case KindService:
		return "service"
	case KindAuth:
		return "auth"
	case KindInvalidRequest:
		return "invalid_request"
	case KindMalformed:
		return "malformed_response"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// UpstreamError は上流コラボレーターのエラーを分類付きで包みます。
type UpstreamError struct {
	Kind Kind
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream は err を指定分類の UpstreamError に包みます。
func Upstream(kind Kind, err error) *UpstreamError {
	return &UpstreamError{Kind: kind, Err: err}
}

// KindOf は err の分類を返します。UpstreamError でなければ KindUnknown です。
func KindOf(err error) Kind {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return KindUnknown
}

// ExhaustedError は再試行回数を使い切った後の最終エラーです。
// 最後に観測した一時エラーを試行回数付きで保持します。
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%d回の試行後も失敗しました: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// transientHints / terminalHints は、分類情報を持たない生のクライアント
// エラーをメッセージから推定するための語彙です。
var rateLimitHints = []string{"rate limit", "too many requests", "429", "resource exhausted", "quota"}

var serviceHints = []string{"unavailable", "timeout", "deadline", "connection", "internal", "500", "502", "503", "overloaded", "temporar"}

var authHints = []string{"api key", "unauthorized", "unauthenticated", "permission", "401", "403"}

var invalidHints = []string{"invalid argument", "bad request", "400"}

// ClassifyUpstream は生のクライアントエラーを UpstreamError に分類します。
// すでに分類済みのエラーはそのまま返します。どのヒントにも一致しない
// エラーは上流側の一時障害として扱います。
func ClassifyUpstream(err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}

	msg := strings.ToLower(err.Error())
	for _, h := range rateLimitHints {
		if strings.Contains(msg, h) {
			return Upstream(KindRateLimit, err)
		}
	}
	for _, h := range authHints {
		if strings.Contains(msg, h) {
			return Upstream(KindAuth, err)
		}
	}
	for _, h := range invalidHints {
		if strings.Contains(msg, h) {
			return Upstream(KindInvalidRequest, err)
		}
	}
	for _, h := range serviceHints {
		if strings.Contains(msg, h) {
			return Upstream(KindService, err)
		}
	}
	return Upstream(KindService, err)
}
