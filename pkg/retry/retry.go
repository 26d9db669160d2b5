// Package retry は上流 AI 呼び出しの有界再試行を提供します。
// 一時的なエラー（レート制限・サービス障害）だけを指数バックオフ付きで
// 再試行し、それ以外は試行回数を消費せずに即時伝播します。
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy は1つの上流呼び出しに適用する再試行方針です。
type Policy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	Multiplier     float64
	MaxDelay       time.Duration
	RetryableKinds []Kind
}

// DefaultPolicy は全ステージ共通の既定方針です:
// 3回試行、2秒から倍々で最大10秒のバックオフ、
// レート制限とサービス障害のみ再試行します。
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		BaseDelay:      2 * time.Second,
		Multiplier:     2.0,
		MaxDelay:       10 * time.Second,
		RetryableKinds: []Kind{KindRateLimit, KindService},
	}
}

func (p Policy) retryable(kind Kind) bool {
	for _, k := range p.RetryableKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Invoke は op を方針 p に従って実行します。
// 再試行可能なエラーで全試行を使い切った場合は、最後のエラーを
// 試行回数付きの *ExhaustedError に包んで返します。再試行不能なエラーと
// コンテキストのキャンセルは即時にそのまま返します。
func Invoke[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	var result T

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.BaseDelay
	bo.Multiplier = p.Multiplier
	bo.MaxInterval = p.MaxDelay
	bo.MaxElapsedTime = 0
	bo.RandomizationFactor = 0

	attempts := 0
	operation := func() error {
		attempts++
		v, err := op(ctx)
		if err == nil {
			result = v
			return nil
		}
		if !p.retryable(KindOf(err)) {
			return backoff.Permanent(err)
		}
		return err
	}

	maxRetries := uint64(0)
	if p.MaxAttempts > 1 {
		maxRetries = uint64(p.MaxAttempts - 1)
	}

	err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx))
	if err != nil {
		var zero T
		if ctx.Err() != nil {
			return zero, err
		}
		if p.retryable(KindOf(err)) {
			return zero, &ExhaustedError{Attempts: attempts, Err: err}
		}
		return zero, err
	}
	return result, nil
}
