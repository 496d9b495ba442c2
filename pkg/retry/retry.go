// Package retry runs a bounded number of attempts until a result is accepted.
//
// Attempts are strictly sequential with no delay between them, and the loop
// does not stop early on context cancellation: the context is only handed to
// each attempt.
package retry

import "context"

// Fallback decides what Do returns when no attempt was accepted.
type Fallback int

const (
	// FallbackOriginal returns the value passed to Do untouched.
	FallbackOriginal Fallback = iota
	// FallbackLastAttempt returns the value produced by the final successful attempt.
	FallbackLastAttempt
)

func (f Fallback) String() string {
	switch f {
	case FallbackOriginal:
		return "original"
	case FallbackLastAttempt:
		return "last-attempt"
	default:
		return "unknown"
	}
}

// Policy configures Do.
type Policy[T any] struct {
	MaxAttempts int
	Accept      func(T) bool
	Fallback    Fallback
	// StopOnError aborts on the first attempt error instead of counting it as
	// a rejected attempt.
	StopOnError bool
	// OnReject is called after every attempt that was not accepted. err is
	// set when the attempt itself failed.
	OnReject func(attempt int, value T, err error)
}

// Result reports the outcome of Do.
type Result[T any] struct {
	Value    T
	Attempts int
	Accepted bool
}

// Do calls attempt up to p.MaxAttempts times (at least once) and returns the
// first value p.Accept approves. When none is approved the fallback policy
// picks between original and the last produced value.
func Do[T any](ctx context.Context, p Policy[T], original T, attempt func(ctx context.Context, n int) (T, error)) (Result[T], error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var last T
	haveLast := false
	for n := 1; n <= maxAttempts; n++ {
		value, err := attempt(ctx, n)
		if err != nil {
			if p.StopOnError {
				return Result[T]{Value: original, Attempts: n}, err
			}
			if p.OnReject != nil {
				var zero T
				p.OnReject(n, zero, err)
			}
			continue
		}

		last, haveLast = value, true
		if p.Accept == nil || p.Accept(value) {
			return Result[T]{Value: value, Attempts: n, Accepted: true}, nil
		}
		if p.OnReject != nil {
			p.OnReject(n, value, nil)
		}
	}

	result := Result[T]{Value: original, Attempts: maxAttempts}
	if p.Fallback == FallbackLastAttempt && haveLast {
		result.Value = last
	}
	return result, nil
}
