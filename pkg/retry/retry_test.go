package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns the values in order, one per attempt.
func scripted(values []string, errs []error) func(context.Context, int) (string, error) {
	return func(_ context.Context, n int) (string, error) {
		var err error
		if n-1 < len(errs) {
			err = errs[n-1]
		}
		if err != nil {
			return "", err
		}
		return values[n-1], nil
	}
}

func notEqual(original string) func(string) bool {
	return func(v string) bool { return v != original }
}

func TestDo_AcceptsFirstMatchingAttempt(t *testing.T) {
	p := Policy[string]{MaxAttempts: 3, Accept: notEqual("orig"), Fallback: FallbackLastAttempt}

	res, err := Do(context.Background(), p, "orig", scripted([]string{"orig", "orig", "new"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "new", res.Value)
	assert.Equal(t, 3, res.Attempts)
	assert.True(t, res.Accepted)
}

func TestDo_FallbackLastAttemptReturnsFinalValue(t *testing.T) {
	p := Policy[string]{MaxAttempts: 3, Accept: func(string) bool { return false }, Fallback: FallbackLastAttempt}

	res, err := Do(context.Background(), p, "orig", scripted([]string{"a", "b", "c"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "c", res.Value)
	assert.False(t, res.Accepted)
	assert.Equal(t, 3, res.Attempts)
}

func TestDo_FallbackOriginalIgnoresAttempts(t *testing.T) {
	p := Policy[string]{MaxAttempts: 3, Accept: func(string) bool { return false }, Fallback: FallbackOriginal}

	res, err := Do(context.Background(), p, "orig", scripted([]string{"a", "b", "c"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "orig", res.Value)
	assert.False(t, res.Accepted)
}

func TestDo_ErrorsCountAsRejectedAttempts(t *testing.T) {
	boom := errors.New("boom")
	var rejected []int
	p := Policy[string]{
		MaxAttempts: 3,
		Accept:      func(v string) bool { return v == "ok" },
		OnReject:    func(n int, _ string, err error) { rejected = append(rejected, n) },
	}

	res, err := Do(context.Background(), p, "orig", scripted([]string{"", "", "ok"}, []error{boom, boom}))
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Value)
	assert.Equal(t, []int{1, 2}, rejected)
}

func TestDo_StopOnErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	p := Policy[string]{MaxAttempts: 3, StopOnError: true, Accept: func(string) bool { return false }}

	res, err := Do(context.Background(), p, "orig", func(context.Context, int) (string, error) {
		calls++
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "orig", res.Value)
}

func TestDo_LastAttemptWithOnlyErrorsFallsBackToOriginal(t *testing.T) {
	boom := errors.New("boom")
	p := Policy[string]{MaxAttempts: 2, Fallback: FallbackLastAttempt}

	res, err := Do(context.Background(), p, "orig", scripted(nil, []error{boom, boom}))
	require.NoError(t, err)
	assert.Equal(t, "orig", res.Value)
	assert.Equal(t, 2, res.Attempts)
}

func TestDo_AtLeastOneAttempt(t *testing.T) {
	calls := 0
	res, err := Do(context.Background(), Policy[int]{}, 0, func(context.Context, int) (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 42, res.Value)
}

func TestFallback_String(t *testing.T) {
	assert.Equal(t, "original", FallbackOriginal.String())
	assert.Equal(t, "last-attempt", FallbackLastAttempt.String())
	assert.Equal(t, "unknown", Fallback(9).String())
}
