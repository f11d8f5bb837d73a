package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

type statusErr int

func (e statusErr) Error() string       { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatusCode() int { return int(e) }

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"429", statusErr(429), true},
		{"503 wrapped", fmt.Errorf("crm: %w", statusErr(503)), true},
		{"404", statusErr(404), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Fatalf("%s: want=%v got=%v", tc.name, tc.want, got)
		}
	}
}

func TestRetryPolicyStopsOnSuccess(t *testing.T) {
	calls := 0
	p := RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
	err := p.Do(context.Background(), func(context.Context) (*http.Response, error) {
		calls++
		if calls < 3 {
			return nil, statusErr(502)
		}
		return nil, nil
	}, nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls: want=3 got=%d", calls)
	}
}

func TestRetryPolicyZeroRetriesIsSingleAttempt(t *testing.T) {
	calls := 0
	retries := 0
	p := RetryPolicy{}
	err := p.Do(context.Background(), func(context.Context) (*http.Response, error) {
		calls++
		return nil, statusErr(503)
	}, func(int, time.Duration, error) { retries++ })
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 || retries != 0 {
		t.Fatalf("calls=%d retries=%d", calls, retries)
	}
}

func TestRetryPolicyDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	p := RetryPolicy{MaxRetries: 5, BaseDelay: time.Millisecond}
	err := p.Do(context.Background(), func(context.Context) (*http.Response, error) {
		calls++
		return nil, statusErr(400)
	}, nil)
	if err == nil || calls != 1 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}

func TestRetryAfterDurationCapped(t *testing.T) {
	resp := &http.Response{Header: http.Header{"Retry-After": []string{"120"}}}
	if got := RetryAfterDuration(resp, time.Second, 10*time.Second); got != 10*time.Second {
		t.Fatalf("cap: got=%s", got)
	}
	if got := RetryAfterDuration(nil, 2*time.Second, 0); got != 2*time.Second {
		t.Fatalf("fallback: got=%s", got)
	}
}
