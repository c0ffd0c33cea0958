package avatar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
)

type fakeClock struct {
	sleeps []time.Duration
}

func (f *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	f.sleeps = append(f.sleeps, d)
	return nil
}

func sequencePoller(clock Clock, statuses ...*SynthesisStatus) *Poller {
	i := 0
	return &Poller{
		fetch: func(ctx context.Context) (*SynthesisStatus, error) {
			s := statuses[i]
			if i < len(statuses)-1 {
				i++
			}
			return s, nil
		},
		clock:    clock,
		interval: 2 * time.Second,
	}
}

func succeeded(result string) *SynthesisStatus {
	s := &SynthesisStatus{Status: RemoteSucceeded}
	s.Outputs.Result = result
	return s
}

// Running, Running, Succeeded → progress 55, 60 후 result 반환
func TestAwaitRunningThenSucceeded(t *testing.T) {
	clock := &fakeClock{}
	p := sequencePoller(clock,
		&SynthesisStatus{Status: RemoteRunning},
		&SynthesisStatus{Status: RemoteRunning},
		succeeded("https://example.com/result.mp4"),
	)

	var progress []int
	result, err := p.Await(context.Background(), func(pct int) {
		progress = append(progress, pct)
	})
	if err != nil {
		t.Fatalf("await: %v", err)
	}

	if result != "https://example.com/result.mp4" {
		t.Fatalf("result = %s", result)
	}
	if len(progress) != 2 || progress[0] != 55 || progress[1] != 60 {
		t.Fatalf("progress = %v, want [55 60]", progress)
	}
	if len(clock.sleeps) != 2 {
		t.Fatalf("sleeps = %d, want 2", len(clock.sleeps))
	}
}

// Succeeded인데 outputs.result 없음 → ProtocolError
func TestAwaitSucceededWithoutResult(t *testing.T) {
	p := sequencePoller(&fakeClock{}, &SynthesisStatus{Status: RemoteSucceeded})

	_, err := p.Await(context.Background(), nil)

	var protoErr *model.ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("err = %v, want ProtocolError", err)
	}
}

func TestAwaitFailedCarriesDiagnostic(t *testing.T) {
	failed := &SynthesisStatus{Status: RemoteFailed, Raw: `{"status":"Failed","reason":"bad avatar"}`}
	p := sequencePoller(&fakeClock{}, failed)

	_, err := p.Await(context.Background(), nil)

	var synthErr *model.RemoteSynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("err = %v, want RemoteSynthesisError", err)
	}
	if synthErr.Detail != failed.Raw {
		t.Fatalf("detail = %q", synthErr.Detail)
	}
}

func TestAwaitProgressIsMonotonicAndCapped(t *testing.T) {
	statuses := make([]*SynthesisStatus, 0, 13)
	for i := 0; i < 12; i++ {
		statuses = append(statuses, &SynthesisStatus{Status: RemoteRunning})
	}
	statuses = append(statuses, succeeded("url"))

	p := sequencePoller(&fakeClock{}, statuses...)

	var progress []int
	if _, err := p.Await(context.Background(), func(pct int) {
		progress = append(progress, pct)
	}); err != nil {
		t.Fatalf("await: %v", err)
	}

	prev := 0
	for _, pct := range progress {
		if pct < prev {
			t.Fatalf("progress decreased: %v", progress)
		}
		if pct > 90 {
			t.Fatalf("progress exceeded 90 before completion: %v", progress)
		}
		prev = pct
	}
	if progress[len(progress)-1] != 90 {
		t.Fatalf("progress did not reach cap: %v", progress)
	}
}

func TestAwaitCancelledDuringPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := &Poller{
		fetch: func(ctx context.Context) (*SynthesisStatus, error) {
			cancel() // 첫 폴 이후 취소
			return &SynthesisStatus{Status: RemoteRunning}, nil
		},
		clock:    &fakeClock{},
		interval: 2 * time.Second,
	}

	_, err := p.Await(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSanitizeSynthesisID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"abc-123", "abc-123-avatar"},
		{"lec_01", "lec-01-avatar"},
		{"a", "a-avatar"},
		{"", "avatar"},
		{"môj@kurz!", "mjkurz-avatar"},
	}

	for _, tc := range cases {
		got := SanitizeSynthesisID(tc.in)
		if got != tc.want {
			t.Errorf("SanitizeSynthesisID(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if len(got) < 3 || len(got) > 64 {
			t.Errorf("SanitizeSynthesisID(%q) length %d out of range", tc.in, len(got))
		}
	}
}

func TestSanitizeSynthesisIDBoundsLongInput(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "ab-"
	}

	got := SanitizeSynthesisID(long)
	if len(got) > 64 {
		t.Fatalf("length = %d", len(got))
	}
	first, last := got[0], got[len(got)-1]
	if !isAlnum(first) || !isAlnum(last) {
		t.Fatalf("id %q must start and end alphanumeric", got)
	}
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
