package avatar

import (
	"context"
	"time"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
)

// Clock - poller의 sleep 추상화 (테스트에서 fake로 대체)
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// fetchFunc - 원격 합성 상태 1회 조회
type fetchFunc func(ctx context.Context) (*SynthesisStatus, error)

// Poller - 비동기 합성 작업을 종료 상태까지 폴링하는 상태 머신.
// 재시도 횟수 제한 없이 원격 종료 상태 또는 ctx 취소로만 끝난다.
type Poller struct {
	fetch    fetchFunc
	clock    Clock
	interval time.Duration
}

func NewPoller(fetch fetchFunc) *Poller {
	return &Poller{
		fetch:    fetch,
		clock:    realClock{},
		interval: 2 * time.Second,
	}
}

// Await - 종료 상태까지 폴링. Succeeded면 result locator 반환.
// 비종료 tick마다 onProgress(min(90, 50+ticks*5)) 호출 -
// 제출과 초기 처리를 전체의 50%로 보고 90%에서 멈춘 뒤 완료 시 100이 된다.
func (p *Poller) Await(ctx context.Context, onProgress func(int)) (string, error) {
	ticks := 0

	for {
		status, err := p.fetch(ctx)
		if err != nil {
			return "", err
		}

		switch status.Status {
		case RemoteSucceeded:
			if status.Outputs.Result == "" {
				return "", &model.ProtocolError{
					Reason: "remote returned Succeeded but no outputs.result URL found",
				}
			}
			return status.Outputs.Result, nil

		case RemoteFailed:
			return "", &model.RemoteSynthesisError{Detail: status.Raw}

		default:
			// NotStarted / Running
			ticks++
			if onProgress != nil {
				onProgress(progressEstimate(ticks))
			}
			if err := p.clock.Sleep(ctx, p.interval); err != nil {
				// 취소됨 - 다운로드 시도 없이 중단
				return "", err
			}
		}
	}
}

// progressEstimate - 55, 60, ... 90에서 상한
func progressEstimate(ticks int) int {
	p := 50 + ticks*5
	if p > 90 {
		p = 90
	}
	return p
}
