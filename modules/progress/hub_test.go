package progress

import (
	"encoding/json"
	"testing"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
)

func TestPublishReachesOnlyMatchingLecture(t *testing.T) {
	hub := NewHub()

	subA := &subscriber{send: make(chan []byte, 1)}
	subB := &subscriber{send: make(chan []byte, 1)}
	hub.register("lec-a", subA)
	hub.register("lec-b", subB)

	hub.Publish(model.ProgressEvent{
		LectureID: "lec-a",
		JobType:   model.JobTypeAudio,
		Status:    model.JobStatusRunning,
		Progress:  10,
	})

	select {
	case payload := <-subA.send:
		var event model.ProgressEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if event.JobType != model.JobTypeAudio || event.Progress != 10 {
			t.Fatalf("event = %+v", event)
		}
	default:
		t.Fatal("subscriber A received nothing")
	}

	select {
	case <-subB.send:
		t.Fatal("subscriber B received event for another lecture")
	default:
	}
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()

	sub := &subscriber{send: make(chan []byte)} // 버퍼 없음 - 항상 가득 참
	hub.register("lec-a", sub)

	// 수신자가 없어도 블로킹 없이 반환해야 한다
	hub.Publish(model.ProgressEvent{LectureID: "lec-a", JobType: model.JobTypeAudio})
}

func TestUnregisterRemovesEmptyLecture(t *testing.T) {
	hub := NewHub()

	sub := &subscriber{send: make(chan []byte, 1)}
	hub.register("lec-a", sub)
	hub.unregister("lec-a", sub)

	if _, ok := hub.subscribers["lec-a"]; ok {
		t.Fatal("empty lecture entry not cleaned up")
	}

	// 이중 unregister는 안전해야 한다 (close 중복 방지)
	hub.unregister("lec-a", sub)
}
