package progress

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 개발용 - 모든 origin 허용
		return true
	},
}

// subscriber - 강의 1개의 진행 상황을 구독하는 WebSocket 연결
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub - 강의별 진행 이벤트 브로드캐스터.
// generate-content 파이프라인이 Publish로 이벤트를 밀면
// 해당 강의를 구독 중인 모든 연결에 JSON으로 전달한다.
type Hub struct {
	mutex       sync.RWMutex
	subscribers map[string]map[*subscriber]bool // lectureID → 연결 집합
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*subscriber]bool),
	}
}

// HandleWS - GET /ws/lectures/{lectureId}/progress
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	lectureID := mux.Vars(r)["lectureId"]
	if lectureID == "" {
		http.Error(w, "lectureId is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, 64),
	}

	h.register(lectureID, sub)
	log.Printf("👀 Progress subscriber connected for lecture %s", lectureID)

	go sub.writePump()
	go h.readPump(lectureID, sub)
}

func (h *Hub) register(lectureID string, sub *subscriber) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.subscribers[lectureID] == nil {
		h.subscribers[lectureID] = make(map[*subscriber]bool)
	}
	h.subscribers[lectureID][sub] = true
}

func (h *Hub) unregister(lectureID string, sub *subscriber) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if subs, ok := h.subscribers[lectureID]; ok {
		if _, ok := subs[sub]; ok {
			delete(subs, sub)
			close(sub.send)
			if len(subs) == 0 {
				delete(h.subscribers, lectureID)
			}
		}
	}
}

// readPump - 클라이언트 메시지는 무시, close 감지용
func (h *Hub) readPump(lectureID string, sub *subscriber) {
	defer func() {
		h.unregister(lectureID, sub)
		sub.conn.Close()
		log.Printf("👋 Progress subscriber left lecture %s", lectureID)
	}()

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

func (s *subscriber) writePump() {
	defer s.conn.Close()

	for message := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	s.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// Publish - 진행 이벤트를 해당 강의의 모든 구독자에게 브로드캐스트.
// 느린 구독자의 버퍼가 가득 차면 이벤트를 버린다 (파이프라인을 막지 않는다).
func (h *Hub) Publish(event model.ProgressEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("⚠️  Failed to marshal progress event: %v", err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for sub := range h.subscribers[event.LectureID] {
		select {
		case sub.send <- payload:
		default:
		}
	}
}
