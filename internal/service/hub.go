package service

import (
	"sync"

	"musical-chairs/internal/service/game"

	"go.uber.org/zap"
)

const SUBSCRIBER_BUFFER = 256

// eventHub 是托管游戏的 Announcer：保存已发生的事件，并转发给所有订阅者
type eventHub struct {
	mu sync.Mutex

	history []game.Event
	subs    map[int]chan game.Event
	nextSub int
	closed  bool
}

func newEventHub() *eventHub {
	return &eventHub{
		subs: make(map[int]chan game.Event),
	}
}

func (h *eventHub) Announce(evt game.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.history = append(h.history, evt)

	for id, ch := range h.subs {
		select {
		case ch <- evt:
		default:
			zap.L().Warn(
				"转发游戏事件失败：订阅者通道已满",
				zap.String("game_id", evt.GameID),
				zap.Int("subscriber", id),
			)
		}
	}
}

// subscribe 先回放历史事件；游戏已结束时返回的通道在回放后即关闭
func (h *eventHub) subscribe() (<-chan game.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan game.Event, len(h.history)+SUBSCRIBER_BUFFER)
	for _, evt := range h.history {
		ch <- evt
	}

	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextSub
	h.nextSub++
	h.subs[id] = ch

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}

	return ch, unsubscribe
}

func (h *eventHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.closed = true

	for id, ch := range h.subs {
		close(ch)
		delete(h.subs, id)
	}
}

func (h *eventHub) events() []game.Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]game.Event, len(h.history))
	copy(out, h.history)

	return out
}
