package game

import "sync"

// RoundSignal 是“音乐停止”事件：协调者单写，所有玩家阻塞等待。
// round 作为代数，玩家只会对比自己上次看到的回合更新的停止信号做出反应。
type RoundSignal struct {
	mu   sync.Mutex
	cond *sync.Cond

	round   int
	stopped bool
	closed  bool
}

func NewRoundSignal() *RoundSignal {
	rs := &RoundSignal{}
	rs.cond = sync.NewCond(&rs.mu)
	return rs
}

// Reset 在音乐开始播放时调用
func (rs *RoundSignal) Reset(round int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.round = round
	rs.stopped = false
}

// Stop 设置停止标记并唤醒所有等待者，同一回合内重复调用不起作用
func (rs *RoundSignal) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.stopped {
		return
	}

	rs.stopped = true
	rs.cond.Broadcast()
}

// Close 唤醒所有等待者并让后续的 Wait 立即返回
func (rs *RoundSignal) Close() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.closed = true
	rs.cond.Broadcast()
}

// Wait 阻塞直到 after 之后某个回合的音乐停止，返回该回合号；
// 信号关闭时返回 false
func (rs *RoundSignal) Wait(after int) (int, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	for !rs.closed && !(rs.stopped && rs.round > after) {
		rs.cond.Wait()
	}

	if rs.closed {
		return 0, false
	}

	return rs.round, true
}

func (rs *RoundSignal) Stopped() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.stopped
}
