package netmon

import "sync"

// Monitor 连通性信号源。宿主集成（系统 online/offline 事件、外部探活器）
// 调用 SetOnline 驱动；订阅方只在状态翻转时收到通知。
type Monitor struct {
    mu     sync.Mutex
    online bool
    subs   map[int]func(bool)
    nextID int
}

func New(initial bool) *Monitor {
    return &Monitor{online: initial, subs: make(map[int]func(bool))}
}

// IsOnline 当前时点的连通性读数
func (m *Monitor) IsOnline() bool {
    m.mu.Lock()
    defer m.mu.Unlock()
    return m.online
}

// SetOnline 更新连通性；仅在发生翻转时通知订阅方
func (m *Monitor) SetOnline(online bool) {
    m.mu.Lock()
    if m.online == online {
        m.mu.Unlock()
        return
    }
    m.online = online
    fns := make([]func(bool), 0, len(m.subs))
    for _, fn := range m.subs {
        fns = append(fns, fn)
    }
    m.mu.Unlock()
    for _, fn := range fns {
        fn(online)
    }
}

// Subscribe 注册翻转监听，返回注销函数
func (m *Monitor) Subscribe(fn func(bool)) func() {
    m.mu.Lock()
    id := m.nextID
    m.nextID++
    m.subs[id] = fn
    m.mu.Unlock()
    return func() {
        m.mu.Lock()
        delete(m.subs, id)
        m.mu.Unlock()
    }
}
