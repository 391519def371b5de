// Package clock 提供可注入的时间源，“今天”与过期判断都经由它取当前时间。
package clock

import (
	"sync"
	"time"
)

// Clock 当前时间来源
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System 返回系统时钟
func System() Clock { return systemClock{} }

// Fixed 手动推进的时钟，用于测试模拟任意日期
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixed 创建停在 t 的时钟
func NewFixed(t time.Time) *Fixed { return &Fixed{t: t} }

// Now 返回当前设定时间
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Set 设置时间
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

// Advance 向前推进 d
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}
