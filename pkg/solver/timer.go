package solver

import "time"

// deadline 可取消的墙钟定时器：到期执行一次回调，Stop 可在到期前取消
type deadline struct {
	t *time.Timer
}

// startDeadline 启动定时器
func startDeadline(d time.Duration, fn func()) *deadline {
	return &deadline{t: time.AfterFunc(d, fn)}
}

// Stop 取消定时器；回调已经执行过时无效果。可重复调用
func (d *deadline) Stop() {
	d.t.Stop()
}
