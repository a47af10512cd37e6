package service

import (
	"time"

	"owlfi/backend/internal/roadshow"
)

// Clock 返回“当前墙上时间”。状态计算一律通过注入的 Clock 取 now，
// 测试中替换为固定时刻即可，无需真实等待。
type Clock func() time.Time

// NewWallClock 以配置的隐式本地时区折算服务器时钟
func NewWallClock(loc *time.Location) Clock {
	return func() time.Time {
		return roadshow.WallClock(time.Now().In(loc))
	}
}

// FixedClock 固定时刻的时钟
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
