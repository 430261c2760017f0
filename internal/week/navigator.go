package week

import (
	"time"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

// Navigator 表示中の週を管理する
type Navigator struct {
	current time.Time
	clock   func() time.Time
}

// NewNavigator 今日を基準日としたナビゲーターを作成
func NewNavigator(clock func() time.Time) *Navigator {
	if clock == nil {
		clock = time.Now
	}
	return &Navigator{
		current: domain.DateOf(clock()),
		clock:   clock,
	}
}

// Current 現在の基準日
func (n *Navigator) Current() time.Time {
	return n.current
}

// Week 基準日を含む週
func (n *Navigator) Week() Week {
	return WeekContaining(n.current)
}

// Next 1週間進める
func (n *Navigator) Next() Week {
	n.current = n.current.AddDate(0, 0, 7)
	return n.Week()
}

// Prev 1週間戻す
func (n *Navigator) Prev() Week {
	n.current = n.current.AddDate(0, 0, -7)
	return n.Week()
}

// Today 基準日を今日に戻す
func (n *Navigator) Today() Week {
	n.current = domain.DateOf(n.clock())
	return n.Week()
}
