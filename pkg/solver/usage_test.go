package solver

import (
	"testing"

	"github.com/diaodu/diaodu/pkg/ndarray"
)

func TestCellsUsage_TieBreak(t *testing.T) {
	total := ndarray.New3[int](2, 1, 1)
	total.Set(0, 0, 0, 2)
	total.Set(1, 0, 0, 4)

	u := newCellsUsage(2, 1, 1, total)

	// 初始时两组使用率相同，不触发替换
	if u.shouldReplace(bucket{0, 0, 0}, bucket{1, 0, 0}) {
		t.Error("equal usage should not trigger replacement")
	}

	// 组 0 用掉 1 个（1/2），组 1 用掉 1 个（1/4）：组 1 使用率更低
	u.add(0, 0, 0, 1)
	u.add(1, 0, 0, 1)
	if !u.shouldReplace(bucket{1, 0, 0}, bucket{0, 0, 0}) {
		t.Error("lower-usage bucket should be preferred")
	}
	if u.shouldReplace(bucket{0, 0, 0}, bucket{1, 0, 0}) {
		t.Error("higher-usage bucket must not replace lower-usage one")
	}
}

func TestCellsUsage_Fractional(t *testing.T) {
	total := ndarray.New3[int](1, 1, 1)
	total.Set(0, 0, 0, 4)

	u := newCellsUsage(1, 1, 1, total)
	u.add(0, 0, 0, 3)

	if got := u.usage.At(0, 0, 0); got != 0.75 {
		t.Errorf("usage = %g, want 0.75", got)
	}
}
