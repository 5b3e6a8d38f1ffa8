package solver

import "testing"

func TestActivitySlots_BaseCase(t *testing.T) {
	s := newActivitySlots(5, 2, []int{2, 3})

	// 基例：剩余需求为零时所有列为 true
	for m := 0; m <= 2; m++ {
		if !s.data[0][m] {
			t.Errorf("data[0][%d] = false, want true", m)
		}
	}
}

func TestActivitySlots_Reachability(t *testing.T) {
	// 类型任务数 2 和 3：可恰好完成的需求为 0,2,3,4,5,6,...（1 不可）
	s := newActivitySlots(7, 2, []int{2, 3})

	cases := []struct {
		demand int
		skip   bool
	}{
		{0, false},
		{1, true},
		{2, false},
		{3, false},
		{4, false},
		{5, false},
		{6, false},
		{7, false},
	}
	for _, c := range cases {
		if got := s.shouldSkip(c.demand); got != c.skip {
			t.Errorf("shouldSkip(%d) = %v, want %v", c.demand, got, c.skip)
		}
	}

	// 选择类型后剩余仍需可达：demand=3 时选类型 0（剩 1）不行，选类型 1（剩 0）可以
	if s.canBeSelected(3, 0) {
		t.Error("canBeSelected(3, type0) = true, want false")
	}
	if !s.canBeSelected(3, 1) {
		t.Error("canBeSelected(3, type1) = false, want true")
	}

	// 一致性：canBeSelected 为 true 蕴含 demand >= actPerUser[m]
	acts := []int{2, 3}
	for a := 0; a <= 7; a++ {
		for m := 0; m < 2; m++ {
			if s.canBeSelected(a, m) && a < acts[m] {
				t.Errorf("canBeSelected(%d, %d) = true but demand < act", a, m)
			}
		}
	}

	// 汇总列等于各类型列的析取
	for a := 0; a <= 7; a++ {
		or := false
		for m := 0; m < 2; m++ {
			or = or || s.data[a][m]
		}
		if s.data[a][s.genIdx] != or {
			t.Errorf("data[%d][sentinel] = %v, want %v", a, s.data[a][s.genIdx], or)
		}
	}
}

func TestActivitySlots_NegativeDemand(t *testing.T) {
	s := newActivitySlots(3, 1, []int{2})
	if s.canBeSelected(-1, 0) {
		t.Error("canBeSelected(-1, 0) = true, want false")
	}
}
