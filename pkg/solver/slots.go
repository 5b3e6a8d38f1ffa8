package solver

// activitySlots 稀缺用户模式下的任务可达表
//
// data[a][m] 为 true 表示剩余需求为 a 时选择一个类型 m 的用户，
// 剩下的 a-actPerUser[m] 个任务仍可由某个类型序列恰好完成（不浪费）。
// 末列 data[a][genIdx] 汇总任意类型是否可行。基例 data[0][*] 全为 true。
type activitySlots struct {
	data   [][]bool
	genIdx int
}

// newActivitySlots 构建可达表
func newActivitySlots(maxActivities, nTypes int, actPerUser []int) *activitySlots {
	s := &activitySlots{
		data:   make([][]bool, maxActivities+1),
		genIdx: nTypes,
	}
	for a := range s.data {
		s.data[a] = make([]bool, nTypes+1)
	}
	for m := 0; m <= nTypes; m++ {
		s.data[0][m] = true
	}

	for a := 1; a <= maxActivities; a++ {
		for m := 0; m < nTypes; m++ {
			if rest := a - actPerUser[m]; rest >= 0 {
				s.data[a][m] = s.data[rest][s.genIdx]
				s.data[a][s.genIdx] = s.data[a][s.genIdx] || s.data[a][m]
			}
		}
	}
	return s
}

// shouldSkip 剩余需求 demand 无法被任何类型序列恰好完成时返回 true
func (s *activitySlots) shouldSkip(demand int) bool {
	return !s.data[demand][s.genIdx]
}

// canBeSelected 剩余需求 demand 时选择类型 m 是否仍可能恰好完成
//
// 需求为零时再派任何用户都会浪费，因此只对正需求返回 true。
func (s *activitySlots) canBeSelected(demand, m int) bool {
	return demand > 0 && s.data[demand][m]
}
