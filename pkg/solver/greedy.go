package solver

import (
	"math"
	"sort"

	"github.com/diaodu/diaodu/pkg/ndarray"
)

// greedy 标准贪心构造
//
// 按给定访问顺序逐个满足目标小区的需求：每一步在对应的候选序列上
// 顺序扫描，取折算成本最低的可用用户组；等成本时用使用率统计打破平局。
// 一次尽量多派（不超过剩余需求折算的用户数和该组的剩余用户数）。
// 小区内出现任务超额时按原始成本从高到低回退多余的用户。
//
// 返回目标函数值；无法满足某个小区的需求时返回 +Inf。
// sol 与 avail 在入口处重置；usage 跨重启保留。
func (s *Solver) greedy(sol *ndarray.Array4[int], avail *ndarray.Array3[int], order []int, usage *cellsUsage) float64 {
	p := s.problem
	objective := 0.0

	sol.Reset()
	avail.CopyFrom(p.UsersAvailable)

	// 记录派往当前小区的条目，用于超额回退
	var inserted []Move

	for _, j := range order {
		demand := p.Activities[j]
		inserted = inserted[:0]

		for demand > 0 {
			var chosen bucket
			minCost := math.Inf(1)

			co := &s.stats.costsOrder[s.stats.costIndex(demand)][j]
			for pos := co.nextAvailable(0, avail); pos < len(co.moves); pos = co.nextAvailable(pos+1, avail) {
				mv := co.moves[pos]
				cost := p.Costs.At(mv.I, mv.J, mv.M, mv.T) / float64(min(demand, p.ActPerUser[mv.M]))

				// 序列已按折算成本排序，出现更贵的候选即可停止
				if cost > minCost {
					break
				}
				if cost < minCost || usage.shouldReplace(bucket{mv.I, mv.M, mv.T}, chosen) {
					minCost = cost
					chosen = bucket{mv.I, mv.M, mv.T}
				}
			}

			// 没有可用用户能继续满足需求
			if math.IsInf(minCost, 1) {
				return minCost
			}

			n := min(demand/p.ActPerUser[chosen.M], avail.At(chosen.I, chosen.M, chosen.T))
			if n == 0 {
				n = 1 // 允许超额：单个用户的能力超过剩余需求
			}

			idx := Move{I: chosen.I, J: j, M: chosen.M, T: chosen.T}
			sol.Add(idx.I, idx.J, idx.M, idx.T, n)
			objective += p.Costs.At(idx.I, idx.J, idx.M, idx.T) * float64(n)
			demand -= p.ActPerUser[chosen.M] * n
			avail.Add(chosen.I, chosen.M, chosen.T, -n)

			inserted = append(inserted, idx)
			usage.add(chosen.I, chosen.M, chosen.T, n)
		}

		// 超额回退：按原始成本不增排序，逐个撤掉能放进超额量的用户
		if demand < 0 {
			excess := -demand

			sort.SliceStable(inserted, func(a, b int) bool {
				return p.Costs.At(inserted[a].I, inserted[a].J, inserted[a].M, inserted[a].T) >
					p.Costs.At(inserted[b].I, inserted[b].J, inserted[b].M, inserted[b].T)
			})

			for pos := 0; excess > 0 && pos < len(inserted); {
				idx := inserted[pos]
				if p.ActPerUser[idx.M] <= excess {
					sol.Add(idx.I, idx.J, idx.M, idx.T, -1)
					if sol.At(idx.I, idx.J, idx.M, idx.T) == 0 {
						pos++
					}
					objective -= p.Costs.At(idx.I, idx.J, idx.M, idx.T)
					excess -= p.ActPerUser[idx.M]
					avail.Add(idx.I, idx.M, idx.T, 1)
				} else {
					pos++
				}
			}
		}
	}

	return objective
}

// greedyScarce 稀缺用户模式的贪心构造
//
// 标准贪心反复失败说明富余用户很少，超额完成任务会直接耗尽可行性。
// 本变体分两遍：第一遍借助可达表只做不浪费任务的选择（无法不浪费的
// 小区先跳过），第二遍放开浪费限制补齐剩余需求。每步只派一个用户，
// 等成本时优先能做更多任务的类型。
func (s *Solver) greedyScarce(sol *ndarray.Array4[int], avail *ndarray.Array3[int], order []int, _ *cellsUsage) float64 {
	p := s.problem
	slots := s.stats.slots
	objective := 0.0

	sol.Reset()
	avail.CopyFrom(p.UsersAvailable)

	// 访问顺序中每个小区的剩余需求，跨两遍保留
	remaining := make([]int, len(order))
	for b, j := range order {
		remaining[b] = p.Activities[j]
	}

	enableWasting := false
	for pass := 0; pass < 2; pass++ {
		for b, j := range order {
			demand := remaining[b]

			// 第一遍跳过必然浪费任务的小区
			if !enableWasting && slots.shouldSkip(demand) {
				continue
			}

			for demand > 0 {
				chosenM := -1
				var chosen bucket
				minCost := math.Inf(1)

				co := &s.stats.costsOrder[s.stats.costIndex(demand)][j]
				for pos := co.nextAvailable(0, avail); pos < len(co.moves); pos = co.nextAvailable(pos+1, avail) {
					mv := co.moves[pos]
					cost := p.Costs.At(mv.I, mv.J, mv.M, mv.T) / float64(min(demand, p.ActPerUser[mv.M]))

					if cost > minCost {
						break
					}
					// 第一遍只允许不导致浪费的类型；
					// 替换条件：更便宜，或等成本时单用户任务数更大
					if (enableWasting || slots.canBeSelected(demand, mv.M)) &&
						(cost < minCost || chosenM < 0 || p.ActPerUser[mv.M] > p.ActPerUser[chosenM]) {
						minCost = cost
						chosenM = mv.M
						chosen = bucket{mv.I, mv.M, mv.T}
					}
				}

				if math.IsInf(minCost, 1) {
					// 第二遍仍找不到用户：整体不可行
					if enableWasting {
						return minCost
					}
					// 留给第二遍
					break
				}

				sol.Add(chosen.I, j, chosen.M, chosen.T, 1)
				objective += p.Costs.At(chosen.I, j, chosen.M, chosen.T)
				demand -= p.ActPerUser[chosen.M]
				avail.Add(chosen.I, chosen.M, chosen.T, -1)
			}

			remaining[b] = demand
		}
		enableWasting = true
	}

	return objective
}
