package solver

import (
	"slices"
	"sort"

	"github.com/diaodu/diaodu/pkg/ndarray"
)

// 链式改进的安全阈值
const (
	minGain  = -4 // 链上累计损失低于该值即放弃当前分支
	maxLevel = 5  // 最大递归深度
	maxCount = 20 // 单层最多尝试的候选数
)

// movesStats 改进阶段的解统计
type movesStats struct {
	avail      *ndarray.Array3[int] // 当前解之后每组剩余的用户数
	moves      []Move               // 解中全部非零元素
	movesFromI [][]Move             // 按源小区划分
	movesToJ   [][]Move             // 按目标小区划分
	doneInJ    []int                // 每个目标小区实际完成的任务数（可能超额）
}

// improvedMove 一条已应用的增量（供撤销）
type improvedMove struct {
	idx        Move
	usersAdded int     // 增加（负为移除）的用户数
	actsAdded  int     // 对应的任务数变化
	objGain    float64 // 此增量带来的目标值收益
}

// tiParam 一层 tryImprove 的参数与路径状态
type tiParam struct {
	level         int
	currIdx       Move
	usersToRemove int

	objGainSoFar float64
	impMoves     []improvedMove
	tabu         []Move // 本条链上已触碰的元素，禁止重选
}

// clear 复位以便同一种子移动再次尝试
func (p *tiParam) clear() {
	p.objGainSoFar = 0
	p.impMoves = nil
	p.tabu = p.tabu[:0]
}

// improvingSetup 从已有解构建改进阶段所需的统计
func (s *Solver) improvingSetup(sol *ndarray.Array4[int]) *movesStats {
	p := s.problem
	ms := &movesStats{
		avail:      p.UsersAvailable.Clone(),
		movesFromI: make([][]Move, p.NCells),
		movesToJ:   make([][]Move, p.NCells),
		doneInJ:    make([]int, p.NCells),
	}

	for i := 0; i < p.NCells; i++ {
		for j := 0; j < p.NCells; j++ {
			if i == j {
				continue
			}
			for m := 0; m < p.NTypes; m++ {
				for t := 0; t < p.NTimes; t++ {
					x := sol.At(i, j, m, t)
					if x == 0 {
						continue
					}
					mv := Move{I: i, J: j, M: m, T: t}
					ms.avail.Add(i, m, t, -x)
					ms.movesFromI[i] = append(ms.movesFromI[i], mv)
					ms.movesToJ[j] = append(ms.movesToJ[j], mv)
					ms.moves = append(ms.moves, mv)
					ms.doneInJ[j] += x * p.ActPerUser[m]
				}
			}
		}
	}
	return ms
}

// improvingPhase 对解中的每个元素尝试链式改进，返回总收益
func (s *Solver) improvingPhase(sol *ndarray.Array4[int]) float64 {
	ms := s.improvingSetup(sol)

	improvement := 0.0
	for a := 0; a < len(ms.moves) && !s.timeFinished.Load(); a++ {
		// 尝试移除的用户数从大到小
		for u := s.stats.maxActPerUser; u > 0 && !s.timeFinished.Load(); u-- {
			param := &tiParam{currIdx: ms.moves[a], usersToRemove: u}

			for !s.timeFinished.Load() && s.tryImprove(sol, param, ms) {
				for _, ic := range param.impMoves {
					improvement += ic.objGain
				}
				param.clear()
			}
		}
	}
	return improvement
}

// tryImprove 递归地寻找一条使目标值下降的改链
//
// 先从 curr 移除 usersToRemove 个用户，再沿候选序列寻找能接替这些任务的
// 用户组。接替组的余量充足且累计收益为正时提交整条链；余量透支时递归
// 转移该组在其他小区的任务。任何失败路径都按后进先出撤销全部增量。
func (s *Solver) tryImprove(sol *ndarray.Array4[int], param *tiParam, ms *movesStats) bool {
	p := s.problem
	curr := param.currIdx

	if sol.At(curr.I, curr.J, curr.M, curr.T) < param.usersToRemove ||
		param.level > maxLevel || slices.Contains(param.tabu, curr) {
		return false
	}
	param.tabu = append(param.tabu, curr)

	var moves []improvedMove

	// 移除种子元素的用户
	currGain := float64(param.usersToRemove) * p.Costs.At(curr.I, curr.J, curr.M, curr.T)
	actRemoved := p.ActPerUser[curr.M] * param.usersToRemove
	seed := improvedMove{idx: curr, usersAdded: -param.usersToRemove, actsAdded: -actRemoved, objGain: currGain}
	param.objGainSoFar += s.applyMove(seed, sol, ms, false)
	moves = append(moves, seed)

	co := &s.stats.costsOrder[s.stats.costIndex(actRemoved)][curr.J]
	count := 0
	for pos := 0; pos < len(co.moves); pos++ {
		newIdx := co.moves[pos]
		// 接替 actRemoved 个任务所需的用户数（向上取整）
		usersToAdd := (actRemoved + p.ActPerUser[newIdx.M] - 1) / p.ActPerUser[newIdx.M]

		// 总量上限是硬约束：即使当前余量可以透支也不超过问题给定的用户数
		if slices.Contains(param.tabu, newIdx) ||
			p.UsersAvailable.At(newIdx.I, newIdx.M, newIdx.T) < usersToAdd {
			continue
		}
		prevSize := len(moves)

		addCost := p.Costs.At(newIdx.I, newIdx.J, newIdx.M, newIdx.T) * float64(usersToAdd)
		add := improvedMove{idx: newIdx, usersAdded: usersToAdd,
			actsAdded: usersToAdd * p.ActPerUser[newIdx.M], objGain: -addCost}
		param.objGainSoFar += s.applyMove(add, sol, ms, false)
		moves = append(moves, add)

		// 接替者能力不同可能带来超额，先撤掉目标小区里最贵的冗余用户
		param.objGainSoFar += s.getRemovable(curr.J, sol, ms, &moves)

		count++
		if param.objGainSoFar < minGain || count > maxCount || s.timeFinished.Load() {
			break
		}

		remaining := ms.avail.At(newIdx.I, newIdx.M, newIdx.T)
		if remaining >= 0 {
			// 余量非负：当前链可行，收益为正即提交
			if param.objGainSoFar > 0 {
				param.impMoves = moves
				return true
			}
			for a := len(moves) - 1; a >= prevSize; a-- {
				param.objGainSoFar += s.applyMove(moves[a], sol, ms, true)
			}
			moves = moves[:prevSize]
			continue
		}

		// 余量透支：尝试把该用户组在其他小区承担的任务递归转移出去
		for _, sib := range ms.movesFromI[newIdx.I] {
			if sib.M != newIdx.M || sib.T != newIdx.T {
				continue
			}
			next := &tiParam{
				level:         param.level + 1,
				currIdx:       sib,
				usersToRemove: -remaining,
				objGainSoFar:  param.objGainSoFar,
				tabu:          slices.Clone(param.tabu),
			}
			if s.tryImprove(sol, next, ms) {
				moves = append(moves, next.impMoves...)
				param.impMoves = moves
				return true
			}
		}

		for a := len(moves) - 1; a >= prevSize; a-- {
			param.objGainSoFar += s.applyMove(moves[a], sol, ms, true)
		}
		moves = moves[:prevSize]
	}

	// 本层没有产生改进：按后进先出撤销全部增量并退出禁忌
	for a := len(moves) - 1; a >= 0; a-- {
		param.objGainSoFar += s.applyMove(moves[a], sol, ms, true)
	}
	param.tabu = param.tabu[:len(param.tabu)-1]
	return false
}

// getRemovable 目标小区超额时撤掉最贵的冗余用户，返回获得的收益
func (s *Solver) getRemovable(j int, sol *ndarray.Array4[int], ms *movesStats, moves *[]improvedMove) float64 {
	p := s.problem
	redundancy := ms.doneInJ[j] - p.Activities[j]
	if redundancy <= 0 {
		return 0
	}

	gain := 0.0
	toJ := ms.movesToJ[j]
	sort.SliceStable(toJ, func(a, b int) bool {
		return p.Costs.At(toJ[a].I, toJ[a].J, toJ[a].M, toJ[a].T) >
			p.Costs.At(toJ[b].I, toJ[b].J, toJ[b].M, toJ[b].T)
	})

	for pos := 0; redundancy > 0 && pos < len(toJ); {
		idx := toJ[pos]
		// 同一条目可连续撤多个用户，撤不动了才前进
		if p.ActPerUser[idx.M] <= redundancy && sol.At(idx.I, idx.J, idx.M, idx.T) > 0 {
			redundancy -= p.ActPerUser[idx.M]
			ic := improvedMove{idx: idx, usersAdded: -1, actsAdded: -p.ActPerUser[idx.M],
				objGain: p.Costs.At(idx.I, idx.J, idx.M, idx.T)}
			*moves = append(*moves, ic)
			gain += s.applyMove(ic, sol, ms, false)
		} else {
			pos++
		}
	}
	return gain
}

// applyMove 应用或撤销一条增量，返回目标值收益
func (s *Solver) applyMove(ic improvedMove, sol *ndarray.Array4[int], ms *movesStats, undo bool) float64 {
	flag := 1
	if undo {
		flag = -1
	}

	sol.Add(ic.idx.I, ic.idx.J, ic.idx.M, ic.idx.T, ic.usersAdded*flag)
	ms.avail.Add(ic.idx.I, ic.idx.M, ic.idx.T, -ic.usersAdded*flag)
	ms.doneInJ[ic.idx.J] += ic.actsAdded * flag
	return ic.objGain * float64(flag)
}
