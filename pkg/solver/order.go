// Package solver 实现蜂窝任务调度的启发式求解器
//
// 求解流程：预计算按折算成本排序的候选序列，随后多个工作协程在时间预算内
// 反复执行"随机访问顺序的贪心构造 + 链式改进局部搜索"，最终取目标值最小的解。
package solver

import (
	"sort"

	"github.com/diaodu/diaodu/pkg/ndarray"
)

// Move 解中的一个四维索引：源小区 i、目标小区 j、用户类型 m、时间段 t
type Move struct {
	I, J, M, T int
}

// bucket 用户组的三维索引 (i, m, t)
type bucket struct {
	I, M, T int
}

// cellOrder 某个 (限制类型 k, 目标小区 j) 的候选序列，按折算成本不降排列
//
// 序列在初始化阶段一次性构建并排序，之后只读。折算成本为
// cost / min(actPerUser[m], cap)，cap 是第 k 大的单用户任务数；
// 需求较小时按较小的 cap 折算才能得到正确的优先顺序。
type cellOrder struct {
	moves []Move
}

// nextAvailable 从 pos 开始向前跳过没有剩余用户的候选，返回首个可用位置
//
// 返回 len(moves) 表示没有可用候选。序列本身不被修改，剩余用户数
// 来自调用方的工作副本。
func (o *cellOrder) nextAvailable(pos int, avail *ndarray.Array3[int]) int {
	for pos < len(o.moves) && avail.At(o.moves[pos].I, o.moves[pos].M, o.moves[pos].T) <= 0 {
		pos++
	}
	return pos
}

// sortByReducedCost 按折算成本不降排序；等成本时保持 (i, m, t) 的插入顺序
func (o *cellOrder) sortByReducedCost(costs *ndarray.Array4[float64], actPerUser []int, maxDone int) {
	reduced := func(mv Move) float64 {
		return costs.At(mv.I, mv.J, mv.M, mv.T) / float64(min(actPerUser[mv.M], maxDone))
	}
	sort.SliceStable(o.moves, func(a, b int) bool {
		return reduced(o.moves[a]) < reduced(o.moves[b])
	})
}
