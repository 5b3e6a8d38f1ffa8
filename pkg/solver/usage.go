package solver

import "github.com/diaodu/diaodu/pkg/ndarray"

// cellsUsage 用户组使用率统计
//
// 对每个用户组 (i, m, t) 记录其在同一工作协程之前各轮贪心中被选用的比例。
// 等折算成本的候选之间优先选择历史使用率低的组，把被多个目标小区
// 争用的组留给更需要它的小区。使用率在同一工作协程的多次重启之间不清零。
type cellsUsage struct {
	usage *ndarray.Array3[float64]
	total *ndarray.Array3[int] // 问题给定的总可用用户数
}

// newCellsUsage 创建使用率统计
func newCellsUsage(nCells, nTypes, nTimes int, total *ndarray.Array3[int]) *cellsUsage {
	return &cellsUsage{
		usage: ndarray.New3[float64](nCells, nTypes, nTimes),
		total: total,
	}
}

// add 记录 (i, m, t) 组被选用了 n 个用户
func (u *cellsUsage) add(i, m, t, n int) {
	u.usage.Add(i, m, t, float64(n)/float64(u.total.At(i, m, t)))
}

// shouldReplace 新候选组使用率低于当前选中组时返回 true
func (u *cellsUsage) shouldReplace(newB, oldB bucket) bool {
	return u.usage.At(newB.I, newB.M, newB.T) < u.usage.At(oldB.I, oldB.M, oldB.T)
}
