package solver

import (
	"math"
	"math/rand"

	"github.com/diaodu/diaodu/pkg/model"
	"github.com/diaodu/diaodu/pkg/ndarray"
)

// greedyFunc 贪心构造函数的签名（标准/稀缺两种实现）
type greedyFunc func(sol *ndarray.Array4[int], avail *ndarray.Array3[int], order []int, usage *cellsUsage) float64

// workerState 单个搜索工作协程的私有状态，协程之间互不共享
type workerState struct {
	id    int
	runID string
	rng   *rand.Rand

	order   []int                    // 有需求的目标小区访问顺序
	avail   *ndarray.Array3[int]     // 贪心的用户余量工作副本
	current *ndarray.Array4[int]     // 当前贪心产出
	best    *ndarray.Array4[int]     // 本轮重启中的局部最优
	usage   *cellsUsage

	solution   *ndarray.Array4[int] // 协程找到的最优解
	objective  float64
	iterations int
}

// newWorkerState 创建工作协程状态，缓冲区一次分配后跨迭代复用
func newWorkerState(id int, seed int64, runID string, p *model.Problem) *workerState {
	order := make([]int, 0, p.NCells)
	for j := 0; j < p.NCells; j++ {
		if p.Activities[j] > 0 {
			order = append(order, j)
		}
	}

	return &workerState{
		id:        id,
		runID:     runID,
		rng:       rand.New(rand.NewSource(seed)),
		order:     order,
		avail:     ndarray.New3[int](p.NCells, p.NTypes, p.NTimes),
		current:   ndarray.New4[int](p.NCells, p.NCells, p.NTypes, p.NTimes),
		best:      ndarray.New4[int](p.NCells, p.NCells, p.NTypes, p.NTimes),
		usage:     newCellsUsage(p.NCells, p.NTypes, p.NTimes, p.UsersAvailable),
		solution:  ndarray.New4[int](p.NCells, p.NCells, p.NTypes, p.NTimes),
		objective: math.Inf(1),
	}
}

// workerBody 搜索工作协程主体
//
// 外层循环直到当前时限标志置位；内层做 IterationLimit 次贪心重启
// （每次随机打乱访问顺序），随后对局部最优反复执行改进阶段。
// 标准贪心返回哨兵值说明实例的富余用户很少：切换到稀缺模式贪心，
// 并改用更长的时限 B。
func (s *Solver) workerBody(w *workerState) {
	greedy := greedyFunc(s.greedy)
	timeFlag := &s.timeFinished
	scarceMode := false

	for !timeFlag.Load() {
		bestObj := math.Inf(1)
		iterations := 0

		for !timeFlag.Load() && iterations < s.cfg.IterationLimit {
			w.rng.Shuffle(len(w.order), func(a, b int) {
				w.order[a], w.order[b] = w.order[b], w.order[a]
			})

			currentObj := greedy(w.current, w.avail, w.order, w.usage)
			if currentObj < bestObj {
				bestObj = currentObj
				w.best.CopyFrom(w.current)
			}
			iterations++

			// 标准贪心失败：进入稀缺用户模式
			if math.IsInf(currentObj, 1) && !scarceMode {
				s.ensureSlots()
				scarceMode = true
				timeFlag = &s.scarceTimeFinished
				greedy = s.greedyScarce
				s.log.ScarceMode(w.runID, w.id)
			}
		}
		w.iterations += iterations

		// 局部最优可行时反复改进，直到不再有收益或时间耗尽
		if !math.IsInf(bestObj, 1) {
			gain := -1.0
			for gain != 0 && !s.timeFinished.Load() {
				gain = s.improvingPhase(w.best)
				bestObj -= gain
			}
		}

		if bestObj < w.objective {
			w.objective = bestObj
			w.solution.CopyFrom(w.best)
		}
	}
}
