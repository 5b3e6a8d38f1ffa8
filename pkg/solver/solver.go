package solver

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/diaodu/diaodu/pkg/logger"
	"github.com/diaodu/diaodu/pkg/model"
	"github.com/diaodu/diaodu/pkg/ndarray"
)

// Config 求解器参数
type Config struct {
	Workers        int     // 搜索工作协程数量
	IterationLimit int     // 每轮改进前的贪心重启次数
	PercNormal     float64 // 标准模式使用的时间预算比例
	PercScarce     float64 // 稀缺用户模式使用的时间预算比例
	Seed           int64   // 主随机种子；固定种子使结果可复现
	RandomSeed     bool    // 为 true 时改用时钟种子
}

// DefaultConfig 默认参数
func DefaultConfig() Config {
	return Config{
		Workers:        8,
		IterationLimit: 10,
		PercNormal:     0.50,
		PercScarce:     0.95,
		Seed:           0,
		RandomSeed:     false,
	}
}

// Solver 启发式求解器
//
// 问题实例与统计数据在初始化完成后只读，工作协程只通过各自的私有
// 工作区修改状态。同一个 Solver 不支持并发调用 Solve。
type Solver struct {
	problem *model.Problem
	stats   *statistics
	cfg     Config
	log     *logger.SolverLogger

	// 两个时限标志只由定时器置位，单调地从 false 变为 true，
	// 工作协程在循环头无锁读取
	timeFinished       atomic.Bool
	scarceTimeFinished atomic.Bool
}

// statistics 初始化阶段生成的派生统计（之后只读）
type statistics struct {
	actPerUserSorted []int // 单用户任务数，不增排序
	maxActPerUser    int
	maxActivities    int

	// costsOrder[k][j]：以第 k 大任务数为折算上限、目标小区 j 的候选序列
	costsOrder [][]cellOrder

	// 可达表按需构建：只有某个工作协程进入稀缺用户模式才需要，
	// 由 sync.Once 保证单次构建且完整发布
	slotsOnce sync.Once
	slots     *activitySlots
}

// costIndex 按当前剩余需求选择候选序列的折算上限索引
//
// 取不超过需求的最大单用户任务数对应的 k；全部超过时取最后一个。
func (st *statistics) costIndex(demand int) int {
	k := 0
	for k < len(st.actPerUserSorted)-1 && st.actPerUserSorted[k] > demand {
		k++
	}
	return k
}

// New 创建求解器
func New(p *model.Problem, cfg Config) *Solver {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.IterationLimit <= 0 {
		cfg.IterationLimit = 10
	}
	return &Solver{
		problem: p,
		cfg:     cfg,
		log:     logger.NewSolverLogger(),
	}
}

// Solve 在给定时间预算内求解，返回找到的最优结果
//
// 时间耗尽不是错误：返回到当时为止的最优解。所有重启都未能构造出
// 可行解时返回 Feasible=false 的结果。
func (s *Solver) Solve(budget time.Duration) *model.Result {
	start := time.Now()
	runID := uuid.New()
	p := s.problem

	s.log.StartSolve(runID.String(), p.NCells, p.NTypes, p.NTimes, budget)

	s.timeFinished.Store(false)
	s.scarceTimeFinished.Store(false)
	timerNormal := startDeadline(time.Duration(float64(budget)*s.cfg.PercNormal), func() {
		s.timeFinished.Store(true)
	})
	timerScarce := startDeadline(time.Duration(float64(budget)*s.cfg.PercScarce), func() {
		s.scarceTimeFinished.Store(true)
	})

	s.initStatistics()

	seed := s.cfg.Seed
	if s.cfg.RandomSeed {
		seed = time.Now().UnixNano()
	}
	master := rand.New(rand.NewSource(seed))

	workers := make([]*workerState, s.cfg.Workers)
	var wg sync.WaitGroup
	for a := 0; a < s.cfg.Workers; a++ {
		workers[a] = newWorkerState(a, master.Int63(), runID.String(), p)
		wg.Add(1)
		go func(w *workerState) {
			defer wg.Done()
			s.workerBody(w)
		}(workers[a])
	}
	wg.Wait()

	timerNormal.Stop()
	timerScarce.Stop()

	// 汇总迭代数并取目标值最小的工作协程
	objective := math.Inf(1)
	iterations := 0
	var best *workerState
	for _, w := range workers {
		iterations += w.iterations
		if w.objective < objective {
			objective = w.objective
			best = w
		}
	}

	elapsed := time.Since(start)
	result := &model.Result{
		RunID:      runID,
		Elapsed:    elapsed,
		Iterations: iterations,
	}
	if best == nil || math.IsInf(objective, 1) {
		s.log.NoSolution(runID.String(), elapsed)
		return result
	}

	result.Feasible = true
	result.Objective = objective
	result.Solution = best.solution.Clone()
	result.MovedPerType = movedPerType(p, result.Solution)

	s.log.SolveComplete(runID.String(), elapsed, objective, iterations)
	return result
}

// initStatistics 构建派生统计，每个限制类型一个协程生成候选序列
func (s *Solver) initStatistics() {
	p := s.problem
	st := &statistics{
		actPerUserSorted: make([]int, p.NTypes),
		costsOrder:       make([][]cellOrder, p.NTypes),
	}
	copy(st.actPerUserSorted, p.ActPerUser)
	for a := 1; a < len(st.actPerUserSorted); a++ {
		// 不增排序（类型数很小，插入排序即可）
		v := st.actPerUserSorted[a]
		b := a
		for b > 0 && st.actPerUserSorted[b-1] < v {
			st.actPerUserSorted[b] = st.actPerUserSorted[b-1]
			b--
		}
		st.actPerUserSorted[b] = v
	}
	st.maxActPerUser = st.actPerUserSorted[0]

	var wg sync.WaitGroup
	for k := 0; k < p.NTypes; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			st.costsOrder[k] = s.fillCellsOrder(st.actPerUserSorted[k])
		}(k)
	}

	for j := 0; j < p.NCells; j++ {
		st.maxActivities = max(st.maxActivities, p.Activities[j])
	}

	wg.Wait()
	s.stats = st
}

// fillCellsOrder 为一个折算上限生成所有目标小区的候选序列
func (s *Solver) fillCellsOrder(maxDone int) []cellOrder {
	p := s.problem
	orders := make([]cellOrder, p.NCells)

	for j := 0; j < p.NCells; j++ {
		// 没有需求的小区不需要候选序列
		if p.Activities[j] == 0 {
			continue
		}

		moves := make([]Move, 0, (p.NCells-1)*p.NTypes*p.NTimes)
		for i := 0; i < p.NCells; i++ {
			if i == j {
				continue // 用户不能服务自己的源小区
			}
			for m := 0; m < p.NTypes; m++ {
				for t := 0; t < p.NTimes; t++ {
					if p.UsersAvailable.At(i, m, t) > 0 {
						moves = append(moves, Move{I: i, J: j, M: m, T: t})
					}
				}
			}
		}

		orders[j] = cellOrder{moves: moves}
		orders[j].sortByReducedCost(p.Costs, p.ActPerUser, maxDone)
	}
	return orders
}

// ensureSlots 单次构建稀缺模式可达表
func (s *Solver) ensureSlots() {
	s.stats.slotsOnce.Do(func() {
		s.stats.slots = newActivitySlots(s.stats.maxActivities, s.problem.NTypes, s.problem.ActPerUser)
	})
}

// movedPerType 统计每类用户被派出的总数
func movedPerType(p *model.Problem, sol *ndarray.Array4[int]) []int {
	moved := make([]int, p.NTypes)
	for m := 0; m < p.NTypes; m++ {
		for i := 0; i < p.NCells; i++ {
			for j := 0; j < p.NCells; j++ {
				for t := 0; t < p.NTimes; t++ {
					moved[m] += sol.At(i, j, m, t)
				}
			}
		}
	}
	return moved
}
