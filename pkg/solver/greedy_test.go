package solver

import (
	"math"
	"testing"

	"github.com/diaodu/diaodu/pkg/model"
	"github.com/diaodu/diaodu/pkg/ndarray"
)

// singleCellProblem 两小区单类型的最小实例：小区 0 有一个用户，小区 1 有需求
func singleCellProblem(demand int) *model.Problem {
	p := model.NewProblem(2, 1, 1)
	p.ActPerUser[0] = 1
	p.Activities[1] = demand
	p.UsersAvailable.Set(0, 0, 0, 1)
	p.Costs.Set(0, 1, 0, 0, 7)
	p.Costs.Set(1, 0, 0, 0, 7)
	return p
}

// greedyScratch 为直接调用贪心准备工作区
func greedyScratch(p *model.Problem) (*ndarray.Array4[int], *ndarray.Array3[int], *cellsUsage) {
	sol := ndarray.New4[int](p.NCells, p.NCells, p.NTypes, p.NTimes)
	avail := ndarray.New3[int](p.NCells, p.NTypes, p.NTimes)
	usage := newCellsUsage(p.NCells, p.NTypes, p.NTimes, p.UsersAvailable)
	return sol, avail, usage
}

func TestGreedy_SingleAssignment(t *testing.T) {
	p := singleCellProblem(1)
	s := New(p, DefaultConfig())
	s.initStatistics()

	sol, avail, usage := greedyScratch(p)
	obj := s.greedy(sol, avail, []int{1}, usage)

	if obj != 7 {
		t.Fatalf("objective = %g, want 7", obj)
	}
	if sol.At(0, 1, 0, 0) != 1 {
		t.Errorf("solution[0,1,0,0] = %d, want 1", sol.At(0, 1, 0, 0))
	}
	if avail.At(0, 0, 0) != 0 {
		t.Errorf("working supply = %d, want 0", avail.At(0, 0, 0))
	}
}

func TestGreedy_Infeasible(t *testing.T) {
	// 单个单任务用户无法满足 3 个任务
	p := singleCellProblem(3)
	s := New(p, DefaultConfig())
	s.initStatistics()

	sol, avail, usage := greedyScratch(p)
	obj := s.greedy(sol, avail, []int{1}, usage)

	if !math.IsInf(obj, 1) {
		t.Fatalf("objective = %g, want +Inf", obj)
	}
}

func TestGreedy_OvershootRebalance(t *testing.T) {
	// 先选便宜的单任务用户，再用三任务用户补齐剩余 2 个任务造成超额，
	// 回退阶段应撤掉单任务用户
	p := model.NewProblem(2, 1, 2)
	copy(p.ActPerUser, []int{1, 3})
	p.Activities[1] = 3
	p.UsersAvailable.Set(0, 0, 0, 1)
	p.UsersAvailable.Set(0, 1, 0, 1)
	p.Costs.Set(0, 1, 0, 0, 4)
	p.Costs.Set(0, 1, 1, 0, 15)

	s := New(p, DefaultConfig())
	s.initStatistics()

	sol, avail, usage := greedyScratch(p)
	obj := s.greedy(sol, avail, []int{1}, usage)

	if obj != 15 {
		t.Fatalf("objective = %g, want 15", obj)
	}
	if sol.At(0, 1, 1, 0) != 1 {
		t.Errorf("solution[0,1,1,0] = %d, want 1", sol.At(0, 1, 1, 0))
	}
	if sol.At(0, 1, 0, 0) != 0 {
		t.Errorf("rebalance should remove the single-activity user, got %d", sol.At(0, 1, 0, 0))
	}
	if avail.At(0, 0, 0) != 1 {
		t.Errorf("removed user must return to supply, got %d", avail.At(0, 0, 0))
	}
}

func TestGreedy_UsageTieBreak(t *testing.T) {
	// 两个等成本候选：第二次重启必须选上一次没选的那个
	p := model.NewProblem(3, 1, 1)
	p.ActPerUser[0] = 1
	p.Activities[2] = 1
	p.UsersAvailable.Set(0, 0, 0, 1)
	p.UsersAvailable.Set(1, 0, 0, 1)
	p.Costs.Set(0, 2, 0, 0, 5)
	p.Costs.Set(1, 2, 0, 0, 5)

	s := New(p, DefaultConfig())
	s.initStatistics()

	sol, avail, usage := greedyScratch(p)

	if obj := s.greedy(sol, avail, []int{2}, usage); obj != 5 {
		t.Fatalf("first restart objective = %g, want 5", obj)
	}
	first := Move{I: 0, J: 2, M: 0, T: 0}
	if sol.At(1, 2, 0, 0) == 1 {
		first = Move{I: 1, J: 2, M: 0, T: 0}
	}

	if obj := s.greedy(sol, avail, []int{2}, usage); obj != 5 {
		t.Fatalf("second restart objective = %g, want 5", obj)
	}
	if sol.At(first.I, first.J, first.M, first.T) != 0 {
		t.Error("second restart must prefer the unused equal-cost bucket")
	}
}

func TestGreedyScarce_NoWastePass(t *testing.T) {
	// 容量恰好等于需求：标准贪心按成本贪选会浪费任务而失败，
	// 稀缺模式第一遍靠可达表恰好填满
	p := scarceProblem()
	s := New(p, DefaultConfig())
	s.initStatistics()
	s.ensureSlots()

	sol, avail, usage := greedyScratch(p)

	// 标准贪心在两种访问顺序下都失败
	for _, order := range [][]int{{1, 2}, {2, 1}} {
		if obj := s.greedy(sol, avail, order, usage); !math.IsInf(obj, 1) {
			t.Fatalf("standard greedy on order %v = %g, want +Inf", order, obj)
		}
	}

	obj := s.greedyScarce(sol, avail, []int{1, 2}, usage)
	if obj != 10 {
		t.Fatalf("scarce greedy objective = %g, want 10", obj)
	}
	// 每个小区一个双任务用户加一个单任务用户，无浪费
	for _, j := range []int{1, 2} {
		done := sol.At(0, j, 0, 0)*2 + sol.At(0, j, 1, 0)*1
		if done != 3 {
			t.Errorf("cell %d: activities done = %d, want exactly 3", j, done)
		}
	}
}

// scarceProblem 稀缺用户实例：两个小区各需 3 个任务，
// 供给为 2 个双任务用户和 2 个单任务用户（容量恰好 6）
func scarceProblem() *model.Problem {
	p := model.NewProblem(3, 1, 2)
	copy(p.ActPerUser, []int{2, 1})
	p.Activities[1] = 3
	p.Activities[2] = 3
	p.UsersAvailable.Set(0, 0, 0, 2)
	p.UsersAvailable.Set(0, 1, 0, 2)
	for _, j := range []int{1, 2} {
		p.Costs.Set(0, j, 0, 0, 2)
		p.Costs.Set(0, j, 1, 0, 3)
	}
	return p
}
