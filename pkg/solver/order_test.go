package solver

import (
	"math/rand"
	"testing"

	"github.com/diaodu/diaodu/pkg/model"
	"github.com/diaodu/diaodu/pkg/ndarray"
)

// randomProblem 生成一个小的随机实例
func randomProblem(rng *rand.Rand, nCells, nTimes, nTypes int) *model.Problem {
	p := model.NewProblem(nCells, nTimes, nTypes)
	for m := 0; m < nTypes; m++ {
		p.ActPerUser[m] = 1 + rng.Intn(3)
	}
	for j := 0; j < nCells; j++ {
		p.Activities[j] = rng.Intn(6)
	}
	for i := 0; i < nCells; i++ {
		for m := 0; m < nTypes; m++ {
			for t := 0; t < nTimes; t++ {
				p.UsersAvailable.Set(i, m, t, rng.Intn(4))
			}
		}
	}
	for i := 0; i < nCells; i++ {
		for j := 0; j < nCells; j++ {
			if i == j {
				continue
			}
			for m := 0; m < nTypes; m++ {
				for t := 0; t < nTimes; t++ {
					p.Costs.Set(i, j, m, t, float64(1+rng.Intn(50)))
				}
			}
		}
	}
	return p
}

func TestCellOrder_NonDecreasingReducedCost(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := randomProblem(rng, 6, 2, 3)

	s := New(p, DefaultConfig())
	s.initStatistics()
	st := s.stats

	for k := 0; k < p.NTypes; k++ {
		maxDone := st.actPerUserSorted[k]
		for j := 0; j < p.NCells; j++ {
			if p.Activities[j] == 0 {
				continue
			}
			moves := st.costsOrder[k][j].moves
			prev := -1.0
			for _, mv := range moves {
				if mv.I == j {
					t.Fatalf("candidate list for j=%d contains self-assignment", j)
				}
				if p.UsersAvailable.At(mv.I, mv.M, mv.T) <= 0 {
					t.Fatalf("candidate (%d,%d,%d) has no users", mv.I, mv.M, mv.T)
				}
				rc := p.Costs.At(mv.I, mv.J, mv.M, mv.T) / float64(min(p.ActPerUser[mv.M], maxDone))
				if rc < prev {
					t.Fatalf("k=%d j=%d: reduced cost decreased: %g after %g", k, j, rc, prev)
				}
				prev = rc
			}
		}
	}
}

func TestCellOrder_NextAvailable(t *testing.T) {
	co := cellOrder{moves: []Move{
		{I: 0, J: 2, M: 0, T: 0},
		{I: 1, J: 2, M: 0, T: 0},
		{I: 0, J: 2, M: 1, T: 0},
	}}

	avail := ndarray.New3[int](2, 2, 1)
	avail.Set(1, 0, 0, 1) // 只有第二个候选可用

	if got := co.nextAvailable(0, avail); got != 1 {
		t.Errorf("nextAvailable(0) = %d, want 1", got)
	}
	if got := co.nextAvailable(2, avail); got != 3 {
		t.Errorf("nextAvailable(2) = %d, want len(moves)", got)
	}

	// 全部耗尽
	avail.Set(1, 0, 0, 0)
	if got := co.nextAvailable(0, avail); got != 3 {
		t.Errorf("nextAvailable with empty supply = %d, want 3", got)
	}
}

func TestStatistics_CostIndex(t *testing.T) {
	st := &statistics{actPerUserSorted: []int{5, 3, 1}}

	cases := []struct{ demand, want int }{
		{10, 0}, // 需求大于最大任务数：用最大上限
		{5, 0},
		{4, 1},
		{3, 1},
		{2, 2},
		{1, 2},
		{0, 2}, // 全都放不下时取最后一个
	}
	for _, c := range cases {
		if got := st.costIndex(c.demand); got != c.want {
			t.Errorf("costIndex(%d) = %d, want %d", c.demand, got, c.want)
		}
	}
}

func TestInitStatistics_SortedActs(t *testing.T) {
	p := model.NewProblem(2, 1, 3)
	copy(p.ActPerUser, []int{2, 5, 1})
	p.Activities[1] = 4

	s := New(p, DefaultConfig())
	s.initStatistics()

	want := []int{5, 2, 1}
	for a, v := range want {
		if s.stats.actPerUserSorted[a] != v {
			t.Fatalf("actPerUserSorted = %v, want %v", s.stats.actPerUserSorted, want)
		}
	}
	if s.stats.maxActPerUser != 5 {
		t.Errorf("maxActPerUser = %d, want 5", s.stats.maxActPerUser)
	}
	if s.stats.maxActivities != 4 {
		t.Errorf("maxActivities = %d, want 4", s.stats.maxActivities)
	}
}
