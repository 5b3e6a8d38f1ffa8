package stats

import (
	"testing"

	"github.com/diaodu/diaodu/pkg/model"
	"github.com/diaodu/diaodu/pkg/ndarray"
)

func sampleResult() (*model.Problem, *model.Result) {
	p := model.NewProblem(3, 1, 2)
	copy(p.ActPerUser, []int{1, 3})
	p.Activities[1] = 2
	p.Activities[2] = 3
	p.UsersAvailable.Set(0, 0, 0, 2)
	p.UsersAvailable.Set(0, 1, 0, 1)
	p.Costs.Set(0, 1, 0, 0, 5)
	p.Costs.Set(0, 2, 1, 0, 12)

	sol := ndarray.New4[int](3, 3, 2, 1)
	sol.Set(0, 1, 0, 0, 2) // 2 个单任务用户
	sol.Set(0, 2, 1, 0, 1) // 1 个三任务用户
	r := &model.Result{Feasible: true, Objective: 22, Solution: sol}
	return p, r
}

func TestAnalyzer_Analyze(t *testing.T) {
	p, r := sampleResult()
	m := NewAnalyzer().Analyze(p, r)

	if m.TotalUsersMoved != 3 {
		t.Errorf("TotalUsersMoved = %d, want 3", m.TotalUsersMoved)
	}
	if m.TotalActivities != 5 {
		t.Errorf("TotalActivities = %d, want 5", m.TotalActivities)
	}
	if m.TotalWaste != 0 {
		t.Errorf("TotalWaste = %d, want 0", m.TotalWaste)
	}

	if len(m.Cells) != 2 {
		t.Fatalf("cells = %d, want 2", len(m.Cells))
	}
	for _, c := range m.Cells {
		if c.Coverage != 1.0 {
			t.Errorf("cell %d coverage = %g, want 1", c.Cell, c.Coverage)
		}
	}

	if len(m.Types) != 2 {
		t.Fatalf("types = %d, want 2", len(m.Types))
	}
	if m.Types[0].UsersMoved != 2 || m.Types[1].UsersMoved != 1 {
		t.Errorf("per-type moved = %d/%d, want 2/1", m.Types[0].UsersMoved, m.Types[1].UsersMoved)
	}
	if m.Types[0].TotalCost != 10 || m.Types[1].TotalCost != 12 {
		t.Errorf("per-type cost = %g/%g, want 10/12", m.Types[0].TotalCost, m.Types[1].TotalCost)
	}

	wantAvg := 22.0 / 5.0
	if m.AvgCostPerActivity != wantAvg {
		t.Errorf("AvgCostPerActivity = %g, want %g", m.AvgCostPerActivity, wantAvg)
	}
}

func TestAnalyzer_Waste(t *testing.T) {
	p, r := sampleResult()
	p.Activities[2] = 2 // 三任务用户超额完成 1 个

	m := NewAnalyzer().Analyze(p, r)
	if m.TotalWaste != 1 {
		t.Errorf("TotalWaste = %d, want 1", m.TotalWaste)
	}
}

func TestAnalyzer_EmptyInput(t *testing.T) {
	m := NewAnalyzer().Analyze(nil, nil)
	if m == nil {
		t.Fatal("Analyze should return empty metrics for nil input")
	}
	if m.TotalUsersMoved != 0 {
		t.Error("empty metrics expected")
	}

	p, _ := sampleResult()
	m = NewAnalyzer().Analyze(p, &model.Result{Feasible: false})
	if m.TotalUsersMoved != 0 {
		t.Error("infeasible result should produce empty metrics")
	}
}
