// Package stats 提供解的统计分析
package stats

import (
	"github.com/diaodu/diaodu/pkg/model"
)

// CellCoverage 单个小区的需求覆盖情况
type CellCoverage struct {
	Cell     int     `json:"cell"`
	Demand   int     `json:"demand"`
	Done     int     `json:"done"`
	Waste    int     `json:"waste"`    // 超出需求的任务数
	Coverage float64 `json:"coverage"` // Done/Demand，需求为零时为 1
}

// TypeUsage 单个用户类型的使用情况
type TypeUsage struct {
	Type       int     `json:"type"`
	ActPerUser int     `json:"act_per_user"`
	UsersMoved int     `json:"users_moved"`
	TotalCost  float64 `json:"total_cost"`
	CostShare  float64 `json:"cost_share"` // 占总成本的比例
}

// Metrics 解的汇总统计
type Metrics struct {
	Objective          float64        `json:"objective"`
	TotalUsersMoved    int            `json:"total_users_moved"`
	TotalActivities    int            `json:"total_activities"`
	TotalWaste         int            `json:"total_waste"`
	AvgCostPerActivity float64        `json:"avg_cost_per_activity"`
	Cells              []CellCoverage `json:"cells"`
	Types              []TypeUsage    `json:"types"`
}

// Analyzer 解统计分析器
type Analyzer struct{}

// NewAnalyzer 创建分析器
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze 对一个可行解生成统计
func (a *Analyzer) Analyze(p *model.Problem, r *model.Result) *Metrics {
	m := &Metrics{}
	if p == nil || r == nil || !r.Feasible || r.Solution == nil {
		return m
	}
	sol := r.Solution
	m.Objective = r.Objective

	m.Types = make([]TypeUsage, p.NTypes)
	for mt := 0; mt < p.NTypes; mt++ {
		m.Types[mt] = TypeUsage{Type: mt, ActPerUser: p.ActPerUser[mt]}
	}

	// 按目标小区汇总覆盖，按类型汇总用量与成本
	for j := 0; j < p.NCells; j++ {
		done := 0
		for i := 0; i < p.NCells; i++ {
			for mt := 0; mt < p.NTypes; mt++ {
				for t := 0; t < p.NTimes; t++ {
					x := sol.At(i, j, mt, t)
					if x == 0 {
						continue
					}
					done += x * p.ActPerUser[mt]
					m.Types[mt].UsersMoved += x
					m.Types[mt].TotalCost += float64(x) * p.Costs.At(i, j, mt, t)
				}
			}
		}
		if p.Activities[j] == 0 && done == 0 {
			continue
		}

		waste := done - p.Activities[j]
		if waste < 0 {
			waste = 0
		}
		coverage := 1.0
		if p.Activities[j] > 0 {
			coverage = float64(done) / float64(p.Activities[j])
		}
		m.Cells = append(m.Cells, CellCoverage{
			Cell:     j,
			Demand:   p.Activities[j],
			Done:     done,
			Waste:    waste,
			Coverage: coverage,
		})
		m.TotalActivities += done
		m.TotalWaste += waste
	}

	for mt := range m.Types {
		m.TotalUsersMoved += m.Types[mt].UsersMoved
		if m.Objective > 0 {
			m.Types[mt].CostShare = m.Types[mt].TotalCost / m.Objective
		}
	}
	if m.TotalActivities > 0 {
		m.AvgCostPerActivity = m.Objective / float64(m.TotalActivities)
	}

	return m
}
