// Package model 定义调度引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/diaodu/diaodu/pkg/ndarray"
)

// Problem 问题实例（构造后只读）
//
// 一个城市被划分为若干蜂窝小区。目标小区 j 有 Activities[j] 个待执行任务，
// 必须由其他小区的用户前往完成；类型 m 的一个用户单次可完成 ActPerUser[m]
// 个任务。把 (i,m,t) 组的一个用户派往 j 产生 Costs[i,j,m,t] 的成本。
type Problem struct {
	NCells int // 小区数量
	NTimes int // 时间段数量
	NTypes int // 用户类型数量

	ActPerUser []int // 每类用户单次可完成的任务数
	Activities []int // 每个小区的任务需求

	UsersAvailable *ndarray.Array3[int]     // [i][m][t] 可用用户数
	Costs          *ndarray.Array4[float64] // [i][j][m][t] 调度成本，对角线 i==j 不使用
}

// NewProblem 按给定维度创建空实例
func NewProblem(nCells, nTimes, nTypes int) *Problem {
	return &Problem{
		NCells:         nCells,
		NTimes:         nTimes,
		NTypes:         nTypes,
		ActPerUser:     make([]int, nTypes),
		Activities:     make([]int, nCells),
		UsersAvailable: ndarray.New3[int](nCells, nTypes, nTimes),
		Costs:          ndarray.New4[float64](nCells, nCells, nTypes, nTimes),
	}
}

// Result 求解结果
type Result struct {
	RunID        uuid.UUID            `json:"run_id"`
	Feasible     bool                 `json:"feasible"`
	Objective    float64              `json:"objective"`
	Elapsed      time.Duration        `json:"elapsed"`
	Iterations   int                  `json:"iterations"`
	MovedPerType []int                `json:"moved_per_type"`
	Solution     *ndarray.Array4[int] `json:"-"` // [i][j][m][t] 派出用户数
}

// Assignment 结果中的单条派遣记录
type Assignment struct {
	Source int `json:"source"`
	Dest   int `json:"dest"`
	Type   int `json:"type"`
	Time   int `json:"time"`
	Users  int `json:"users"`
}

// Assignments 展开解矩阵中的非零元素，嵌套顺序为 (m, t, i, j)
func (r *Result) Assignments(p *Problem) []Assignment {
	if !r.Feasible || r.Solution == nil {
		return nil
	}
	var out []Assignment
	for m := 0; m < p.NTypes; m++ {
		for t := 0; t < p.NTimes; t++ {
			for i := 0; i < p.NCells; i++ {
				for j := 0; j < p.NCells; j++ {
					if n := r.Solution.At(i, j, m, t); n > 0 {
						out = append(out, Assignment{Source: i, Dest: j, Type: m, Time: t, Users: n})
					}
				}
			}
		}
	}
	return out
}
