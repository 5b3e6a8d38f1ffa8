// Package verify 提供解的可行性校验
package verify

import (
	"math"

	"github.com/diaodu/diaodu/pkg/model"
)

// State 校验结论
type State int

const (
	// Feasible 解可行
	Feasible State = iota
	// NotFeasibleDemand 某些小区的任务需求未被满足
	NotFeasibleDemand
	// NotFeasibleUsers 派出用户数超过可用数，或出现自服务
	NotFeasibleUsers
	// WrongObjective 报告的目标值与解不一致
	WrongObjective
	// NoSolution 没有找到解
	NoSolution
)

// String 返回面向用户的结论描述
func (s State) String() string {
	switch s {
	case Feasible:
		return "解可行"
	case NotFeasibleDemand:
		return "解不可行：任务需求未满足"
	case NotFeasibleUsers:
		return "解不可行：派出用户数超过可用数"
	case WrongObjective:
		return "目标函数值计算不正确"
	case NoSolution:
		return "未找到解"
	default:
		return "未知状态"
	}
}

// 目标值比对的容差
const objectiveEps = 0.001

// Check 校验结果是否满足全部约束
//
// 依次检查：每个小区的需求被完成的任务数覆盖；每组 (i,m,t) 派出的
// 用户不超过可用数且没有自服务；报告的目标值与按解重算的值在容差内一致。
func Check(p *model.Problem, r *model.Result) State {
	if r == nil || !r.Feasible || r.Solution == nil {
		return NoSolution
	}
	sol := r.Solution

	// 需求覆盖，同时重算目标值
	objective := 0.0
	for j := 0; j < p.NCells; j++ {
		done := 0
		for i := 0; i < p.NCells; i++ {
			for m := 0; m < p.NTypes; m++ {
				for t := 0; t < p.NTimes; t++ {
					x := sol.At(i, j, m, t)
					done += p.ActPerUser[m] * x
					objective += float64(x) * p.Costs.At(i, j, m, t)
				}
			}
		}
		if done < p.Activities[j] {
			return NotFeasibleDemand
		}
	}

	// 用户供给与自服务
	for i := 0; i < p.NCells; i++ {
		for m := 0; m < p.NTypes; m++ {
			for t := 0; t < p.NTimes; t++ {
				moved := 0
				for j := 0; j < p.NCells; j++ {
					moved += sol.At(i, j, m, t)
				}
				if moved > p.UsersAvailable.At(i, m, t) {
					return NotFeasibleUsers
				}
				if sol.At(i, i, m, t) != 0 {
					return NotFeasibleUsers
				}
			}
		}
	}

	if math.Abs(objective-r.Objective) > objectiveEps {
		return WrongObjective
	}
	return Feasible
}
