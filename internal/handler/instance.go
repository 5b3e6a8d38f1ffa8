package handler

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/diaodu/diaodu/pkg/errors"
	"github.com/diaodu/diaodu/pkg/model"
	"github.com/diaodu/diaodu/pkg/ndarray"
)

// parseInstanceJSON 从请求体解析问题实例
//
// 期望的结构：
//
//	{
//	  "cells": C, "times": T, "types": M,
//	  "act_per_user": [M 个整数],
//	  "activities": [C 个整数],
//	  "users_available": [ {"type": m, "time": t, "users": [C 个整数]} ],
//	  "costs": [ {"type": m, "time": t, "matrix": [C 行，每行 C 个整数]} ]
//	}
func parseInstanceJSON(body []byte) (*model.Problem, *errors.AppError) {
	doc := gjson.ParseBytes(body)

	nCells := int(doc.Get("cells").Int())
	nTimes := int(doc.Get("times").Int())
	nTypes := int(doc.Get("types").Int())
	if nCells <= 0 || nTimes <= 0 || nTypes <= 0 {
		return nil, errors.InvalidInput("cells/times/types",
			fmt.Sprintf("C=%d T=%d M=%d", nCells, nTimes, nTypes))
	}

	p := model.NewProblem(nCells, nTimes, nTypes)

	acts := doc.Get("act_per_user").Array()
	if len(acts) != nTypes {
		return nil, errors.InvalidInput("act_per_user", fmt.Sprintf("长度 %d，期望 %d", len(acts), nTypes))
	}
	for m, v := range acts {
		p.ActPerUser[m] = int(v.Int())
		if p.ActPerUser[m] <= 0 {
			return nil, errors.InvalidInput("act_per_user", "必须为正整数")
		}
	}

	activities := doc.Get("activities").Array()
	if len(activities) != nCells {
		return nil, errors.InvalidInput("activities", fmt.Sprintf("长度 %d，期望 %d", len(activities), nCells))
	}
	for j, v := range activities {
		p.Activities[j] = int(v.Int())
	}

	var appErr *errors.AppError
	doc.Get("users_available").ForEach(func(_, block gjson.Result) bool {
		m := int(block.Get("type").Int())
		t := int(block.Get("time").Int())
		if m < 0 || m >= nTypes || t < 0 || t >= nTimes {
			appErr = errors.InvalidInput("users_available", fmt.Sprintf("非法索引 type=%d time=%d", m, t))
			return false
		}
		users := block.Get("users").Array()
		if len(users) != nCells {
			appErr = errors.InvalidInput("users_available", fmt.Sprintf("users 长度 %d，期望 %d", len(users), nCells))
			return false
		}
		for i, v := range users {
			p.UsersAvailable.Set(i, m, t, int(v.Int()))
		}
		return true
	})
	if appErr != nil {
		return nil, appErr
	}

	doc.Get("costs").ForEach(func(_, block gjson.Result) bool {
		m := int(block.Get("type").Int())
		t := int(block.Get("time").Int())
		if m < 0 || m >= nTypes || t < 0 || t >= nTimes {
			appErr = errors.InvalidInput("costs", fmt.Sprintf("非法索引 type=%d time=%d", m, t))
			return false
		}
		rows := block.Get("matrix").Array()
		if len(rows) != nCells {
			appErr = errors.InvalidInput("costs", fmt.Sprintf("matrix 行数 %d，期望 %d", len(rows), nCells))
			return false
		}
		for i, row := range rows {
			cols := row.Array()
			if len(cols) != nCells {
				appErr = errors.InvalidInput("costs", fmt.Sprintf("matrix 第 %d 行长度 %d，期望 %d", i, len(cols), nCells))
				return false
			}
			for j, v := range cols {
				p.Costs.Set(i, j, m, t, v.Float())
			}
		}
		return true
	})
	if appErr != nil {
		return nil, appErr
	}

	return p, nil
}

// parseSolutionJSON 从请求体解析待校验的解
//
// 期望的结构：
//
//	{ "objective": 值, "solution": [ {"source","dest","type","time","users"} ] }
func parseSolutionJSON(body []byte, p *model.Problem) (*model.Result, *errors.AppError) {
	doc := gjson.ParseBytes(body)

	sol := ndarray.New4[int](p.NCells, p.NCells, p.NTypes, p.NTimes)
	var appErr *errors.AppError
	doc.Get("solution").ForEach(func(_, entry gjson.Result) bool {
		i := int(entry.Get("source").Int())
		j := int(entry.Get("dest").Int())
		m := int(entry.Get("type").Int())
		t := int(entry.Get("time").Int())
		n := int(entry.Get("users").Int())
		if i < 0 || i >= p.NCells || j < 0 || j >= p.NCells ||
			m < 0 || m >= p.NTypes || t < 0 || t >= p.NTimes || n < 0 {
			appErr = errors.InvalidInput("solution", "派遣记录索引越界")
			return false
		}
		sol.Add(i, j, m, t, n)
		return true
	})
	if appErr != nil {
		return nil, appErr
	}

	return &model.Result{
		Feasible:  true,
		Objective: doc.Get("objective").Float(),
		Solution:  sol,
	}, nil
}
