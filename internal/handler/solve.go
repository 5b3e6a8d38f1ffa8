// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/diaodu/diaodu/internal/config"
	"github.com/diaodu/diaodu/internal/metrics"
	"github.com/diaodu/diaodu/internal/repository"
	"github.com/diaodu/diaodu/pkg/errors"
	"github.com/diaodu/diaodu/pkg/logger"
	"github.com/diaodu/diaodu/pkg/model"
	"github.com/diaodu/diaodu/pkg/solver"
	"github.com/diaodu/diaodu/pkg/stats"
	"github.com/diaodu/diaodu/pkg/verify"
)

// SolveHandler 求解处理器
type SolveHandler struct {
	cfg  *config.Config
	repo *repository.RunRepository // 可选：配置了数据库时保存运行记录
}

// NewSolveHandler 创建求解处理器
func NewSolveHandler(cfg *config.Config, repo *repository.RunRepository) *SolveHandler {
	return &SolveHandler{cfg: cfg, repo: repo}
}

// SolveResponse 求解响应
type SolveResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message,omitempty"`
	RunID       string             `json:"run_id"`
	Objective   float64            `json:"objective,omitempty"`
	Elapsed     string             `json:"elapsed"`
	Iterations  int                `json:"iterations"`
	Assignments []model.Assignment `json:"assignments,omitempty"`
	Statistics  *stats.Metrics     `json:"statistics,omitempty"`
}

// Solve 处理求解请求
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, errors.Wrap(err, errors.CodeInvalidInput, "读取请求体失败"))
		return
	}

	p, appErr := parseInstanceJSON(body)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	budget := h.cfg.Solver.Budget
	if ms := gjson.GetBytes(body, "budget_ms"); ms.Exists() && ms.Int() > 0 {
		budget = time.Duration(ms.Int()) * time.Millisecond
	}

	s := solver.New(p, solverConfig(&h.cfg.Solver))
	result := s.Solve(budget)
	metrics.RecordSolve(result.Feasible, result.Objective, result.Iterations, result.Elapsed)

	name := gjson.GetBytes(body, "name").String()
	if name == "" {
		name = "api"
	}
	if h.repo != nil {
		if _, err := h.repo.Create(r.Context(), name, p, result); err != nil {
			logger.WithError(err).Msg("保存求解运行失败")
		}
	}

	resp := &SolveResponse{
		Success:    result.Feasible,
		RunID:      result.RunID.String(),
		Elapsed:    result.Elapsed.String(),
		Iterations: result.Iterations,
	}
	if result.Feasible {
		resp.Objective = result.Objective
		resp.Assignments = result.Assignments(p)
		resp.Statistics = stats.NewAnalyzer().Analyze(p, result)
	} else {
		resp.Message = "无可行解"
	}
	writeJSON(w, http.StatusOK, resp)
}

// ValidateResponse 校验响应
type ValidateResponse struct {
	Feasible bool   `json:"feasible"`
	Verdict  string `json:"verdict"`
}

// Validate 处理解校验请求：请求体带实例、解与目标值，返回校验结论
func (h *SolveHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, errors.Wrap(err, errors.CodeInvalidInput, "读取请求体失败"))
		return
	}

	p, appErr := parseInstanceJSON(body)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	result, appErr := parseSolutionJSON(body, p)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	state := verify.Check(p, result)
	writeJSON(w, http.StatusOK, &ValidateResponse{
		Feasible: state == verify.Feasible,
		Verdict:  state.String(),
	})
}

// solverConfig 把应用配置转换为求解器参数
func solverConfig(sc *config.SolverConfig) solver.Config {
	cfg := solver.DefaultConfig()
	cfg.Workers = sc.Workers
	cfg.IterationLimit = sc.IterationLimit
	if sc.PercNormal > 0 {
		cfg.PercNormal = sc.PercNormal
	}
	if sc.PercScarce > 0 {
		cfg.PercScarce = sc.PercScarce
	}
	cfg.Seed = sc.Seed
	cfg.RandomSeed = sc.RandomSeed
	return cfg
}

// writeJSON 写出JSON响应
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError 写出错误响应
func writeError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}
