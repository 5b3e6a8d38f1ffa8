// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diaodu/diaodu/pkg/model"
)

// DB 仓储需要的数据库操作
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// SolveRun 一次求解运行的记录
type SolveRun struct {
	ID             uuid.UUID `json:"id"`
	InstanceName   string    `json:"instance_name"`
	Feasible       bool      `json:"feasible"`
	Objective      float64   `json:"objective"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	Iterations     int       `json:"iterations"`
	MovedPerType   []int     `json:"moved_per_type"`
	CreatedAt      time.Time `json:"created_at"`
}

// RunRepository 求解运行仓储
type RunRepository struct {
	db DB
}

// NewRunRepository 创建求解运行仓储
func NewRunRepository(db DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create 保存一次求解运行及其派遣明细
func (r *RunRepository) Create(ctx context.Context, name string, p *model.Problem, res *model.Result) (*SolveRun, error) {
	run := &SolveRun{
		ID:             res.RunID,
		InstanceName:   name,
		Feasible:       res.Feasible,
		Objective:      res.Objective,
		ElapsedSeconds: res.Elapsed.Seconds(),
		Iterations:     res.Iterations,
		MovedPerType:   res.MovedPerType,
		CreatedAt:      time.Now(),
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	movedJSON, _ := json.Marshal(run.MovedPerType)

	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO solve_runs (
				id, instance_name, feasible, objective, elapsed_seconds,
				iterations, moved_per_type, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, run.ID, run.InstanceName, run.Feasible, run.Objective,
			run.ElapsedSeconds, run.Iterations, movedJSON, run.CreatedAt)
		if err != nil {
			return fmt.Errorf("保存求解运行失败: %w", err)
		}

		if !res.Feasible {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO solve_assignments (run_id, source, dest, type, time, users)
			VALUES ($1, $2, $3, $4, $5, $6)
		`)
		if err != nil {
			return fmt.Errorf("准备派遣明细语句失败: %w", err)
		}
		defer stmt.Close()

		for _, a := range res.Assignments(p) {
			if _, err := stmt.ExecContext(ctx, run.ID, a.Source, a.Dest, a.Type, a.Time, a.Users); err != nil {
				return fmt.Errorf("保存派遣明细失败: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetByID 根据ID获取求解运行
func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*SolveRun, error) {
	query := `
		SELECT id, instance_name, feasible, objective, elapsed_seconds,
			iterations, moved_per_type, created_at
		FROM solve_runs WHERE id = $1
	`
	run := &SolveRun{}
	var movedJSON []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.InstanceName, &run.Feasible, &run.Objective,
		&run.ElapsedSeconds, &run.Iterations, &movedJSON, &run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询求解运行失败: %w", err)
	}
	if len(movedJSON) > 0 {
		json.Unmarshal(movedJSON, &run.MovedPerType)
	}
	return run, nil
}

// List 按时间倒序列出最近的求解运行
func (r *RunRepository) List(ctx context.Context, limit int) ([]*SolveRun, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, instance_name, feasible, objective, elapsed_seconds,
			iterations, moved_per_type, created_at
		FROM solve_runs ORDER BY created_at DESC LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("查询求解运行列表失败: %w", err)
	}
	defer rows.Close()

	var runs []*SolveRun
	for rows.Next() {
		run := &SolveRun{}
		var movedJSON []byte
		if err := rows.Scan(
			&run.ID, &run.InstanceName, &run.Feasible, &run.Objective,
			&run.ElapsedSeconds, &run.Iterations, &movedJSON, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("读取求解运行记录失败: %w", err)
		}
		if len(movedJSON) > 0 {
			json.Unmarshal(movedJSON, &run.MovedPerType)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
