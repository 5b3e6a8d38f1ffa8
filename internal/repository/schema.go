package repository

import (
	"context"
	"fmt"
)

// schema 求解运行相关的建表语句
const schema = `
CREATE TABLE IF NOT EXISTS solve_runs (
	id UUID PRIMARY KEY,
	instance_name TEXT NOT NULL,
	feasible BOOLEAN NOT NULL,
	objective DOUBLE PRECISION NOT NULL DEFAULT 0,
	elapsed_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
	iterations INTEGER NOT NULL DEFAULT 0,
	moved_per_type JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS solve_assignments (
	run_id UUID NOT NULL REFERENCES solve_runs(id) ON DELETE CASCADE,
	source INTEGER NOT NULL,
	dest INTEGER NOT NULL,
	type INTEGER NOT NULL,
	time INTEGER NOT NULL,
	users INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_solve_runs_created_at ON solve_runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_solve_assignments_run ON solve_assignments(run_id);
`

// Migrate 创建缺失的表结构
func Migrate(ctx context.Context, db DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("初始化表结构失败: %w", err)
	}
	return nil
}
