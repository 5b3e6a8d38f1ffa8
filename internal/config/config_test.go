package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.Name != "diaodu" {
		t.Errorf("App.Name = %q, want diaodu", cfg.App.Name)
	}
	if cfg.Solver.Budget != 5*time.Second {
		t.Errorf("Solver.Budget = %v, want 5s", cfg.Solver.Budget)
	}
	if cfg.Solver.Workers != 8 {
		t.Errorf("Solver.Workers = %d, want 8", cfg.Solver.Workers)
	}
	if cfg.Solver.PercNormal != 0.50 || cfg.Solver.PercScarce != 0.95 {
		t.Errorf("time percentages = %g/%g, want 0.50/0.95",
			cfg.Solver.PercNormal, cfg.Solver.PercScarce)
	}
	if cfg.Database.Enabled {
		t.Error("database should be disabled by default")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SOLVER_BUDGET", "2s")
	t.Setenv("SOLVER_WORKERS", "4")
	t.Setenv("SOLVER_RANDOM_SEED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Solver.Budget != 2*time.Second {
		t.Errorf("Solver.Budget = %v, want 2s", cfg.Solver.Budget)
	}
	if cfg.Solver.Workers != 4 {
		t.Errorf("Solver.Workers = %d, want 4", cfg.Solver.Workers)
	}
	if !cfg.Solver.RandomSeed {
		t.Error("Solver.RandomSeed should be true")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: 5432, Name: "diaodu", User: "u", Password: "p", SSLMode: "disable",
	}
	want := "host=db port=5432 user=u password=p dbname=diaodu sslmode=disable"
	if got := c.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
