package model

import (
	"strings"
	"testing"
	"time"

	"github.com/diaodu/diaodu/pkg/errors"
	"github.com/diaodu/diaodu/pkg/ndarray"
)

// 两小区、一时间段、两类型的最小实例
const sampleInstance = `2 1 2
1 3
0 0
0 10
10 0
1 0
0 15
15 0
0 3
0 0
1 0
1 0
1 0
`

func TestParseInstance(t *testing.T) {
	p, err := ParseInstance(strings.NewReader(sampleInstance))
	if err != nil {
		t.Fatalf("ParseInstance failed: %v", err)
	}

	if p.NCells != 2 || p.NTimes != 1 || p.NTypes != 2 {
		t.Fatalf("dimensions = (%d,%d,%d), want (2,1,2)", p.NCells, p.NTimes, p.NTypes)
	}
	if p.ActPerUser[0] != 1 || p.ActPerUser[1] != 3 {
		t.Errorf("ActPerUser = %v, want [1 3]", p.ActPerUser)
	}
	if p.Activities[0] != 0 || p.Activities[1] != 3 {
		t.Errorf("Activities = %v, want [0 3]", p.Activities)
	}
	if got := p.Costs.At(0, 1, 0, 0); got != 10 {
		t.Errorf("Costs[0,1,0,0] = %g, want 10", got)
	}
	if got := p.Costs.At(0, 1, 1, 0); got != 15 {
		t.Errorf("Costs[0,1,1,0] = %g, want 15", got)
	}
	if got := p.UsersAvailable.At(0, 0, 0); got != 1 {
		t.Errorf("UsersAvailable[0,0,0] = %d, want 1", got)
	}
	if got := p.UsersAvailable.At(1, 1, 0); got != 0 {
		t.Errorf("UsersAvailable[1,1,0] = %d, want 0", got)
	}
}

func TestParseInstance_Truncated(t *testing.T) {
	_, err := ParseInstance(strings.NewReader("2 1"))
	if err == nil {
		t.Fatal("expected error for truncated input")
	}
	if !errors.Is(err, errors.CodeParseFailure) {
		t.Errorf("error code = %v, want PARSE_FAILURE", errors.GetCode(err))
	}
}

func TestParseInstance_BadDimensions(t *testing.T) {
	_, err := ParseInstance(strings.NewReader("0 1 1"))
	if err == nil {
		t.Fatal("expected error for zero cells")
	}
	if !errors.Is(err, errors.CodeInvalidInput) {
		t.Errorf("error code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestInstanceName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/data/instances/co_30_1.txt", "co_30_1"},
		{"inst.txt", "inst"},
		{"plain", "plain"},
	}
	for _, c := range cases {
		if got := InstanceName(c.in); got != c.want {
			t.Errorf("InstanceName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWriteKPI(t *testing.T) {
	r := &Result{
		Feasible:     true,
		Objective:    260,
		Elapsed:      1500 * time.Millisecond,
		MovedPerType: []int{3, 0, 2},
	}

	var b strings.Builder
	if err := WriteKPI(&b, "co_30_1", r); err != nil {
		t.Fatalf("WriteKPI failed: %v", err)
	}
	if got, want := b.String(), "co_30_1;260;1.5;3;0;2\n"; got != want {
		t.Errorf("KPI line = %q, want %q", got, want)
	}
}

func TestWriteKPI_NoSolution(t *testing.T) {
	var b strings.Builder
	if err := WriteKPI(&b, "x", &Result{Feasible: false}); err != nil {
		t.Fatalf("WriteKPI failed: %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("expected no output for infeasible result, got %q", b.String())
	}
}

func TestWriteSolution(t *testing.T) {
	p := NewProblem(2, 1, 2)
	sol := ndarray.New4[int](2, 2, 2, 1)
	sol.Set(0, 1, 1, 0, 1)
	r := &Result{Feasible: true, Solution: sol}

	var b strings.Builder
	if err := WriteSolution(&b, p, r); err != nil {
		t.Fatalf("WriteSolution failed: %v", err)
	}
	want := "2;1;2\n0;1;1;0;1\n"
	if b.String() != want {
		t.Errorf("solution output = %q, want %q", b.String(), want)
	}
}
