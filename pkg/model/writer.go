package model

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// InstanceName 从输入文件路径推导实例名（去掉目录和扩展名）
func InstanceName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// WriteKPI 追加一行 KPI 摘要：实例名;目标值;耗时秒;各类型派出用户数
//
// 未找到可行解时不写任何内容。
func WriteKPI(w io.Writer, name string, r *Result) error {
	if !r.Feasible {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s;%g;%g", name, r.Objective, r.Elapsed.Seconds())
	for _, n := range r.MovedPerType {
		fmt.Fprintf(&b, ";%d", n)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSolution 写出完整解：首行 C;T;M，随后每个非零元素一行 i;j;m;t;n
//
// 元素按 (m, t, i, j) 的嵌套顺序输出。未找到可行解时不写任何内容。
func WriteSolution(w io.Writer, p *Problem, r *Result) error {
	if !r.Feasible || r.Solution == nil {
		return nil
	}

	if _, err := fmt.Fprintf(w, "%d;%d;%d\n", p.NCells, p.NTimes, p.NTypes); err != nil {
		return err
	}
	for _, a := range r.Assignments(p) {
		if _, err := fmt.Fprintf(w, "%d;%d;%d;%d;%d\n", a.Source, a.Dest, a.Type, a.Time, a.Users); err != nil {
			return err
		}
	}
	return nil
}
