package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/diaodu/diaodu/pkg/errors"
)

// intReader 按空白分隔逐个读取整数
type intReader struct {
	scanner *bufio.Scanner
}

func newIntReader(r io.Reader) *intReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	s.Split(bufio.ScanWords)
	return &intReader{scanner: s}
}

// next 读取下一个整数
func (r *intReader) next(what string) (int, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return 0, errors.ParseFailure(what, err)
		}
		return 0, errors.ParseFailure(what, io.ErrUnexpectedEOF)
	}
	v, err := strconv.Atoi(r.scanner.Text())
	if err != nil {
		return 0, errors.ParseFailure(what, err)
	}
	return v, nil
}

// ParseInstance 从文本流解析一个完整的问题实例
//
// 格式为空白分隔的整数序列：
//  1. 首行三个整数 C T M（小区数、时间段数、用户类型数）
//  2. M 个整数：每类用户单次可完成的任务数
//  3. 成本矩阵：对每个 (m, t) 先是两个被丢弃的头部整数，
//     然后按行优先 (i, j) 给出 C*C 个成本
//  4. C 个整数：每个小区的任务需求
//  5. 可用用户：对每个 (m, t) 先是两个被丢弃的头部整数，然后 C 个整数
func ParseInstance(r io.Reader) (*Problem, error) {
	ir := newIntReader(r)

	nCells, err := ir.next("小区数量")
	if err != nil {
		return nil, err
	}
	nTimes, err := ir.next("时间段数量")
	if err != nil {
		return nil, err
	}
	nTypes, err := ir.next("用户类型数量")
	if err != nil {
		return nil, err
	}
	if nCells <= 0 || nTimes <= 0 || nTypes <= 0 {
		return nil, errors.InvalidInput("dimensions",
			fmt.Sprintf("C=%d T=%d M=%d", nCells, nTimes, nTypes))
	}

	p := NewProblem(nCells, nTimes, nTypes)

	for m := 0; m < nTypes; m++ {
		if p.ActPerUser[m], err = ir.next("单用户任务数"); err != nil {
			return nil, err
		}
	}

	// 成本矩阵。头部的 (m, t) 索引读出后丢弃
	for m := 0; m < nTypes; m++ {
		for t := 0; t < nTimes; t++ {
			if _, err = ir.next("成本块头部"); err != nil {
				return nil, err
			}
			if _, err = ir.next("成本块头部"); err != nil {
				return nil, err
			}
			for i := 0; i < nCells; i++ {
				for j := 0; j < nCells; j++ {
					c, err := ir.next("成本")
					if err != nil {
						return nil, err
					}
					p.Costs.Set(i, j, m, t, float64(c))
				}
			}
		}
	}

	for j := 0; j < nCells; j++ {
		if p.Activities[j], err = ir.next("任务需求"); err != nil {
			return nil, err
		}
	}

	for m := 0; m < nTypes; m++ {
		for t := 0; t < nTimes; t++ {
			if _, err = ir.next("用户块头部"); err != nil {
				return nil, err
			}
			if _, err = ir.next("用户块头部"); err != nil {
				return nil, err
			}
			for i := 0; i < nCells; i++ {
				n, err := ir.next("可用用户数")
				if err != nil {
					return nil, err
				}
				p.UsersAvailable.Set(i, m, t, n)
			}
		}
	}

	return p, nil
}
