// DiaoDu 蜂窝任务调度引擎
// 命令行入口：读取实例文件，求解并输出 KPI 与完整解

package main

import (
	"fmt"
	"os"

	"github.com/diaodu/diaodu/internal/config"
	"github.com/diaodu/diaodu/pkg/logger"
	"github.com/diaodu/diaodu/pkg/model"
	"github.com/diaodu/diaodu/pkg/solver"
	"github.com/diaodu/diaodu/pkg/verify"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const (
	minFiles = 2 // InputFile OutputFile
	maxFiles = 3 // InputFile OutputFile SolutionFile
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	logger.Init(logger.Config{
		Level:  os.Getenv("APP_LOG_LEVEL"),
		Format: "console",
		Output: "stderr",
	})

	test := false
	var files []string

	for _, arg := range args[1:] {
		switch arg {
		case "--help", "-h":
			printHelp(args[0])
			return 0
		case "--version":
			printVersion()
			return 0
		case "--test":
			test = true
		default:
			files = append(files, arg)
		}
	}

	// 位置参数数量错误时打印帮助并退出
	if len(files) < minFiles || len(files) > maxFiles {
		printHelp(args[0])
		return -1
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Msg("加载配置失败")
		return -1
	}

	inputFile, err := os.Open(files[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法打开输入文件 %s\n", files[0])
		return -2
	}

	// KPI 摘要按实例逐行追加
	outputFile, err := os.OpenFile(files[1], os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		inputFile.Close()
		fmt.Fprintf(os.Stderr, "无法打开输出文件 %s\n", files[1])
		return -3
	}
	defer outputFile.Close()

	p, err := model.ParseInstance(inputFile)
	inputFile.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法读取输入文件 %s: %v\n", files[0], err)
		return -2
	}

	s := solver.New(p, solverConfig(&cfg.Solver))
	result := s.Solve(cfg.Solver.Budget)

	name := model.InstanceName(files[0])
	if err := model.WriteKPI(outputFile, name, result); err != nil {
		logger.WithError(err).Msg("写出 KPI 失败")
	}

	// 指定了解文件时写出完整解；失败只提示，不影响退出码
	if len(files) == maxFiles {
		solutionFile, err := os.Create(files[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "无法打开解文件 %s\n", files[2])
		} else {
			if err := model.WriteSolution(solutionFile, p, result); err != nil {
				logger.WithError(err).Msg("写出解失败")
			}
			solutionFile.Close()
		}
	}

	if test {
		fmt.Println(verify.Check(p, result))
	}

	return 0
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

func printHelp(exeName string) {
	fmt.Fprintf(os.Stderr, "用法: %s [选项] InputFile OutputFile [SolutionFile]\n", exeName)
	fmt.Fprintln(os.Stderr, " * InputFile: 问题实例文件路径")
	fmt.Fprintln(os.Stderr, " * OutputFile: 追加 KPI 摘要的文件路径")
	fmt.Fprintln(os.Stderr, " * SolutionFile: 保存完整解的文件路径（可选）")
	fmt.Fprintln(os.Stderr, "选项:")
	fmt.Fprintln(os.Stderr, " * --test: 对求解结果执行可行性校验并打印结论")
	fmt.Fprintln(os.Stderr, " * --help: 显示本帮助")
	fmt.Fprintln(os.Stderr, " * --version: 显示版本信息")
}

func printVersion() {
	fmt.Fprintf(os.Stderr, "DiaoDu 蜂窝任务调度引擎 v%s\n", Version)
	fmt.Fprintf(os.Stderr, "Build: %s (%s)\n", BuildTime, GitCommit)
}
