package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"classcomments/internal/cktable"
	"classcomments/internal/config"
	"classcomments/internal/languages"
	"classcomments/internal/report"
	"classcomments/internal/scanner"
)

// newAttributeCmd 创建 attribute 子命令。
// 示例：
//
//	classcomments attribute --classes ck/class.csv --repo ./checkout --output-dir ck
//	classcomments attribute --classes class.csv --repo . --workers 8 --exclude "**/test/**"
func newAttributeCmd(registry *languages.Registry, shared *settings) *cobra.Command {
	var format string

	attributeCmd := &cobra.Command{
		Use:   "attribute",
		Short: "按权威类表归属仓库注释并导出 comments_by_class.csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "table" && format != "json" {
				return errors.New("unsupported format, allowed values: table, json")
			}

			cfg, logger, err := shared.load(cmd, true)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			table, err := cktable.ReadFile(cfg.Classes)
			if err != nil {
				return err
			}

			service := scanner.NewService(registry, scanner.Options{
				Workers:     cfg.Workers,
				Exclude:     cfg.Exclude,
				DropMissing: cfg.DropMissing,
				Logger:      logger,
			})
			result, err := service.Run(cmd.Context(), cfg.Repo, table.Declarations)
			if err != nil {
				return err
			}

			outputPath, err := report.WriteCSVFile(cfg.OutputDir, result.Rows)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				if err := report.PrintJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			default:
				if err := report.PrintSummary(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nCSV exported to %s\n", outputPath)
			return nil
		},
	}

	flags := attributeCmd.Flags()
	flags.String("classes", "", "外部度量工具输出的类表（需包含 file、class 列）")
	flags.String("repo", "", "解析相对路径使用的仓库根目录")
	flags.String("output-dir", ".", "comments_by_class.csv 的输出目录")
	flags.Int("workers", 1, "并发处理文件的 worker 数量")
	flags.StringSlice("exclude", nil, "排除的相对路径 glob（支持 **），可重复")
	flags.Bool("drop-missing", false, "从结果中移除找不到或无法读取的文件对应的行")
	flags.StringVar(&format, "format", "table", "汇总输出格式: table 或 json")

	shared.bind(attributeCmd, map[string]string{
		config.KeyClasses:     "classes",
		config.KeyRepo:        "repo",
		config.KeyOutputDir:   "output-dir",
		config.KeyWorkers:     "workers",
		config.KeyExclude:     "exclude",
		config.KeyDropMissing: "drop-missing",
	})

	return attributeCmd
}
