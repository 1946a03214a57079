package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"classcomments/internal/languages"
	"classcomments/internal/report"
	"classcomments/internal/scanner"
)

// scanOptions 存放 scan 命令的可配置参数。
type scanOptions struct {
	format string
	output string
}

// newScanCmd 创建 scan 子命令。
// 该命令不依赖外部类表，直接对单个文件中定位到的全部声明做归属。
// 示例：
//
//	classcomments scan src/main/java/Foo.java
//	classcomments scan Foo.java --format json --output foo.json
func newScanCmd(registry *languages.Registry, shared *settings) *cobra.Command {
	options := scanOptions{format: "table"}

	scanCmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "归属单个源码文件的注释并输出统计",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(strings.TrimSpace(options.format))
			if format != "table" && format != "json" {
				return errors.New("unsupported format, allowed values: table, json")
			}

			_, logger, err := shared.load(cmd, false)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			service := scanner.NewService(registry, scanner.Options{Logger: logger})
			rows, err := service.ScanFile(args[0])
			if err != nil {
				return err
			}
			logger.Debug("file scanned", zap.String("file", args[0]), zap.Int("rows", len(rows)))

			switch format {
			case "table":
				return report.PrintTable(cmd.OutOrStdout(), rows)
			case "json":
				if err := report.PrintJSON(cmd.OutOrStdout(), rows); err != nil {
					return err
				}

				outputPath := strings.TrimSpace(options.output)
				if outputPath == "" {
					return nil
				}
				if err := report.WriteJSONFile(outputPath, rows); err != nil {
					return err
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nJSON exported to %s\n", outputPath)
				return nil
			default:
				return errors.New("unsupported format")
			}
		},
	}

	scanCmd.Flags().StringVar(&options.format, "format", options.format, "输出格式: table 或 json")
	scanCmd.Flags().StringVar(&options.output, "output", "", "json 导出文件路径（仅 json 格式）")

	return scanCmd
}
