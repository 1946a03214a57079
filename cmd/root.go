// Package cmd 提供 classcomments 的命令行入口与子命令编排。
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"classcomments/internal/config"
	"classcomments/internal/languages"
	"classcomments/internal/logging"
)

// settings 在子命令之间共享配置来源。
// 每次 Execute 使用独立的 viper 实例，避免全局状态。
type settings struct {
	viper      *viper.Viper
	configFile string
}

// load 读取并校验配置，同时构造日志器。
func (s *settings) load(cmd *cobra.Command, requireInputs bool) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(s.viper, s.configFile)
	if err != nil {
		return cfg, nil, err
	}
	if err := cfg.Validate(requireInputs); err != nil {
		return cfg, nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

// bind 把命令行参数绑定到配置键，参数显式设置时优先级最高。
func (s *settings) bind(cmd *cobra.Command, bindings map[string]string) {
	for key, flagName := range bindings {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(flagName)
		}
		if flag != nil {
			_ = s.viper.BindPFlag(key, flag)
		}
	}
}

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
func Execute(ctx context.Context, version string) error {
	registry := languages.NewRegistry()
	rootCmd := newRootCmd(version, registry)
	return rootCmd.ExecuteContext(ctx)
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(version string, registry *languages.Registry) *cobra.Command {
	shared := &settings{viper: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "classcomments",
		Short: "按类型声明归属并统计源码注释",
		Long: "classcomments 基于正则扫描与花括号计数，把每个注释归属到最内层的类型声明，\n" +
			"并按 (file, class) 输出 comments_by_class.csv，便于与外部类级度量表关联。",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&shared.configFile, "config", "", "配置文件路径（默认查找 ./classcomments.{yaml,toml,json}）")
	rootCmd.PersistentFlags().String("log-level", "info", "日志级别: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "日志格式: console 或 json")
	shared.bind(rootCmd, map[string]string{
		config.KeyLogLevel:  "log-level",
		config.KeyLogFormat: "log-format",
	})

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd(registry))
	rootCmd.AddCommand(newScanCmd(registry, shared))
	rootCmd.AddCommand(newAttributeCmd(registry, shared))

	return rootCmd
}
