// Package config 负责加载 classcomments 的运行配置。
//
// 优先级（高到低）：命令行参数 > 环境变量（CLASSCOMMENTS_ 前缀）> 配置文件 > 默认值。
// 环境变量读取前会先加载工作目录中的 .env 文件（如果存在）。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"classcomments/internal/logging"
)

// EnvPrefix 是环境变量前缀，例如 CLASSCOMMENTS_WORKERS。
const EnvPrefix = "CLASSCOMMENTS"

// 配置键。
const (
	KeyClasses     = "classes"
	KeyRepo        = "repo"
	KeyOutputDir   = "output_dir"
	KeyWorkers     = "workers"
	KeyExclude     = "exclude"
	KeyDropMissing = "drop_missing"
	KeyLogLevel    = "log.level"
	KeyLogFormat   = "log.format"
)

// LogConfig 是日志配置。
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config 是完整运行配置。
type Config struct {
	// Classes 是权威类表（class.csv）路径。
	Classes string `mapstructure:"classes"`
	// Repo 是解析相对路径用的仓库根目录。
	Repo string `mapstructure:"repo"`
	// OutputDir 是 comments_by_class.csv 的输出目录。
	OutputDir   string    `mapstructure:"output_dir"`
	Workers     int       `mapstructure:"workers"`
	Exclude     []string  `mapstructure:"exclude"`
	DropMissing bool      `mapstructure:"drop_missing"`
	Log         LogConfig `mapstructure:"log"`
}

// Default 返回默认配置。
func Default() Config {
	return Config{
		OutputDir: ".",
		Workers:   1,
		Log: LogConfig{
			Level:  "info",
			Format: string(logging.ConsoleFormat),
		},
	}
}

// SetDefaults 把默认值写入 viper 实例。
func SetDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault(KeyClasses, defaults.Classes)
	v.SetDefault(KeyRepo, defaults.Repo)
	v.SetDefault(KeyOutputDir, defaults.OutputDir)
	v.SetDefault(KeyWorkers, defaults.Workers)
	v.SetDefault(KeyExclude, []string{})
	v.SetDefault(KeyDropMissing, defaults.DropMissing)
	v.SetDefault(KeyLogLevel, defaults.Log.Level)
	v.SetDefault(KeyLogFormat, defaults.Log.Format)
}

// Load 读取配置。
// configFile 为空时在当前目录查找 classcomments.{yaml,yml,toml,json}，找不到不算错误；
// 显式指定的配置文件不存在则返回错误。
func Load(v *viper.Viper, configFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("classcomments")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate 校验配置。requireInputs 为 true 时要求 classes 与 repo 均已设置。
func (c Config) Validate(requireInputs bool) error {
	if c.Workers <= 0 {
		return errors.New("workers must be greater than 0")
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	if !requireInputs {
		return nil
	}
	if strings.TrimSpace(c.Classes) == "" {
		return errors.New("classes table path is required (--classes)")
	}
	if strings.TrimSpace(c.Repo) == "" {
		return errors.New("repository root is required (--repo)")
	}
	return nil
}
