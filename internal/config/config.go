package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	MODE_CONSOLE = "console"
	MODE_SERVE   = "serve"
)

type AppConfig struct {
	Mode      string `mapstructure:"mode"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	Players       int `mapstructure:"players"`
	MaxPlayers    int `mapstructure:"max_players"`
	MusicMinMs    int `mapstructure:"music_min_ms"`
	MusicJitterMs int `mapstructure:"music_jitter_ms"`
	SettlePauseMs int `mapstructure:"settle_pause_ms"`

	GameRetentionSeconds int `mapstructure:"game_retention_seconds"`
}

// InitConfig 依次读取默认值、app_config.json、MUSICAL_CHAIRS_ 前缀的环境变量和命令行参数
func InitConfig(args []string) *AppConfig {
	config, err := Load(args)
	if err != nil {
		panic(fmt.Errorf("加载配置失败: %w", err))
	}

	return config
}

func Load(args []string) (*AppConfig, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("app_config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	// 配置文件是可选的
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	v.SetEnvPrefix("MUSICAL_CHAIRS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("解析命令行参数失败: %w", err)
	}

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("绑定命令行参数失败: %w", err)
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", MODE_CONSOLE)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "dev")

	v.SetDefault("players", 4)
	v.SetDefault("max_players", 64)
	v.SetDefault("music_min_ms", 500)
	v.SetDefault("music_jitter_ms", 1000)
	v.SetDefault("settle_pause_ms", 200)

	v.SetDefault("game_retention_seconds", 300)
}

// 未显式传入的标志不会覆盖配置文件和环境变量
func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("musical-chairs", pflag.ContinueOnError)

	fs.String("mode", MODE_CONSOLE, "运行模式：console 或 serve")
	fs.String("host", "127.0.0.1", "serve 模式的监听地址")
	fs.Int("port", 8080, "serve 模式的监听端口")
	fs.String("log_level", "info", "日志级别：debug/info/warn/error")
	fs.String("log_format", "dev", "日志格式：dev 或 json")

	fs.IntP("players", "n", 4, "玩家数量")
	fs.Int("max_players", 64, "serve 模式下单局允许的最大玩家数")
	fs.Int("music_min_ms", 500, "每回合音乐的最短播放时间（毫秒）")
	fs.Int("music_jitter_ms", 1000, "音乐播放时间的随机浮动范围（毫秒）")
	fs.Int("settle_pause_ms", 200, "玩家每回合反应后的停顿（毫秒）")

	fs.Int("game_retention_seconds", 300, "serve 模式下已结束游戏的保留时间（秒）")

	return fs
}

func (c *AppConfig) Validate() error {
	if c.Mode != MODE_CONSOLE && c.Mode != MODE_SERVE {
		return fmt.Errorf("未知的运行模式: %q", c.Mode)
	}

	if c.Players < 2 {
		return fmt.Errorf("玩家数量至少为 2，当前为 %d", c.Players)
	}

	if c.MaxPlayers < 2 {
		return fmt.Errorf("最大玩家数量至少为 2，当前为 %d", c.MaxPlayers)
	}

	if c.MusicMinMs < 0 || c.MusicJitterMs < 0 || c.SettlePauseMs < 0 {
		return errors.New("时间参数不能为负数")
	}

	return nil
}
