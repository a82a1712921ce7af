// Package logger 构建各组件共用的结构化日志
package logger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattermost/mattermost/server/public/shared/mlog"

	"github.com/yoyo3287258/title-translator/internal/config"
)

const consoleTarget = "console"

// New 按配置的级别、格式和输出位置创建控制台日志
func New(cfg *config.LogConfig) (*mlog.Logger, error) {
	log, err := mlog.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("创建日志失败: %w", err)
	}

	if err := Configure(log, cfg); err != nil {
		_ = log.Shutdown()
		return nil, err
	}

	return log, nil
}

// Configure 将级别和格式应用到已有日志（配置重载时调用）
func Configure(log *mlog.Logger, cfg *config.LogConfig) error {
	format := "plain"
	if strings.EqualFold(cfg.Format, "json") {
		format = "json"
	}

	out := "stdout"
	if strings.EqualFold(cfg.Output, "stderr") {
		out = "stderr"
	}

	targets := mlog.LoggerConfiguration{
		consoleTarget: mlog.TargetCfg{
			Type:         "console",
			Format:       format,
			Options:      json.RawMessage(fmt.Sprintf(`{"out":%q}`, out)),
			Levels:       Levels(cfg.Level),
			MaxQueueSize: 1000,
		},
	}

	if err := log.ConfigureTargets(targets, nil); err != nil {
		return fmt.Errorf("配置日志失败: %w", err)
	}
	return nil
}

// Levels 返回给定最低级别下启用的所有级别
func Levels(level string) []mlog.Level {
	levels := []mlog.Level{mlog.LvlPanic, mlog.LvlFatal, mlog.LvlError}

	switch strings.ToLower(level) {
	case "error":
		return levels
	case "warn":
		return append(levels, mlog.LvlWarn)
	case "debug":
		return append(levels, mlog.LvlWarn, mlog.LvlInfo, mlog.LvlDebug)
	default:
		return append(levels, mlog.LvlWarn, mlog.LvlInfo)
	}
}

// NewDiscard 创建没有输出目标的日志，用于测试
func NewDiscard() *mlog.Logger {
	log, err := mlog.NewLogger()
	if err != nil {
		panic(err)
	}
	return log
}
