package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"owlfi/backend/config"
)

const serviceName = "owlfi-roadshow"

// NewLogger 根据日志配置构建 Zap 实例
//
// format=console 输出彩色开发日志，其余输出 JSON；
// 所有日志附带 service 字段，生产模式关闭采样以保证写操作日志完整。
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}

	zapCfg := baseConfig(cfg.Format)
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build(zap.Fields(zap.String("service", serviceName)))
	if err != nil {
		return nil, fmt.Errorf("初始化日志器失败: %w", err)
	}
	return logger, nil
}

func baseConfig(format string) zap.Config {
	if format == "console" {
		c := zap.NewDevelopmentConfig()
		c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return c
	}

	c := zap.NewProductionConfig()
	c.Sampling = nil
	c.DisableStacktrace = true
	c.EncoderConfig.TimeKey = "ts"
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return c
}
