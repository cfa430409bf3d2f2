package logger

import (
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

var l = zap.NewNop()

// Init 初始化全局 logger；未调用时所有输出为 no-op
func Init(level string, dev bool) error {
    var cfg zap.Config
    if dev {
        cfg = zap.NewDevelopmentConfig()
    } else {
        cfg = zap.NewProductionConfig()
    }
    lv, err := zapcore.ParseLevel(level)
    if err != nil {
        lv = zapcore.InfoLevel
    }
    cfg.Level = zap.NewAtomicLevelAt(lv)
    lg, err := cfg.Build(zap.AddCallerSkip(1))
    if err != nil {
        return err
    }
    l = lg
    return nil
}

func L() *zap.Logger { return l }

func Debug(msg string, fields ...zap.Field) { l.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { l.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { l.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { l.Error(msg, fields...) }

func Sync() { _ = l.Sync() }
