package asmrgo

import "go.uber.org/zap"

// NewDevelopmentLogger builds a human-readable zap logger, used by asmrctl
// when --verbose is set: console encoding, debug level, short caller, no
// sampling, no stack traces.
func NewDevelopmentLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// NewProductionLogger builds a JSON zap logger, asmrctl's default, suitable
// for driving asmrctl from another process or a build pipeline.
func NewProductionLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}
