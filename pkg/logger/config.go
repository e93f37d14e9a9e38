package logger

import "log/slog"

type Backend string

const (
	BackendStd Backend = "std" // Text в dev; для stage/prod лучше zap
	BackendZap Backend = "zap" // slog поверх zap, JSON
)

type Env string

const (
	EnvDev   Env = "dev"
	EnvStage Env = "stage"
	EnvProd  Env = "prod"
)

type Config struct {
	// Метаданные, добавляемые к каждой записи
	Service    string
	Version    string
	InstanceID string

	// Управление выводом
	Level   slog.Level
	Env     Env
	Backend Backend // default: zap для stage/prod, std для dev
	Debug   bool

	// Zap sampling
	SampleInitial    int
	SampleThereafter int

	// AddSource в dev
	AddSource bool
}
