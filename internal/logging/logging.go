package logging

import (
	"go.uber.org/zap"

	"github.com/NudgeKit/nudgekit-sdk/pkg/sdk"
)

type Cfg struct {
	Level string
	JSON  bool
}

func New(c Cfg) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if !c.JSON {
		cfg.Encoding = "console"
	}
	if c.Level != "" {
		_ = cfg.Level.UnmarshalText([]byte(c.Level))
	}
	l, _ := cfg.Build()
	return l.Named("nudgekit")
}

// Sink adapts a zap logger to the bus's DebugSink collaborator. Lines land
// at debug level so production configs drop them for free.
type Sink struct {
	l *zap.Logger
}

var _ sdk.DebugSink = (*Sink)(nil)

func NewSink(l *zap.Logger) *Sink {
	return &Sink{l: l}
}

func (s *Sink) Log(msg string) {
	s.l.Debug(msg)
}
