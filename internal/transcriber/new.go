package transcriber

import (
	"github.com/nguyentantai21042004/audio-sentinel/internal/config"
	"github.com/nguyentantai21042004/audio-sentinel/internal/logger"
	"github.com/nguyentantai21042004/audio-sentinel/pkg/executor"
)

type implTranscriber struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Transcriber instance backed by a local whisper.cpp binary
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Transcriber {
	return &implTranscriber{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
