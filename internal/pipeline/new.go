package pipeline

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/nguyentantai21042004/audio-sentinel/internal/config"
	"github.com/nguyentantai21042004/audio-sentinel/internal/logger"
	"github.com/nguyentantai21042004/audio-sentinel/internal/store"
	"github.com/nguyentantai21042004/audio-sentinel/internal/summarizer"
	"github.com/nguyentantai21042004/audio-sentinel/internal/transcriber"
)

type implPipeline struct {
	cfg         *config.Config
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	store       store.Store
	logger      logger.Logger
	progress    *Progress
	limiter     *rate.Limiter
}

// New creates a new Pipeline instance. Model calls are paced by a rate
// limiter sized from pacing.requests_per_minute, bounding load on the
// external transcription and summarization services.
func New(cfg *config.Config, t transcriber.Transcriber, s summarizer.Summarizer, st store.Store, log logger.Logger) Pipeline {
	rpm := cfg.Pacing.RequestsPerMinute
	if rpm <= 0 {
		rpm = 10
	}
	interval := time.Minute / time.Duration(rpm)

	return &implPipeline{
		cfg:         cfg,
		transcriber: t,
		summarizer:  s,
		store:       st,
		logger:      log,
		progress:    &Progress{},
		limiter:     rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (p *implPipeline) Progress() *Progress {
	return p.progress
}
