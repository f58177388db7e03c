package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/audio-sentinel/internal/analysis"
	"github.com/nguyentantai21042004/audio-sentinel/internal/store"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Ingest runs the upload -> transcribe -> summarize -> parse -> persist
// chain for each file, strictly sequentially. A failing file is reported
// in Result.Failures and the remaining files still run; only malformed
// input aborts the whole call, before any file is touched.
func (p *implPipeline) Ingest(ctx context.Context, files []File, opts Options) (*Result, error) {
	location, err := resolveLocation(opts)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &ValidationError{Msg: "at least one file is required"}
	}

	p.progress.Reset(len(files))

	sessionDir := filepath.Join(p.cfg.Paths.Uploads, uuid.New().String())
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	p.logger.Info(ctx, "Ingesting %d files into %s", len(files), sessionDir)

	result := &Result{}
	for i, file := range files {
		p.logger.Info(ctx, "[%d/%d] Processing: %s", i+1, len(files), file.Name)

		record, savedPath, err := p.processFile(ctx, sessionDir, file, location, opts)
		if err != nil {
			p.logger.Error(ctx, "Failed to process %s: %v", file.Name, err)
			result.Failures = append(result.Failures, FileFailure{Filename: file.Name, Err: err})
		} else {
			result.SavedFiles = append(result.SavedFiles, savedPath)
			result.Records = append(result.Records, *record)
		}

		p.progress.Step()
	}

	p.logger.Info(ctx, "Ingestion complete: %d saved, %d failed", len(result.Records), len(result.Failures))
	return result, nil
}

func (p *implPipeline) processFile(ctx context.Context, sessionDir string, file File, location string, opts Options) (*store.SummaryRecord, string, error) {
	savedPath := filepath.Join(sessionDir, sanitizeFilename(file.Name))
	// Overwrite on collision: each upload session has its own directory.
	if err := os.WriteFile(savedPath, file.Data, 0644); err != nil {
		return nil, "", fmt.Errorf("save upload: %w", err)
	}

	transcript, err := p.transcriber.Transcribe(ctx, savedPath)
	if err != nil {
		return nil, "", err
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("wait for pacing slot: %w", err)
	}

	raw, err := p.summarizer.Summarize(ctx, transcript)
	if err != nil {
		return nil, "", err
	}

	briefing, err := analysis.Parse(raw)
	if err != nil {
		return nil, "", err
	}

	record := &store.SummaryRecord{
		Title:         briefing.Title,
		Content:       transcript,
		ContentLength: analysis.WordCount(transcript),
		Summary:       briefing.Summary,
		SummaryLength: briefing.SummaryLength,
		KeyTerms:      briefing.KeyTerms,
		Date:          time.Now().Format("2006-01-02"),
		ThreatLevel:   briefing.ThreatLevel,
		Location:      location,
		CaseNumber:    opts.CaseNumber,
		Resolved:      false,
		Latitude:      opts.Latitude,
		Longitude:     opts.Longitude,
	}

	created, err := p.store.Create(ctx, record)
	if err != nil {
		return nil, "", fmt.Errorf("persist record: %w", err)
	}

	return created, savedPath, nil
}

// resolveLocation applies the lat/long override and validates the
// resulting location string. Free-text locations pass as-is; anything
// that reads as a coordinate pair must be on the globe.
func resolveLocation(opts Options) (string, error) {
	location := opts.Location

	if opts.Latitude != nil && opts.Longitude != nil {
		if !InRange(*opts.Latitude, *opts.Longitude) {
			return "", &ValidationError{
				Msg: fmt.Sprintf("coordinates out of range: %v, %v", *opts.Latitude, *opts.Longitude),
			}
		}
		return formatCoord(*opts.Latitude) + ", " + formatCoord(*opts.Longitude), nil
	}

	if location == "" {
		return "", &ValidationError{Msg: "location is required"}
	}
	if lat, long, ok := ParseLatLong(location); ok && !InRange(lat, long) {
		return "", &ValidationError{
			Msg: fmt.Sprintf("coordinates out of range: %s", location),
		}
	}

	return location, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sanitizeFilename strips any path components and replaces characters
// that are unsafe on disk.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		name = "upload"
	}
	return name
}
