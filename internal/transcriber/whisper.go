package transcriber

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Transcribe converts an audio file to plain text using whisper.cpp.
// The recording is first normalized to 16kHz mono WAV, the format
// Whisper expects, then transcribed with -otxt output.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: err}
	}

	wavPath, err := t.normalizeAudio(ctx, audioPath)
	if err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: err}
	}
	defer t.cleanupTempFile(ctx, wavPath)

	outputPrefix := strings.TrimSuffix(wavPath, filepath.Ext(wavPath))

	t.logger.Info(ctx, "Starting transcription with %d threads: %s", t.cfg.Whisper.Threads, audioPath)

	// -m: model path
	// -f: input audio file
	// -otxt: plain text output
	// -l: force language (prevents hallucination)
	// -t: number of threads
	args := []string{
		"-m", t.cfg.Whisper.ModelPath,
		"-f", wavPath,
		"-otxt",
		"-l", t.cfg.Whisper.Language,
		"-t", strconv.Itoa(t.cfg.Whisper.Threads),
		"--output-file", outputPrefix,
	}

	if _, err := t.executor.Execute(ctx, t.cfg.Whisper.BinaryPath, args...); err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: err}
	}

	txtPath := outputPrefix + ".txt"
	defer t.cleanupTempFile(ctx, txtPath)

	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", &TranscriptionError{Path: audioPath, Err: err}
	}

	transcript := strings.TrimSpace(string(data))
	t.logger.Info(ctx, "Transcription completed: %s (%d chars)", audioPath, len(transcript))
	return transcript, nil
}

// normalizeAudio converts the recording to 16kHz mono PCM WAV in the temp dir.
func (t *implTranscriber) normalizeAudio(ctx context.Context, audioPath string) (string, error) {
	if err := os.MkdirAll(t.cfg.Paths.Temp, 0755); err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	wavPath := filepath.Join(t.cfg.Paths.Temp, base+"_16k.wav")

	t.logger.Debug(ctx, "Normalizing audio: %s -> %s", audioPath, wavPath)

	// -vn: drop any video stream
	// -ar 16000: 16kHz sample rate
	// -ac 1: mono
	// -c:a pcm_s16le: uncompressed 16-bit PCM
	args := []string{
		"-i", audioPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		wavPath,
	}

	if _, err := t.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", err
	}

	return wavPath, nil
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (t *implTranscriber) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil {
		t.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		t.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}
