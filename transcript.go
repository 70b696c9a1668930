package mainframequiz

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TranscriptLogger records one generation attempt's provider interaction to
// a file: the prompt, the raw response, and per-candidate verdicts. All
// methods are safe on a nil receiver so the pipeline can log
// unconditionally.
type TranscriptLogger struct {
	file *os.File
	mu   sync.Mutex
}

// NewTranscriptLogger creates log/<quizID>.log and writes a header with the
// request parameters.
func NewTranscriptLogger(dir, quizID string, req GenerationRequest) (*TranscriptLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.Create(filepath.Join(dir, quizID+".log"))
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript file: %w", err)
	}

	tl := &TranscriptLogger{file: file}
	tl.logf("=== Quiz Generation Transcript ===\n")
	tl.logf("Quiz ID: %s\n", quizID)
	tl.logf("Topic: %s - %s\n", req.Topic, req.Subtopic)
	tl.logf("Difficulty: %s\n", req.Difficulty)
	tl.logf("Requested Questions: %d\n", req.Count)
	tl.logf("Started: %s\n", time.Now().Format(time.RFC3339))
	tl.logf("==================================\n\n")
	return tl, nil
}

func (tl *TranscriptLogger) logf(format string, args ...interface{}) {
	if tl == nil || tl.file == nil {
		return
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(tl.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	tl.file.Sync()
}

// LogRequest records the prompt sent to the provider.
func (tl *TranscriptLogger) LogRequest(prompt string) {
	tl.logf("=== PROVIDER REQUEST ===\n%s\n========================\n\n", prompt)
}

// LogResponse records the raw provider response.
func (tl *TranscriptLogger) LogResponse(raw string) {
	tl.logf("=== PROVIDER RESPONSE ===\n%s\n=========================\n\n", raw)
}

// LogRejection records a dropped candidate and the reason.
func (tl *TranscriptLogger) LogRejection(rej Rejection) {
	tl.logf("Candidate %d: REJECTED - %s\n", rej.Index, rej.Reason)
}

// LogError records a fatal pipeline outcome.
func (tl *TranscriptLogger) LogError(err error) {
	tl.logf("=== GENERATION FAILED ===\n%v\n=========================\n", err)
}

// Close finalizes and closes the transcript file.
func (tl *TranscriptLogger) Close() error {
	if tl == nil || tl.file == nil {
		return nil
	}
	tl.logf("=== Transcript Complete ===\n")
	tl.mu.Lock()
	defer tl.mu.Unlock()
	err := tl.file.Close()
	tl.file = nil
	return err
}
