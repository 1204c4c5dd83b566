package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"cellseed.ai/internal/sim/seeding"
)

type JSONLZstdWriter struct {
	baseDir string
	prefix  string

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewJSONLZstdWriter(baseDir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{
		baseDir: baseDir,
		prefix:  prefix,
	}
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := time.Now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *JSONLZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	dir := filepath.Dir(w.pathForHour(hour))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 128*1024)
	w.curHour = hour
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err1
}

func (w *JSONLZstdWriter) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// SetupEntry is one line of a run's setup event log.
type SetupEntry struct {
	RunID string `json:"run_id"`
	Seq   int    `json:"seq"`
	TS    int64  `json:"ts"`
	seeding.Event
}

// SetupLogger writes one JSONL entry per setup event (compressed) under
// <runDir>/events.
type SetupLogger struct {
	w     *JSONLZstdWriter
	runID string

	mu  sync.Mutex
	seq int
}

func NewSetupLogger(runDir, runID string) *SetupLogger {
	return &SetupLogger{w: NewJSONLZstdWriter(filepath.Join(runDir, "events"), "events"), runID: runID}
}

func (l *SetupLogger) WriteSetupEvent(e seeding.Event) error {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.mu.Unlock()
	return l.w.Write(SetupEntry{RunID: l.runID, Seq: seq, TS: time.Now().UTC().UnixMilli(), Event: e})
}

// Written is the number of events handed to the writer so far.
func (l *SetupLogger) Written() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}

func (l *SetupLogger) Close() error { return l.w.Close() }

// ReadSetupEntries decodes every entry of one compressed setup log file.
func ReadSetupEntries(path string) ([]SetupEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []SetupEntry
	jd := json.NewDecoder(bufio.NewReader(dec))
	for jd.More() {
		var e SetupEntry
		if err := jd.Decode(&e); err != nil {
			return out, fmt.Errorf("%s: entry %d: %w", path, len(out)+1, err)
		}
		out = append(out, e)
	}
	return out, nil
}
