package log

import (
	"path/filepath"
	"testing"

	"cellseed.ai/internal/sim/seeding"
)

func TestSetupLogger_WritesReadableEntries(t *testing.T) {
	dir := t.TempDir()
	l := NewSetupLogger(dir, "run-7")
	events := []seeding.Event{
		{Kind: seeding.EventPlaced, AgentID: 0, Type: 1, TypeName: "epithelial", Pos: [3]float64{1, 2, 0}},
		{Kind: seeding.EventSkipped, AgentID: -1, Type: 99, Source: "cells.csv", Line: 4},
	}
	for _, e := range events {
		if err := l.WriteSetupEvent(e); err != nil {
			t.Fatalf("WriteSetupEvent: %v", err)
		}
	}
	if l.Written() != 2 {
		t.Fatalf("written=%d", l.Written())
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "events", "events-*.jsonl.zst"))
	if err != nil || len(files) == 0 {
		t.Fatalf("files=%v err=%v", files, err)
	}
	// Usually one file; two if the hour rolled over mid-test.
	var got []SetupEntry
	for _, f := range files {
		es, err := ReadSetupEntries(f)
		if err != nil {
			t.Fatalf("ReadSetupEntries: %v", err)
		}
		got = append(got, es...)
	}
	if len(got) != 2 {
		t.Fatalf("entries=%d", len(got))
	}
	if got[0].RunID != "run-7" || got[0].Seq != 1 || got[0].TypeName != "epithelial" || got[0].Pos != [3]float64{1, 2, 0} {
		t.Fatalf("entry 0=%+v", got[0])
	}
	if got[1].Kind != seeding.EventSkipped || got[1].Type != 99 || got[1].Line != 4 || got[1].Seq != 2 {
		t.Fatalf("entry 1=%+v", got[1])
	}
}
