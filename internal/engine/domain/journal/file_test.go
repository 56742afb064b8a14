package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/suds/laundromat/internal/engine/domain/agent"
	"github.com/suds/laundromat/internal/engine/domain/event"
)

func TestFile_BatchAppend_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.ndjson")
	registry := newTestRegistry(t)
	ctx := context.Background()

	f, err := OpenFile(path, registry)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.BatchAppend(ctx, []event.Event{
		agentCreatedEvent("agent-1"),
		{AgentID: "agent-1", Type: agent.EventTimeAdvanced, Owner: event.OwnerTicker, PayloadJSON: []byte(`{"new_week":1,"new_day":1}`)},
	}); err != nil {
		t.Fatalf("BatchAppend: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenFile(path, registry)
	if err != nil {
		t.Fatalf("OpenFile (reopen): %v", err)
	}
	defer reopened.Close()

	all, err := reopened.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 events after reopen, got %d", len(all))
	}
	if all[0].Seq != 1 || all[1].Seq != 2 {
		t.Fatalf("expected sequential seq 1,2 to survive reopen, got %d,%d", all[0].Seq, all[1].Seq)
	}
	if all[1].PrevHash != all[0].ChainHash {
		t.Fatalf("expected hash chain to survive reopen")
	}
}

func TestFile_OpenFile_RecoversTruncatedTrailingLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.ndjson")
	registry := newTestRegistry(t)
	ctx := context.Background()

	f, err := OpenFile(path, registry)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.BatchAppend(ctx, []event.Event{agentCreatedEvent("agent-1")}); err != nil {
		t.Fatalf("BatchAppend: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Simulate a crash mid-write: append a partial, newline-less line.
	fh, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open for corruption: %v", err)
	}
	if _, err := fh.WriteString(`{"event_id":"broken","agent_id":"agent-1"`); err != nil {
		t.Fatalf("write partial line: %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	recovered, err := OpenFile(path, registry)
	if err != nil {
		t.Fatalf("OpenFile after truncated tail: %v", err)
	}
	defer recovered.Close()

	all, err := recovered.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected the truncated partial line to be dropped, got %d events", len(all))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		t.Fatal("expected recovered file to end on a complete newline-terminated line")
	}
}

func TestFile_BatchAppend_RejectsMixedAgentStreams(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.ndjson")
	f, err := OpenFile(path, newTestRegistry(t))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	_, err = f.BatchAppend(context.Background(), []event.Event{
		agentCreatedEvent("agent-1"),
		agentCreatedEvent("agent-2"),
	})
	if err == nil {
		t.Fatal("expected an error for a batch spanning two agent streams")
	}
}

func TestFile_Tail_ReturnsLastN(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.ndjson")
	f, err := OpenFile(path, newTestRegistry(t))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := f.Append(ctx, event.Event{AgentID: "agent-1", Type: agent.EventTimeAdvanced, Owner: event.OwnerTicker, PayloadJSON: []byte(`{"new_week":1,"new_day":1}`)}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	tail, err := f.Tail(ctx, "agent-1", 2)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(tail) != 2 || tail[len(tail)-1].Seq != 5 {
		t.Fatalf("expected last 2 events ending at seq 5, got %+v", tail)
	}
}
