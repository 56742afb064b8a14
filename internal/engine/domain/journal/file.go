package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/suds/laundromat/internal/engine/domain/event"
)

// record is the line-delimited on-disk shape: one per line, newline
// terminated, never rewritten in place (spec §6 "Persisted log layout").
type record struct {
	ID            string          `json:"event_id"`
	AgentID       string          `json:"agent_id"`
	Seq           uint64          `json:"seq"`
	Hash          string          `json:"hash"`
	PrevHash      string          `json:"prev_hash"`
	ChainHash     string          `json:"chain_hash"`
	Type          string          `json:"event_type"`
	Owner         string          `json:"owner"`
	Week          int             `json:"week"`
	Day           int             `json:"day"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	CausationID   string          `json:"causation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

func toRecord(evt event.Event) record {
	return record{
		ID:            evt.ID,
		AgentID:       evt.AgentID,
		Seq:           evt.Seq,
		Hash:          evt.Hash,
		PrevHash:      evt.PrevHash,
		ChainHash:     evt.ChainHash,
		Type:          string(evt.Type),
		Owner:         string(evt.Owner),
		Week:          evt.Week,
		Day:           evt.Day,
		Timestamp:     evt.Timestamp,
		CorrelationID: evt.CorrelationID,
		CausationID:   evt.CausationID,
		Payload:       json.RawMessage(evt.PayloadJSON),
	}
}

func fromRecord(r record) event.Event {
	return event.Event{
		ID:            r.ID,
		AgentID:       r.AgentID,
		Seq:           r.Seq,
		Hash:          r.Hash,
		PrevHash:      r.PrevHash,
		ChainHash:     r.ChainHash,
		Type:          event.Type(r.Type),
		Owner:         event.Owner(r.Owner),
		Week:          r.Week,
		Day:           r.Day,
		Timestamp:     r.Timestamp,
		CorrelationID: r.CorrelationID,
		CausationID:   r.CausationID,
		PayloadJSON:   r.Payload,
	}
}

// File is a crash-safe, line-delimited file journal backend. It keeps an
// in-memory Memory journal as the authoritative sequence/hash assigner and
// mirrors every committed event to disk with an fsync before returning, so a
// durable append is never reported as complete before it actually is.
//
// A crash mid-write leaves at most one trailing partial line; Open recovers
// by truncating it, matching spec §6's "a crash mid-write truncates the last
// partial line on recovery."
type File struct {
	mu   sync.Mutex
	mem  *Memory
	path string
	fh   *os.File
}

// OpenFile opens or creates path, replays any existing records into an
// in-memory journal for sequencing, recovers a truncated trailing line if
// present, and returns a ready-to-use File backend.
func OpenFile(path string, registry *event.Registry) (*File, error) {
	if err := recoverTruncatedTail(path); err != nil {
		return nil, fmt.Errorf("recover journal tail: %w", err)
	}

	mem := NewMemory(registry)
	if err := replayFile(path, mem); err != nil {
		return nil, fmt.Errorf("replay journal: %w", err)
	}

	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal file: %w", err)
	}
	return &File{mem: mem, path: path, fh: fh}, nil
}

// recoverTruncatedTail drops a trailing line that does not end in a newline,
// which can only happen if the process died mid-write.
func recoverTruncatedTail(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 || data[len(data)-1] == '\n' {
		return nil
	}
	lastNewline := strings.LastIndexByte(string(data), '\n')
	truncated := data[:lastNewline+1]
	return os.WriteFile(path, truncated, 0o644)
}

func replayFile(path string, mem *Memory) error {
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer fh.Close()

	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r record
		if err := json.Unmarshal(line, &r); err != nil {
			return fmt.Errorf("decode journal line: %w", err)
		}
		evt := fromRecord(r)
		if mem.streams == nil {
			mem.streams = make(map[string][]event.Event)
		}
		mem.streams[evt.AgentID] = append(mem.streams[evt.AgentID], evt)
	}
	return scanner.Err()
}

// Append appends a single event, durably.
func (f *File) Append(ctx context.Context, evt event.Event) (event.Event, error) {
	stored, err := f.BatchAppend(ctx, []event.Event{evt})
	if err != nil {
		return event.Event{}, err
	}
	return stored[0], nil
}

// BatchAppend appends every event from one decision atomically in memory,
// then mirrors the committed batch to disk with a single fsync. If the
// fsync fails the in-memory commit still happened; callers observing a
// StorageError here must treat the whole operation as failed per spec §7,
// even though state-for-replay would show the events once the process
// restarts and replays this same file.
func (f *File) BatchAppend(ctx context.Context, events []event.Event) ([]event.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, err := f.mem.BatchAppend(ctx, events)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	for _, evt := range stored {
		line, err := json.Marshal(toRecord(evt))
		if err != nil {
			return nil, fmt.Errorf("encode journal line: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	if _, err := f.fh.WriteString(buf.String()); err != nil {
		return nil, fmt.Errorf("write journal: %w", err)
	}
	if err := f.fh.Sync(); err != nil {
		return nil, fmt.Errorf("fsync journal: %w", err)
	}
	return stored, nil
}

// LoadAll returns every event across every agent.
func (f *File) LoadAll(ctx context.Context) ([]event.Event, error) { return f.mem.LoadAll(ctx) }

// ListEvents returns a page of one agent's stream.
func (f *File) ListEvents(ctx context.Context, agentID string, afterSeq uint64, limit int) ([]event.Event, error) {
	return f.mem.ListEvents(ctx, agentID, afterSeq, limit)
}

// Tail returns the last n events for an agent.
func (f *File) Tail(ctx context.Context, agentID string, n int) ([]event.Event, error) {
	return f.mem.Tail(ctx, agentID, n)
}

// Close flushes and closes the underlying file handle.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fh.Close()
}
