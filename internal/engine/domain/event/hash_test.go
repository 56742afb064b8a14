package event

import (
	"testing"
	"time"
)

func sampleEvent() Event {
	return Event{
		AgentID:     "agent-1",
		Type:        "PriceSet",
		Owner:       OwnerCommand,
		Week:        1,
		Day:         2,
		Timestamp:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PayloadJSON: []byte(`{"price":3.75}`),
	}
}

func TestHash_DeterministicForEquivalentEvents(t *testing.T) {
	h1, err := Hash(sampleEvent())
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := Hash(sampleEvent())
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected identical hashes, got %s != %s", h1, h2)
	}
}

func TestHash_DiffersOnPayloadChange(t *testing.T) {
	a := sampleEvent()
	b := sampleEvent()
	b.PayloadJSON = []byte(`{"price":4.00}`)

	ha, err := Hash(a)
	if err != nil {
		t.Fatalf("Hash(a): %v", err)
	}
	hb, err := Hash(b)
	if err != nil {
		t.Fatalf("Hash(b): %v", err)
	}
	if ha == hb {
		t.Fatal("expected different payloads to produce different hashes")
	}
}

func TestHash_IgnoresIDAndSeq(t *testing.T) {
	a := sampleEvent()
	a.ID = "event-a"
	a.Seq = 1
	b := sampleEvent()
	b.ID = "event-b"
	b.Seq = 2

	ha, err := Hash(a)
	if err != nil {
		t.Fatalf("Hash(a): %v", err)
	}
	hb, err := Hash(b)
	if err != nil {
		t.Fatalf("Hash(b): %v", err)
	}
	if ha != hb {
		t.Fatal("expected ID and Seq to be excluded from the content hash")
	}
}

func TestChainHash_RequiresEventHash(t *testing.T) {
	evt := sampleEvent()
	if _, err := ChainHash(evt, "prev-hash"); err == nil {
		t.Fatal("expected ChainHash to require evt.Hash to be populated first")
	}
}

func TestChainHash_LinksToPreviousHash(t *testing.T) {
	evt := sampleEvent()
	hash, err := Hash(evt)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	evt.Hash = hash

	chainA, err := ChainHash(evt, "genesis")
	if err != nil {
		t.Fatalf("ChainHash: %v", err)
	}
	chainB, err := ChainHash(evt, "different-prev")
	if err != nil {
		t.Fatalf("ChainHash: %v", err)
	}
	if chainA == chainB {
		t.Fatal("expected different prevHash to produce different chain hashes")
	}
}

func TestChainHash_DeterministicGivenSamePrev(t *testing.T) {
	evt := sampleEvent()
	hash, err := Hash(evt)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	evt.Hash = hash

	c1, err := ChainHash(evt, "genesis")
	if err != nil {
		t.Fatalf("ChainHash: %v", err)
	}
	c2, err := ChainHash(evt, "genesis")
	if err != nil {
		t.Fatalf("ChainHash: %v", err)
	}
	if c1 != c2 {
		t.Fatalf("expected deterministic chain hash, got %s != %s", c1, c2)
	}
}
