// Package event defines the event envelope: the immutable, timestamped fact
// appended to an agent's stream.
package event

import "time"

// Type identifies a stable event semantic. Event names are part of the
// append-path contract: renaming one breaks replay of any log already on
// disk.
type Type string

// Owner identifies who produces an event type: a player command handler, the
// autonomous ticker, or an adjudicator (game master / regulator). Ownership
// is metadata only; every owner's events fold through the same reducer
// dispatch.
type Owner string

const (
	// OwnerCommand marks events emitted by a command handler.
	OwnerCommand Owner = "command"
	// OwnerTicker marks events synthesized by the autonomous ticker.
	OwnerTicker Owner = "ticker"
	// OwnerGameMaster marks narrative events injected by the game master.
	OwnerGameMaster Owner = "game_master"
	// OwnerRegulator marks consequence events emitted by the regulator.
	OwnerRegulator Owner = "regulator"
)

// Event is the canonical, wire/stored event record (spec §6).
//
// AgentID is the stream partition key: the log is totally ordered per agent,
// and Seq is monotonic within that stream. Hash/PrevHash/ChainHash make the
// stream tamper-evident: Hash is a content hash of the event's own fields,
// ChainHash links it to the previous event's ChainHash.
type Event struct {
	ID        string
	AgentID   string
	Seq       uint64
	Hash      string
	PrevHash  string
	ChainHash string
	Type      Type
	Owner     Owner
	Week      int
	Day       int
	Timestamp time.Time

	// CorrelationID links two events emitted for a single inter-agent intent
	// (spec §9 "Inter-agent events") — one on the initiator's stream, one on
	// the counterpart's. CausationID, when set, names the event that caused
	// this one (e.g. a regulator finding caused by a PriceSet).
	CorrelationID string
	CausationID   string

	PayloadJSON []byte
}
