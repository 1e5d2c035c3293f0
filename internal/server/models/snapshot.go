package models

import "time"

// SnapshotVersion is bumped whenever Snapshot changes shape.
const SnapshotVersion = 1

// Snapshot is a point-in-time export of the whole ledger.
type Snapshot struct {
	Version   int       `cbor:"version"`
	TakenAt   time.Time `cbor:"taken_at"`
	Users     []User    `cbor:"users"`
	Tasks     []Task    `cbor:"tasks"`
	Balances  []Balance `cbor:"balances"`
	EventSeq  int64     `cbor:"event_seq"`
	EventHash []byte    `cbor:"event_hash"`
}

// SnapshotRef locates an uploaded snapshot.
type SnapshotRef struct {
	Key      string `cbor:"key"`
	Digest   string `cbor:"digest"`
	Size     int    `cbor:"size"`
	EventSeq int64  `cbor:"event_seq"`
	// URL is a short-lived download link, empty if the store has none.
	URL string `cbor:"url"`
}
