package snapshots

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/dmitrijs2005/taskledger/internal/codec"
	"github.com/dmitrijs2005/taskledger/internal/cryptox"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

// Encode returns the compressed CBOR body of snap and the hex blake3
// digest of that body.
func Encode(snap *models.Snapshot) ([]byte, string, error) {
	raw, err := codec.Marshal(snap)
	if err != nil {
		return nil, "", fmt.Errorf("encode snapshot: %w", err)
	}
	body := encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2))
	return body, cryptox.Digest(body), nil
}

// Decode reverses Encode.
func Decode(body []byte) (*models.Snapshot, error) {
	raw, err := decoder.DecodeAll(body, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	snap := &models.Snapshot{}
	if err := codec.Unmarshal(raw, snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != models.SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return snap, nil
}
