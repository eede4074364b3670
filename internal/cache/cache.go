// Package cache serializes a fully resolved store to a compact binary form
// and back, so repeated runs over an unchanged dataset can skip re-parsing.
//
// Layout of the artifact:
//
//	magic   "RDC1"                 4 bytes
//	version uint16 big-endian      2 bytes
//	snapshot UUID                  16 bytes
//	checksum blake3-256 of payload 32 bytes
//	payload zstd-compressed JSON   rest
//
// The payload holds the documents in identifier order with their resolved
// links as plain integers, so decoding rebuilds the identical topology.
// Decoding fails closed: a wrong magic, an unknown version, a checksum
// mismatch, or undecodable payload all yield a *CorruptError and the caller
// falls back to re-parsing the raw input. A corrupt cache is never worth a
// silently misread store.
package cache

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"lukechampine.com/blake3"

	"github.com/railwayhistory/raildata/internal/document"
	"github.com/railwayhistory/raildata/internal/store"
)

var magic = [4]byte{'R', 'D', 'C', '1'}

// FormatVersion is the current cache format. Bump on any payload layout
// change; older artifacts then fail closed and get rebuilt.
const FormatVersion uint16 = 1

const headerLen = 4 + 2 + 16 + 32

// envelope is the JSON payload inside the compressed section.
type envelope struct {
	Resolved  bool                 `json:"resolved"`
	Documents []*document.Document `json:"documents"`
}

// CorruptError reports an unusable cache artifact.
type CorruptError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *CorruptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("CORRUPT_CACHE: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("CORRUPT_CACHE: %s", e.Reason)
}

func (e *CorruptError) Unwrap() error { return e.Err }

func corrupt(reason string, err error) *CorruptError {
	return &CorruptError{Reason: reason, Err: err}
}

// Encode serializes s. Encoding the same store twice yields identical
// bytes: documents are written in identifier order, JSON map keys sort, and
// the compressor runs single-threaded.
func Encode(s *store.Store) ([]byte, error) {
	env := envelope{Resolved: s.Resolved()}
	for _, doc := range s.Documents() {
		env.Documents = append(env.Documents, doc)
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("cache: marshal payload: %w", err)
	}

	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		return nil, fmt.Errorf("cache: init compressor: %w", err)
	}
	defer enc.Close()
	compressed := enc.EncodeAll(payload, nil)
	sum := blake3.Sum256(compressed)

	out := make([]byte, 0, headerLen+len(compressed))
	out = append(out, magic[:]...)
	out = binary.BigEndian.AppendUint16(out, FormatVersion)
	snapshot := s.Snapshot()
	out = append(out, snapshot[:]...)
	out = append(out, sum[:]...)
	out = append(out, compressed...)
	return out, nil
}

// Decode rebuilds a store from cache bytes. All errors are *CorruptError:
// the caller's only recovery is a full re-parse.
func Decode(data []byte) (*store.Store, error) {
	if len(data) < headerLen {
		return nil, corrupt("truncated header", nil)
	}
	if !bytes.Equal(data[:4], magic[:]) {
		return nil, corrupt("bad magic", nil)
	}
	version := binary.BigEndian.Uint16(data[4:6])
	if version != FormatVersion {
		return nil, corrupt(fmt.Sprintf("format version %d, want %d", version, FormatVersion), nil)
	}
	var snapshot uuid.UUID
	copy(snapshot[:], data[6:22])
	var sum [32]byte
	copy(sum[:], data[22:headerLen])
	compressed := data[headerLen:]

	if blake3.Sum256(compressed) != sum {
		return nil, corrupt("checksum mismatch", nil)
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, corrupt("init decompressor", err)
	}
	defer dec.Close()
	payload, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, corrupt("decompress payload", err)
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, corrupt("unmarshal payload", err)
	}

	// Identifiers inside the payload are re-validated, not trusted: the
	// store rebuild re-derives the key index and rejects duplicates, and
	// every link must land inside the document slice.
	for _, doc := range env.Documents {
		var bad error
		doc.EachReference(func(slot document.Slot) {
			ref := slot.Ref
			if bad == nil && ref.Resolved() && (ref.ID < 0 || int(ref.ID) >= len(env.Documents)) {
				bad = fmt.Errorf("document %q: link %s out of range", doc.Key, slot.Field)
			}
		})
		if bad != nil {
			return nil, corrupt("invalid link", bad)
		}
	}

	s, err := store.FromDocuments(snapshot, env.Documents, env.Resolved)
	if err != nil {
		return nil, corrupt("rebuild store", err)
	}
	return s, nil
}
