package receipts

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/pierrec/lz4"
	"github.com/ugorji/go/codec"
)

const (
	blockStored byte = 0
	blockLZ4    byte = 1

	hashTableSize = 1 << 16
)

var hashTables = sync.Pool{New: func() any { return make([]int, hashTableSize) }}

// compress frames data as [mode][uvarint size][payload]. Incompressible
// input is stored as is.
func compress(data []byte) ([]byte, error) {
	head := make([]byte, 1+binary.MaxVarintLen64)
	n := 1 + binary.PutUvarint(head[1:], uint64(len(data)))
	if len(data) == 0 {
		head[0] = blockStored
		return head[:n], nil
	}

	ht := hashTables.Get().([]int)
	defer hashTables.Put(ht)
	for i := range ht {
		ht[i] = 0
	}

	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	size, err := lz4.CompressBlock(data, buf, ht)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	if size == 0 || size >= len(data) {
		head[0] = blockStored
		return append(head[:n], data...), nil
	}
	head[0] = blockLZ4
	return append(head[:n], buf[:size]...), nil
}

func decompress(frame []byte) ([]byte, error) {
	if len(frame) < 2 {
		return nil, fmt.Errorf("compressed frame too short")
	}
	size, n := binary.Uvarint(frame[1:])
	if n <= 0 {
		return nil, fmt.Errorf("bad compressed frame header")
	}
	payload := frame[1+n:]

	switch frame[0] {
	case blockStored:
		if uint64(len(payload)) != size {
			return nil, fmt.Errorf("stored frame length %d, want %d", len(payload), size)
		}
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	case blockLZ4:
		out := make([]byte, size)
		got, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		if uint64(got) != size {
			return nil, fmt.Errorf("lz4 frame length %d, want %d", got, size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown compression mode %d", frame[0])
	}
}

// record is the at-rest form of a Receipt in the key-value backends.
type record struct {
	Hash         string `codec:"h"`
	Kind         string `codec:"k"`
	Account      string `codec:"a"`
	Counterparty string `codec:"c"`
	AmountDrops  int64  `codec:"d"`
	Outcome      string `codec:"o"`
	Code         string `codec:"r"`
	LedgerIndex  uint32 `codec:"l"`
	CreatedAt    int64  `codec:"t"`
	Raw          []byte `codec:"z"`
}

var msgpack = &codec.MsgpackHandle{WriteExt: true}

func encodeReceipt(r *Receipt) ([]byte, error) {
	raw, err := compress(r.Raw)
	if err != nil {
		return nil, err
	}
	rec := record{
		Hash:         r.Hash,
		Kind:         string(r.Kind),
		Account:      r.Account,
		Counterparty: r.Counterparty,
		AmountDrops:  r.AmountDrops,
		Outcome:      r.Outcome,
		Code:         r.Code,
		LedgerIndex:  r.LedgerIndex,
		CreatedAt:    r.CreatedAt.UnixNano(),
		Raw:          raw,
	}
	var out []byte
	if err := codec.NewEncoderBytes(&out, msgpack).Encode(&rec); err != nil {
		return nil, fmt.Errorf("encode receipt: %w", err)
	}
	return out, nil
}

func decodeReceipt(b []byte) (*Receipt, error) {
	var rec record
	if err := codec.NewDecoderBytes(b, msgpack).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}
	raw, err := decompress(rec.Raw)
	if err != nil {
		return nil, fmt.Errorf("decode receipt %s: %w", rec.Hash, err)
	}
	return &Receipt{
		Hash:         rec.Hash,
		Kind:         Kind(rec.Kind),
		Account:      rec.Account,
		Counterparty: rec.Counterparty,
		AmountDrops:  rec.AmountDrops,
		Outcome:      rec.Outcome,
		Code:         rec.Code,
		LedgerIndex:  rec.LedgerIndex,
		CreatedAt:    time.Unix(0, rec.CreatedAt).UTC(),
		Raw:          nilIfEmpty(raw),
	}, nil
}

func nilIfEmpty(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
