package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"capnproto.org/go/capnp/v3"
	"github.com/klauspost/compress/zstd"
)

// Codec is the element serialization pair used by the Keeper. Encode and
// Decode must round-trip every element the collection can hold.
type Codec[E any] struct {
	Encode func(E) (string, error)
	Decode func(string) (E, error)
}

// JSONCodec returns a codec rendering elements through encoding/json.
func JSONCodec[E any]() Codec[E] {
	return Codec[E]{
		Encode: func(e E) (string, error) {
			b, err := json.Marshal(e)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
		Decode: func(s string) (E, error) {
			var e E
			err := json.Unmarshal([]byte(s), &e)
			return e, err
		},
	}
}

// StringCodec returns the identity codec for string elements.
func StringCodec() Codec[string] {
	return Codec[string]{
		Encode: func(s string) (string, error) {
			return s, nil
		},
		Decode: func(s string) (string, error) {
			return s, nil
		},
	}
}

// Envelope format bytes. The first byte of every blob names the framing
// of the rest.
const (
	formatRaw  byte = 0
	formatZstd byte = 1
)

// Shared zstd coders; both are safe for concurrent use. Construction
// without options cannot fail.
var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// packPayloads wraps the encoded elements in a Cap'n Proto envelope: a
// root struct carrying the version and element count, pointing at a text
// list of payloads, packed-encoded and optionally zstd-compressed behind
// a format byte.
func packPayloads(version int64, payloads []string, compress bool) ([]byte, error) {
	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return nil, fmt.Errorf("snapshot: create message: %w", err)
	}

	root, err := capnp.NewRootStruct(seg, capnp.ObjectSize{DataSize: 16, PointerCount: 1})
	if err != nil {
		return nil, fmt.Errorf("snapshot: create root struct: %w", err)
	}
	root.SetUint64(0, uint64(version))
	root.SetUint64(8, uint64(len(payloads)))

	list, err := capnp.NewTextList(seg, int32(len(payloads)))
	if err != nil {
		return nil, fmt.Errorf("snapshot: create payload list: %w", err)
	}
	for i, p := range payloads {
		if err := list.Set(i, p); err != nil {
			return nil, fmt.Errorf("snapshot: set payload %d: %w", i, err)
		}
	}
	if err := root.SetPtr(0, list.ToPtr()); err != nil {
		return nil, fmt.Errorf("snapshot: set payload list: %w", err)
	}

	var packed bytes.Buffer
	if err := capnp.NewPackedEncoder(&packed).Encode(msg); err != nil {
		return nil, fmt.Errorf("snapshot: encode message: %w", err)
	}

	if !compress {
		out := make([]byte, 0, packed.Len()+1)
		out = append(out, formatRaw)
		return append(out, packed.Bytes()...), nil
	}
	return zstdEncoder.EncodeAll(packed.Bytes(), []byte{formatZstd}), nil
}

// unpackPayloads reverses packPayloads.
func unpackPayloads(blob []byte) (int64, []string, error) {
	if len(blob) < 1 {
		return 0, nil, fmt.Errorf("snapshot: empty blob")
	}
	body := blob[1:]
	switch blob[0] {
	case formatRaw:
	case formatZstd:
		plain, err := zstdDecoder.DecodeAll(body, nil)
		if err != nil {
			return 0, nil, fmt.Errorf("snapshot: decompress blob: %w", err)
		}
		body = plain
	default:
		return 0, nil, fmt.Errorf("snapshot: unknown format byte %d", blob[0])
	}

	msg, err := capnp.NewPackedDecoder(bytes.NewReader(body)).Decode()
	if err != nil {
		return 0, nil, fmt.Errorf("snapshot: decode message: %w", err)
	}
	rootPtr, err := msg.Root()
	if err != nil {
		return 0, nil, fmt.Errorf("snapshot: read root: %w", err)
	}
	root := rootPtr.Struct()
	version := int64(root.Uint64(0))
	count := int(root.Uint64(8))

	listPtr, err := root.Ptr(0)
	if err != nil || !listPtr.IsValid() {
		return 0, nil, fmt.Errorf("snapshot: read payload list: %w", err)
	}
	list := capnp.TextList(listPtr.List())
	if list.Len() < count {
		return 0, nil, fmt.Errorf("snapshot: truncated payload list: %d of %d", list.Len(), count)
	}

	payloads := make([]string, count)
	for i := 0; i < count; i++ {
		p, err := list.At(i)
		if err != nil {
			return 0, nil, fmt.Errorf("snapshot: read payload %d: %w", i, err)
		}
		payloads[i] = p
	}
	return version, payloads, nil
}
