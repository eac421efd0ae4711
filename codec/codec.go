// Package codec wraps clustering snapshots in an optional LZ4 or ZSTD
// compressed block.
//
// A block is self-describing:
//
//	[Compression uint8][UncompressedSize uint32][CompressedSize uint32][CRC32C uint32][Data...]
//
// CompressedSize == 0 means the payload is stored raw. The checksum covers the
// uncompressed payload. Compression that does not shrink the payload below 90%
// of its size falls back to raw storage, so Decode never needs to be told
// which algorithm was requested.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/curveclust/internal/hash"
	"github.com/hupe1980/curveclust/model"
	"github.com/hupe1980/curveclust/partition"
)

// Compression selects the block compression algorithm.
type Compression uint8

const (
	// None stores the payload raw.
	None Compression = 0
	// LZ4 favors speed.
	LZ4 Compression = 1
	// ZSTD favors ratio.
	ZSTD Compression = 2
)

// String returns the stable name of the algorithm.
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression resolves a name produced by Compression.String.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("%w: unknown compression %q", model.ErrConfig, name)
	}
}

// ErrCorrupt is returned when a block cannot be decoded.
var ErrCorrupt = errors.New("corrupt compressed block")

const (
	headerSize    = 13
	fallbackRatio = 0.9
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}

	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}

	return zstd.NewReader(nil)
}

// Compress wraps data in a block compressed with c.
func Compress(data []byte, c Compression) ([]byte, error) {
	if len(data) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds block limit", model.ErrNumericOverflow, len(data))
	}

	var (
		compressed []byte
		err        error
	)

	switch c {
	case None:
	case LZ4:
		compressed, err = compressLZ4(data)
	case ZSTD:
		compressed, err = compressZSTD(data)
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", model.ErrConfig, uint8(c))
	}

	if err != nil {
		return nil, fmt.Errorf("compress %s: %w", c, err)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*fallbackRatio {
		return frame(c, data, nil), nil
	}

	return frame(c, data, compressed), nil
}

func frame(c Compression, raw, compressed []byte) []byte {
	payload := compressed
	if payload == nil {
		payload = raw
	}

	out := make([]byte, headerSize+len(payload))
	out[0] = byte(c)
	binary.LittleEndian.PutUint32(out[1:], uint32(len(raw)))        //nolint:gosec // checked in Compress
	binary.LittleEndian.PutUint32(out[5:], uint32(len(compressed))) //nolint:gosec // bounded by raw length
	binary.LittleEndian.PutUint32(out[9:], hash.CRC32C(raw))
	copy(out[headerSize:], payload)

	return out
}

func compressLZ4(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	buf := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, err
	}

	if n == 0 {
		return nil, nil // incompressible
	}

	return buf[:n], nil
}

func compressZSTD(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	enc, err := getZstdEncoder()
	if err != nil {
		return nil, err
	}
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(data, nil), nil
}

// Decompress unwraps a block produced by Compress.
func Decompress(block []byte) ([]byte, error) {
	if len(block) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(block))
	}

	c := Compression(block[0])
	rawSize := binary.LittleEndian.Uint32(block[1:])
	compressedSize := binary.LittleEndian.Uint32(block[5:])
	sum := binary.LittleEndian.Uint32(block[9:])
	payload := block[headerSize:]

	out, err := decompress(c, payload, rawSize, compressedSize)
	if err != nil {
		return nil, err
	}

	if !hash.Verify(out, sum) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	return out, nil
}

func decompress(c Compression, payload []byte, rawSize, compressedSize uint32) ([]byte, error) {
	if c > ZSTD {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, uint8(c))
	}

	if compressedSize == 0 {
		if uint64(len(payload)) != uint64(rawSize) {
			return nil, fmt.Errorf("%w: raw payload is %d bytes, header says %d", ErrCorrupt, len(payload), rawSize)
		}

		out := make([]byte, rawSize)
		copy(out, payload)

		return out, nil
	}

	if uint64(len(payload)) != uint64(compressedSize) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(payload), compressedSize)
	}

	out := make([]byte, rawSize)

	switch c {
	case LZ4:
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}

		if uint64(n) != uint64(rawSize) {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}

		return out, nil
	case ZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)

		decoded, err := dec.DecodeAll(payload, out[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}

		if uint64(len(decoded)) != uint64(rawSize) {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}

		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, uint8(c))
	}
}

// Encode serializes a clustering and compresses it with c.
func Encode(cl *partition.Clustering, c Compression) ([]byte, error) {
	if cl == nil {
		return nil, fmt.Errorf("%w: nil clustering", model.ErrConfig)
	}

	data, err := cl.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return Compress(data, c)
}

// Decode reverses Encode.
func Decode(block []byte) (*partition.Clustering, error) {
	data, err := Decompress(block)
	if err != nil {
		return nil, err
	}

	cl := partition.New()
	if err := cl.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	return cl, nil
}
