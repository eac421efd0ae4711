package codec

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/curveclust/model"
	"github.com/hupe1980/curveclust/partition"
)

func TestCompress_RoundTrip(t *testing.T) {
	repetitive := bytes.Repeat([]byte("curve-cluster-"), 4096)

	random := make([]byte, 8192)
	_, _ = rand.New(rand.NewSource(7)).Read(random)

	for _, c := range []Compression{None, LZ4, ZSTD} {
		for name, data := range map[string][]byte{"repetitive": repetitive, "random": random, "empty": {}} {
			t.Run(c.String()+"/"+name, func(t *testing.T) {
				block, err := Compress(data, c)
				require.NoError(t, err)
				assert.Equal(t, byte(c), block[0])

				got, err := Decompress(block)
				require.NoError(t, err)
				assert.Equal(t, len(data), len(got))
				assert.True(t, bytes.Equal(data, got))
			})
		}
	}
}

func TestCompress_Ratio(t *testing.T) {
	repetitive := bytes.Repeat([]byte{1, 2, 3, 4}, 10000)

	for _, c := range []Compression{LZ4, ZSTD} {
		block, err := Compress(repetitive, c)
		require.NoError(t, err)
		assert.Less(t, len(block), len(repetitive)/10, c.String())
		assert.NotZero(t, binary.LittleEndian.Uint32(block[5:]))
	}
}

func TestCompress_IncompressibleStoredRaw(t *testing.T) {
	random := make([]byte, 4096)
	_, _ = rand.New(rand.NewSource(3)).Read(random)

	for _, c := range []Compression{LZ4, ZSTD} {
		block, err := Compress(random, c)
		require.NoError(t, err)
		assert.Len(t, block, headerSize+len(random))
		assert.Zero(t, binary.LittleEndian.Uint32(block[5:]))
	}
}

func TestCompress_UnknownAlgorithm(t *testing.T) {
	_, err := Compress([]byte("x"), Compression(9))
	require.ErrorIs(t, err, model.ErrConfig)
}

func TestDecompress_Corrupt(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 512)
	block, err := Compress(data, LZ4)
	require.NoError(t, err)

	unknown := append([]byte{}, block...)
	unknown[0] = 42

	garbled := append([]byte{}, block...)
	for i := headerSize; i < len(garbled); i++ {
		garbled[i] = 0xff
	}

	tests := []struct {
		name  string
		block []byte
	}{
		{"empty", nil},
		{"short header", block[:4]},
		{"truncated", block[:len(block)-2]},
		{"unknown algorithm", unknown},
		{"garbled payload", garbled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompress(tt.block)
			require.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestDecompress_ChecksumMismatch(t *testing.T) {
	block, err := Compress([]byte("1,2,3;4,5"), None)
	require.NoError(t, err)

	block[len(block)-1] = '6'

	_, err = Decompress(block)
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "checksum")
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{None, LZ4, ZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := ParseCompression(" ZSTD ")
	require.NoError(t, err)
	assert.Equal(t, ZSTD, got)

	_, err = ParseCompression("snappy")
	require.ErrorIs(t, err, model.ErrConfig)
	assert.Equal(t, "Compression(7)", Compression(7).String())
}

func TestEncodeDecode(t *testing.T) {
	cl := partition.New()
	for i := range 5000 {
		require.NoError(t, cl.AddPoint(model.ClusterID(i/500), model.PointID(i)))
	}

	for _, c := range []Compression{None, LZ4, ZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			block, err := Encode(cl, c)
			require.NoError(t, err)

			got, err := Decode(block)
			require.NoError(t, err)
			assert.True(t, cl.Equal(got))
			require.NoError(t, got.Validate())
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	_, err := Encode(nil, LZ4)
	require.ErrorIs(t, err, model.ErrConfig)

	block, err := Compress([]byte("not a clustering"), None)
	require.NoError(t, err)

	_, err = Decode(block)
	require.ErrorIs(t, err, partition.ErrInvalidFormat)
}
