package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/curveclust/model"
)

func TestBinary_RoundTrip(t *testing.T) {
	c := New()
	for i := range 1000 {
		require.NoError(t, c.AddPoint(model.ClusterID(i%7*3), model.PointID(i*13)))
	}

	data, err := c.MarshalBinary()
	require.NoError(t, err)

	var got Clustering
	require.NoError(t, got.UnmarshalBinary(data))
	require.NoError(t, got.Validate())
	assert.Equal(t, c.ListClusters(), got.ListClusters())
	assert.Equal(t, c.String(), got.String())
	assert.Equal(t, c.NewCluster(), got.NewCluster())
}

func TestBinary_Corrupt(t *testing.T) {
	data, err := MustParse("1,2;3").MarshalBinary()
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte("XXXX"), data[4:]...)},
		{"bad version", append(append([]byte(binaryMagic), 9), data[5:]...)},
		{"truncated", data[:len(data)-3]},
		{"trailing", append(append([]byte{}, data...), 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Clustering
			assert.ErrorIs(t, c.UnmarshalBinary(tt.data), ErrInvalidFormat)
		})
	}
}

func TestBinary_RejectsOverlap(t *testing.T) {
	a, err := MustParse("1,2").MarshalBinary()
	require.NoError(t, err)

	// Hand-build two clusters holding the same point.
	bm, err := MustParse("1,2").clusters[0].ToBytes()
	require.NoError(t, err)
	data := append([]byte(binaryMagic), binaryVersion, 2, 2)
	for id := range 2 {
		data = append(data, byte(id), byte(len(bm)))
		data = append(data, bm...)
	}

	var c Clustering
	require.NoError(t, c.UnmarshalBinary(a))
	assert.ErrorIs(t, c.UnmarshalBinary(data), ErrInvalidFormat)
	assert.Equal(t, "1,2", c.String(), "failed decode leaves the clustering unchanged")
}
