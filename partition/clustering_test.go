package partition

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/curveclust/model"
)

func TestClustering_AddPoint(t *testing.T) {
	c := New()
	require.NoError(t, c.AddPoint(7, 1))
	require.NoError(t, c.AddPoint(7, 2))
	require.NoError(t, c.AddPoint(3, 5))

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 2, c.NumClusters())
	assert.Equal(t, []model.ClusterID{3, 7}, c.ListClusters())
	assert.Equal(t, 2, c.Size(7))
	assert.Equal(t, 0, c.Size(99))

	id, ok := c.ClusterOf(2)
	require.True(t, ok)
	assert.Equal(t, model.ClusterID(7), id)

	err := c.AddPoint(3, 1)
	assert.ErrorIs(t, err, ErrPointAssigned)
	assert.ErrorIs(t, err, model.ErrInvariantViolation)
	err = c.AddPoint(7, 1)
	assert.ErrorIs(t, err, ErrPointAssigned, "re-adding to the same cluster is rejected too")

	// A failed call leaves the partition unchanged.
	assert.Equal(t, 2, c.Size(7))
	assert.Equal(t, 1, c.Size(3))
	require.NoError(t, c.Validate())
}

func TestClustering_NewCluster(t *testing.T) {
	c := New()
	require.NoError(t, c.AddPoint(0, 10))
	require.NoError(t, c.AddPoint(2, 11))

	id := c.NewCluster()
	assert.Equal(t, model.ClusterID(3), id)
	assert.Equal(t, 0, c.Size(id))
	assert.NotEqual(t, id, c.NewCluster())
}

func TestClustering_RemovePoint(t *testing.T) {
	c := MustParse("1,2;3")

	from, err := c.RemovePoint(1)
	require.NoError(t, err)
	assert.Equal(t, model.ClusterID(0), from)
	assert.Equal(t, 1, c.Size(0))

	_, err = c.RemovePoint(3)
	require.NoError(t, err)
	assert.Equal(t, []model.ClusterID{0}, c.ListClusters(), "emptied cluster is deleted")

	_, err = c.RemovePoint(3)
	assert.ErrorIs(t, err, ErrPointNotFound)
	assert.False(t, c.Contains(3))
	require.NoError(t, c.Validate())
}

func TestClustering_MergeClusters(t *testing.T) {
	c := MustParse("1,2,3;4,5;6")
	require.Equal(t, 3, c.Size(0))
	require.Equal(t, 2, c.Size(1))

	require.NoError(t, c.MergeClusters(0, 1))
	assert.Equal(t, 5, c.Size(0))
	assert.NotContains(t, c.ListClusters(), model.ClusterID(1))
	assert.Equal(t, []model.PointID{1, 2, 3, 4, 5}, c.Members(0))
	assert.True(t, c.Together(1, 5))
	assert.False(t, c.Together(1, 6))
	assert.Equal(t, 6, c.Len())
	require.NoError(t, c.Validate())

	require.NoError(t, c.MergeClusters(0, 0))
	assert.Equal(t, 5, c.Size(0))

	assert.ErrorIs(t, c.MergeClusters(0, 1), ErrClusterNotFound)
	assert.ErrorIs(t, c.MergeClusters(9, 2), ErrClusterNotFound)
}

func TestClustering_Recategorize(t *testing.T) {
	c := MustParse("1,2;3")

	require.NoError(t, c.Recategorize(3, 0))
	assert.Equal(t, []model.ClusterID{0}, c.ListClusters())
	assert.Equal(t, 3, c.Size(0))

	require.NoError(t, c.Recategorize(1, 8))
	id, _ := c.ClusterOf(1)
	assert.Equal(t, model.ClusterID(8), id)

	require.NoError(t, c.Recategorize(1, 8))
	assert.ErrorIs(t, c.Recategorize(42, 0), ErrPointNotFound)
	require.NoError(t, c.Validate())
}

func TestClustering_RandomOperationsKeepInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	c := New()
	const points = 60

	for range 2000 {
		p := model.PointID(rng.Intn(points))
		cl := model.ClusterID(rng.Intn(8))
		switch rng.Intn(4) {
		case 0:
			_ = c.AddPoint(cl, p)
		case 1:
			_, _ = c.RemovePoint(p)
		case 2:
			_ = c.MergeClusters(cl, model.ClusterID(rng.Intn(8)))
		case 3:
			_ = c.Recategorize(p, cl)
		}
		require.NoError(t, c.Validate())

		seen := map[model.PointID]bool{}
		for _, id := range c.ListClusters() {
			require.Positive(t, c.Size(id))
			for _, m := range c.Members(id) {
				require.False(t, seen[m])
				seen[m] = true
			}
		}
		require.Len(t, seen, c.Len())
	}
}

func TestClustering_All(t *testing.T) {
	c := MustParse("5,1;3")
	var got [][2]uint32
	for p, cl := range c.All() {
		got = append(got, [2]uint32{uint32(p), uint32(cl)})
	}
	assert.Equal(t, [][2]uint32{{1, 0}, {5, 0}, {3, 1}}, got)
	assert.Equal(t, []model.PointID{1, 3, 5}, c.Points())
}

func TestClustering_CloneAndEqual(t *testing.T) {
	c := MustParse("1,2;3,4")
	d := c.Clone()
	require.NoError(t, d.MergeClusters(0, 1))

	assert.Equal(t, 2, c.NumClusters(), "clone is independent")
	assert.False(t, c.Equal(d))

	relabeled, err := FromLabels([]model.PointID{3, 4, 1, 2}, []model.ClusterID{9, 9, 4, 4})
	require.NoError(t, err)
	assert.True(t, c.Equal(relabeled))

	_, err = FromLabels([]model.PointID{1}, nil)
	assert.ErrorIs(t, err, model.ErrConfig)
}

func TestClustering_Validate(t *testing.T) {
	c := MustParse("1,2")
	c.assignment[3] = 0 // corrupt on purpose
	assert.ErrorIs(t, c.Validate(), model.ErrInvariantViolation)
}
