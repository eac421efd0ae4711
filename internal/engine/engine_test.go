package engine

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/curveclust/distance"
	"github.com/hupe1980/curveclust/internal/curveindex"
	"github.com/hupe1980/curveclust/internal/neighbor"
	"github.com/hupe1980/curveclust/model"
	"github.com/hupe1980/curveclust/testutil"
)

func line(ids []model.PointID, coords ...uint32) []model.Point {
	points := make([]model.Point, len(coords))
	for i, c := range coords {
		points[i] = model.NewPoint(ids[i], c)
	}
	return points
}

func sequential(n int) []model.PointID {
	ids := make([]model.PointID, n)
	for i := range ids {
		ids[i] = model.PointID(i)
	}
	return ids
}

func TestCluster_Linkage(t *testing.T) {
	ids := []model.PointID{105, 101, 103, 102, 104, 100}
	points := line(ids, 0, 1, 2, 10, 11, 50)
	lists := testutil.ExactNeighbors(points, 2, distance.Euclidean)

	c, stats, err := Cluster(context.Background(), points, lists, &model.LinkageParameters{
		LinkageDistance:  1.5,
		DensityThreshold: 0,
		MinDensityCount:  1,
	}, Config{})
	require.NoError(t, err)

	// Clusters are named by their smallest point id; 100 stays a singleton.
	assert.Equal(t, "100;101,103,105;102,104", c.String())
	assert.Equal(t, []model.ClusterID{100, 101, 102}, c.ListClusters())
	assert.Equal(t, 3, stats.Clusters)
	assert.Equal(t, 0, stats.CorePoints)
	assert.Equal(t, 1, stats.Iterations)
	require.NoError(t, c.Validate())
}

func TestCluster_Density(t *testing.T) {
	points := line(sequential(5), 0, 2, 4, 6, 40)
	lists := testutil.ExactNeighbors(points, 4, distance.Euclidean)

	// Linkage alone joins nothing: every gap is 2.
	params := model.LinkageParameters{LinkageDistance: 1, DensityThreshold: 2, MinDensityCount: 2}
	c, stats, err := Cluster(context.Background(), points, lists, &params, Config{})
	require.NoError(t, err)

	assert.Equal(t, "0,1,2,3;4", c.String())
	assert.Equal(t, 2, stats.CorePoints) // coordinates 2 and 4
	assert.Equal(t, 0, stats.LinkageMerges)
	assert.Equal(t, 3, stats.DensityMerges)
	assert.GreaterOrEqual(t, stats.Iterations, 2)

	// Stricter density: no core points, all singletons.
	params.MinDensityCount = 3
	c, stats, err = Cluster(context.Background(), points, lists, &params, Config{})
	require.NoError(t, err)
	assert.Equal(t, 5, c.NumClusters())
	assert.Equal(t, 0, stats.CorePoints)
}

func TestCluster_SingleCluster(t *testing.T) {
	points := line(sequential(4), 0, 1, 2, 3)
	lists := testutil.ExactNeighbors(points, 3, distance.Euclidean)

	c, _, err := Cluster(context.Background(), points, lists, &model.LinkageParameters{
		LinkageDistance: 100, MinDensityCount: 1,
	}, Config{})
	require.NoError(t, err)
	assert.Equal(t, 1, c.NumClusters())
	assert.Equal(t, 4, c.Size(0))
}

func approximateLists(t *testing.T, points []model.Point, k int) []model.NeighborList {
	t.Helper()
	orderings, err := curveindex.Build(context.Background(), points, curveindex.Config{Permutations: 3, Seed: 1, Rotate: true})
	require.NoError(t, err)
	lists, err := neighbor.Search(context.Background(), points, orderings, neighbor.Config{K: k, Window: 4})
	require.NoError(t, err)
	return lists
}

func TestCluster_PartitionInvariant(t *testing.T) {
	rng := testutil.NewRNG(7)
	points, _ := rng.ClusteredPoints(3000, 3, 9, 30, 1<<12)
	// Shuffle ids so scan order differs from input order.
	for i, p := range rng.Perm(len(points)) {
		points[i].ID = model.PointID(p * 2)
	}
	lists := approximateLists(t, points, 8)

	c, _, err := Cluster(context.Background(), points, lists, &model.LinkageParameters{
		LinkageDistance: 20, DensityThreshold: 25, MinDensityCount: 4,
	}, Config{Workers: 4})
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	seen := make(map[model.PointID]bool, len(points))
	for _, id := range c.ListClusters() {
		members := c.Members(id)
		require.NotEmpty(t, members)
		assert.Equal(t, model.PointID(id), members[0])
		for _, m := range members {
			require.False(t, seen[m], "point %d appears twice", m)
			seen[m] = true
		}
	}
	require.Len(t, seen, len(points))
	for _, p := range points {
		assert.True(t, seen[p.ID])
	}
}

func TestCluster_MonotonicMerging(t *testing.T) {
	rng := testutil.NewRNG(8)
	points, _ := rng.ClusteredPoints(1500, 2, 6, 40, 1<<12)
	lists := approximateLists(t, points, 6)

	prev := len(points) + 1
	for _, linkage := range []float64{0, 1, 2, 5, 10, 20, 40, 80, 160, 1e6} {
		c, _, err := Cluster(context.Background(), points, lists, &model.LinkageParameters{
			LinkageDistance: linkage, DensityThreshold: 3, MinDensityCount: 3,
		}, Config{})
		require.NoError(t, err)
		assert.LessOrEqual(t, c.NumClusters(), prev, "linkage %v", linkage)
		prev = c.NumClusters()
	}
}

func TestCluster_Deterministic(t *testing.T) {
	rng := testutil.NewRNG(9)
	points, _ := rng.ClusteredPoints(5000, 2, 5, 50, 1<<12)
	lists := approximateLists(t, points, 5)
	params := &model.LinkageParameters{LinkageDistance: 8, DensityThreshold: 12, MinDensityCount: 3}

	a, sa, err := Cluster(context.Background(), points, lists, params, Config{Workers: 1})
	require.NoError(t, err)
	b, sb, err := Cluster(context.Background(), points, lists, params, Config{Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, sa, sb)
}

func TestCluster_Errors(t *testing.T) {
	points := line(sequential(2), 0, 1)
	lists := testutil.ExactNeighbors(points, 1, distance.Euclidean)
	valid := &model.LinkageParameters{LinkageDistance: 1, MinDensityCount: 1}

	tests := []struct {
		name   string
		points []model.Point
		lists  []model.NeighborList
		params *model.LinkageParameters
		cfg    Config
		want   error
	}{
		{"missing params", points, lists, nil, Config{}, model.ErrConfig},
		{"negative linkage", points, lists, &model.LinkageParameters{LinkageDistance: -1, MinDensityCount: 1}, Config{}, model.ErrConfig},
		{"negative density", points, lists, &model.LinkageParameters{DensityThreshold: -1, MinDensityCount: 1}, Config{}, model.ErrConfig},
		{"zero min count", points, lists, &model.LinkageParameters{}, Config{}, model.ErrConfig},
		{"negative workers", points, lists, valid, Config{Workers: -1}, model.ErrConfig},
		{"no points", nil, nil, valid, Config{}, model.ErrDegenerateInput},
		{"list count", points, lists[:1], valid, Config{}, model.ErrConfig},
		{"bad index", points, []model.NeighborList{{{Index: 5}}, {}}, valid, Config{}, model.ErrConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Cluster(context.Background(), tt.points, tt.lists, tt.params, tt.cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCluster_Canceled(t *testing.T) {
	points := line(sequential(3), 0, 1, 2)
	lists := testutil.ExactNeighbors(points, 2, distance.Euclidean)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, _, err := Cluster(ctx, points, lists, &model.LinkageParameters{LinkageDistance: 1, MinDensityCount: 1}, Config{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, c)
}

func TestCluster_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	points := line(sequential(3), 0, 1, 9)
	lists := testutil.ExactNeighbors(points, 2, distance.Euclidean)
	_, _, err := Cluster(context.Background(), points, lists, &model.LinkageParameters{LinkageDistance: 1, MinDensityCount: 1}, Config{Logger: logger})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "clustering finished")
	assert.Contains(t, buf.String(), "clusters=2")
}
