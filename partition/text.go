package partition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/curveclust/internal/conv"
	"github.com/hupe1980/curveclust/model"
)

const (
	clusterSeparator = ";"
	pointSeparator   = ","
)

// Parse reads a clustering from its delimited form, for example "1,2,3;4,5".
// Clusters are numbered from 0 in order of appearance. Blanks around IDs are
// ignored; an empty string is an empty clustering.
func Parse(s string) (*Clustering, error) {
	c := New()
	s = strings.TrimSpace(s)
	if s == "" {
		return c, nil
	}
	for i, group := range strings.Split(s, clusterSeparator) {
		id, err := conv.IntToUint32(i)
		if err != nil {
			return nil, err
		}
		group = strings.TrimSpace(group)
		if group == "" {
			return nil, fmt.Errorf("%w: cluster %d is empty", ErrInvalidFormat, i)
		}
		for _, field := range strings.Split(group, pointSeparator) {
			v, err := strconv.ParseUint(strings.TrimSpace(field), 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: cluster %d: %w", ErrInvalidFormat, i, err)
			}
			if err := c.AddPoint(model.ClusterID(id), model.PointID(v)); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// MustParse is like Parse but panics on error. It is meant for fixtures.
func MustParse(s string) *Clustering {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the delimited form, clusters in ascending ID order.
func (c *Clustering) String() string {
	var sb strings.Builder
	for i, id := range c.ListClusters() {
		if i > 0 {
			sb.WriteString(clusterSeparator)
		}
		for j, p := range c.Members(id) {
			if j > 0 {
				sb.WriteString(pointSeparator)
			}
			sb.WriteString(strconv.FormatUint(uint64(p), 10))
		}
	}
	return sb.String()
}
