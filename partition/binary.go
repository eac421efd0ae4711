package partition

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/curveclust/model"
)

const (
	binaryMagic   = "CCLU"
	binaryVersion = 1
)

// MarshalBinary implements encoding.BinaryMarshaler.
//
// Layout: magic, version byte, uvarint next cluster ID, uvarint cluster
// count, then per cluster in ascending ID order a uvarint ID and a
// length-prefixed Roaring bitmap of its members.
func (c *Clustering) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 16+len(c.assignment)/2)
	buf = append(buf, binaryMagic...)
	buf = append(buf, binaryVersion)
	buf = binary.AppendUvarint(buf, uint64(c.nextID))
	buf = binary.AppendUvarint(buf, uint64(len(c.clusters)))

	for _, id := range c.ListClusters() {
		b, err := c.clusters[id].ToBytes()
		if err != nil {
			return nil, err
		}
		buf = binary.AppendUvarint(buf, uint64(id))
		buf = binary.AppendUvarint(buf, uint64(len(b)))
		buf = append(buf, b...)
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. It replaces the
// content of c and rejects data that does not describe a valid partition.
func (c *Clustering) UnmarshalBinary(data []byte) error {
	if !bytes.HasPrefix(data, []byte(binaryMagic)) || len(data) < len(binaryMagic)+1 {
		return fmt.Errorf("%w: bad magic", ErrInvalidFormat)
	}
	data = data[len(binaryMagic):]
	if v := data[0]; v != binaryVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, v)
	}
	data = data[1:]

	next, n := binary.Uvarint(data)
	if n <= 0 || next > uint64(^model.ClusterID(0)) {
		return fmt.Errorf("%w: invalid next cluster id", ErrInvalidFormat)
	}
	data = data[n:]

	count, n := binary.Uvarint(data)
	if n <= 0 || count > uint64(len(data)) {
		return fmt.Errorf("%w: invalid cluster count", ErrInvalidFormat)
	}
	data = data[n:]

	out := New()
	out.nextID = model.ClusterID(next)
	for range count {
		id, n := binary.Uvarint(data)
		if n <= 0 || id > uint64(^model.ClusterID(0)) {
			return fmt.Errorf("%w: invalid cluster id", ErrInvalidFormat)
		}
		data = data[n:]

		size, n := binary.Uvarint(data)
		if n <= 0 || size > uint64(len(data)-n) {
			return fmt.Errorf("%w: short buffer for cluster %d", ErrInvalidFormat, id)
		}
		data = data[n:]

		members := roaring.New()
		if err := members.UnmarshalBinary(data[:size]); err != nil {
			return fmt.Errorf("%w: cluster %d: %w", ErrInvalidFormat, id, err)
		}
		data = data[size:]

		cluster := model.ClusterID(id)
		if _, dup := out.clusters[cluster]; dup || members.IsEmpty() {
			return fmt.Errorf("%w: duplicate or empty cluster %d", ErrInvalidFormat, id)
		}
		it := members.Iterator()
		for it.HasNext() {
			p := model.PointID(it.Next())
			if _, taken := out.assignment[p]; taken {
				return fmt.Errorf("%w: point %d appears twice", ErrInvalidFormat, p)
			}
			out.assignment[p] = cluster
		}
		out.clusters[cluster] = members
		if cluster >= out.nextID {
			out.nextID = cluster + 1
		}
	}
	if len(data) != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalidFormat, len(data))
	}

	*c = *out
	return nil
}
