package valkey

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/careerdex/internal/db"
)

// Upsert stores points as hashes in a single DoMulti round-trip.
func (s *Store) Upsert(ctx context.Context, collection string, points []db.Point) error {
	if len(points) == 0 {
		return nil
	}

	prefix := s.keyPrefix(collection)
	cmds := make(rueidis.Commands, len(points))
	for i, p := range points {
		cmd := s.b().Hset().Key(prefix + strconv.FormatUint(p.ID, 10)).FieldValue()
		for k, v := range p.Payload.Fields() {
			cmd = cmd.FieldValue(k, v)
		}
		cmds[i] = cmd.FieldValue(db.FieldVector, vectorToBytes(p.Vector)).Build()
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("point %d: %w", points[i].ID, err)}
		}
	}
	return nil
}

// pointID extracts the numeric id from a point key; the index key and any
// foreign key under the prefix are rejected.
func pointID(key string) (uint64, bool) {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return 0, false
	}
	id, err := strconv.ParseUint(key[i+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return rueidis.BinaryString(buf)
}
