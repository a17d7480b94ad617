package main

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/dacapoday/bplus"
)

// encodeKey maps an int64 to 8 bytes whose byte order matches the
// numeric order, sign included.
func encodeKey(k int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(k)^(1<<63))
	return b
}

func decodeKey(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b) ^ (1 << 63))
}

// benchLSM runs the insert, lookup and full scan workload against Pebble
// on an in-memory filesystem.
func benchLSM(pairs []bplus.Pair) ([]Result, error) {
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	if err != nil {
		return nil, errors.Wrap(err, "open pebble")
	}
	defer db.Close()

	value := make([]byte, 8)
	steps := []struct {
		op string
		fn func() error
	}{
		{"insert", func() error {
			for _, p := range pairs {
				binary.BigEndian.PutUint64(value, uint64(p.Value))
				if err := db.Set(encodeKey(p.Key), value, pebble.NoSync); err != nil {
					return err
				}
			}
			return nil
		}},
		{"lookup", func() error {
			for _, p := range pairs {
				_, closer, err := db.Get(encodeKey(p.Key))
				if err != nil {
					return err
				}
				closer.Close()
			}
			return nil
		}},
		{"range", func() error {
			_, err := scanLSM(db, math.MinInt64, math.MaxInt64)
			return err
		}},
	}

	var results []Result
	for _, step := range steps {
		res, err := measure("pebble", step.op, len(pairs), step.fn)
		if err != nil {
			return nil, errors.Wrapf(err, "pebble %s", step.op)
		}
		results = append(results, res)
	}
	return results, nil
}

// scanLSM returns the keys in [start, end].
func scanLSM(db *pebble.DB, start, end int64) (keys []int64, err error) {
	opts := &pebble.IterOptions{LowerBound: encodeKey(start)}
	if end < math.MaxInt64 {
		opts.UpperBound = encodeKey(end + 1)
	}
	iter, err := db.NewIter(opts)
	if err != nil {
		return nil, err
	}
	for valid := iter.First(); valid; valid = iter.Next() {
		keys = append(keys, decodeKey(iter.Key()))
	}
	return keys, iter.Close()
}
