package main

import (
	"math"
	"runtime"
	"strconv"
	"time"

	"github.com/dacapoday/bplus"
	"github.com/dacapoday/bplus/bptree"
)

// Result is one timed operation.
type Result struct {
	Index     string
	Operation string
	N         int
	Elapsed   time.Duration
	MemMB     uint64
	Objects   uint64
}

func (r Result) record() []string {
	return []string{
		r.Index,
		r.Operation,
		strconv.Itoa(r.N),
		strconv.FormatInt(r.Elapsed.Nanoseconds(), 10),
		strconv.FormatUint(r.MemMB, 10),
		strconv.FormatUint(r.Objects, 10),
	}
}

// measure runs fn and reports its duration with the live heap afterwards.
func measure(index, op string, n int, fn func() error) (Result, error) {
	start := time.Now()
	if err := fn(); err != nil {
		return Result{}, err
	}
	elapsed := time.Since(start)

	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return Result{
		Index:     index,
		Operation: op,
		N:         n,
		Elapsed:   elapsed,
		MemMB:     m.Alloc / 1024 / 1024,
		Objects:   m.HeapObjects,
	}, nil
}

func benchTree(order int, pairs []bplus.Pair) ([]Result, error) {
	name := "bptree/" + strconv.Itoa(order)

	bulk, err := bptree.New(order)
	if err != nil {
		return nil, err
	}
	single, err := bptree.New(order)
	if err != nil {
		return nil, err
	}

	var results []Result
	steps := []struct {
		op string
		fn func() error
	}{
		{"bulk", func() error { return bulk.BulkLoad(pairs) }},
		{"insert", func() error { return single.InsertAll(pairs) }},
		{"lookup", func() error {
			for _, p := range pairs {
				if _, err := single.Lookup(p.Key); err != nil {
					return err
				}
			}
			return nil
		}},
		{"range", func() error {
			_, err := single.Range(math.MinInt64, math.MaxInt64)
			return err
		}},
		{"check", single.Check},
	}
	for _, step := range steps {
		res, err := measure(name, step.op, len(pairs), step.fn)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
