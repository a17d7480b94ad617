package main

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/require"
)

func TestBenchTree(t *testing.T) {
	pairs := randomPairs(500)
	results, err := benchTree(5, pairs)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, r := range results {
		require.Equal(t, "bptree/5", r.Index)
		require.Equal(t, 500, r.N)
	}
}

func TestEncodeKeyOrder(t *testing.T) {
	keys := []int64{math.MinInt64, -300, -1, 0, 1, 42, math.MaxInt64}
	for i := 1; i < len(keys); i++ {
		require.Less(t, string(encodeKey(keys[i-1])), string(encodeKey(keys[i])))
		require.Equal(t, keys[i], decodeKey(encodeKey(keys[i])))
	}
}

func TestScanLSM(t *testing.T) {
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	defer db.Close()

	for _, k := range []int64{-5, 3, 7, 10, math.MaxInt64} {
		require.NoError(t, db.Set(encodeKey(k), nil, pebble.NoSync))
	}
	keys, err := scanLSM(db, -5, 7)
	require.NoError(t, err)
	require.Equal(t, []int64{-5, 3, 7}, keys)

	keys, err = scanLSM(db, 8, math.MaxInt64)
	require.NoError(t, err)
	require.Equal(t, []int64{10, math.MaxInt64}, keys)
}

func TestOutputs(t *testing.T) {
	pairs := randomPairs(200)
	results, err := benchTree(4, pairs)
	require.NoError(t, err)
	lsm, err := benchLSM(pairs)
	require.NoError(t, err)
	results = append(results, lsm...)

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "results.csv")
	require.NoError(t, writeCSV(csvPath, results))

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(results)+1)
	require.Equal(t, "latency_ns", records[0][3])

	pngPath := filepath.Join(dir, "results.png")
	require.NoError(t, writeChart(pngPath, results))
	info, err := os.Stat(pngPath)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestParseOrders(t *testing.T) {
	orders, err := parseOrders("4, 8,16")
	require.NoError(t, err)
	require.Equal(t, []int{4, 8, 16}, orders)

	_, err = parseOrders("4,x")
	require.Error(t, err)
	_, err = parseOrders("2")
	require.Error(t, err)
}
