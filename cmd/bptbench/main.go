// bptbench times bulk loading against one-by-one insertion for a range
// of tree orders, with a Pebble LSM baseline, and writes the timings as
// CSV and as a bar chart.
//
// Usage:
//
//	bptbench [-n 100000] [-orders 4,8,16,20] [-csv results.csv] [-png results.png]
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dacapoday/bplus"
	"github.com/go-faker/faker/v4"
	"go.uber.org/zap"
)

func main() {
	nFlag := flag.Int("n", 100_000, "number of keys")
	ordersFlag := flag.String("orders", "4,8,16,20", "comma separated tree orders")
	csvFlag := flag.String("csv", "results.csv", "CSV output path")
	pngFlag := flag.String("png", "results.png", "chart output path (empty to skip)")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	orders, err := parseOrders(*ordersFlag)
	if err != nil {
		log.Fatal("bad -orders", zap.Error(err))
	}

	pairs := randomPairs(*nFlag)
	log.Info("workload ready", zap.Int("pairs", len(pairs)), zap.Ints("orders", orders))

	var results []Result
	for _, order := range orders {
		res, err := benchTree(order, pairs)
		if err != nil {
			log.Fatal("tree benchmark", zap.Int("order", order), zap.Error(err))
		}
		results = append(results, res...)
	}
	res, err := benchLSM(pairs)
	if err != nil {
		log.Fatal("lsm benchmark", zap.Error(err))
	}
	results = append(results, res...)

	for _, r := range results {
		log.Info("result",
			zap.String("index", r.Index),
			zap.String("op", r.Operation),
			zap.Duration("elapsed", r.Elapsed),
			zap.Uint64("mem_mb", r.MemMB))
	}

	if err = writeCSV(*csvFlag, results); err != nil {
		log.Fatal("write csv", zap.Error(err))
	}
	if *pngFlag != "" {
		if err = writeChart(*pngFlag, results); err != nil {
			log.Fatal("write chart", zap.Error(err))
		}
	}
}

func parseOrders(s string) ([]int, error) {
	var orders []int
	for _, field := range strings.Split(s, ",") {
		order, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, errors.Wrapf(err, "order %q", field)
		}
		if order < bplus.MinOrder {
			return nil, errors.Wrapf(bplus.ErrInvalidOrder, "order %d is below %d", order, bplus.MinOrder)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// randomPairs draws keys from random unix timestamps.
func randomPairs(n int) []bplus.Pair {
	pairs := make([]bplus.Pair, n)
	for i := range pairs {
		k := faker.UnixTime()
		pairs[i] = bplus.Pair{Key: k, Value: int64(i)}
	}
	return pairs
}

func writeCSV(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"index", "operation", "n", "latency_ns", "mem_mb", "objects"})
	for _, r := range results {
		w.Write(r.record())
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return err
	}
	return f.Close()
}
