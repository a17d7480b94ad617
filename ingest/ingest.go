// Package ingest turns delimited text and plain integer lists into
// (key, value) pairs for loading into a tree.
package ingest

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dacapoday/bplus"
	"go.uber.org/zap"
)

// Columns selects the fields of a delimited record.
type Columns struct {
	// Key and Value are zero-based field indexes.
	Key   int
	Value int
	// Comma is the field delimiter; ',' when zero.
	Comma rune
	// Width, when positive, keeps only the first Width characters of a
	// field before parsing.
	Width int
}

// Result is the outcome of reading a delimited source.
type Result struct {
	Pairs []bplus.Pair
	// Skipped counts records without both columns or with non-integer
	// fields, such as a header line.
	Skipped int
}

// ReadCSV reads every record of r and keeps the pairs whose key and value
// columns parse as integers.
func ReadCSV(r io.Reader, cols Columns, log *zap.Logger) (res Result, err error) {
	if cols.Key < 0 || cols.Value < 0 {
		return res, errors.Wrapf(bplus.ErrOutOfRange, "columns %d, %d", cols.Key, cols.Value)
	}
	if log == nil {
		log = zap.NewNop()
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true
	if cols.Comma != 0 {
		reader.Comma = cols.Comma
	}

	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, errors.Wrapf(err, "record %d", line)
		}
		if cols.Key >= len(record) || cols.Value >= len(record) {
			res.Skipped++
			log.Debug("short record", zap.Int("line", line), zap.Int("fields", len(record)))
			continue
		}
		key, kerr := parseField(record[cols.Key], cols.Width)
		value, verr := parseField(record[cols.Value], cols.Width)
		if kerr != nil || verr != nil {
			res.Skipped++
			log.Debug("unparsable record", zap.Int("line", line), zap.Strings("record", record))
			continue
		}
		res.Pairs = append(res.Pairs, bplus.Pair{Key: key, Value: value})
	}
	return res, nil
}

// ReadCSVFile reads the file at path with ReadCSV. A ".tsv" file is read
// tab separated unless cols.Comma is set.
func ReadCSVFile(path string, cols Columns, log *zap.Logger) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	if cols.Comma == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
		cols.Comma = '\t'
	}
	return ReadCSV(bufio.NewReader(f), cols, log)
}

// ReadKeys reads whitespace separated integers. Each key becomes its own value.
func ReadKeys(r io.Reader) ([]bplus.Pair, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	var pairs []bplus.Pair
	for scanner.Scan() {
		key, err := strconv.ParseInt(scanner.Text(), 10, 64)
		if err != nil {
			return pairs, errors.Wrapf(err, "key %d", len(pairs)+1)
		}
		pairs = append(pairs, bplus.Pair{Key: key, Value: key})
	}
	return pairs, errors.Wrap(scanner.Err(), "scan keys")
}

// ReadKeysFile reads the file at path with ReadKeys.
func ReadKeysFile(path string) ([]bplus.Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return ReadKeys(f)
}

func parseField(field string, width int) (int64, error) {
	if width > 0 && len(field) > width {
		field = field[:width]
	}
	return strconv.ParseInt(strings.TrimSpace(field), 10, 64)
}
