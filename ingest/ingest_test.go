package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dacapoday/bplus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const games = `game_id,season,home_pts,away_pts
22000001,2020,108,125
22000002,2020,122,116
22000003,2020, 99 ,121
broken row
22000004,2020,,100
`

func TestReadCSV(t *testing.T) {
	res, err := ReadCSV(strings.NewReader(games), Columns{Key: 0, Value: 2}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, []bplus.Pair{
		{Key: 22000001, Value: 108},
		{Key: 22000002, Value: 122},
		{Key: 22000003, Value: 99},
	}, res.Pairs)
	require.Equal(t, 3, res.Skipped)
}

func TestReadCSVWidth(t *testing.T) {
	res, err := ReadCSV(strings.NewReader("123456,7\n"), Columns{Key: 0, Value: 1, Width: 3}, nil)
	require.NoError(t, err)
	require.Equal(t, []bplus.Pair{{Key: 123, Value: 7}}, res.Pairs)
}

func TestReadCSVBadColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(games), Columns{Key: -1}, nil)
	require.ErrorIs(t, err, bplus.ErrOutOfRange)
}

func TestReadCSVFileTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.tsv")
	require.NoError(t, os.WriteFile(path, []byte("id\tpts\n3\t30\n1\t10\n"), 0o644))

	res, err := ReadCSVFile(path, Columns{Key: 0, Value: 1}, nil)
	require.NoError(t, err)
	require.Equal(t, []bplus.Pair{{Key: 3, Value: 30}, {Key: 1, Value: 10}}, res.Pairs)
	require.Equal(t, 1, res.Skipped)

	_, err = ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"), Columns{}, nil)
	require.Error(t, err)
}

func TestReadKeys(t *testing.T) {
	pairs, err := ReadKeys(strings.NewReader("10\n20 5\n\n-6\n"))
	require.NoError(t, err)
	require.Equal(t, []bplus.Pair{{10, 10}, {20, 20}, {5, 5}, {-6, -6}}, pairs)

	pairs, err = ReadKeys(strings.NewReader("1\nx\n3"))
	require.Error(t, err)
	require.Len(t, pairs, 1)
}

func TestReadKeysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.txt")
	require.NoError(t, os.WriteFile(path, []byte("3\n1\n2\n"), 0o644))
	pairs, err := ReadKeysFile(path)
	require.NoError(t, err)
	require.Len(t, pairs, 3)
}
