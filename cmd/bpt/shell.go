package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dacapoday/bplus"
	"github.com/dacapoday/bplus/bptree"
	"github.com/dacapoday/bplus/ingest"
	"github.com/dacapoday/bplus/printer"
	"github.com/dacapoday/bplus/snapshot"
	"go.uber.org/zap"
)

const usageMessage = `Enter any of the following commands after the prompt > :
	i <k>  -- Insert <k> (an integer) as both key and value.
	i <k> <v> -- Insert (integer) value <v> under (integer) key <k>.
	f <k>  -- Find the values under key <k>.
	p <k> -- Print the path from the root to key k and its associated values.
	r <k1> <k2> -- Print the keys and values found in the range [<k1>, <k2>].
	d <k>  -- Delete key <k> and its associated values.
	x -- Destroy the whole tree. Start again with an empty tree of the same order.
	t -- Print the entire B+ tree.
	l -- Print the keys of the leaves (bottom row of the tree).
	m -- Print tree info (number of levels, number of nodes, root content).
	v -- Toggle output of node IDs ("verbose") in tree and leaves.
	c -- Check the structural invariants of the tree.
	S <filename> -- Save the current B+ tree structure to <filename>.
	L <filename> -- Load a B+ tree structure from <filename>.
	Z <filename> -- Save a snappy-compressed snapshot to <filename>.
	U <filename> -- Load a snappy-compressed snapshot from <filename>.
	b <csv> <keyCol> <valCol> -- Bulk load (key, value) columns of a CSV file.
	n <csv> <keyCol> <valCol> -- Insert (key, value) columns of a CSV file one by one.
	q -- Quit. (Or use Ctrl-D.)
	? -- Print this help message.

`

type shell struct {
	tree    *bptree.BPTree
	printer *printer.Printer
	out     io.Writer
	log     *zap.Logger
	prompt  bool
}

func newShell(tree *bptree.BPTree, out io.Writer, log *zap.Logger) *shell {
	return &shell{
		tree:    tree,
		printer: printer.New(out),
		out:     out,
		log:     log,
	}
}

// run executes commands from r until q or end of input.
func (sh *shell) run(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for {
		if sh.prompt {
			fmt.Fprint(sh.out, "> ")
		}
		if !scanner.Scan() {
			return
		}
		if sh.exec(scanner.Text()) {
			return
		}
	}
}

// exec runs one command line and reports whether the shell should quit.
func (sh *shell) exec(line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "q":
		return true
	case "?":
		fmt.Fprint(sh.out, usageMessage)
	case "i":
		err = sh.insert(args)
	case "f":
		err = withKeys(args, 1, func(k []bplus.KeyType) error { return sh.printer.Value(sh.tree, k[0]) })
	case "p":
		err = withKeys(args, 1, func(k []bplus.KeyType) error { return sh.printer.PathTo(sh.tree, k[0]) })
	case "r":
		err = withKeys(args, 2, func(k []bplus.KeyType) error {
			lo, hi := min(k[0], k[1]), max(k[0], k[1])
			return sh.printer.Range(sh.tree, lo, hi)
		})
	case "d":
		err = withKeys(args, 1, func(k []bplus.KeyType) error {
			if err := sh.tree.Remove(k[0]); err != nil {
				return err
			}
			sh.printer.Tree(sh.tree)
			return nil
		})
	case "x":
		sh.tree.Destroy()
		sh.printer.Tree(sh.tree)
	case "t":
		sh.printer.Tree(sh.tree)
	case "l":
		err = sh.printer.Leaves(sh.tree)
	case "m":
		sh.printer.Info(sh.tree)
	case "v":
		sh.printer.Verbose = !sh.printer.Verbose
		sh.printer.Tree(sh.tree)
	case "c":
		if err = sh.tree.Check(); err == nil {
			fmt.Fprintln(sh.out, "Tree is consistent.")
		}
	case "S", "L", "Z", "U":
		err = sh.file(cmd, args)
	case "b", "n":
		err = sh.loadCSV(cmd == "b", args)
	default:
		fmt.Fprint(sh.out, usageMessage)
	}

	if err != nil {
		fmt.Fprintf(sh.out, "error: %v\n", err)
		if errors.Is(err, bplus.ErrCorrupted) {
			sh.log.Error("structural corruption", zap.String("command", line), zap.Error(err))
		}
	}
	return false
}

func (sh *shell) insert(args []string) error {
	if len(args) != 1 && len(args) != 2 {
		return errors.New("usage: i <k> [v]")
	}
	nums, err := parseInts(args)
	if err != nil {
		return err
	}
	value := nums[0]
	if len(nums) == 2 {
		value = nums[1]
	}
	if err = sh.tree.Insert(nums[0], value); err != nil {
		return err
	}
	sh.printer.Tree(sh.tree)
	return nil
}

func (sh *shell) file(cmd string, args []string) (err error) {
	if len(args) != 1 {
		return errors.Newf("usage: %s <filename>", cmd)
	}
	path := args[0]
	switch cmd {
	case "S":
		err = sh.tree.SaveToDisk(path)
	case "L":
		err = sh.tree.LoadFromDisk(path)
	case "Z":
		err = snapshot.ExportFile(path, sh.tree)
	case "U":
		err = snapshot.ImportFile(path, sh.tree)
	}
	if err != nil {
		return err
	}
	switch cmd {
	case "S", "Z":
		fmt.Fprintf(sh.out, "B+ Tree saved to %s\n", path)
	default:
		fmt.Fprintf(sh.out, "B+ Tree loaded from %s\n", path)
		sh.printer.Tree(sh.tree)
	}
	return nil
}

func (sh *shell) loadCSV(bulk bool, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: b|n <csv> <keyCol> <valCol>")
	}
	cols, err := parseInts(args[1:])
	if err != nil {
		return err
	}
	res, err := ingest.ReadCSVFile(args[0], ingest.Columns{Key: int(cols[0]), Value: int(cols[1])}, sh.log)
	if err != nil {
		return err
	}

	start := time.Now()
	if bulk {
		err = sh.tree.BulkLoad(res.Pairs)
	} else {
		err = sh.tree.InsertAll(res.Pairs)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	mode := "Inserted"
	if bulk {
		mode = "Bulk loaded"
	}
	fmt.Fprintf(sh.out, "%s %d pairs from %s in %v (%d rows skipped).\n", mode, len(res.Pairs), args[0], elapsed, res.Skipped)
	sh.log.Info("csv load",
		zap.Bool("bulk", bulk),
		zap.Int("pairs", len(res.Pairs)),
		zap.Int("skipped", res.Skipped),
		zap.Duration("elapsed", elapsed))
	return nil
}

func withKeys(args []string, n int, fn func([]bplus.KeyType) error) error {
	if len(args) != n {
		return errors.Newf("expected %d integer argument(s)", n)
	}
	keys, err := parseInts(args)
	if err != nil {
		return err
	}
	return fn(keys)
}

func parseInts(args []string) ([]int64, error) {
	nums := make([]int64, len(args))
	for i, arg := range args {
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, errors.Newf("not an integer: %q", arg)
		}
		nums[i] = n
	}
	return nums, nil
}
