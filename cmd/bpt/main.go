// bpt is an interactive shell around a B+ tree of integer keys.
//
// Usage:
//
//	bpt [-v] [-seed N] [order] [inputfile]
//
// order must lie in [3, 20]; the default is 4. inputfile holds
// whitespace separated integers, each inserted as both key and value.
// Type ? at the prompt for the command list.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/dacapoday/bplus"
	"github.com/dacapoday/bplus/bptree"
	"github.com/dacapoday/bplus/ingest"
	"github.com/go-faker/faker/v4"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	verboseFlag := flag.Bool("v", false, "log tree restructuring to stderr")
	seedFlag := flag.Int("seed", 0, "insert N random keys created with go-faker")
	flag.Parse()

	log, err := newLogger(*verboseFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	order := parseOrder(flag.Arg(0))
	tree, err := bptree.New(order, bptree.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	sh := newShell(tree, os.Stdout, log)
	sh.prompt = term.IsTerminal(int(os.Stdin.Fd()))
	fmt.Print(introMessage(order))
	fmt.Print(usageMessage)

	if path := flag.Arg(1); path != "" {
		if err := loadKeysFile(tree, path); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else {
			fmt.Printf("Input from file %s:\n", path)
			sh.printer.Tree(tree)
		}
	}

	if *seedFlag > 0 {
		pairs := make([]bplus.Pair, *seedFlag)
		for i := range pairs {
			k := faker.UnixTime() % 10_000
			pairs[i] = bplus.Pair{Key: k, Value: k}
		}
		if err = tree.InsertAll(pairs); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		fmt.Printf("Seeded %d random keys.\n", len(pairs))
	}

	sh.run(os.Stdin)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// loadKeysFile inserts the keys of path. Nothing is inserted when the file
// cannot be read completely.
func loadKeysFile(tree *bptree.BPTree, path string) error {
	pairs, err := ingest.ReadKeysFile(path)
	if err != nil {
		return err
	}
	return tree.InsertAll(pairs)
}

// parseOrder falls back to the default order, with a diagnostic, for
// anything outside [MinOrder, MaxOrder].
func parseOrder(arg string) int {
	if arg == "" {
		return bplus.DefaultOrder
	}
	order, err := strconv.Atoi(arg)
	if err == nil && order >= bplus.MinOrder && order <= bplus.MaxOrder {
		return order
	}
	fmt.Fprintf(os.Stderr, "Invalid order specification: %s\n", arg)
	fmt.Fprintf(os.Stderr, "Order must be an integer such that %d <= <order> <= %d\n", bplus.MinOrder, bplus.MaxOrder)
	fmt.Fprintf(os.Stderr, "Proceeding with order %d\n", bplus.DefaultOrder)
	return bplus.DefaultOrder
}

func introMessage(order int) string {
	return fmt.Sprintf(`B+ Tree of Order %d
To build a B+ tree of a different order, start again and enter the order
as an integer argument:  bpt <order>
(%d <= order <= %d).
To start with input from a file of newline-delimited integers,
start again and enter the order followed by the filename:
bpt <order> <inputfile> .

`, order, bplus.MinOrder, bplus.MaxOrder)
}
