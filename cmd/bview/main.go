// bview is a simple CLI tool for browsing saved B+ tree files.
//
// Usage:
//
//	bview [-order 4] <filename>           # interactive mode
//	bview -l <filename>                   # list mode (print all)
//	bview -l -n 20 <filename>             # list first 20 keys
//	bview -z <filename>                   # snappy-compressed snapshot
//
// Interactive mode:
//
//	j/↓    scroll down
//	k/↑    scroll up
//	g      jump to first
//	G      jump to last
//	/      seek key (first key >= input)
//	q/Esc  quit
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dacapoday/bplus"
	"github.com/dacapoday/bplus/bptree"
	"github.com/dacapoday/bplus/snapshot"
	"golang.org/x/term"
)

func main() {
	listFlag := flag.Bool("l", false, "list mode (non-interactive)")
	countFlag := flag.Int("n", 0, "number of keys (0 = all)")
	orderFlag := flag.Int("order", bplus.DefaultOrder, "order the tree was saved with")
	zipFlag := flag.Bool("z", false, "file is a compressed snapshot")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: bview [-order N] [-z] [-l] [-n count] <filename>")
		os.Exit(1)
	}

	tree, err := open(flag.Arg(0), *orderFlag, *zipFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *listFlag {
		runList(tree, *countFlag)
		return
	}
	runInteractive(tree, flag.Arg(0))
}

func open(filename string, order int, compressed bool) (*bptree.BPTree, error) {
	tree, err := bptree.New(order)
	if err != nil {
		return nil, err
	}
	if compressed {
		err = snapshot.ImportFile(filename, tree)
	} else {
		err = tree.LoadFromDisk(filename)
	}
	return tree, err
}

func runList(tree *bptree.BPTree, count int) {
	iter := tree.Iter()
	n := 0
	for iter.SeekFirst(); iter.Valid(); iter.Next() {
		if count > 0 && n >= count {
			break
		}
		fmt.Println(format(itemAt(iter), 80))
		n++
	}
	if err := iter.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runInteractive(tree *bptree.BPTree, filename string) {
	iter := tree.Iter()
	iter.SeekFirst()

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	v := &viewer{
		iter:  iter,
		title: fmt.Sprintf("[ bview %s | order %d | height %d ]", filename, tree.Order(), tree.Height()),
	}
	v.updateSize()
	v.load()

	fmt.Print("\033[?25l\033[2J")             // hide cursor, clear screen once
	defer fmt.Print("\033[?25h\033[2J\033[H") // show cursor, clear screen

	reader := bufio.NewReader(os.Stdin)

	for {
		if v.updateSize() {
			v.load()
		}
		v.render()

		b, err := reader.ReadByte()
		if err != nil {
			break
		}

		v.status = ""

		switch b {
		case 'q', 3, 27: // q, Ctrl+C, Esc
			if b == 27 && reader.Buffered() > 0 {
				b2, _ := reader.ReadByte()
				if b2 == '[' {
					b3, _ := reader.ReadByte()
					switch b3 {
					case 'A':
						v.up()
					case 'B':
						v.down()
					case '5':
						reader.ReadByte()
						v.pageUp()
					case '6':
						reader.ReadByte()
						v.pageDown()
					}
				}
				continue
			}
			return
		case 'j':
			v.down()
		case 'k':
			v.up()
		case 'g':
			v.first()
		case 'G':
			v.last()
		case '/':
			v.search(reader)
		}
	}
}

type item struct {
	key    bplus.KeyType
	bucket []bplus.ValueType
	leaf   int
}

func itemAt(iter *bptree.Iter) item {
	return item{
		key:    iter.Key(),
		bucket: iter.Bucket(),
		leaf:   iter.Leaf().ID(),
	}
}

type viewer struct {
	iter    *bptree.Iter
	items   []item
	title   string
	width   int
	height  int
	atStart bool
	atEnd   bool
	status  string
}

func (v *viewer) updateSize() bool {
	w, h, err := term.GetSize(int(os.Stdin.Fd()))
	if err != nil {
		w, h = 80, 24
	}
	if w == v.width && h == v.height {
		return false
	}
	v.width, v.height = w, h
	return true
}

func (v *viewer) lines() int {
	return v.height - 4 // title + separator + separator + status
}

// load fills the screen from the cursor and leaves the cursor on the first item.
func (v *viewer) load() {
	v.items = nil
	v.atStart = false
	v.atEnd = false

	if !v.iter.Valid() {
		v.iter.SeekFirst()
		if !v.iter.Valid() {
			v.atStart = true
			v.atEnd = true
			return
		}
	}

	for i := 0; i < v.lines() && v.iter.Valid(); i++ {
		v.items = append(v.items, itemAt(v.iter))
		if !v.iter.Next() {
			v.atEnd = true
			break
		}
	}

	if len(v.items) > 0 {
		v.iter.Seek(v.items[0].key)
		if !v.iter.Prev() {
			v.atStart = true
		}
		v.iter.Seek(v.items[0].key)
	}
}

func (v *viewer) down() {
	if len(v.items) == 0 {
		return
	}
	v.iter.Seek(v.items[len(v.items)-1].key)
	if v.iter.Next() {
		v.items = append(v.items[1:], itemAt(v.iter))
		v.atStart = false
		if !v.iter.Next() {
			v.atEnd = true
		}
		v.iter.Seek(v.items[0].key)
	} else if len(v.items) > 1 {
		v.items = v.items[1:]
		v.atEnd = true
	}
}

func (v *viewer) up() {
	if v.atStart || len(v.items) == 0 {
		return
	}
	v.iter.Seek(v.items[0].key)
	if v.iter.Prev() {
		prev := itemAt(v.iter)
		if len(v.items) >= v.lines() {
			v.items = append([]item{prev}, v.items[:len(v.items)-1]...)
		} else {
			v.items = append([]item{prev}, v.items...)
		}
		v.atEnd = false
		if !v.iter.Prev() {
			v.atStart = true
		}
		v.iter.Seek(v.items[0].key)
	}
}

func (v *viewer) pageDown() {
	for i := 0; i < v.lines()-1; i++ {
		v.down()
	}
}

func (v *viewer) pageUp() {
	for i := 0; i < v.lines()-1; i++ {
		v.up()
	}
}

func (v *viewer) first() {
	v.iter.SeekFirst()
	v.load()
}

func (v *viewer) last() {
	v.iter.SeekLast()
	for i := 0; i < v.lines()-1; i++ {
		if !v.iter.Prev() {
			break
		}
	}
	v.load()
}

func (v *viewer) search(reader *bufio.Reader) {
	fmt.Print("\033[?25h")
	fmt.Printf("\033[%d;1H\033[K/", v.height)

	var input []byte
	for {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}
		if b == 27 || b == 3 {
			fmt.Print("\033[?25l")
			return
		}
		if b == 13 || b == 10 {
			break
		}
		if b == 127 || b == 8 {
			if len(input) > 0 {
				input = input[:len(input)-1]
				fmt.Print("\b \b")
			}
			continue
		}
		if b == '-' || (b >= '0' && b <= '9') {
			input = append(input, b)
			fmt.Print(string(b))
		}
	}
	fmt.Print("\033[?25l")

	if len(input) == 0 {
		return
	}
	key, err := strconv.ParseInt(string(input), 10, 64)
	if err != nil {
		v.status = "not a key: " + string(input)
		return
	}
	if v.iter.Seek(key) {
		v.load()
		v.status = fmt.Sprintf("jumped to: %d", v.items[0].key)
	} else {
		v.status = "not found"
		v.iter.Seek(v.items[0].key)
	}
}

func (v *viewer) render() {
	var b strings.Builder

	b.WriteString("\033[H")
	b.WriteString(v.title)
	b.WriteString("\033[K\r\n")
	b.WriteString(strings.Repeat("─", v.width))
	b.WriteString("\033[K\r\n")

	for i := 0; i < v.lines(); i++ {
		if i < len(v.items) {
			b.WriteString(format(v.items[i], v.width))
		} else {
			b.WriteString("~")
		}
		b.WriteString("\033[K\r\n")
	}

	b.WriteString(strings.Repeat("─", v.width))
	b.WriteString("\033[K\r\n")

	pos := ""
	if v.atStart && v.atEnd {
		pos = "[all]"
	} else if v.atStart {
		pos = "[top]"
	} else if v.atEnd {
		pos = "[end]"
	}

	if v.status != "" {
		b.WriteString(" ")
		b.WriteString(v.status)
		b.WriteString(" ")
		b.WriteString(pos)
	} else {
		b.WriteString(" j/k:scroll g/G:jump /:seek q:quit ")
		b.WriteString(pos)
	}
	b.WriteString("\033[K")

	fmt.Print(b.String())
}

// format renders one key with its leaf and values, truncated to maxLen.
func format(it item, maxLen int) string {
	values := make([]string, len(it.bucket))
	for i, v := range it.bucket {
		values[i] = strconv.FormatInt(v, 10)
	}
	line := fmt.Sprintf("%20d  #%-6d %s", it.key, it.leaf, strings.Join(values, ", "))
	if maxLen > 3 && len(line) > maxLen {
		return line[:maxLen-3] + "..."
	}
	return line
}
