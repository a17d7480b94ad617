package bptree

import "go.uber.org/zap"

// Option configures a BPTree.
type Option func(*BPTree)

// WithLogger sets the logger receiving structural events at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(tree *BPTree) {
		if logger != nil {
			tree.log = logger
		}
	}
}
