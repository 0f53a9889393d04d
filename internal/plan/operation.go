// Package plan defines the physical-operator contract of the query engine
// and the small set of leaf and wrapper operations the operators compose
// with.
package plan

import (
	"context"
	"errors"

	"github.com/quellgraph/quell/internal/ids"
	"github.com/quellgraph/quell/internal/keys"
	"github.com/quellgraph/quell/internal/memory"
	"github.com/quellgraph/quell/pkg/config"
	"github.com/quellgraph/quell/pkg/logger"
)

// ErrInvariantViolated reports an internal consistency failure. Seeing it
// surfaced means a bug in an operator, not a malformed query.
var ErrInvariantViolated = errors.New("plan: internal invariant violated")

// Operation is the contract every physical operator implements. Results are
// immutable once returned; estimates are advisory and never fail.
type Operation interface {
	// GetResult evaluates the operation. The context carries the
	// cooperative cancellation flag polled in hot loops.
	GetResult(ctx context.Context) (*Result, error)

	// CacheKey returns a deterministic description of the operation.
	// Operations producing bit-identical results on identical inputs must
	// return equal keys.
	CacheKey() string

	// Descriptor returns the human-readable operator label shown in query
	// analysis output.
	Descriptor() string

	ResultWidth() int

	// SortedOn returns the columns the result is sorted on, primary first.
	SortedOn() []int

	KnownEmptyResult() bool

	SizeEstimate() uint64
	CostEstimate() uint64

	// Multiplicity returns the average number of occurrences of a distinct
	// value in the given column, or 1 when unknown.
	Multiplicity(col int) float64

	VariableToColumnMap() VariableToColumnMap
}

// StableCacheKey maps an operation's cache key to the stable 64-bit key the
// result cache is addressed by.
func StableCacheKey(op Operation) uint64 {
	return keys.StableKey(op.CacheKey())
}

// EntityPrinter resolves an id to its lexical form. Implemented by the
// index vocabulary; operators fall back to the raw bit form when no entry
// exists.
type EntityPrinter interface {
	LexicalForm(id ids.ID) (string, bool)
}

// ExecutionContext bundles the per-query collaborators shared by all
// operators of one execution tree.
type ExecutionContext struct {
	Tracker *memory.Tracker
	Logger  logger.Logger
	Config  config.Config
	Printer EntityPrinter
}

// NewExecutionContext builds the context from the given collaborators.
// When log is nil a logger is constructed from the config's log format and
// level.
func NewExecutionContext(cfg config.Config, log logger.Logger, printer EntityPrinter) *ExecutionContext {
	if log == nil {
		log = logger.MustNewLogger(cfg.LogFormat, cfg.LogLevel)
	}
	return &ExecutionContext{
		Tracker: memory.NewTracker(cfg.MemoryLimitBytes),
		Logger:  log,
		Config:  cfg,
		Printer: printer,
	}
}

// EntityName renders id through the printer, falling back to the #<bits>
// form.
func (ec *ExecutionContext) EntityName(id ids.ID) string {
	if ec.Printer != nil {
		if s, ok := ec.Printer.LexicalForm(id); ok {
			return s
		}
	}
	return id.String()
}
