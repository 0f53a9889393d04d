// Package transitive implements the transitive path operator: given an
// edge relation produced by a sub-plan and two endpoint descriptors, it
// materializes all node pairs connected by a path whose length falls in a
// configured window.
package transitive

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quellgraph/quell/internal/ids"
	"github.com/quellgraph/quell/internal/idtable"
	"github.com/quellgraph/quell/internal/plan"
	"github.com/quellgraph/quell/pkg/telemetry"
)

var tracer = otel.Tracer("internal/transitive")

// Unbounded is the maximum distance value meaning "no upper length limit".
const Unbounded = uint64(math.MaxUint64)

// Algorithm selects the adjacency representation backing the traversal.
type Algorithm int

const (
	// AlgorithmHashMap builds an unordered source-to-targets hash map.
	// Works on any edge relation.
	AlgorithmHashMap Algorithm = iota

	// AlgorithmBinSearch locates successors by binary search over the edge
	// relation's columns. The operator enforces the required sort order on
	// its upstream.
	AlgorithmBinSearch
)

func (a Algorithm) String() string {
	if a == AlgorithmBinSearch {
		return "BinSearch"
	}
	return "HashMap"
}

// PredicateProvider is implemented by upstream operations that know the
// lexical form of the edge predicate they scan, typically index scans.
type PredicateProvider interface {
	Predicate() string
}

// PathOperation is the physical operator computing the transitive hull of
// an edge relation between its two endpoint sides.
type PathOperation struct {
	ec    *plan.ExecutionContext
	child plan.Operation // the edge sub-plan as handed in
	sub   plan.Operation // the edge sub-plan with the sort requirement applied

	lhs Side
	rhs Side

	minDist uint64
	maxDist uint64

	algorithm   Algorithm
	resultWidth int
	varCols     plan.VariableToColumnMap
	runtimeInfo *plan.RuntimeInfo
}

var _ plan.Operation = (*PathOperation)(nil)

// New creates a transitive path operation over the given edge sub-plan.
// The sides must be free or fixed; binding happens through BindLeftSide and
// BindRightSide.
func New(ec *plan.ExecutionContext, child plan.Operation, left, right Side, minDist, maxDist uint64, algorithm Algorithm) *PathOperation {
	return newPathOperation(ec, child, left, right, minDist, maxDist, algorithm)
}

func newPathOperation(ec *plan.ExecutionContext, child plan.Operation, lhs, rhs Side, minDist, maxDist uint64, algorithm Algorithm) *PathOperation {
	lhs.outputCol = 0
	rhs.outputCol = 1

	op := &PathOperation{
		ec:          ec,
		child:       child,
		sub:         child,
		lhs:         lhs,
		rhs:         rhs,
		minDist:     minDist,
		maxDist:     maxDist,
		algorithm:   algorithm,
		resultWidth: 2,
		varCols:     make(plan.VariableToColumnMap, 2),
		runtimeInfo: plan.NewRuntimeInfo(),
	}
	if lhs.IsVariable() {
		op.varCols[lhs.variable] = plan.AlwaysDefinedColumn(0)
	}
	if rhs.IsVariable() {
		op.varCols[rhs.variable] = plan.AlwaysDefinedColumn(1)
	}

	// Only the traversal's start side propagates its feed columns into the
	// output; a feed on the target side restricts nothing and adds no
	// columns.
	if start, _ := decideDirection(lhs, rhs); start.IsBound() {
		op.addFeedColumns(start)
	}

	if algorithm == AlgorithmBinSearch {
		start, target := decideDirection(lhs, rhs)
		op.sub = plan.Sorted(child, start.subCol, target.subCol)
	}
	return op
}

// addFeedColumns maps the feed's variables into output columns >= 2,
// skipping the join column and preserving source order.
func (op *PathOperation) addFeedColumns(s Side) {
	for v, info := range s.feed.VariableToColumnMap() {
		if info.Column == s.feedCol {
			continue
		}
		if info.Column > s.feedCol {
			info.Column++
		} else {
			info.Column += 2
		}
		op.varCols[v] = info
		op.resultWidth++
	}
}

// BindLeftSide returns a new operation whose left side draws its values
// from column col of feed. The feed is forced to be sorted on col; the
// receiver is unchanged.
func (op *PathOperation) BindLeftSide(feed plan.Operation, col int) *PathOperation {
	return op.bindSide(feed, col, true)
}

// BindRightSide is the right-hand counterpart of BindLeftSide.
func (op *PathOperation) BindRightSide(feed plan.Operation, col int) *PathOperation {
	return op.bindSide(feed, col, false)
}

func (op *PathOperation) bindSide(feed plan.Operation, col int, isLeft bool) *PathOperation {
	feed = plan.Sorted(feed, col)
	lhs, rhs := op.lhs, op.rhs
	if isLeft {
		lhs.feed, lhs.feedCol = feed, col
	} else {
		rhs.feed, rhs.feedCol = feed, col
	}
	return newPathOperation(op.ec, op.child, lhs, rhs, op.minDist, op.maxDist, op.algorithm)
}

// IsBound reports whether either side is bound to a feeding sub-plan.
func (op *PathOperation) IsBound() bool {
	return op.lhs.IsBound() || op.rhs.IsBound()
}

func (op *PathOperation) MinDist() uint64 { return op.minDist }
func (op *PathOperation) MaxDist() uint64 { return op.maxDist }
func (op *PathOperation) Left() Side      { return op.lhs }
func (op *PathOperation) Right() Side     { return op.rhs }

// RuntimeInfo exposes the per-call execution details of the last
// evaluation.
func (op *PathOperation) RuntimeInfo() *plan.RuntimeInfo {
	return op.runtimeInfo
}

func (op *PathOperation) ResultWidth() int {
	return op.resultWidth
}

func (op *PathOperation) SortedOn() []int {
	if start, _ := decideDirection(op.lhs, op.rhs); start.isSortedOnJoinCol() {
		return []int{start.outputCol}
	}
	return nil
}

func (op *PathOperation) VariableToColumnMap() plan.VariableToColumnMap {
	return op.varCols.Clone()
}

func (op *PathOperation) KnownEmptyResult() bool {
	return op.sub.KnownEmptyResult()
}

// Multiplicity of the output columns is not known.
func (op *PathOperation) Multiplicity(col int) float64 {
	return 1
}

func (op *PathOperation) SizeEstimate() uint64 {
	if op.lhs.IsFixed() || op.rhs.IsFixed() {
		// With a fixed endpoint, assume a small constant number of
		// matching pairs. Usually an overestimate, but it keeps the
		// planner from materializing large intermediate results first.
		return op.ec.Config.FixedSideSizeEstimate
	}
	if size, ok := op.lhs.feedSizeEstimate(); ok {
		return size
	}
	if size, ok := op.rhs.feedSizeEstimate(); ok {
		return size
	}
	if op.lhs.IsVariable() && op.rhs.IsVariable() {
		// The worst observed blowup of a full hull relative to its edge
		// relation motivates the configured factor.
		return op.sub.SizeEstimate() * op.ec.Config.TransitiveBlowupFactor
	}
	if op.lhs.IsVariable() {
		mult := op.sub.Multiplicity(op.lhs.subCol)
		if mult > 0 {
			return uint64(float64(op.sub.SizeEstimate()) / mult)
		}
	}
	return op.sub.SizeEstimate()
}

func (op *PathOperation) CostEstimate() uint64 {
	// The cost of computing the hull is assumed proportional to the
	// result size.
	cost := op.SizeEstimate() + op.sub.CostEstimate()
	if feed, _ := op.lhs.Feed(); feed != nil {
		cost += feed.CostEstimate()
	}
	if feed, _ := op.rhs.Feed(); feed != nil {
		cost += feed.CostEstimate()
	}
	return cost
}

func (op *PathOperation) CacheKey() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TransitivePath (%s) minDist %d maxDist %d\n", op.algorithm, op.minDist, op.maxDist)
	fmt.Fprintf(&b, "left side: %s\n", op.lhs.cacheKey())
	fmt.Fprintf(&b, "right side: %s\n", op.rhs.cacheKey())
	fmt.Fprintf(&b, "sub:\n%s", op.sub.CacheKey())
	return b.String()
}

func (op *PathOperation) Descriptor() string {
	var b strings.Builder
	b.WriteString("TransitivePath ")
	// Show the interval unless it is the plain transitive hull.
	if op.minDist > 1 || op.maxDist < Unbounded {
		b.WriteString("[" + strconv.FormatUint(op.minDist, 10) + ", " + strconv.FormatUint(op.maxDist, 10) + "] ")
	}
	b.WriteString(op.sideName(op.lhs))
	if scan, ok := op.child.(PredicateProvider); ok {
		b.WriteString(" " + scan.Predicate() + " ")
	} else {
		b.WriteString(" <???> ")
	}
	b.WriteString(op.sideName(op.rhs))
	return b.String()
}

func (op *PathOperation) sideName(s Side) string {
	if s.IsVariable() {
		return s.variable.Name()
	}
	return op.ec.EntityName(s.fixed)
}

// GetResult computes the transitive hull and materializes it as a tabular
// result in three timed phases: edge-map build, hull computation and table
// fill.
func (op *PathOperation) GetResult(ctx context.Context) (*plan.Result, error) {
	if op.minDist == 0 && !op.IsBound() && op.lhs.IsVariable() && op.rhs.IsVariable() {
		return nil, ErrUnsupportedEmptyPath
	}

	ctx, span := tracer.Start(ctx, "transitive.GetResult")
	defer span.End()
	span.SetAttributes(
		attribute.String("algorithm", op.algorithm.String()),
		attribute.Int64("min_dist", int64(op.minDist)),
		attribute.String("max_dist", maxDistString(op.maxDist)),
	)
	op.runtimeInfo.Reset()

	startSide, targetSide := decideDirection(op.lhs, op.rhs)

	var subRes, sideRes *plan.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subRes, err = op.sub.GetResult(gctx)
		return err
	})
	if startSide.IsBound() {
		g.Go(func() error {
			var err error
			sideRes, err = startSide.feed.GetResult(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		telemetry.TraceError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("edges", subRes.NumRows()))

	res, err := op.computeHullResult(ctx, startSide, targetSide, subRes, sideRes)
	if err != nil {
		telemetry.TraceError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result_rows", res.NumRows()))
	return res, nil
}

func (op *PathOperation) computeHullResult(ctx context.Context, startSide, targetSide Side, subRes, sideRes *plan.Result) (*plan.Result, error) {
	res := idtable.New(op.ec.Tracker)
	res.SetNumColumns(op.resultWidth)

	needPresence := op.minDist == 0

	phaseStart := time.Now()
	var edges edgeMap
	var err error
	switch op.algorithm {
	case AlgorithmBinSearch:
		edges, err = newBinSearchMap(ctx, subRes.Table(), startSide.subCol, targetSide.subCol, needPresence, op.ec.Tracker)
	default:
		edges, err = newHashMap(ctx, subRes.Table(), startSide.subCol, targetSide.subCol, needPresence, op.ec.Tracker)
	}
	if err != nil {
		return nil, err
	}
	defer edges.release()
	buildTime := time.Since(phaseStart)

	var sideTable *idtable.Table
	if sideRes != nil {
		sideTable = sideRes.Table()
	}
	startNodes := collectStartNodes(startSide, targetSide, subRes.Table(), sideTable, op.minDist)

	var targetFilter *ids.ID
	if targetSide.IsFixed() {
		t := targetSide.fixed
		targetFilter = &t
	}

	phaseStart = time.Now()
	hull, err := transitiveHull(ctx, edges, startNodes, op.minDist, op.maxDist, targetFilter, op.ec.Tracker)
	if err != nil {
		return nil, err
	}
	defer hull.release()
	hullTime := time.Since(phaseStart)

	phaseStart = time.Now()
	if startSide.IsBound() {
		err = fillWithHullBound(res, hull, sideTable, startSide.feedCol, startSide.outputCol, targetSide.outputCol)
	} else {
		err = fillWithHull(res, hull, startSide.outputCol, targetSide.outputCol)
	}
	if err != nil {
		return nil, err
	}
	fillTime := time.Since(phaseStart)

	op.recordPhaseTimes(buildTime, hullTime, fillTime)
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Float64("initialization_time_ms", durationMs(buildTime)),
		attribute.Float64("hull_time_ms", durationMs(hullTime)),
		attribute.Float64("table_fill_time_ms", durationMs(fillTime)),
	)
	op.ec.Logger.Debug("computed transitive path",
		zap.String("algorithm", op.algorithm.String()),
		zap.Int("edges", subRes.NumRows()),
		zap.Int("start_nodes", len(startNodes)),
		zap.Int("hull_pairs", hull.size()),
		zap.Int("result_rows", res.NumRows()),
		zap.Float64("initialization_time_ms", durationMs(buildTime)),
		zap.Float64("hull_time_ms", durationMs(hullTime)),
		zap.Float64("table_fill_time_ms", durationMs(fillTime)),
	)

	vocab := subRes.Vocabulary()
	if sideRes != nil {
		vocab = plan.VocabularyFromNonEmpty(sideRes.Vocabulary(), subRes.Vocabulary())
	}
	return plan.NewResult(res, op.SortedOn(), vocab), nil
}

func (op *PathOperation) recordPhaseTimes(buildTime, hullTime, fillTime time.Duration) {
	op.runtimeInfo.AddDetail("initialization_time_ms", durationMs(buildTime))
	op.runtimeInfo.AddDetail("hull_time_ms", durationMs(hullTime))
	op.runtimeInfo.AddDetail("table_fill_time_ms", durationMs(fillTime))
	pathPhaseDurationMs.WithLabelValues(phaseMapBuild).Observe(durationMs(buildTime))
	pathPhaseDurationMs.WithLabelValues(phaseHull).Observe(durationMs(hullTime))
	pathPhaseDurationMs.WithLabelValues(phaseTableFill).Observe(durationMs(fillTime))
}

// collectStartNodes derives the traversal's start set: the feed's join
// column for a bound side, the single id for a fixed side, and the edge
// relation's start column otherwise. With a minimum distance of zero the
// target column joins in, so nodes occurring only as targets get their
// reflexive pair.
func collectStartNodes(startSide, targetSide Side, sub, sideTable *idtable.Table, minDist uint64) []ids.ID {
	if startSide.IsBound() {
		return sideTable.Column(startSide.feedCol)
	}
	if startSide.IsFixed() {
		return []ids.ID{startSide.fixed}
	}
	srcs := sub.Column(startSide.subCol)
	if minDist > 0 {
		return srcs
	}
	nodes := make([]ids.ID, 0, 2*len(srcs))
	nodes = append(nodes, srcs...)
	nodes = append(nodes, sub.Column(targetSide.subCol)...)
	return nodes
}

func maxDistString(d uint64) string {
	if d == Unbounded {
		return "unbounded"
	}
	return strconv.FormatUint(d, 10)
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
