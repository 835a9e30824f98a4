package join

import (
	"io"

	"github.com/querylabs/thetajoin/internal/errors"
	"github.com/querylabs/thetajoin/internal/plan"
	"github.com/querylabs/thetajoin/internal/rel"
)

// executorState tracks which phase the executor is in.
type executorState int

const (
	// stateBuild consumes the whole build-side input into the index.
	stateBuild executorState = iota
	// stateProbe streams the probe side, one row's matches at a time.
	stateProbe
	// stateEmitUnmatched walks the arena emitting never-matched build rows.
	stateEmitUnmatched
	// stateDone means the output sequence is exhausted or failed.
	stateDone
)

// Options tunes one execution without changing its result set.
type Options struct {
	// BuildRight builds the index on the logical right input instead of
	// the left. A pure execution-strategy choice: output shape, output
	// rows and residual argument order are unaffected.
	BuildRight bool
	// CapacityHint pre-sizes the build index.
	CapacityHint int
	// MaxBuildRows caps the build index. 0 means unlimited; exceeding a
	// positive cap fails the execution with ResourceExhausted.
	MaxBuildRows int64
}

// Stats counts what one execution did. Read after the output is drained.
type Stats struct {
	BuildRows int64 // rows materialized into the index
	ProbeRows int64 // rows streamed from the probe side
	Emitted   int64 // output rows, padded rows included
}

// Executor runs one theta hash join. It implements rel.Source; rows come
// out in probe order with late unmatched-build rows appended at the end.
// Any execution error is terminal: subsequent Next calls return the same
// error.
type Executor struct {
	spec  *plan.Spec
	opts  Options
	build rel.Source
	probe rel.Source

	buildIsLeft bool
	buildKeys   keyColumns
	probeKeys   keyColumns

	state   executorState
	index   *buildIndex
	pending []rel.Row // remaining outputs for the current probe row
	cursor  int       // next arena index for stateEmitUnmatched
	stats   Stats
	err     error
	closed  bool
}

// New wires an executor to two bound input sources. The spec's left/right
// designation is logical; opts.BuildRight only flips which source gets
// materialized.
func New(spec *plan.Spec, left, right rel.Source, opts Options) *Executor {
	buildShape, probeShape := spec.LeftShape, spec.RightShape
	buildOrds := make([]int, len(spec.Keys))
	probeOrds := make([]int, len(spec.Keys))
	for i, kp := range spec.Keys {
		buildOrds[i], probeOrds[i] = kp.Left, kp.Right
	}

	e := &Executor{spec: spec, opts: opts, build: left, probe: right, buildIsLeft: true}
	if opts.BuildRight {
		e.build, e.probe = right, left
		e.buildIsLeft = false
		buildShape, probeShape = spec.RightShape, spec.LeftShape
		buildOrds, probeOrds = probeOrds, buildOrds
	}
	e.buildKeys = sideKeyColumns(buildShape, buildOrds, spec.KeyTypes)
	e.probeKeys = sideKeyColumns(probeShape, probeOrds, spec.KeyTypes)
	return e
}

// Stats returns the execution counters accumulated so far.
func (e *Executor) Stats() Stats {
	return e.stats
}

// Next returns the next output row, io.EOF when the join is complete, or
// the terminal execution error.
func (e *Executor) Next() (rel.Row, error) {
	if e.err != nil {
		return nil, e.err
	}

	for {
		switch e.state {
		case stateBuild:
			if err := e.runBuild(); err != nil {
				return nil, e.fail(err)
			}
			e.state = stateProbe

		case stateProbe:
			if len(e.pending) > 0 {
				return e.pop(), nil
			}
			row, err := e.probe.Next()
			if err == io.EOF {
				e.state = stateEmitUnmatched
				continue
			}
			if err != nil {
				return nil, e.fail(err)
			}
			e.stats.ProbeRows++
			if err := e.probeOne(row); err != nil {
				return nil, e.fail(err)
			}

		case stateEmitUnmatched:
			if row, ok := e.nextUnmatched(); ok {
				e.stats.Emitted++
				return row, nil
			}
			e.state = stateDone

		default:
			return nil, io.EOF
		}
	}
}

// runBuild drains the build input into the index.
func (e *Executor) runBuild() error {
	e.index = newBuildIndex(e.opts.CapacityHint)
	for {
		row, err := e.build.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if e.opts.MaxBuildRows > 0 && int64(e.index.len()) >= e.opts.MaxBuildRows {
			return errors.NewResourceExhaustedError("Build", e.opts.MaxBuildRows)
		}

		key, ok, err := e.buildKeys.extract(row)
		if err != nil {
			return err
		}
		var hash uint64
		if ok {
			if hash, err = hashKey(key); err != nil {
				return errors.NewInternalError("Build", err)
			}
		} else {
			key = nil
		}
		e.index.add(row, key, hash)
		e.stats.BuildRows++
	}
}

// probeOne fills e.pending with every output row the probe row produces:
// each residual-passing match, or one null-padded row when the join type
// pads unmatched probe rows and nothing passed.
func (e *Executor) probeOne(probeRow rel.Row) error {
	key, ok, err := e.probeKeys.extract(probeRow)
	if err != nil {
		return err
	}

	matchedAny := false
	if ok {
		hash, err := hashKey(key)
		if err != nil {
			return errors.NewInternalError("Probe", err)
		}
		for _, idx := range e.index.lookup(key, hash) {
			buildRow := e.index.arena[idx]
			left, right := e.orient(buildRow, probeRow)
			pass, err := e.spec.Residual(left, right)
			if err != nil {
				return err
			}
			if !pass {
				continue
			}
			e.pending = append(e.pending, rel.Combine(left, right))
			e.index.markMatched(idx)
			matchedAny = true
		}
	}

	if !matchedAny && e.probePadded() {
		e.pending = append(e.pending, e.padProbe(probeRow))
	}
	return nil
}

// orient maps (buildRow, probeRow) back to the logical (left, right) pair
// the residual predicate and the output shape are defined over.
func (e *Executor) orient(buildRow, probeRow rel.Row) (left, right rel.Row) {
	if e.buildIsLeft {
		return buildRow, probeRow
	}
	return probeRow, buildRow
}

// probePadded reports whether unmatched probe rows are emitted null-padded.
func (e *Executor) probePadded() bool {
	if e.buildIsLeft {
		// Probe is the logical right side.
		return e.spec.Type.FillsLeftWithNulls()
	}
	return e.spec.Type.FillsRightWithNulls()
}

// buildPadded reports whether never-matched build rows are emitted.
func (e *Executor) buildPadded() bool {
	if e.buildIsLeft {
		return e.spec.Type.FillsRightWithNulls()
	}
	return e.spec.Type.FillsLeftWithNulls()
}

func (e *Executor) padProbe(probeRow rel.Row) rel.Row {
	if e.buildIsLeft {
		return rel.Combine(rel.NullRow(e.spec.LeftShape.Width()), probeRow)
	}
	return rel.Combine(probeRow, rel.NullRow(e.spec.RightShape.Width()))
}

func (e *Executor) padBuild(buildRow rel.Row) rel.Row {
	if e.buildIsLeft {
		return rel.Combine(buildRow, rel.NullRow(e.spec.RightShape.Width()))
	}
	return rel.Combine(rel.NullRow(e.spec.LeftShape.Width()), buildRow)
}

// nextUnmatched scans the arena for the next build row no probe row ever
// matched, in build insertion order.
func (e *Executor) nextUnmatched() (rel.Row, bool) {
	if !e.buildPadded() {
		return nil, false
	}
	for e.cursor < e.index.len() {
		idx := int32(e.cursor)
		e.cursor++
		if !e.index.isMatched(idx) {
			return e.padBuild(e.index.arena[idx]), true
		}
	}
	return nil, false
}

func (e *Executor) pop() rel.Row {
	row := e.pending[0]
	e.pending = e.pending[1:]
	e.stats.Emitted++
	return row
}

// fail records a terminal error; every later Next returns it.
func (e *Executor) fail(err error) error {
	e.err = err
	e.state = stateDone
	return err
}

// Close releases the build index and both inputs. Safe to call before the
// output is drained (abandoned iteration) and more than once.
func (e *Executor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.state = stateDone
	e.pending = nil
	if e.index != nil {
		e.index.release()
		e.index = nil
	}

	buildErr := e.build.Close()
	probeErr := e.probe.Close()
	if buildErr != nil {
		return buildErr
	}
	return probeErr
}
