package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/mudder/internal/compiler"
	"github.com/roach88/mudder/internal/ir"
	"github.com/roach88/mudder/internal/ranking"
	"github.com/roach88/mudder/internal/store"
	"github.com/roach88/mudder/internal/testutil"
	"github.com/roach88/mudder/pkg/mudder"
)

// Harness is the test execution engine.
// It runs scenarios with a zero-based seq clock and queued item IDs.
type Harness struct {
	store  *store.Store
	svc    *ranking.Service
	table  *mudder.SymbolTable
	spec   *ir.AlphabetSpec
	ids    *testutil.QueuedIDGenerator
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Resolve the scenario's alphabet
// 3. Execute steps, checking each expect clause against the real outcome
// 4. Evaluate assertions
// 5. Return result with pass/fail, trace, and errors
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	spec, table, err := resolveAlphabet(scenario)
	if err != nil {
		return nil, err
	}

	ids := testutil.NewQueuedIDGenerator("item")
	svc, err := ranking.New(ctx, st, ranking.WithClock(ranking.NewClockAt(0)), ranking.WithIDGenerator(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to create ranking service: %w", err)
	}

	h := &Harness{
		store:  st,
		svc:    svc,
		table:  table,
		spec:   spec,
		ids:    ids,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h.executeStep(ctx, i, step, result)
	}

	actx := &AssertionContext{
		Store:   st,
		Service: svc,
		Ctx:     ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// RunAll executes scenarios concurrently, at most limit at a time (no limit
// if limit <= 0). Results are returned in input order. The first execution
// error cancels the remaining scenarios; assertion failures do not.
func RunAll(ctx context.Context, scenarios []*Scenario, limit int) ([]*Result, error) {
	results := make([]*Result, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, sc := range scenarios {
		g.Go(func() error {
			r, err := RunContext(ctx, sc)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// resolveAlphabet compiles the named alphabet from the scenario's CUE files,
// falling back to the builtin presets.
func resolveAlphabet(scenario *Scenario) (*ir.AlphabetSpec, *mudder.SymbolTable, error) {
	cctx := cuecontext.New()
	path := cue.MakePath(cue.Str("alphabet"), cue.Str(scenario.Alphabet))

	for _, file := range scenario.Specs {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("read spec %s: %w", file, err)
		}
		v := cctx.CompileBytes(data, cue.Filename(file))
		if err := v.Err(); err != nil {
			return nil, nil, fmt.Errorf("compile spec %s: %w", file, err)
		}

		av := v.LookupPath(path)
		if !av.Exists() {
			continue
		}
		spec, err := compiler.CompileAlphabet(av)
		if err != nil {
			return nil, nil, err
		}
		if verrs := compiler.Validate(spec); len(verrs) > 0 {
			return nil, nil, fmt.Errorf("alphabet %s: %w", scenario.Alphabet, verrs[0])
		}
		table, err := compiler.Build(spec)
		if err != nil {
			return nil, nil, err
		}
		return spec, table, nil
	}

	spec, table, ok := compiler.Builtin(scenario.Alphabet)
	if !ok {
		return nil, nil, fmt.Errorf("unknown alphabet %q", scenario.Alphabet)
	}
	return &spec, table, nil
}

// executeStep runs one step, records it in the trace and checks its
// expect clause. Step failures are recorded, never returned.
func (h *Harness) executeStep(ctx context.Context, i int, st Step, result *Result) {
	event := TraceEvent{
		Step: i + 1,
		Op:   st.Op,
		Args: stepArgs(st),
	}

	var err error
	switch st.Op {
	case OpMudder:
		event.Keys, err = h.table.Mudder(st.A, st.B, mudder.Options{
			NumStrings:   st.N,
			NumDivisions: st.Divisions,
			PlacesToKeep: st.Places,
			Base:         st.Base,
		})

	case OpCreateList:
		listID := "list-" + st.List
		h.ids.Queue(listID)
		_, err = h.svc.CreateList(ctx, st.List, *h.spec)
		// An existing list or a failure leaves the ID unconsumed.
		h.ids.Unqueue(listID)

	case OpAppend, OpPrepend, OpInsertAfter, OpInsertBefore:
		if st.ID != "" {
			h.ids.Queue(st.ID)
		}
		var item ir.Item
		switch st.Op {
		case OpAppend:
			item, err = h.svc.Append(ctx, st.List, st.Value)
		case OpPrepend:
			item, err = h.svc.Prepend(ctx, st.List, st.Value)
		case OpInsertAfter:
			item, err = h.svc.InsertAfter(ctx, st.List, st.After, st.Value)
		case OpInsertBefore:
			item, err = h.svc.InsertBefore(ctx, st.List, st.Before, st.Value)
		}
		if st.ID != "" {
			h.ids.Unqueue(st.ID)
		}
		if err == nil {
			event.Item = item.ID
			event.Keys = []string{item.Key}
		}

	case OpMove:
		var item ir.Item
		item, err = h.svc.Move(ctx, st.List, st.Item, st.After)
		if err == nil {
			event.Item = item.ID
			event.Keys = []string{item.Key}
		}

	case OpRemove:
		err = h.svc.Remove(ctx, st.List, st.Item)
		event.Item = st.Item

	case OpRebalance:
		var items []ir.Item
		items, err = h.svc.Rebalance(ctx, st.List)
		for _, item := range items {
			event.Keys = append(event.Keys, item.Key)
		}
	}

	if err != nil {
		event.Error = errorCode(err)
	}
	result.AddTrace(event)

	h.checkExpect(i, st, event, err, result)

	h.logger.Info("step completed",
		"step", i,
		"op", st.Op,
		"keys", event.Keys,
		"error", event.Error,
	)
}

// checkExpect compares a step's real outcome with its expect clause.
func (h *Harness) checkExpect(i int, st Step, event TraceEvent, err error, result *Result) {
	exp := st.Expect
	if exp != nil && exp.Error != "" {
		switch {
		case err == nil:
			result.AddError(fmt.Sprintf("step %d (%s): expected error %s, got success", i+1, st.Op, exp.Error))
		case event.Error != exp.Error:
			result.AddError(fmt.Sprintf("step %d (%s): expected error %s, got %s: %v", i+1, st.Op, exp.Error, event.Error, err))
		}
		return
	}

	if err != nil {
		result.AddError(fmt.Sprintf("step %d (%s): unexpected error: %v", i+1, st.Op, err))
		return
	}
	if exp == nil {
		return
	}

	if exp.Keys != nil && !slices.Equal(exp.Keys, event.Keys) {
		result.AddError(fmt.Sprintf("step %d (%s): expected keys %q, got %q", i+1, st.Op, exp.Keys, event.Keys))
	}
	if exp.Key != "" && (len(event.Keys) != 1 || event.Keys[0] != exp.Key) {
		result.AddError(fmt.Sprintf("step %d (%s): expected key %q, got %q", i+1, st.Op, exp.Key, event.Keys))
	}
}

// stepArgs lists a step's non-empty inputs for the trace.
func stepArgs(st Step) map[string]any {
	args := map[string]any{}
	for k, v := range map[string]string{
		"a": st.A, "b": st.B, "list": st.List, "id": st.ID, "value": st.Value,
		"item": st.Item, "after": st.After, "before": st.Before,
	} {
		if v != "" {
			args[k] = v
		}
	}
	for k, v := range map[string]int{
		"n": st.N, "divisions": st.Divisions, "places": st.Places, "base": st.Base,
	} {
		if v != 0 {
			args[k] = v
		}
	}
	if len(args) == 0 {
		return nil
	}
	return args
}

// errorCode classifies a step error by its typed code.
func errorCode(err error) string {
	var me *mudder.Error
	if errors.As(err, &me) {
		return string(me.Code)
	}
	var re *ranking.RankError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	return "ERROR"
}
