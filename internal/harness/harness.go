package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/allfiledmap/internal/compiler"
	"github.com/roach88/allfiledmap/internal/dictionary"
	"github.com/roach88/allfiledmap/internal/mapping"
	"github.com/roach88/allfiledmap/internal/store"
	"github.com/roach88/allfiledmap/internal/xri"
)

// Error codes recorded in the trace besides mapping.ErrorCode values.
const (
	CodeParseError        = "PARSE_ERROR"
	CodeRoundTripMismatch = "ROUND_TRIP_MISMATCH"
)

// Harness executes scenario steps against one mapper.
type Harness struct {
	mapper *mapping.Mapper
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation:
// 1. Compile the scenario's definition (or the bundled one)
// 2. Write it as a snapshot and read it back
// 3. Build the index from the stored snapshot
// 4. Execute the steps and compare each outcome with its expectation
//
// A returned error means the scenario could not run. Failed expectations
// are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	def, err := loadDefinition(scenario.Definition)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	written, _, err := st.WriteSnapshot(ctx, def)
	if err != nil {
		return nil, fmt.Errorf("failed to store definition: %w", err)
	}
	snap, err := st.ReadSnapshot(ctx, written.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	def, err = snap.Definition()
	if err != nil {
		return nil, err
	}

	ix, err := dictionary.Build(def)
	if err != nil {
		return nil, err
	}

	h, err := New(ix)
	if err != nil {
		return nil, err
	}
	return h.Run(scenario), nil
}

// New returns a harness mapping against ix. Mapper logs are discarded.
func New(ix *dictionary.Index) (*Harness, error) {
	m, err := mapping.New(ix, mapping.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		return nil, err
	}
	return &Harness{mapper: m}, nil
}

// Run executes every step of scenario. scenario.Definition is ignored.
func (h *Harness) Run(scenario *Scenario) *Result {
	result := NewResult()
	for i, step := range scenario.Steps {
		ev := h.execute(i, step)
		result.AddTrace(ev)
		if msg := check(step, ev); msg != "" {
			result.AddError(fmt.Sprintf("steps[%d] %s %s: %s", i, step.Op, step.Input, msg))
		}
	}
	return result
}

func loadDefinition(path string) (*compiler.Definition, error) {
	if path == "" {
		return compiler.CompileSource(dictionary.BundledFilename, dictionary.BundledSource())
	}
	return compiler.LoadFile(path)
}

func (h *Harness) execute(index int, step Step) TraceEvent {
	ev := TraceEvent{Step: index, Op: step.Op, Input: step.Input}

	id, err := xri.Parse(step.Input)
	if err != nil {
		return failed(ev, err)
	}

	switch step.Op {
	case OpVendorToCanonical:
		out, ok, err := h.mapper.VendorToCanonical(id)
		return mapped(ev, out, ok, err)

	case OpCanonicalToVendor:
		out, ok, err := h.mapper.CanonicalToVendor(id)
		return mapped(ev, out, ok, err)

	case OpCategory:
		return named(ev)(h.mapper.CategoryIdentifier(id))

	case OpFile:
		return named(ev)(h.mapper.FileIdentifier(id))

	case OpField:
		return named(ev)(h.mapper.FieldIdentifier(id))

	case OpRoundTrip:
		canonical, ok, err := h.mapper.VendorToCanonical(id)
		if err != nil || !ok {
			return mapped(ev, canonical, ok, err)
		}
		back, ok, err := h.mapper.CanonicalToVendor(canonical)
		if err != nil || !ok {
			return mapped(ev, back, ok, err)
		}
		ev = mapped(ev, canonical, true, nil)
		if !back.Equal(id) {
			ev.Outcome = OutcomeError
			ev.Error = CodeRoundTripMismatch
		}
		return ev
	}

	// Unreachable for validated scenarios.
	ev.Outcome = OutcomeError
	ev.Error = "UNKNOWN_OP"
	return ev
}

func mapped(ev TraceEvent, out xri.Identifier, ok bool, err error) TraceEvent {
	switch {
	case err != nil:
		return failed(ev, err)
	case !ok:
		ev.Outcome = OutcomeNoMapping
	default:
		ev.Outcome = OutcomeMapped
		ev.Output = out.String()
	}
	return ev
}

func named(ev TraceEvent) func(string, error) TraceEvent {
	return func(name string, err error) TraceEvent {
		if err != nil {
			return failed(ev, err)
		}
		ev.Outcome = OutcomeMapped
		ev.Output = name
		return ev
	}
}

func failed(ev TraceEvent, err error) TraceEvent {
	ev.Outcome = OutcomeError
	ev.Error = errorCode(err)
	return ev
}

// errorCode reduces err to a stable code for traces.
func errorCode(err error) string {
	var me *mapping.Error
	if errors.As(err, &me) {
		return string(me.Code)
	}
	var pe *xri.ParseError
	if errors.As(err, &pe) {
		return CodeParseError
	}
	var ce *dictionary.ConfigError
	if errors.As(err, &ce) {
		return string(ce.Code)
	}
	return "UNKNOWN"
}

// check compares an executed step with its expectation. Returns "" on match.
func check(step Step, ev TraceEvent) string {
	switch {
	case step.Error != "":
		if ev.Outcome != OutcomeError || ev.Error != step.Error {
			return fmt.Sprintf("expected error %s, got %s", step.Error, describe(ev))
		}
	case step.NoMapping:
		if ev.Outcome != OutcomeNoMapping {
			return fmt.Sprintf("expected no mapping, got %s", describe(ev))
		}
	default:
		if ev.Outcome != OutcomeMapped {
			return fmt.Sprintf("expected mapping, got %s", describe(ev))
		}
		if step.Expect != "" && ev.Output != step.Expect {
			return fmt.Sprintf("expected %s, got %s", step.Expect, ev.Output)
		}
	}
	return ""
}

func describe(ev TraceEvent) string {
	switch ev.Outcome {
	case OutcomeMapped:
		return ev.Output
	case OutcomeError:
		return "error " + ev.Error
	default:
		return ev.Outcome
	}
}
