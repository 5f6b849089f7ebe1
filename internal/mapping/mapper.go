package mapping

import (
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/roach88/allfiledmap/internal/dictionary"
	"github.com/roach88/allfiledmap/internal/xri"
)

// Conversion names, used in errors, logs and metrics.
const (
	OpCategory          = "category"
	OpFile              = "file"
	OpField             = "field"
	OpVendorToCanonical = "vendor_to_canonical"
	OpCanonicalToVendor = "canonical_to_vendor"
)

// tripleArity is the number of arcs in a vendor triple.
const tripleArity = 3

// Mapper converts identifiers using a dictionary index.
type Mapper struct {
	index   *dictionary.Index
	logger  *slog.Logger
	metrics *metrics
}

// Option configures a Mapper.
type Option func(*options)

type options struct {
	logger *slog.Logger
	meter  metric.Meter
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMeterProvider records conversion counts through mp.
// Without it the mapper uses a no-op meter.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meter = mp.Meter(MeterName)
		}
	}
}

// New returns a mapper over ix.
func New(ix *dictionary.Index, opts ...Option) (*Mapper, error) {
	if ix == nil {
		return nil, errors.New("mapping: index is nil")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	m, err := newMetrics(o.meter)
	if err != nil {
		return nil, err
	}

	return &Mapper{index: ix, logger: o.logger, metrics: m}, nil
}

// NewDefault returns a mapper over the bundled dictionary.
func NewDefault(opts ...Option) (*Mapper, error) {
	ix, err := dictionary.Default()
	if err != nil {
		return nil, err
	}
	return New(ix, opts...)
}

// Index returns the dictionary the mapper reads.
func (m *Mapper) Index() *dictionary.Index {
	return m.index
}

// WithIndex returns a copy of m reading ix instead. m is unchanged.
func (m *Mapper) WithIndex(ix *dictionary.Index) (*Mapper, error) {
	if ix == nil {
		return nil, errors.New("mapping: index is nil")
	}
	cp := *m
	cp.index = ix
	return &cp, nil
}

// Triple holds the native names of a vendor identifier's three arcs.
type Triple struct {
	Category string `json:"category"`
	File     string `json:"file"`
	Field    string `json:"field"`
}

// CategoryIdentifier returns the native category of a vendor triple.
// Example: +(personal)+(person)$!(+(forename)) → personal
func (m *Mapper) CategoryIdentifier(vendor xri.Identifier) (string, error) {
	return m.tripleArc(OpCategory, vendor, 0)
}

// FileIdentifier returns the native file of a vendor triple.
// Example: +(personal)+(person)$!(+(forename)) → person
func (m *Mapper) FileIdentifier(vendor xri.Identifier) (string, error) {
	return m.tripleArc(OpFile, vendor, 1)
}

// FieldIdentifier returns the native field of a vendor triple.
// Example: +(personal)+(person)$!(+(forename)) → forename
func (m *Mapper) FieldIdentifier(vendor xri.Identifier) (string, error) {
	return m.tripleArc(OpField, vendor, 2)
}

// Triple returns all three native names of a vendor triple.
func (m *Mapper) Triple(vendor xri.Identifier) (Triple, error) {
	var t Triple
	var err error
	if t.Category, err = m.CategoryIdentifier(vendor); err != nil {
		return Triple{}, err
	}
	if t.File, err = m.FileIdentifier(vendor); err != nil {
		return Triple{}, err
	}
	if t.Field, err = m.FieldIdentifier(vendor); err != nil {
		return Triple{}, err
	}
	return t, nil
}

func (m *Mapper) tripleArc(op string, vendor xri.Identifier, pos int) (string, error) {
	if vendor.Len() != tripleArity {
		return "", m.fail(invalidArgument(op, vendor.String(),
			fmt.Sprintf("vendor identifier must have %d arcs, found %d", tripleArity, vendor.Len())))
	}

	a, err := vendor.At(pos)
	if err != nil {
		return "", m.fail(invalidArgument(op, vendor.String(), err.Error()))
	}
	name := m.index.NativeIdentifier(xri.BaseForm(a))

	m.logger.Debug("converted identifier", "op", op, "from", vendor.String(), "to", name)
	m.metrics.record(op, OutcomeMapped)
	return name, nil
}

// VendorToCanonical maps a vendor identifier to its canonical identifier.
// Example: +(personal)+(person)$!(+(forename)) → +first$!(+name)
//
// ok is false when the vendor path is not in the dictionary, or when it is
// but its canonical walk never leaves the vendor namespace. Intermediate
// vendor prefixes such as +(personal)$!(+(person)) therefore never map.
func (m *Mapper) VendorToCanonical(vendor xri.Identifier) (result xri.Identifier, ok bool, err error) {
	const op = OpVendorToCanonical
	if vendor.IsZero() {
		return xri.Identifier{}, false, m.fail(invalidArgument(op, "", "identifier is empty"))
	}

	path, err := xri.NewBuilder().
		AppendIdentifier(m.index.NamespacePath()).
		Append(m.dictionaryArcs(vendor)...).
		Build()
	if err != nil {
		return xri.Identifier{}, false, m.fail(invalidArgument(op, vendor.String(), err.Error()))
	}

	node, found := m.index.FindNode(path)
	if !found {
		return m.noMapping(op, vendor)
	}

	canonical, err := m.index.CanonicalOf(node)
	if err != nil {
		return xri.Identifier{}, false, m.fail(configuration(op, vendor.String(), err))
	}
	if m.index.InNamespace(canonical) {
		return m.noMapping(op, vendor)
	}

	result, err = m.render(canonical.Path().Arcs())
	if err != nil {
		return xri.Identifier{}, false, m.fail(configuration(op, vendor.String(), err))
	}

	m.mapped(op, vendor, result)
	return result, true, nil
}

// CanonicalToVendor maps a canonical identifier to the first vendor
// identifier declared equivalent to it.
// Example: +first$!(+name) → +(personal)+(person)$!(+(forename))
//
// ok is false when the canonical path is not in the dictionary or has no
// declared vendor equivalent.
func (m *Mapper) CanonicalToVendor(canonical xri.Identifier) (result xri.Identifier, ok bool, err error) {
	const op = OpCanonicalToVendor
	if canonical.IsZero() {
		return xri.Identifier{}, false, m.fail(invalidArgument(op, "", "identifier is empty"))
	}

	path, err := xri.NewBuilder().Append(m.dictionaryArcs(canonical)...).Build()
	if err != nil {
		return xri.Identifier{}, false, m.fail(invalidArgument(op, canonical.String(), err.Error()))
	}

	node, found := m.index.FindNode(path)
	if !found {
		return m.noMapping(op, canonical)
	}

	vendorNode, err := m.index.FirstEquivalentOf(node)
	if errors.Is(err, dictionary.ErrNoEquivalence) {
		return m.noMapping(op, canonical)
	}
	if err != nil {
		return xri.Identifier{}, false, m.fail(configuration(op, canonical.String(), err))
	}

	// The first arc is the namespace root marker, not vendor data.
	data, err := vendorNode.Path().Slice(1)
	if err != nil {
		return xri.Identifier{}, false, m.fail(configuration(op, canonical.String(), err))
	}

	result, err = m.render(data.Arcs())
	if err != nil {
		return xri.Identifier{}, false, m.fail(configuration(op, canonical.String(), err))
	}

	m.mapped(op, canonical, result)
	return result, true, nil
}

// dictionaryArcs reduces every arc to base form and translates it.
func (m *Mapper) dictionaryArcs(id xri.Identifier) []xri.Arc {
	arcs := id.Arcs()
	for i, a := range arcs {
		arcs[i] = m.index.NativeToDictionary(xri.BaseForm(a))
	}
	return arcs
}

// render translates dictionary arcs back to instance form and applies the
// positional decoration rule.
func (m *Mapper) render(dictArcs []xri.Arc) (xri.Identifier, error) {
	arcs := make([]xri.Arc, len(dictArcs))
	for i, a := range dictArcs {
		arcs[i] = m.index.DictionaryToNative(a)
	}
	return xri.Positional(arcs)
}

func (m *Mapper) mapped(op string, from, to xri.Identifier) {
	m.logger.Debug("mapped and converted identifier", "op", op, "from", from.String(), "to", to.String())
	m.metrics.record(op, OutcomeMapped)
}

func (m *Mapper) noMapping(op string, from xri.Identifier) (xri.Identifier, bool, error) {
	m.logger.Debug("no mapping", "op", op, "from", from.String())
	m.metrics.record(op, OutcomeNoMapping)
	return xri.Identifier{}, false, nil
}

func (m *Mapper) fail(err *Error) error {
	if err.Code == ErrCodeConfiguration {
		m.logger.Error("conversion failed", "op", err.Op, "input", err.Input, "error", err)
	} else {
		m.logger.Debug("conversion rejected", "op", err.Op, "input", err.Input, "error", err)
	}
	m.metrics.record(err.Op, OutcomeError)
	return err
}
