package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/allfiledmap/internal/xri"
)

func validDefinition() *Definition {
	return &Definition{
		Version:   "1",
		Namespace: xri.MustParse(DefaultNamespace),
		Equivalences: []Equivalence{
			{Vendor: xri.MustParse("+(personal)+(person)$!(+(forename))"), Canonical: xri.MustParse("+first$!(+name)")},
		},
	}
}

func codes(errs []ValidationError) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, Validate(validDefinition()))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definition)
		code   string
	}{
		{"empty version", func(d *Definition) { d.Version = "  " }, ErrVersionEmpty},
		{"namespace arity", func(d *Definition) { d.Namespace = xri.MustParse("+(a)+(b)") }, ErrNamespaceArity},
		{"no equivalences", func(d *Definition) { d.Equivalences = nil }, ErrNoEquivalences},
		{"vendor arity", func(d *Definition) {
			d.Equivalences[0].Vendor = xri.MustParse("+(personal)$!(+(forename))")
		}, ErrVendorArity},
		{"duplicate vendor", func(d *Definition) {
			d.Equivalences = append(d.Equivalences, Equivalence{
				Vendor:    xri.MustParse("+(personal)+(person)+(forename)"),
				Canonical: xri.MustParse("+given$!(+name)"),
			})
		}, ErrDuplicateVendor},
		{"duplicate rewrite", func(d *Definition) {
			d.Rewrites = []Rewrite{
				{From: xri.MustParse("+given$!(+name)"), To: xri.MustParse("+first$!(+name)")},
				{From: xri.MustParse("+given+name"), To: xri.MustParse("+last$!(+name)")},
			}
		}, ErrDuplicateRewrite},
		{"rewrite cycle", func(d *Definition) {
			d.Rewrites = []Rewrite{
				{From: xri.MustParse("+a"), To: xri.MustParse("+b")},
				{From: xri.MustParse("+b"), To: xri.MustParse("+a")},
			}
		}, ErrRewriteCycle},
		{"canonical in namespace", func(d *Definition) {
			d.Equivalences[0].Canonical = xri.MustParse("+(https://allfiled.com/)$!(+name)")
		}, ErrCanonicalNamespace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.mutate(def)

			errs := Validate(def)
			require.NotEmpty(t, errs)
			assert.Contains(t, codes(errs), tt.code)
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	def := validDefinition()
	def.Version = ""
	def.Equivalences[0].Vendor = xri.MustParse("+(personal)")

	errs := Validate(def)
	assert.ElementsMatch(t, []string{ErrVersionEmpty, ErrVendorArity}, codes(errs))
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Field: "version", Message: "required", Code: ErrVersionEmpty}
	assert.Equal(t, "[E201] version: required", e.Error())

	e.Line = 4
	assert.Equal(t, "[E201] line 4: version: required", e.Error())
}
