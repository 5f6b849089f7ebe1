package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/allfiledmap/internal/xri"
)

func TestNativeToDictionary(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+first", "+(+first)"},
		{"+(personal)", "+(+(personal))"},
		{"$!(+(forename))", "+(+(forename))"},
		{"$!(+name)", "+(+name)"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := xri.ParseArc(tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, NativeToDictionary(a).String())
		})
	}
}

func TestDictionaryToNative(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+(+first)", "+first"},
		{"+(+(personal))", "+(personal)"},
		{"+(https://allfiled.com/)", "+(https://allfiled.com/)"},
		{"+(personal)", "+(personal)"},
		{"+first", "+first"},
		{"=(+first)", "=(+first)"},
		{"$!(+(+first))", "$!(+(+first))"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := xri.ParseArc(tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, DictionaryToNative(a).String())
		})
	}
}

func TestTranslate_RoundTrip(t *testing.T) {
	for _, a := range []xri.Arc{xri.Name("first"), xri.Native("personal"), xri.Native("https://allfiled.com/")} {
		assert.Equal(t, a, DictionaryToNative(NativeToDictionary(a)))
	}
}

func TestNativeIdentifier(t *testing.T) {
	assert.Equal(t, "personal", NativeIdentifier(xri.Native("personal")))
	assert.Equal(t, "forename", NativeIdentifier(xri.AsAttributeSingleton(xri.Native("forename"))))
	assert.Equal(t, "first", NativeIdentifier(xri.Name("first")))
}
