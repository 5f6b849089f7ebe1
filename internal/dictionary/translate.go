package dictionary

import "github.com/roach88/allfiledmap/internal/xri"

// NativeToDictionary returns the dictionary arc for an instance arc:
// +first becomes +(+first) and +(personal) becomes +(+(personal)).
// Decoration is dropped first.
func NativeToDictionary(a xri.Arc) xri.Arc {
	return xri.Ref(xri.BaseForm(a))
}

// DictionaryToNative inverts NativeToDictionary. Arcs that are not in
// dictionary form, such as the namespace root, pass through unchanged.
func DictionaryToNative(a xri.Arc) xri.Arc {
	if a.Symbol != xri.SymbolClass || !a.XRef || a.Attribute {
		return a
	}
	inner, err := xri.ParseArc(a.Value)
	if err != nil {
		return a
	}
	return inner
}

// NativeIdentifier returns the vendor's own name for an instance arc:
// +(personal) is "personal" and +first is "first".
func NativeIdentifier(a xri.Arc) string {
	return xri.BaseForm(a).Value
}
