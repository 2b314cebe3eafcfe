// Package codec centralizes encoding of the structured metadata record.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Indenter is implemented by codecs that can produce human-readable output.
type Indenter interface {
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MarshalPretty encodes v with two-space indentation when c supports it.
func MarshalPretty(c Codec, v any) ([]byte, error) {
	if c == nil {
		c = Default
	}
	if ic, ok := c.(Indenter); ok {
		return ic.MarshalIndent(v, "", "  ")
	}
	return c.Marshal(v)
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}
