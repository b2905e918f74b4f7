package circuit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON for hashing.
// This is the only serialization used for content-addressed identity.
//
// Differences from json.Marshal:
//  1. Object keys sorted by UTF-16 code units
//  2. No HTML escaping
//  3. Strings are NFC normalized
//  4. No floats and no null (returns error)
//
// Accepted values: string, int, int64, bool, []any, map[string]any.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		return writeCanonicalString(buf, val)
	case int:
		fmt.Fprintf(buf, "%d", val)
	case int64:
		fmt.Fprintf(buf, "%d", val)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareKeysRFC8785)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, k); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("value for key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
	case float64, float32:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// writeCanonicalString writes s NFC-normalized with only control characters,
// backslash and quote escaped. U+2028 and U+2029 stay literal.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	out := bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'})

	// encoding/json escapes U+2028/U+2029 for JavaScript; undo it while
	// stepping over escape pairs so an escaped backslash is never misread.
	for i := 0; i < len(out); i++ {
		if out[i] != '\\' || i+1 >= len(out) {
			buf.WriteByte(out[i])
			continue
		}
		if i+5 < len(out) && out[i+1] == 'u' && string(out[i+2:i+5]) == "202" && (out[i+5] == '8' || out[i+5] == '9') {
			if out[i+5] == '8' {
				buf.WriteString("\u2028")
			} else {
				buf.WriteString("\u2029")
			}
			i += 5
			continue
		}
		buf.Write(out[i : i+2])
		i++
	}
	return nil
}

// compareKeysRFC8785 orders keys by UTF-16 code units.
func compareKeysRFC8785(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// canonicalForm converts a circuit into canonical-JSON-safe values.
func canonicalForm(c Circuit) (map[string]any, error) {
	ops := make([]any, 0, len(c.Instructions))
	for i, inst := range c.Instructions {
		op, err := canonicalOp(inst)
		if err != nil {
			return nil, fmt.Errorf("ops[%d]: %w", i, err)
		}
		ops = append(ops, op)
	}
	return map[string]any{
		"name":   c.Name,
		"qubits": c.NumQubits,
		"clbits": c.NumClbits,
		"ops":    ops,
	}, nil
}

func canonicalOp(inst Instruction) (map[string]any, error) {
	switch v := Unwrap(inst).(type) {
	case Gate:
		if !v.Kind.Valid() {
			return nil, fmt.Errorf("unknown gate %s", v.Kind)
		}
		params := make([]any, len(v.Params))
		for i, p := range v.Params {
			params[i] = int64(math.Float64bits(p))
		}
		return map[string]any{
			"op":     OpGate,
			"gate":   v.Kind.String(),
			"qubits": intsToAny(v.Qubits),
			"params": params,
		}, nil
	case Measure:
		return map[string]any{"op": OpMeasure, "qubit": v.Qubit, "clbit": v.Clbit}, nil
	case Conditional:
		body := make([]any, 0, len(v.Body))
		for i, b := range v.Body {
			op, err := canonicalOp(b)
			if err != nil {
				return nil, fmt.Errorf("body[%d]: %w", i, err)
			}
			body = append(body, op)
		}
		return map[string]any{"op": OpIf, "clbit": v.Clbit, "value": v.Value, "body": body}, nil
	case Barrier:
		return map[string]any{"op": OpBarrier, "qubits": intsToAny(v.Qubits)}, nil
	case nil:
		return nil, fmt.Errorf("nil instruction")
	default:
		return nil, fmt.Errorf("unsupported instruction %T", inst)
	}
}

func intsToAny(xs []int) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
