// Package encoder routes a pivot value to the serializer for one target
// format. Shapes the target cannot represent are hard errors, never
// silent coercions.
package encoder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/dsconv/internal/errors"
	"github.com/mcncl/dsconv/internal/format"
	"github.com/mcncl/dsconv/internal/value"
)

// Func encodes the pivot value into one format. The pretty flag is
// honored where the format defines a non-compact rendering (JSON, TOML)
// and ignored everywhere else.
type Func func(v value.Value, pretty bool) ([]byte, error)

var table = map[format.Format]Func{
	format.CBOR:        encodeCBOR,
	format.JSON:        encodeJSON,
	format.MessagePack: encodeMessagePack,
	format.TOML:        encodeTOML,
	format.YAML:        encodeYAML,
}

// Encode serializes v as f.
func Encode(v value.Value, f format.Format, pretty bool) ([]byte, error) {
	fn, ok := table[f]
	if !ok {
		return nil, errors.NewEncodeError(f.String(), "format is not output-capable", nil)
	}
	return fn(v, pretty)
}

func encodeJSON(v value.Value, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, errors.NewEncodeError("JSON", err.Error(), err)
	}
	out := buf.Bytes()
	if pretty {
		var indented bytes.Buffer
		if err := json.Indent(&indented, out, "", "  "); err != nil {
			return nil, errors.NewEncodeError("JSON", "failed to indent output", err)
		}
		out = indented.Bytes()
	}
	return append(out, '\n'), nil
}

// writeJSON assembles the document by hand so that map entries keep
// their pivot order; scalars go through encoding/json for escaping.
func writeJSON(buf *bytes.Buffer, v value.Value) error {
	switch v.Kind {
	case value.KindNull:
		buf.WriteString("null")
	case value.KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case value.KindInteger:
		if i, ok := v.Int64(); ok {
			buf.WriteString(strconv.FormatInt(i, 10))
		} else {
			u, _ := v.Uint64()
			buf.WriteString(strconv.FormatUint(u, 10))
		}
	case value.KindFloat:
		b, err := json.Marshal(v.Float)
		if err != nil {
			return fmt.Errorf("cannot encode %v as a JSON number", v.Float)
		}
		buf.Write(b)
	case value.KindString:
		b, err := json.Marshal(v.Str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case value.KindBytes:
		return fmt.Errorf("JSON cannot represent a byte string")
	case value.KindArray:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case value.KindMap:
		buf.WriteByte('{')
		for i, e := range v.Entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			if e.Key.Kind != value.KindString {
				return fmt.Errorf("JSON object keys must be strings, got %s", e.Key.Kind)
			}
			b, err := json.Marshal(e.Key.Str)
			if err != nil {
				return err
			}
			buf.Write(b)
			buf.WriteByte(':')
			if err := writeJSON(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode %s", v.Kind)
	}
	return nil
}

func encodeYAML(v value.Value, _ bool) ([]byte, error) {
	node, err := yamlNode(v)
	if err != nil {
		return nil, errors.NewEncodeError("YAML", err.Error(), err)
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return nil, errors.NewEncodeError("YAML", "failed to render YAML", err)
	}
	return out, nil
}

func yamlNode(v value.Value) (*yaml.Node, error) {
	n := &yaml.Node{}
	switch v.Kind {
	case value.KindNull:
		n.Kind = yaml.ScalarNode
		n.Tag = "!!null"
		n.Value = "null"
	case value.KindBool:
		if err := n.Encode(v.Bool); err != nil {
			return nil, err
		}
	case value.KindInteger:
		if i, ok := v.Int64(); ok {
			if err := n.Encode(i); err != nil {
				return nil, err
			}
		} else {
			u, _ := v.Uint64()
			if err := n.Encode(u); err != nil {
				return nil, err
			}
		}
	case value.KindFloat:
		n.Kind = yaml.ScalarNode
		n.Tag = "!!float"
		n.Value = yamlFloat(v.Float)
	case value.KindString:
		if err := n.Encode(v.Str); err != nil {
			return nil, err
		}
	case value.KindBytes:
		if err := n.Encode(v.Bytes); err != nil {
			return nil, err
		}
	case value.KindArray:
		n.Kind = yaml.SequenceNode
		n.Tag = "!!seq"
		for _, item := range v.Items {
			c, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
	case value.KindMap:
		n.Kind = yaml.MappingNode
		n.Tag = "!!map"
		for _, e := range v.Entries {
			k, err := yamlNode(e.Key)
			if err != nil {
				return nil, err
			}
			val, err := yamlNode(e.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, k, val)
		}
	default:
		return nil, fmt.Errorf("cannot encode %s", v.Kind)
	}
	return n, nil
}

// yamlFloat renders a float so that it reads back as a float: integral
// values gain a trailing .0 instead of an explicit tag.
func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func encodeTOML(v value.Value, pretty bool) ([]byte, error) {
	if v.Kind != value.KindMap {
		return nil, errors.NewEncodeError("TOML", fmt.Sprintf("TOML requires a table at the document root, got %s", v.Kind), nil)
	}
	raw, err := tomlInterface(v)
	if err != nil {
		return nil, errors.NewEncodeError("TOML", err.Error(), err)
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if pretty {
		enc.SetIndentTables(true)
		enc.SetIndentSymbol("  ")
		enc.SetArraysMultiline(true)
	}
	if err := enc.Encode(raw); err != nil {
		return nil, errors.NewEncodeError("TOML", "failed to render TOML", err)
	}
	return buf.Bytes(), nil
}

// tomlInterface converts the pivot into what the TOML library marshals,
// rejecting every shape TOML has no syntax for. Keys render in the
// library's deterministic sorted order.
func tomlInterface(v value.Value) (interface{}, error) {
	switch v.Kind {
	case value.KindNull:
		return nil, fmt.Errorf("TOML cannot represent null values")
	case value.KindBool:
		return v.Bool, nil
	case value.KindInteger:
		if i, ok := v.Int64(); ok {
			return i, nil
		}
		u, _ := v.Uint64()
		return u, nil
	case value.KindFloat:
		return v.Float, nil
	case value.KindString:
		return v.Str, nil
	case value.KindBytes:
		return nil, fmt.Errorf("TOML cannot represent byte strings")
	case value.KindArray:
		items := make([]interface{}, 0, len(v.Items))
		for _, item := range v.Items {
			raw, err := tomlInterface(item)
			if err != nil {
				return nil, err
			}
			items = append(items, raw)
		}
		return items, nil
	case value.KindMap:
		m := make(map[string]interface{}, len(v.Entries))
		for _, e := range v.Entries {
			if e.Key.Kind != value.KindString {
				return nil, fmt.Errorf("TOML keys must be strings, got %s", e.Key.Kind)
			}
			raw, err := tomlInterface(e.Value)
			if err != nil {
				return nil, err
			}
			m[e.Key.Str] = raw
		}
		return m, nil
	}
	return nil, fmt.Errorf("cannot encode %s", v.Kind)
}

func encodeCBOR(v value.Value, _ bool) ([]byte, error) {
	raw, err := binaryInterface(v, "CBOR")
	if err != nil {
		return nil, err
	}
	out, err := cbor.Marshal(raw)
	if err != nil {
		return nil, errors.NewEncodeError("CBOR", "failed to render CBOR", err)
	}
	return out, nil
}

func encodeMessagePack(v value.Value, _ bool) ([]byte, error) {
	raw, err := binaryInterface(v, "MessagePack")
	if err != nil {
		return nil, err
	}
	out, err := msgpack.Marshal(raw)
	if err != nil {
		return nil, errors.NewEncodeError("MessagePack", "failed to render MessagePack", err)
	}
	return out, nil
}

// binaryInterface converts the pivot for the binary codecs, which can
// hold every pivot shape except composite map keys.
func binaryInterface(v value.Value, formatName string) (interface{}, error) {
	switch v.Kind {
	case value.KindNull:
		return nil, nil
	case value.KindBool:
		return v.Bool, nil
	case value.KindInteger:
		if i, ok := v.Int64(); ok {
			return i, nil
		}
		u, _ := v.Uint64()
		return u, nil
	case value.KindFloat:
		return v.Float, nil
	case value.KindString:
		return v.Str, nil
	case value.KindBytes:
		return v.Bytes, nil
	case value.KindArray:
		items := make([]interface{}, 0, len(v.Items))
		for _, item := range v.Items {
			raw, err := binaryInterface(item, formatName)
			if err != nil {
				return nil, err
			}
			items = append(items, raw)
		}
		return items, nil
	case value.KindMap:
		if allStringKeys(v.Entries) {
			m := make(map[string]interface{}, len(v.Entries))
			for _, e := range v.Entries {
				raw, err := binaryInterface(e.Value, formatName)
				if err != nil {
					return nil, err
				}
				m[e.Key.Str] = raw
			}
			return m, nil
		}
		m := make(map[interface{}]interface{}, len(v.Entries))
		for _, e := range v.Entries {
			switch e.Key.Kind {
			case value.KindArray, value.KindMap, value.KindBytes:
				return nil, errors.NewEncodeError(formatName, fmt.Sprintf("unsupported map key of kind %s", e.Key.Kind), nil)
			}
			key, err := binaryInterface(e.Key, formatName)
			if err != nil {
				return nil, err
			}
			raw, err := binaryInterface(e.Value, formatName)
			if err != nil {
				return nil, err
			}
			m[key] = raw
		}
		return m, nil
	}
	return nil, errors.NewEncodeError(formatName, fmt.Sprintf("cannot encode %s", v.Kind), nil)
}

func allStringKeys(entries []value.Entry) bool {
	for _, e := range entries {
		if e.Key.Kind != value.KindString {
			return false
		}
	}
	return true
}
