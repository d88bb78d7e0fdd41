// Package decoder routes raw input bytes to the parser for one declared
// format and normalizes the result into the pivot value. The grammars
// themselves belong to the format libraries; this package is only the
// dispatch and normalization layer.
package decoder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"github.com/hjson/hjson-go/v4"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/dsconv/internal/errors"
	"github.com/mcncl/dsconv/internal/format"
	"github.com/mcncl/dsconv/internal/value"
)

// Func decodes one format into the pivot value.
type Func func(data []byte) (value.Value, error)

var table = map[format.Format]Func{
	format.CBOR:        decodeCBOR,
	format.Hjson:       decodeHjson,
	format.JSON:        decodeJSON,
	format.JSON5:       decodeJSON5,
	format.JSONC:       decodeJSONC,
	format.MessagePack: decodeMessagePack,
	format.TOML:        decodeTOML,
	format.YAML:        decodeYAML,
}

// Decode parses data as f and returns the pivot value.
func Decode(data []byte, f format.Format) (value.Value, error) {
	fn, ok := table[f]
	if !ok {
		return value.Value{}, errors.NewDecodeError(f.String(), "no decoder registered for format", nil)
	}
	return fn(data)
}

// textInput rejects bytes no text format can contain. Emptiness is a
// per-format question: an empty TOML document is a valid empty table and
// an empty YAML document is null, while the JSON family requires a value.
func textInput(data []byte, formatName string) error {
	if !utf8.Valid(data) {
		return errors.NewDecodeError(formatName, "input is not valid UTF-8", nil)
	}
	return nil
}

// requireValue rejects empty or whitespace-only input for formats that
// demand at least one value.
func requireValue(data []byte, formatName string) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.NewDecodeError(formatName, "input is empty", nil)
	}
	return nil
}

func decodeJSON(data []byte) (value.Value, error) {
	if err := textInput(data, "JSON"); err != nil {
		return value.Value{}, err
	}
	if err := requireValue(data, "JSON"); err != nil {
		return value.Value{}, err
	}
	v, err := jsonDocument(data)
	if err != nil {
		return value.Value{}, errors.NewDecodeError("JSON", err.Error(), err)
	}
	return v, nil
}

func decodeJSONC(data []byte) (value.Value, error) {
	if err := textInput(data, "JSONC"); err != nil {
		return value.Value{}, err
	}
	if err := requireValue(data, "JSONC"); err != nil {
		return value.Value{}, err
	}
	v, err := jsonDocument(jsonc.ToJSON(data))
	if err != nil {
		return value.Value{}, errors.NewDecodeError("JSONC", err.Error(), err)
	}
	return v, nil
}

// jsonDocument walks the standard library's token stream so that object
// key order survives into the pivot value.
func jsonDocument(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSONValue(dec)
	if err != nil {
		return value.Value{}, err
	}

	// Anything but whitespace after the first value is an error.
	if _, err := dec.Token(); err != io.EOF {
		return value.Value{}, fmt.Errorf("trailing data after first value")
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Value{}, err
	}
	return jsonValue(dec, tok)
}

func jsonValue(dec *json.Decoder, tok json.Token) (value.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var entries []value.Entry
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return value.Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return value.Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return value.Value{}, err
				}
				entries = append(entries, value.Entry{Key: value.NewString(key), Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return value.Value{}, err
			}
			return value.NewMap(entries...), nil
		case '[':
			var items []value.Value
			for dec.More() {
				item, err := readJSONValue(dec)
				if err != nil {
					return value.Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return value.Value{}, err
			}
			return value.NewArray(items...), nil
		}
		return value.Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
	case nil:
		return value.Null(), nil
	case bool:
		return value.NewBool(t), nil
	case string:
		return value.NewString(t), nil
	case json.Number:
		return numberValue(t)
	}
	return value.Value{}, fmt.Errorf("unexpected token %v", tok)
}

// numberValue keeps integers as integers; only values with a fractional
// or exponent part (or beyond 64-bit range) become floats.
func numberValue(n json.Number) (value.Value, error) {
	s := n.String()
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.NewInt(i), nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return value.NewUint(u), nil
	}
	f, err := n.Float64()
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid number %q", s)
	}
	return value.NewFloat(f), nil
}

func decodeJSON5(data []byte) (value.Value, error) {
	if err := textInput(data, "JSON5"); err != nil {
		return value.Value{}, err
	}
	if err := requireValue(data, "JSON5"); err != nil {
		return value.Value{}, err
	}
	var raw interface{}
	if err := json5.Unmarshal(data, &raw); err != nil {
		return value.Value{}, errors.NewDecodeError("JSON5", "invalid JSON5 input", err)
	}
	v, err := fromInterface(raw)
	if err != nil {
		return value.Value{}, errors.NewDecodeError("JSON5", err.Error(), err)
	}
	// The library reports every number as a float; give integral values
	// their integer identity back.
	return restoreIntegers(v), nil
}

func decodeHjson(data []byte) (value.Value, error) {
	if err := textInput(data, "Hjson"); err != nil {
		return value.Value{}, err
	}
	if err := requireValue(data, "Hjson"); err != nil {
		return value.Value{}, err
	}
	opts := hjson.DefaultDecoderOptions()
	opts.UseJSONNumber = true
	var raw interface{}
	if err := hjson.UnmarshalWithOptions(data, &raw, opts); err != nil {
		return value.Value{}, errors.NewDecodeError("Hjson", "invalid Hjson input", err)
	}
	v, err := fromInterface(raw)
	if err != nil {
		return value.Value{}, errors.NewDecodeError("Hjson", err.Error(), err)
	}
	return v, nil
}

func decodeYAML(data []byte) (value.Value, error) {
	if err := textInput(data, "YAML"); err != nil {
		return value.Value{}, err
	}
	// Only the first document of a multi-document stream is converted;
	// the rest of the stream is left unread.
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if err == io.EOF {
			// An empty stream is a null document.
			return value.Null(), nil
		}
		return value.Value{}, errors.NewDecodeError("YAML", "invalid YAML input", err)
	}
	v, err := yamlValue(&root)
	if err != nil {
		return value.Value{}, errors.NewDecodeError("YAML", err.Error(), err)
	}
	return v, nil
}

func yamlValue(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null(), nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.SequenceNode:
		items := make([]value.Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := yamlValue(c)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, item)
		}
		return value.NewArray(items...), nil
	case yaml.MappingNode:
		entries := make([]value.Entry, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, err := yamlValue(n.Content[i])
			if err != nil {
				return value.Value{}, err
			}
			val, err := yamlValue(n.Content[i+1])
			if err != nil {
				return value.Value{}, err
			}
			entries = append(entries, value.Entry{Key: key, Value: val})
		}
		return value.NewMap(entries...), nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return value.Value{}, fmt.Errorf("unexpected node kind %d at line %d", n.Kind, n.Line)
}

func yamlScalar(n *yaml.Node) (value.Value, error) {
	switch n.Tag {
	case "!!null":
		return value.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Value{}, err
		}
		return value.NewBool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.NewInt(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return value.Value{}, err
		}
		return value.NewUint(u), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.Value{}, err
		}
		return value.NewFloat(f), nil
	case "!!binary":
		var b []byte
		if err := n.Decode(&b); err != nil {
			return value.Value{}, err
		}
		return value.NewBytes(b), nil
	case "!!timestamp":
		// Kept as text; the pivot has no date type.
		return value.NewString(n.Value), nil
	default:
		return value.NewString(n.Value), nil
	}
}

func decodeTOML(data []byte) (value.Value, error) {
	if err := textInput(data, "TOML"); err != nil {
		return value.Value{}, err
	}
	var raw interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return value.Value{}, errors.NewDecodeError("TOML", "invalid TOML input", err)
	}
	v, err := fromInterface(raw)
	if err != nil {
		return value.Value{}, errors.NewDecodeError("TOML", err.Error(), err)
	}
	return v, nil
}

func decodeCBOR(data []byte) (value.Value, error) {
	if len(data) == 0 {
		return value.Value{}, errors.NewDecodeError("CBOR", "input is empty", nil)
	}
	var raw interface{}
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return value.Value{}, errors.NewDecodeError("CBOR", "invalid CBOR input", err)
	}
	v, err := fromInterface(raw)
	if err != nil {
		return value.Value{}, errors.NewDecodeError("CBOR", err.Error(), err)
	}
	return v, nil
}

func decodeMessagePack(data []byte) (value.Value, error) {
	if len(data) == 0 {
		return value.Value{}, errors.NewDecodeError("MessagePack", "input is empty", nil)
	}
	var raw interface{}
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return value.Value{}, errors.NewDecodeError("MessagePack", "invalid MessagePack input", err)
	}
	v, err := fromInterface(raw)
	if err != nil {
		return value.Value{}, errors.NewDecodeError("MessagePack", err.Error(), err)
	}
	return v, nil
}

// fromInterface normalizes whatever a format library hands back into the
// pivot value. Maps without source ordering are rendered in sorted key
// order so conversions stay deterministic.
func fromInterface(v interface{}) (value.Value, error) {
	switch t := v.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.NewBool(t), nil
	case string:
		return value.NewString(t), nil
	case []byte:
		return value.NewBytes(t), nil
	case json.Number:
		return numberValue(t)
	case int:
		return value.NewInt(int64(t)), nil
	case int8:
		return value.NewInt(int64(t)), nil
	case int16:
		return value.NewInt(int64(t)), nil
	case int32:
		return value.NewInt(int64(t)), nil
	case int64:
		return value.NewInt(t), nil
	case uint:
		return value.NewUint(uint64(t)), nil
	case uint8:
		return value.NewUint(uint64(t)), nil
	case uint16:
		return value.NewUint(uint64(t)), nil
	case uint32:
		return value.NewUint(uint64(t)), nil
	case uint64:
		return value.NewUint(t), nil
	case float32:
		return value.NewFloat(float64(t)), nil
	case float64:
		return value.NewFloat(t), nil
	case time.Time:
		return value.NewString(t.Format(time.RFC3339)), nil
	case toml.LocalDate:
		return value.NewString(t.String()), nil
	case toml.LocalTime:
		return value.NewString(t.String()), nil
	case toml.LocalDateTime:
		return value.NewString(t.String()), nil
	case []interface{}:
		items := make([]value.Value, 0, len(t))
		for _, item := range t {
			iv, err := fromInterface(item)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, iv)
		}
		return value.NewArray(items...), nil
	case *hjson.OrderedMap:
		entries := make([]value.Entry, 0, len(t.Keys))
		for _, k := range t.Keys {
			ev, err := fromInterface(t.Map[k])
			if err != nil {
				return value.Value{}, err
			}
			entries = append(entries, value.Entry{Key: value.NewString(k), Value: ev})
		}
		return value.NewMap(entries...), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]value.Entry, 0, len(keys))
		for _, k := range keys {
			ev, err := fromInterface(t[k])
			if err != nil {
				return value.Value{}, err
			}
			entries = append(entries, value.Entry{Key: value.NewString(k), Value: ev})
		}
		return value.NewMap(entries...), nil
	case map[interface{}]interface{}:
		type pair struct {
			order string
			key   value.Value
			val   value.Value
		}
		pairs := make([]pair, 0, len(t))
		for k, val := range t {
			kv, err := fromInterface(k)
			if err != nil {
				return value.Value{}, err
			}
			vv, err := fromInterface(val)
			if err != nil {
				return value.Value{}, err
			}
			pairs = append(pairs, pair{order: fmt.Sprintf("%v", k), key: kv, val: vv})
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].order < pairs[j].order })
		entries := make([]value.Entry, 0, len(pairs))
		for _, p := range pairs {
			entries = append(entries, value.Entry{Key: p.key, Value: p.val})
		}
		return value.NewMap(entries...), nil
	}
	return value.Value{}, fmt.Errorf("unsupported value of type %T", v)
}

// restoreIntegers rewrites floats with an exact integer value back into
// integers, recursively.
func restoreIntegers(v value.Value) value.Value {
	switch v.Kind {
	case value.KindFloat:
		f := v.Float
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return value.NewInt(int64(f))
		}
		return v
	case value.KindArray:
		for i := range v.Items {
			v.Items[i] = restoreIntegers(v.Items[i])
		}
		return v
	case value.KindMap:
		for i := range v.Entries {
			v.Entries[i].Value = restoreIntegers(v.Entries[i].Value)
		}
		return v
	default:
		return v
	}
}
