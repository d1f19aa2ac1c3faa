package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Reserved keys in the mapping form. Every other key names a slot.
const (
	keyType  = "type"
	keyValue = "value"
)

var errMissingType = errors.New("token has no type")

// UnmarshalJSON decodes {"type": "Heal", "target": {...}} keeping slot
// order. A bare string is a token without slots and a bare integer is a
// Number literal.
func (t *Token) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errMissingType
	}
	switch c := data[0]; {
	case c == '"':
		return json.Unmarshal(data, &t.Type)
	case c == '-' || (c >= '0' && c <= '9'):
		var v int
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("number literal: %w", err)
		}
		t.Type, t.Value = "Number", &v
		return nil
	case c != '{':
		return fmt.Errorf("token must be an object, string or integer, got %q", data)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		switch key {
		case keyType:
			if err := dec.Decode(&t.Type); err != nil {
				return fmt.Errorf("decode type: %w", err)
			}
		case keyValue:
			var v int
			if err := dec.Decode(&v); err != nil {
				return fmt.Errorf("decode value: %w", err)
			}
			t.Value = &v
		default:
			child := &Token{}
			if err := dec.Decode(child); err != nil {
				return fmt.Errorf("slot %q: %w", key, err)
			}
			t.Args = append(t.Args, Arg{Name: key, Token: child})
		}
	}
	if t.Type == "" {
		return errMissingType
	}
	return nil
}

// MarshalJSON writes the mapping form with slots in order.
func (t *Token) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	name, err := json.Marshal(t.Type)
	if err != nil {
		return nil, err
	}
	buf.Write(name)
	if t.Value != nil {
		buf.WriteString(`,"value":`)
		buf.WriteString(strconv.Itoa(*t.Value))
	}
	for _, a := range t.Args {
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		child, err := a.Token.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(child)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes the same shapes as UnmarshalJSON and records the
// position of every token.
func (t *Token) UnmarshalYAML(n *yaml.Node) error {
	t.Pos = Pos{Line: n.Line, Column: n.Column}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!int" {
			v, err := strconv.Atoi(n.Value)
			if err != nil {
				return fmt.Errorf("line %d: number literal: %w", n.Line, err)
			}
			t.Type, t.Value = "Number", &v
			return nil
		}
		t.Type = n.Value
		return nil
	case yaml.MappingNode:
	default:
		return fmt.Errorf("line %d: token must be a mapping or scalar", n.Line)
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		switch k.Value {
		case keyType:
			if v.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: type must be a scalar", v.Line)
			}
			t.Type = v.Value
		case keyValue:
			var x int
			if err := v.Decode(&x); err != nil {
				return fmt.Errorf("line %d: decode value: %w", v.Line, err)
			}
			t.Value = &x
		default:
			child := &Token{}
			if err := child.UnmarshalYAML(v); err != nil {
				return err
			}
			t.Args = append(t.Args, Arg{Name: k.Value, Token: child})
		}
	}
	if t.Type == "" {
		return fmt.Errorf("line %d: %w", n.Line, errMissingType)
	}
	return nil
}
