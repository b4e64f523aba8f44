package converter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/nconklindev/sweeper/internal/types"
)

// jsonObject keeps object keys in document order.
type jsonObject struct {
	keys   []string
	values map[string]any
}

func (o *jsonObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalUnescaped(k)
		if err != nil {
			return nil, err
		}
		val, err := marshalUnescaped(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// readJSON turns an array of records, or a single record, into rows. Nested
// objects flatten into dotted column names.
func readJSON(data []byte) (*types.Table, string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	doc, err := decodeValue(dec)
	if err != nil {
		return nil, "", fmt.Errorf("%w: json: %v", ErrMalformedInput, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("%w: json: trailing data after document", ErrMalformedInput)
	}

	var records []*jsonObject
	switch v := doc.(type) {
	case *jsonObject:
		records = []*jsonObject{v}
	case []any:
		for i, item := range v {
			obj, ok := item.(*jsonObject)
			if !ok {
				return nil, "", fmt.Errorf("%w: json: record %d is not an object", ErrMalformedInput, i)
			}
			records = append(records, obj)
		}
	default:
		return nil, "", fmt.Errorf("%w: json: expected an object or an array of objects", ErrMalformedInput)
	}

	var columns []string
	index := make(map[string]int)
	flat := make([]map[string]types.Cell, len(records))
	for i, rec := range records {
		row := make(map[string]types.Cell)
		if err := flatten("", rec, row, func(name string) {
			if _, ok := index[name]; !ok {
				index[name] = len(columns)
				columns = append(columns, name)
			}
		}); err != nil {
			return nil, "", err
		}
		flat[i] = row
	}

	table := &types.Table{Columns: columns, Rows: make([][]types.Cell, len(flat))}
	for i, row := range flat {
		cells := make([]types.Cell, len(columns))
		for j, name := range columns {
			if c, ok := row[name]; ok {
				cells[j] = c
			} else {
				cells[j] = types.Null()
			}
		}
		table.Rows[i] = cells
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "    "); err != nil {
		return nil, "", fmt.Errorf("%w: json: %v", ErrMalformedInput, err)
	}

	return table, pretty.String(), nil
}

func flatten(prefix string, obj *jsonObject, row map[string]types.Cell, seen func(string)) error {
	for _, key := range obj.keys {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}

		switch v := obj.values[key].(type) {
		case *jsonObject:
			if err := flatten(name, v, row, seen); err != nil {
				return err
			}
			continue
		case nil:
			row[name] = types.Null()
		case json.Number:
			f, err := strconv.ParseFloat(v.String(), 64)
			if err != nil {
				return fmt.Errorf("%w: json: %s: %v", ErrMalformedInput, name, err)
			}
			row[name] = types.Number(f)
		case string:
			row[name] = types.String(v)
		case bool:
			row[name] = types.String(strconv.FormatBool(v))
		case []any:
			b, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("%w: json: %s: %v", ErrMalformedInput, name, err)
			}
			row[name] = types.String(string(b))
		}
		seen(name)
	}
	return nil
}

// decodeValue reads one JSON value, keeping object key order.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := &jsonObject{values: make(map[string]any)}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", kt)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			if _, dup := obj.values[key]; !dup {
				obj.keys = append(obj.keys, key)
			}
			obj.values[key] = val
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}

	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}
