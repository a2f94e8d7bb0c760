package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"mysql-table-backup/internal/apperrors"
)

// Marshal serializes a sequence of records into the snapshot wire format: a
// JSON array of objects whose keys appear in record order. Timestamp values
// are encoded as fixed-format strings; any value outside the record's scalar
// union fails with an encoding error.
func Marshal(records []*Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, record := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeRecord(&buf, record); err != nil {
			return nil, err
		}
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Unmarshal is the inverse of Marshal. Decoded records preserve key order.
// No type coercion is attempted: decoded timestamp fields remain strings and
// must be re-parsed by consumers that need typed timestamps. Malformed input
// fails with a decoding error.
func Unmarshal(data []byte) ([]*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	records := []*Record{}
	for dec.More() {
		record, err := decodeRecord(dec)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}

	// Trailing garbage after the closing bracket is malformed input.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperrors.NewDecodingError("unexpected data after snapshot array", nil)
	}

	return records, nil
}

func encodeRecord(buf *bytes.Buffer, record *Record) error {
	buf.WriteByte('{')

	for i, key := range record.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyJSON, err := json.Marshal(key)
		if err != nil {
			return apperrors.NewEncodingError(fmt.Sprintf("failed to encode column name %q", key), err)
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')

		if err := encodeValue(buf, key, record.values[key]); err != nil {
			return err
		}
	}

	buf.WriteByte('}')
	return nil
}

func encodeValue(buf *bytes.Buffer, key string, value interface{}) error {
	switch v := value.(type) {
	case nil:
		buf.WriteString("null")
	case bool, int64, float64, string:
		encoded, err := json.Marshal(v)
		if err != nil {
			return apperrors.NewEncodingError(fmt.Sprintf("failed to encode value for column %q", key), err)
		}
		buf.Write(encoded)
	case time.Time:
		encoded, _ := json.Marshal(v.Format(TimeFormat))
		buf.Write(encoded)
	default:
		return apperrors.NewEncodingError(
			fmt.Sprintf("value of type %T for column %q has no defined encoding", value, key), nil).
			WithContext("column", key)
	}
	return nil
}

func decodeRecord(dec *json.Decoder) (*Record, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	record := NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, apperrors.NewDecodingError("failed to read column name", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, apperrors.NewDecodingError(fmt.Sprintf("expected column name, got %v", keyTok), nil)
		}

		value, err := decodeValue(dec, key)
		if err != nil {
			return nil, err
		}
		record.Set(key, value)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return record, nil
}

func decodeValue(dec *json.Decoder, key string) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, apperrors.NewDecodingError(fmt.Sprintf("failed to read value for column %q", key), err)
	}

	switch v := tok.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case string:
		return v, nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, apperrors.NewDecodingError(fmt.Sprintf("invalid number %q for column %q", v.String(), key), err)
		}
		return f, nil
	case json.Delim:
		return nil, apperrors.NewDecodingError(
			fmt.Sprintf("non-scalar value for column %q", key), nil)
	default:
		return nil, apperrors.NewDecodingError(fmt.Sprintf("unsupported value for column %q", key), nil)
	}
}

func expectDelim(dec *json.Decoder, delim json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return apperrors.NewDecodingError("malformed snapshot data", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != delim {
		return apperrors.NewDecodingError(fmt.Sprintf("expected %q, got %v", delim.String(), tok), nil)
	}
	return nil
}
