package results

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const timestampLayout = "2006-01-02T15:04:05.999999999"

// Collect drains rows into RawRows with every value converted to something
// encoding/json writes without loss. rows is closed on return.
func Collect(rows pgx.Rows) ([]*RawRow, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	collected := []*RawRow{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := NewRawRow()
		for i, field := range fields {
			var value any
			if i < len(values) {
				value = values[i]
			}
			row.Set(field.Name, normalizeValue(field.DataTypeOID, value))
		}
		collected = append(collected, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return collected, nil
}

// normalizeValue maps driver values onto JSON-native ones. Timestamps and
// fixed-point numbers become strings.
func normalizeValue(oid uint32, v any) any {
	switch x := v.(type) {
	case nil, bool, string, int, int8, int16, int32, int64, uint8, uint16, uint32, uint64:
		return x
	case float32:
		return normalizeFloat(float64(x))
	case float64:
		return normalizeFloat(x)
	case time.Time:
		switch oid {
		case pgtype.DateOID:
			return x.Format(time.DateOnly)
		case pgtype.TimestampOID:
			return x.Format(timestampLayout)
		}
		return x.Format(time.RFC3339Nano)
	case [16]byte:
		return uuid.UUID(x).String()
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = normalizeValue(0, x[i])
		}
		return out
	case map[string]any:
		return x
	case driver.Valuer:
		value, err := x.Value()
		if err != nil {
			return fmt.Sprint(x)
		}
		if _, same := value.(driver.Valuer); same {
			return fmt.Sprint(value)
		}
		return normalizeValue(oid, value)
	case fmt.Stringer:
		return x.String()
	}
	if _, err := json.Marshal(v); err != nil {
		return fmt.Sprint(v)
	}
	return v
}

func normalizeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}

func column(raw *RawRow, name string) (any, error) {
	v, ok := raw.Get(name)
	if !ok {
		return nil, fmt.Errorf("result has no column %q", name)
	}
	return v, nil
}

func stringColumn(raw *RawRow, name string) (string, error) {
	v, err := column(raw, name)
	if err != nil || v == nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func nullableStringColumn(raw *RawRow, name string) (*string, error) {
	v, err := column(raw, name)
	if err != nil || v == nil {
		return nil, err
	}
	s := fmt.Sprint(v)
	return &s, nil
}

// decimalColumn keeps fixed-point values as text so no precision is lost.
func decimalColumn(raw *RawRow, name string) (string, error) {
	v, err := column(raw, name)
	if err != nil || v == nil {
		return "", err
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case int16, int32, int64, int:
		return fmt.Sprint(x), nil
	}
	return "", fmt.Errorf("column %q: unexpected %T for a decimal", name, v)
}

func int64Column(raw *RawRow, name string) (int64, error) {
	v, err := column(raw, name)
	if err != nil || v == nil {
		return 0, err
	}
	switch x := v.(type) {
	case int64:
		return x, nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int:
		return int64(x), nil
	case float64:
		return int64(x), nil
	case string:
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", name, err)
		}
		return int64(f), nil
	}
	return 0, fmt.Errorf("column %q: unexpected %T for an integer", name, v)
}

func float64Column(raw *RawRow, name string) (float64, error) {
	v, err := column(raw, name)
	if err != nil || v == nil {
		return 0, err
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", name, err)
		}
		return f, nil
	}
	return 0, fmt.Errorf("column %q: unexpected %T for a float", name, v)
}
