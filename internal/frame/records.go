package frame

import (
	"fmt"
	"sort"
)

// FromRecords builds a frame from column-name keyed maps, inferring the
// schema from the first record: strings map to text, numbers to double
// (JSON numbers decode as float64), bools to boolean. Column order is the
// first record's keys sorted. Keys missing from later records become NULLs;
// unknown keys are an error.
func FromRecords(records []map[string]any) (*Frame, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("cannot infer schema from zero records")
	}

	names := make([]string, 0, len(records[0]))
	for name := range records[0] {
		names = append(names, name)
	}
	sort.Strings(names)

	schema := make(Schema, len(names))
	for i, name := range names {
		t, err := inferType(records[0][name])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		schema[i] = Field{Name: name, Type: t}
	}

	f, err := New(schema)
	if err != nil {
		return nil, err
	}
	index := make(map[string]bool, len(names))
	for _, name := range names {
		index[name] = true
	}

	for i, rec := range records {
		for key := range rec {
			if !index[key] {
				return nil, fmt.Errorf("record %d has unknown column %q", i, key)
			}
		}
		row := make([]any, len(names))
		for j, name := range names {
			row[j] = rec[name]
		}
		if err := f.Append(row...); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func inferType(v any) (Type, error) {
	switch v.(type) {
	case string:
		return Text, nil
	case float64, float32:
		return Double, nil
	case int, int32, int64:
		return Bigint, nil
	case bool:
		return Boolean, nil
	case nil:
		return "", fmt.Errorf("cannot infer type from null value")
	default:
		return "", fmt.Errorf("cannot infer type from value of type %T", v)
	}
}
