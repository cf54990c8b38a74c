package indexeddb

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// As converts a record returned by a Manager into T. Records stored by value
// convert with a type assertion. Records decoded from the host arrive as
// generic maps and are decoded field by field, honoring json tags.
func As[T any](record any) (T, error) {
	var out T
	if record == nil {
		return out, nil
	}
	if v, ok := record.(T); ok {
		return v, nil
	}
	if p, ok := record.(*T); ok && p != nil {
		return *p, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &out})
	if err != nil {
		return out, errors.Join(ErrTypeMismatch, err)
	}
	if err := dec.Decode(record); err != nil {
		var zero T
		return zero, errors.Join(ErrTypeMismatch, fmt.Errorf("cannot convert %T to %T: %w", record, zero, err))
	}
	return out, nil
}

// GetRecordByIndex is the typed form of Manager.GetRecordByIndex. The boolean
// reports whether a record matched.
func GetRecordByIndex[T any](m Manager, store, index string, value any) (T, bool, error) {
	var zero T
	rec, err := m.GetRecordByIndex(store, index, value)
	if err != nil || rec == nil {
		return zero, false, err
	}
	out, err := As[T](rec)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

// Where is the typed form of Manager.Where.
func Where[T any](m Manager, store, index string, value any) ([]T, error) {
	recs, err := m.Where(store, index, value)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := As[T](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// BulkAdd is the typed form of Manager.BulkAddRecord.
func BulkAdd[T any](m Manager, store string, records []T, done Callback) (uuid.UUID, error) {
	return m.BulkAddRecord(store, toAny(records), done)
}

// BulkAddWait is the typed form of Manager.BulkAddRecordWait.
func BulkAddWait[T any](m Manager, store string, records []T) (Event, error) {
	return m.BulkAddRecordWait(store, toAny(records))
}

func toAny[T any](records []T) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}
