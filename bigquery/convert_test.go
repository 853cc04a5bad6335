package bigquery

import (
	"math/big"
	"reflect"
	"testing"
	"time"

	bq "cloud.google.com/go/bigquery"
)

func TestSchemaFields(t *testing.T) {
	schema := bq.Schema{
		{Name: "id", Type: bq.IntegerFieldType, Required: true},
		{Name: "name", Type: bq.StringFieldType, Description: "display name"},
		{Name: "tags", Type: bq.StringFieldType, Repeated: true},
	}

	got := schemaFields(schema)
	want := []SchemaField{
		{Name: "id", Type: "INTEGER", Mode: "REQUIRED"},
		{Name: "name", Type: "STRING", Mode: "NULLABLE", Description: "display name"},
		{Name: "tags", Type: "STRING", Mode: "REPEATED"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("schemaFields = %+v, want %+v", got, want)
	}
}

func TestRowValuesScalars(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	schema := bq.Schema{
		{Name: "id", Type: bq.IntegerFieldType},
		{Name: "name", Type: bq.StringFieldType},
		{Name: "score", Type: bq.FloatFieldType},
		{Name: "created", Type: bq.TimestampFieldType},
		{Name: "amount", Type: bq.NumericFieldType},
		{Name: "missing", Type: bq.StringFieldType},
	}
	row := []bq.Value{int64(42), "alice", 0.5, ts, big.NewRat(5, 2), nil}

	got := rowValues(schema, row)
	want := map[string]any{
		"id":      int64(42),
		"name":    "alice",
		"score":   0.5,
		"created": "2026-03-14T09:26:53Z",
		"amount":  "2.500000000",
		"missing": nil,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rowValues = %#v, want %#v", got, want)
	}
}

func TestRowValuesRepeated(t *testing.T) {
	schema := bq.Schema{{Name: "tags", Type: bq.StringFieldType, Repeated: true}}
	row := []bq.Value{[]bq.Value{"a", "b"}}

	got := rowValues(schema, row)
	want := map[string]any{"tags": []any{"a", "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rowValues = %#v, want %#v", got, want)
	}
}

func TestRowValuesNestedRecord(t *testing.T) {
	schema := bq.Schema{{
		Name: "address",
		Type: bq.RecordFieldType,
		Schema: bq.Schema{
			{Name: "city", Type: bq.StringFieldType},
			{Name: "zip", Type: bq.StringFieldType},
		},
	}}
	row := []bq.Value{[]bq.Value{"Berlin", "10115"}}

	got := rowValues(schema, row)
	want := map[string]any{
		"address": map[string]any{"city": "Berlin", "zip": "10115"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rowValues = %#v, want name-keyed record %#v", got, want)
	}
}

func TestRowValuesRepeatedRecord(t *testing.T) {
	schema := bq.Schema{{
		Name:     "contacts",
		Type:     bq.RecordFieldType,
		Repeated: true,
		Schema: bq.Schema{
			{Name: "kind", Type: bq.StringFieldType},
			{Name: "value", Type: bq.StringFieldType},
		},
	}}
	row := []bq.Value{[]bq.Value{
		[]bq.Value{"email", "a@example.com"},
		[]bq.Value{"phone", "555-0100"},
	}}

	got := rowValues(schema, row)
	want := map[string]any{
		"contacts": []any{
			map[string]any{"kind": "email", "value": "a@example.com"},
			map[string]any{"kind": "phone", "value": "555-0100"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rowValues = %#v, want %#v", got, want)
	}
}

func TestRowValuesShortRow(t *testing.T) {
	schema := bq.Schema{
		{Name: "a", Type: bq.StringFieldType},
		{Name: "b", Type: bq.StringFieldType},
	}
	got := rowValues(schema, []bq.Value{"only"})
	if len(got) != 1 || got["a"] != "only" {
		t.Errorf("rowValues = %#v, want just column a", got)
	}
}

func TestFormatTime(t *testing.T) {
	if got := formatTime(time.Time{}); got != "" {
		t.Errorf("formatTime(zero) = %q, want empty", got)
	}
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := formatTime(ts); got != "2026-01-02T03:04:05Z" {
		t.Errorf("formatTime = %q, want 2026-01-02T03:04:05Z", got)
	}
}
