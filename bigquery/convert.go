package bigquery

import (
	"math/big"
	"time"

	bq "cloud.google.com/go/bigquery"
)

// numericScale is BigQuery's NUMERIC decimal scale.
const numericScale = 9

// schemaFields shapes an SDK schema into the tool contract form.
func schemaFields(schema bq.Schema) []SchemaField {
	fields := make([]SchemaField, 0, len(schema))
	for _, f := range schema {
		fields = append(fields, SchemaField{
			Name:        f.Name,
			Type:        string(f.Type),
			Mode:        fieldMode(f),
			Description: f.Description,
		})
	}
	return fields
}

// fieldMode derives the REST-style mode string the SDK splits into flags.
func fieldMode(f *bq.FieldSchema) string {
	switch {
	case f.Repeated:
		return "REPEATED"
	case f.Required:
		return "REQUIRED"
	default:
		return "NULLABLE"
	}
}

// rowValues converts one result row into plain JSON-friendly values, keyed
// by column name.
func rowValues(schema bq.Schema, row []bq.Value) map[string]any {
	out := make(map[string]any, len(schema))
	for i, f := range schema {
		if i >= len(row) {
			break
		}
		out[f.Name] = convertValue(f, row[i])
	}
	return out
}

// convertValue normalizes SDK value types for JSON serialization.
// Timestamps become RFC3339 strings, NUMERIC becomes a decimal string,
// nested and repeated fields recurse.
func convertValue(f *bq.FieldSchema, v bq.Value) any {
	switch value := v.(type) {
	case nil:
		return nil
	case time.Time:
		return value.Format(time.RFC3339Nano)
	case *big.Rat:
		return value.FloatString(numericScale)
	case []bq.Value:
		// A non-repeated STRUCT arrives as positional values; key them by
		// the sub-schema so callers see name-keyed objects, not arrays.
		if f.Type == bq.RecordFieldType && !f.Repeated {
			return recordSlice(f.Schema, value)
		}
		items := make([]any, 0, len(value))
		for _, item := range value {
			items = append(items, convertScalar(f, item))
		}
		return items
	case map[string]bq.Value:
		return recordValues(f.Schema, value)
	default:
		return value
	}
}

// convertScalar converts one element of a repeated field.
func convertScalar(f *bq.FieldSchema, v bq.Value) any {
	switch value := v.(type) {
	case time.Time:
		return value.Format(time.RFC3339Nano)
	case *big.Rat:
		return value.FloatString(numericScale)
	case map[string]bq.Value:
		return recordValues(f.Schema, value)
	case []bq.Value:
		return recordSlice(f.Schema, value)
	default:
		return value
	}
}

// recordSlice converts a STRUCT materialized as positional values.
func recordSlice(schema bq.Schema, values []bq.Value) map[string]any {
	out := make(map[string]any, len(schema))
	for i, sub := range schema {
		if i >= len(values) {
			break
		}
		out[sub.Name] = convertValue(sub, values[i])
	}
	return out
}

// recordValues converts a STRUCT materialized as a name-keyed map.
func recordValues(schema bq.Schema, values map[string]bq.Value) map[string]any {
	out := make(map[string]any, len(values))
	for _, sub := range schema {
		if v, ok := values[sub.Name]; ok {
			out[sub.Name] = convertValue(sub, v)
		}
	}
	return out
}

// formatTime renders a metadata timestamp, empty for the zero value.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
