package otelx

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestConvertToAttribute(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  attribute.KeyValue
	}{
		{name: "string", value: "hello", want: attribute.String("k", "hello")},
		{name: "bool", value: true, want: attribute.Bool("k", true)},
		{name: "int", value: 42, want: attribute.Int("k", 42)},
		{name: "int64", value: int64(42), want: attribute.Int64("k", 42)},
		{name: "float64", value: 4.2, want: attribute.Float64("k", 4.2)},
		{name: "uuid", value: id, want: attribute.String("k", id.String())},
		{name: "time", value: now, want: attribute.String("k", "2025-06-01T12:00:00Z")},
		{name: "nil", value: nil, want: attribute.String("k", "<nil>")},
		{name: "string slice", value: []string{"a", "b"}, want: attribute.StringSlice("k", []string{"a", "b"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, convertToAttribute("k", tt.value))
		})
	}
}
