package util

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		with  func(context.Context, string) context.Context
		from  func(context.Context) string
		value string
	}{
		{
			name:  "request id",
			with:  ContextWithRequestID,
			from:  RequestIDFromContext,
			value: "req-123",
		},
		{
			name:  "version",
			with:  ContextWithVersion,
			from:  VersionFromContext,
			value: "application/vnd.acme.v1",
		},
		{
			name:  "pattern",
			with:  ContextWithPattern,
			from:  PatternFromContext,
			value: "/widgets/:id",
		},
		{
			name:  "endpoint",
			with:  ContextWithEndpoint,
			from:  EndpointFromContext,
			value: "widgets_v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Empty(t, tt.from(context.Background()))

			ctx := tt.with(context.Background(), tt.value)
			assert.Equal(t, tt.value, tt.from(ctx))
		})
	}
}
