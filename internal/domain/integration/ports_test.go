package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityID(t *testing.T) {
	tests := []struct {
		name   string
		entity PlatformEntity
		want   string
	}{
		{
			name:   "nil entity",
			entity: nil,
			want:   "",
		},
		{
			name:   "top-level string id",
			entity: PlatformEntity{"id": "gid://shopify/Order/42"},
			want:   "gid://shopify/Order/42",
		},
		{
			name:   "top-level numeric id",
			entity: PlatformEntity{"id": float64(450789469)},
			want:   "450789469",
		},
		{
			name:   "json.Number id",
			entity: PlatformEntity{"id": json.Number("9007199254740993")},
			want:   "9007199254740993",
		},
		{
			name:   "nested under order key",
			entity: PlatformEntity{"order": map[string]any{"id": float64(7001)}},
			want:   "7001",
		},
		{
			name:   "nested under product key",
			entity: PlatformEntity{"product": map[string]any{"id": "5001"}},
			want:   "5001",
		},
		{
			name:   "nested under fulfillment key",
			entity: PlatformEntity{"fulfillment": map[string]any{"id": float64(9001)}},
			want:   "9001",
		},
		{
			name:   "nested under refund key",
			entity: PlatformEntity{"refund": map[string]any{"id": float64(8001)}},
			want:   "8001",
		},
		{
			name:   "top-level id wins over nested",
			entity: PlatformEntity{"id": "1", "order": map[string]any{"id": "2"}},
			want:   "1",
		},
		{
			name:   "no identity present",
			entity: PlatformEntity{"name": "#1001"},
			want:   "",
		},
		{
			name:   "unsupported id type",
			entity: PlatformEntity{"id": true},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EntityID(tt.entity))
		})
	}
}

func TestDriverIsValid(t *testing.T) {
	assert.True(t, DriverREST.IsValid())
	assert.True(t, DriverGraphQL.IsValid())
	assert.False(t, Driver("soap").IsValid())
	assert.False(t, Driver("").IsValid())
}
