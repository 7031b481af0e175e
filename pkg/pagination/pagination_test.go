// Copyright (c) 2026 SOYO. All rights reserved.

package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Clamping(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "?page=3&limit=50", 3, 50},
		{"zero page", "?page=0", 1, 20},
		{"negative page", "?page=-4", 1, 20},
		{"limit too large", "?limit=5000", 1, 20},
		{"garbage values", "?page=abc&limit=xyz", 1, 20},
		{"max limit allowed", "?limit=100", 1, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/stories/published"+tc.query, nil)
			params := FromRequest(request)
			assert.Equal(t, tc.wantPage, params.Page)
			assert.Equal(t, tc.wantLimit, params.Limit)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 20, Params{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 0, Params{Page: 0, Limit: 20}.Offset())
	assert.Equal(t, 90, Params{Page: 4, Limit: 30}.Offset())
}

func TestNewMeta_TotalPages(t *testing.T) {
	assert.Equal(t, 0, NewMeta(1, 20, 0).TotalPages)
	assert.Equal(t, 1, NewMeta(1, 20, 20).TotalPages)
	assert.Equal(t, 2, NewMeta(1, 20, 21).TotalPages)
	assert.Equal(t, 0, NewMeta(1, 0, 50).TotalPages, "zero limit must not divide by zero")
}
