// Copyright (c) 2026 SOYO. All rights reserved.

package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestLikeEscaper_NeutralizesWildcards verifies search input cannot smuggle LIKE
wildcards into the published-feed query: a reader searching for "100%" should
match that literal text, not every row.
*/
func TestLikeEscaper_NeutralizesWildcards(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"percent", "100%", `100\%`},
		{"underscore", "snake_case", `snake\_case`},
		{"backslash", `back\slash`, `back\\slash`},
		{"mixed", `50%_off\now`, `50\%\_off\\now`},
		{"plain", "detective story", "detective story"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, likeEscaper.Replace(tc.input))
		})
	}
}
