// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bracketon/bracketon/pkg/slug"
)

/*
TestFrom covers normalization, accent stripping, and hyphen cleanup.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple_title", "Summer Showdown 2026", "summer-showdown-2026"},
		{"accents", "Tournoi d'Été", "tournoi-d-ete"},
		{"special_chars", "Rocket⚡League!! Finals", "rocket-league-finals"},
		{"multiple_spaces", "Summer   Showdown", "summer-showdown"},
		{"leading_trailing", "  --Grand Final--  ", "grand-final"},
		{"only_symbols", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}
