package utils

import (
	"strings"
)

// A Pokémon team is stored as a single comma-joined column. An empty team is
// stored as NULL, not "", so "no team recorded" survives a round trip.
// Entries are not trimmed: whitespace around a name is preserved verbatim.

func EncodeTeam(team []string) *string {
	if len(team) == 0 {
		return nil
	}
	joined := strings.Join(team, ",")
	return &joined
}

func DecodeTeam(encoded *string) []string {
	if encoded == nil || strings.TrimSpace(*encoded) == "" {
		return []string{}
	}
	return strings.Split(*encoded, ",")
}
