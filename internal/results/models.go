// Package results stores and serves official draw outcomes.
package results

import json "github.com/goccy/go-json"

// DrawResult is one official draw: the winning numbers and the prize
// breakdown for a date.
type DrawResult struct {
	Date  string
	Balls []int
	Stars []int
	// Jackpot is the prize-tier breakdown, kept as raw JSON since its
	// shape varies by draw.
	Jackpot json.RawMessage
}
