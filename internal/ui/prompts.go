// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import "math/rand"

// starterPrompts are the suggestion cards shown on an empty conversation.
// All of them stay inside the assistant's cricket domain.
var starterPrompts = []string{
	"Who won the 2011 Cricket World Cup?",
	"Explain the LBW rule in simple terms",
	"What is a googly and how is it bowled?",
	"Compare Test cricket and T20 formats",
	"Who holds the record for most international centuries?",
	"What does a powerplay mean in limited-overs cricket?",
	"Describe the Duckworth-Lewis-Stern method",
	"What made the 2005 Ashes series so famous?",
	"How does reverse swing work?",
	"What is the role of the third umpire?",
	"Name the fielding positions close to the batter",
	"How is net run rate calculated?",
}

// suggestionCount is how many starter prompts the start screen shows.
const suggestionCount = 3

// SuggestPrompts returns n distinct starter prompts in random order. Asking
// for more prompts than exist returns them all.
func SuggestPrompts(n int) []string {
	if n >= len(starterPrompts) {
		n = len(starterPrompts)
	}
	perm := rand.Perm(len(starterPrompts))
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, starterPrompts[i])
	}
	return out
}
