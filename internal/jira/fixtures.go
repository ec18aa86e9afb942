package jira

import (
	"github.com/agentstation/utc"

	"github.com/notewell/curator/pkg/ticket"
)

const loremSummary = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, " +
	"sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."

// Fixtures returns the synthetic tickets used when no live fetch is wanted,
// covering the short, truncated, and unassigned cases.
func Fixtures() []ticket.Ticket {
	now := utc.Now()

	synth := func(key, summary, priority string, labels []string, assignee string) ticket.Ticket {
		return ticket.Ticket{
			Key:      key,
			Title:    ticket.Title(summary),
			Summary:  summary,
			Status:   "New",
			Priority: priority,
			Labels:   labels,
			Assignee: assignee,
			Created:  now,
			Updated:  now,
			URL:      "https://jira.example.com/browse/" + key,
		}
	}

	return []ticket.Ticket{
		synth("TEST-1", loremSummary, "Blocker", []string{"triaged", "test"}, "Ipsum Lorem"),
		synth("TEST-2", reverse(loremSummary), "Critical", []string{"test"}, "Lorem Ipsum"),
		synth("TEST-3", "This is a test ticket.", "Normal", nil, ""),
	}
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
