package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "Graph neural networks for molecular property prediction with uncertainty estimates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestPaperID(t *testing.T) {
	a := PaperID("ICLR", 2025, "Diffusion Models for Graphs")
	b := PaperID("ICLR", 2025, "Diffusion Models for Graphs")
	if a != b {
		t.Errorf("PaperID() not deterministic: %d vs %d", a, b)
	}

	// Same title at a different venue or year is a different paper.
	if PaperID("ICML", 2025, "Diffusion Models for Graphs") == a {
		t.Error("PaperID() ignored venue")
	}
	if PaperID("ICLR", 2024, "Diffusion Models for Graphs") == a {
		t.Error("PaperID() ignored year")
	}
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		in   string
		want Decision
	}{
		{"", DecisionUnknown},
		{"Submitted to ICLR 2025", DecisionSubmitted},
		{"ICLR 2025 Oral", DecisionAcceptedOral},
		{"Accept (Spotlight)", DecisionAcceptedSpotlight},
		{"Accept (Poster)", DecisionAcceptedPoster},
		{"accept", DecisionAcceptedPoster},
		{"Withdrawn Submission", DecisionWithdrawn},
		{"Reject", DecisionRejected},
		{"under review", DecisionSubmitted},
		{"invited talk", DecisionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseDecision(tt.in); got != tt.want {
				t.Errorf("ParseDecision(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecision_String_RoundTrip(t *testing.T) {
	decisions := []Decision{
		DecisionUnknown,
		DecisionSubmitted,
		DecisionAcceptedOral,
		DecisionAcceptedSpotlight,
		DecisionAcceptedPoster,
		DecisionWithdrawn,
		DecisionRejected,
	}

	for _, d := range decisions {
		if got := ParseDecision(d.String()); got != d {
			t.Errorf("ParseDecision(%q) = %v, want %v", d.String(), got, d)
		}
	}
}
