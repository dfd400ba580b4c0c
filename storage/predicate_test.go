package storage

import (
	"testing"

	"github.com/poiesic/paperlens/core"
	"github.com/stretchr/testify/assert"
)

func vectorMeta(venue string, year int, decision core.Decision) *core.EmbeddingVector {
	return &core.EmbeddingVector{
		OwnerId:  1,
		ModelID:  "m",
		Vector:   []float32{1, 0},
		Venue:    venue,
		Year:     year,
		Decision: decision,
	}
}

func TestPredicate_EmptyMatchesEverything(t *testing.T) {
	p := Predicate{}
	assert.True(t, p.IsEmpty())
	assert.True(t, p.Matches(vectorMeta("ICLR", 2025, core.DecisionAcceptedOral)))
	assert.True(t, p.Matches(vectorMeta("", 0, core.DecisionUnknown)))
}

func TestPredicate_VenueCaseInsensitive(t *testing.T) {
	p := Predicate{Venues: []string{"iclr"}}
	assert.True(t, p.Matches(vectorMeta("ICLR", 2025, core.DecisionUnknown)))
	assert.False(t, p.Matches(vectorMeta("NeurIPS", 2025, core.DecisionUnknown)))
}

func TestPredicate_YearDisjunction(t *testing.T) {
	p := Predicate{Years: []int{2024, 2025}}
	assert.True(t, p.Matches(vectorMeta("ICLR", 2024, core.DecisionUnknown)))
	assert.True(t, p.Matches(vectorMeta("ICLR", 2025, core.DecisionUnknown)))
	assert.False(t, p.Matches(vectorMeta("ICLR", 2023, core.DecisionUnknown)))
}

func TestPredicate_FieldsCombineConjunctively(t *testing.T) {
	p := Predicate{
		Venues: []string{"ICLR"},
		Years:  []int{2025},
	}
	assert.True(t, p.Matches(vectorMeta("ICLR", 2025, core.DecisionUnknown)))
	assert.False(t, p.Matches(vectorMeta("ICLR", 2024, core.DecisionUnknown)), "venue matches but year does not")
	assert.False(t, p.Matches(vectorMeta("NeurIPS", 2025, core.DecisionUnknown)), "year matches but venue does not")
}

func TestPredicate_Decisions(t *testing.T) {
	p := Predicate{Decisions: []core.Decision{core.DecisionAcceptedOral, core.DecisionAcceptedPoster}}
	assert.True(t, p.Matches(vectorMeta("ICLR", 2025, core.DecisionAcceptedPoster)))
	assert.False(t, p.Matches(vectorMeta("ICLR", 2025, core.DecisionRejected)))
}
