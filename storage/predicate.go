// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"strings"

	"github.com/poiesic/paperlens/core"
)

// Predicate restricts a vector query to papers matching metadata constraints.
// Each non-empty field is a disjunction over its values; the fields combine
// conjunctively. The zero Predicate matches everything.
type Predicate struct {
	// Venues restricts matches to these venues (case-insensitive).
	// Empty means any venue.
	Venues []string

	// Years restricts matches to these publication years.
	// Empty means any year.
	Years []int

	// Decisions restricts matches to these review decisions.
	// Empty means any decision.
	Decisions []core.Decision
}

// IsEmpty reports whether the predicate constrains nothing.
func (p Predicate) IsEmpty() bool {
	return len(p.Venues) == 0 && len(p.Years) == 0 && len(p.Decisions) == 0
}

// Matches reports whether a vector's denormalized metadata satisfies the
// predicate. Filtering happens during the scan, before ranking, so the
// result count is unaffected by excluded papers.
func (p Predicate) Matches(v *core.EmbeddingVector) bool {
	if len(p.Venues) > 0 && !containsFold(p.Venues, v.Venue) {
		return false
	}
	if len(p.Years) > 0 && !containsInt(p.Years, v.Year) {
		return false
	}
	if len(p.Decisions) > 0 && !containsDecision(p.Decisions, v.Decision) {
		return false
	}
	return true
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

func containsInt(haystack []int, needle int) bool {
	for _, n := range haystack {
		if n == needle {
			return true
		}
	}
	return false
}

func containsDecision(haystack []core.Decision, needle core.Decision) bool {
	for _, d := range haystack {
		if d == needle {
			return true
		}
	}
	return false
}
