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


package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Paper IDs are content-based hashes so the same paper always maps to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// PaperID derives the stable identifier for a paper from its venue, year and title.
// The ID is immutable once assigned: re-ingesting the same paper always yields
// the same ID, so upserts replace rather than duplicate.
func PaperID(venue string, year int, title string) ID {
	return IDFromContent(fmt.Sprintf("%s|%d|%s", venue, year, title))
}

// Decision is the review outcome of a paper submission.
type Decision int

const (
	// DecisionUnknown is the default for sources that expose no decision.
	DecisionUnknown Decision = iota
	// DecisionSubmitted marks a paper still under review.
	DecisionSubmitted
	// DecisionAcceptedOral marks acceptance with an oral presentation.
	DecisionAcceptedOral
	// DecisionAcceptedSpotlight marks acceptance as a spotlight.
	DecisionAcceptedSpotlight
	// DecisionAcceptedPoster marks acceptance as a poster.
	DecisionAcceptedPoster
	// DecisionWithdrawn marks a withdrawn submission.
	DecisionWithdrawn
	// DecisionRejected marks a rejected submission.
	DecisionRejected
)

// String returns the canonical vocabulary term for the decision.
func (d Decision) String() string {
	switch d {
	case DecisionSubmitted:
		return "Submitted"
	case DecisionAcceptedOral:
		return "Accepted-Oral"
	case DecisionAcceptedSpotlight:
		return "Accepted-Spotlight"
	case DecisionAcceptedPoster:
		return "Accepted-Poster"
	case DecisionWithdrawn:
		return "Withdrawn"
	case DecisionRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// ParseDecision coerces a free-form source string into the controlled vocabulary.
// Unrecognized values map to DecisionUnknown rather than failing, since venues
// phrase decisions inconsistently and an unknown decision is still a usable record.
func ParseDecision(s string) Decision {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return DecisionUnknown
	case strings.Contains(v, "oral"):
		return DecisionAcceptedOral
	case strings.Contains(v, "spotlight"):
		return DecisionAcceptedSpotlight
	case strings.Contains(v, "poster"):
		return DecisionAcceptedPoster
	case strings.Contains(v, "withdraw"):
		return DecisionWithdrawn
	case strings.Contains(v, "reject"):
		return DecisionRejected
	case strings.Contains(v, "accept"):
		return DecisionAcceptedPoster
	case strings.Contains(v, "submi") || strings.Contains(v, "under review"):
		return DecisionSubmitted
	default:
		return DecisionUnknown
	}
}

// PaperRecord is the canonical representation of a paper submission.
// Source-specific shapes are mapped into this schema at the ingestion boundary;
// downstream components never see per-venue field layouts.
type PaperRecord struct {
	Id         ID
	Title      string
	Abstract   string
	Authors    []string
	Venue      string
	Year       int
	Decision   Decision
	PdfURL     string // may become stale; link validity is not guaranteed
	Language   string // declared by the source or detected at normalization
	Keywords   []string
	Bibtex     string
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// EmbeddingVector is a paper's embedding under one model.
// A paper holds at most one vector per model: re-embedding replaces it.
// Venue, Year and Decision are denormalized into the row so that a single
// read yields the vector together with the metadata it was written with.
type EmbeddingVector struct {
	OwnerId   ID
	ModelID   string
	Vector    []float32
	Venue     string
	Year      int
	Decision  Decision
	UpdatedAt time.Time
}

// QuerySpec describes one retrieval request. It is derived from user input
// and never persisted.
type QuerySpec struct {
	Text    string
	Venues  []string // empty = all venues
	Years   []int    // empty = all years
	TopK    int
	ModelID string
}

// ResultEntry is one ranked hit in a result set.
type ResultEntry struct {
	Rank   int // 1-based, dense
	Score  float32
	Record *PaperRecord
}

// ResultSet is an ordered sequence of result entries, at most TopK long,
// ordered by score descending with ties broken by ascending ID.
type ResultSet struct {
	Query   string
	ModelID string
	Entries []ResultEntry
}

// Match is a raw (id, score) pair returned by a vector index query,
// before joining with paper snapshots.
type Match struct {
	Id    ID
	Score float32
}

// Checkpoint records the ingestion state of one embedding model.
type Checkpoint struct {
	ModelID   string
	Dimension int
	Papers    int64
	UpdatedAt time.Time
}
