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


package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/paperlens/core"
)

// Kind selects an output representation.
type Kind string

const (
	KindText Kind = "text"
	KindCSV  Kind = "csv"
	KindJSON Kind = "json"
)

// separator is the record delimiter of the text format. Downstream parsers
// split on runs of five or more dashes.
const separator = "--------------------------------------------------"

// ErrUnknownKind is returned for an unrecognized output kind.
var ErrUnknownKind = fmt.Errorf("unknown export kind")

// Format renders a result set in the requested representation.
func Format(results *core.ResultSet, kind Kind) (string, error) {
	switch kind {
	case KindText:
		return formatText(results), nil
	case KindCSV:
		return formatCSV(results)
	case KindJSON:
		return formatJSON(results)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// formatText renders the dash-separated compatibility format.
func formatText(results *core.ResultSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n", results.Query)
	fmt.Fprintf(&b, "Model: %s\n", results.ModelID)
	fmt.Fprintf(&b, "Results: %d\n", len(results.Entries))
	b.WriteString(separator)
	b.WriteString("\n")

	for _, entry := range results.Entries {
		record := entry.Record
		fmt.Fprintf(&b, "Rank: %d\n", entry.Rank)
		fmt.Fprintf(&b, "Score: %.4f\n", entry.Score)
		fmt.Fprintf(&b, "Title: %s\n", record.Title)
		fmt.Fprintf(&b, "Venue: %s\n", record.Venue)
		fmt.Fprintf(&b, "Year: %d\n", record.Year)
		fmt.Fprintf(&b, "Decision: %s\n", record.Decision)
		fmt.Fprintf(&b, "Authors: %s\n", strings.Join(record.Authors, ", "))
		fmt.Fprintf(&b, "Link: %s\n", record.PdfURL)
		fmt.Fprintf(&b, "Abstract: %s\n", record.Abstract)
		b.WriteString(separator)
		b.WriteString("\n")
	}
	return b.String()
}

func formatCSV(results *core.ResultSet) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"rank", "score", "title", "venue", "year", "decision", "authors", "link"}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, entry := range results.Entries {
		record := entry.Record
		row := []string{
			strconv.Itoa(entry.Rank),
			fmt.Sprintf("%.4f", entry.Score),
			record.Title,
			record.Venue,
			strconv.Itoa(record.Year),
			record.Decision.String(),
			strings.Join(record.Authors, "; "),
			record.PdfURL,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// jsonEntry is the JSON shape of one ranked result.
type jsonEntry struct {
	Rank     int      `json:"rank"`
	Score    float32  `json:"score"`
	Title    string   `json:"title"`
	Venue    string   `json:"venue"`
	Year     int      `json:"year"`
	Decision string   `json:"decision"`
	Authors  []string `json:"authors,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Link     string   `json:"link,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
}

type jsonResultSet struct {
	Query   string      `json:"query"`
	Model   string      `json:"model"`
	Entries []jsonEntry `json:"results"`
}

func formatJSON(results *core.ResultSet) (string, error) {
	out := jsonResultSet{
		Query:   results.Query,
		Model:   results.ModelID,
		Entries: make([]jsonEntry, 0, len(results.Entries)),
	}
	for _, entry := range results.Entries {
		record := entry.Record
		out.Entries = append(out.Entries, jsonEntry{
			Rank:     entry.Rank,
			Score:    entry.Score,
			Title:    record.Title,
			Venue:    record.Venue,
			Year:     record.Year,
			Decision: record.Decision.String(),
			Authors:  record.Authors,
			Keywords: record.Keywords,
			Link:     record.PdfURL,
			Abstract: record.Abstract,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
