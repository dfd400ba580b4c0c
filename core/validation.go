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

import "fmt"

const (
	minYear = 1900
	maxYear = 2100
)

// ValidatePaperRecord validates a PaperRecord according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Abstract must not be empty (a record without an abstract cannot be
//     embedded meaningfully and must never enter the index)
//   - Venue must not be empty
//   - Year must be within [1900, 2100]
//
// NOT validated:
//   - PdfURL (optional, may be stale)
//   - Keywords, Bibtex, Language (optional enrichment)
func ValidatePaperRecord(record *PaperRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidPaperRecord)
	}

	if record.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPaperRecord, ErrEmptyTitle)
	}

	if record.Abstract == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPaperRecord, ErrEmptyAbstract)
	}

	if record.Venue == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPaperRecord, ErrEmptyVenue)
	}

	if record.Year < minYear || record.Year > maxYear {
		return fmt.Errorf("%w: %w: %d", ErrInvalidPaperRecord, ErrInvalidYear, record.Year)
	}

	return nil
}

// ValidateEmbeddingVector validates an EmbeddingVector according to domain rules.
//
// Validation rules:
//   - OwnerId must be set
//   - ModelID must not be empty (vectors from different models are never compared)
//   - Vector must not be empty
func ValidateEmbeddingVector(vec *EmbeddingVector) error {
	if vec == nil {
		return fmt.Errorf("%w: vector is nil", ErrInvalidVector)
	}

	if vec.OwnerId == 0 {
		return fmt.Errorf("%w: owner id is zero", ErrInvalidVector)
	}

	if vec.ModelID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVector, ErrEmptyModelID)
	}

	if len(vec.Vector) == 0 {
		return fmt.Errorf("%w: empty vector", ErrInvalidVector)
	}

	return nil
}
