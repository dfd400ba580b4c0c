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


package normalize

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTitle is returned when a source record has no usable title.
	ErrMissingTitle = errors.New("missing title")

	// ErrMissingAbstract is returned when a source record has no usable abstract.
	ErrMissingAbstract = errors.New("missing abstract")

	// ErrMissingVenue is returned when neither the record nor the schema supplies a venue.
	ErrMissingVenue = errors.New("missing venue")

	// ErrMissingYear is returned when no publication year can be determined.
	ErrMissingYear = errors.New("missing year")

	// ErrUnknownSchema is returned for a source schema the normalizer does not know.
	ErrUnknownSchema = errors.New("unknown source schema")
)

// NormalizationError reports why a single source record could not be
// normalized. The record is dropped; ingestion of the remaining records
// continues.
type NormalizationError struct {
	Schema string // source schema kind
	Title  string // best-effort title for log readability, may be empty
	Err    error
}

func (e *NormalizationError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("normalize %s record %q: %v", e.Schema, e.Title, e.Err)
	}
	return fmt.Sprintf("normalize %s record: %v", e.Schema, e.Err)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}
