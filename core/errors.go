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

import "errors"

// Domain validation errors
var (
	// ErrInvalidPaperRecord indicates a PaperRecord failed validation.
	ErrInvalidPaperRecord = errors.New("invalid paper record")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyAbstract indicates the Abstract field is empty.
	ErrEmptyAbstract = errors.New("abstract cannot be empty")

	// ErrEmptyVenue indicates the Venue field is empty.
	ErrEmptyVenue = errors.New("venue cannot be empty")

	// ErrInvalidYear indicates a year outside the plausible publication range.
	ErrInvalidYear = errors.New("year out of range")

	// ErrInvalidVector indicates an EmbeddingVector failed validation.
	ErrInvalidVector = errors.New("invalid embedding vector")

	// ErrEmptyModelID indicates the ModelID field is empty.
	ErrEmptyModelID = errors.New("model id cannot be empty")
)
