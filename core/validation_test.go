package core

import (
	"errors"
	"testing"
)

func validRecord() *PaperRecord {
	return &PaperRecord{
		Id:       PaperID("ICLR", 2025, "Diffusion Models for Graphs"),
		Title:    "Diffusion Models for Graphs",
		Abstract: "We study diffusion processes on graph-structured data.",
		Authors:  []string{"A. Author", "B. Author"},
		Venue:    "ICLR",
		Year:     2025,
		Decision: DecisionSubmitted,
	}
}

func TestValidatePaperRecord(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PaperRecord)
		wantErr error
	}{
		{
			name:    "valid record",
			mutate:  func(r *PaperRecord) {},
			wantErr: nil,
		},
		{
			name:    "empty title",
			mutate:  func(r *PaperRecord) { r.Title = "" },
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "empty abstract",
			mutate:  func(r *PaperRecord) { r.Abstract = "" },
			wantErr: ErrEmptyAbstract,
		},
		{
			name:    "empty venue",
			mutate:  func(r *PaperRecord) { r.Venue = "" },
			wantErr: ErrEmptyVenue,
		},
		{
			name:    "year too small",
			mutate:  func(r *PaperRecord) { r.Year = 1805 },
			wantErr: ErrInvalidYear,
		},
		{
			name:    "year too large",
			mutate:  func(r *PaperRecord) { r.Year = 2500 },
			wantErr: ErrInvalidYear,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			tt.mutate(record)

			err := ValidatePaperRecord(record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePaperRecord() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePaperRecord() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidPaperRecord) {
				t.Errorf("ValidatePaperRecord() error should wrap ErrInvalidPaperRecord, got %v", err)
			}
		})
	}
}

func TestValidatePaperRecord_Nil(t *testing.T) {
	if err := ValidatePaperRecord(nil); !errors.Is(err, ErrInvalidPaperRecord) {
		t.Errorf("ValidatePaperRecord(nil) = %v, want ErrInvalidPaperRecord", err)
	}
}

func TestValidateEmbeddingVector(t *testing.T) {
	tests := []struct {
		name    string
		vec     *EmbeddingVector
		wantErr bool
	}{
		{
			name: "valid vector",
			vec: &EmbeddingVector{
				OwnerId: ID(1),
				ModelID: "all-MiniLM-L6-v2",
				Vector:  []float32{0.1, 0.2, 0.3},
			},
			wantErr: false,
		},
		{
			name:    "nil vector",
			vec:     nil,
			wantErr: true,
		},
		{
			name: "zero owner",
			vec: &EmbeddingVector{
				ModelID: "all-MiniLM-L6-v2",
				Vector:  []float32{0.1},
			},
			wantErr: true,
		},
		{
			name: "empty model id",
			vec: &EmbeddingVector{
				OwnerId: ID(1),
				Vector:  []float32{0.1},
			},
			wantErr: true,
		},
		{
			name: "empty vector",
			vec: &EmbeddingVector{
				OwnerId: ID(1),
				ModelID: "all-MiniLM-L6-v2",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmbeddingVector(tt.vec)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmbeddingVector() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidVector) {
				t.Errorf("ValidateEmbeddingVector() error should wrap ErrInvalidVector, got %v", err)
			}
		})
	}
}
