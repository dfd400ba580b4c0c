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


// Package qdrant implements storage.VectorIndex against a remote Qdrant
// instance over gRPC.
//
// Unlike the badger backend, Qdrant search is approximate (HNSW): the k
// results are not guaranteed to be the exact nearest neighbors. Use this
// backend when the corpus outgrows a single-process exhaustive scan.
package qdrant

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/paperlens/core"
	"github.com/poiesic/paperlens/storage"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Payload field names for filterable metadata.
const (
	fieldVenue    = "venue"
	fieldYear     = "year"
	fieldDecision = "decision"
)

// VectorIndex implements storage.VectorIndex using Qdrant.
// Each embedding model maps to its own collection, keeping model namespaces
// disjoint.
type VectorIndex struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	prefix      string
	dimension   int
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex connects to a Qdrant instance. Collections are named
// <prefix>_<modelID> and created on first upsert with the given dimension.
func NewVectorIndex(ctx context.Context, host string, port int, prefix string, dimension int) (*VectorIndex, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}
	return &VectorIndex{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		prefix:      prefix,
		dimension:   dimension,
	}, nil
}

// Close closes the gRPC connection.
func (v *VectorIndex) Close() error {
	return v.conn.Close()
}

func (v *VectorIndex) collectionName(modelID string) string {
	return fmt.Sprintf("%s_%s", v.prefix, modelID)
}

// Upsert stores vectors, replacing any previous vector for the same
// (OwnerId, ModelID) pair. Point IDs are the owners' content IDs, so a
// re-embedded paper overwrites its old point.
func (v *VectorIndex) Upsert(ctx context.Context, vectors ...*core.EmbeddingVector) error {
	byModel := make(map[string][]*pb.PointStruct)
	for _, vec := range vectors {
		if err := core.ValidateEmbeddingVector(vec); err != nil {
			return err
		}
		if len(vec.Vector) != v.dimension {
			return fmt.Errorf("%w: index expects %d, got %d",
				storage.ErrDimensionMismatch, v.dimension, len(vec.Vector))
		}
		point := &pb.PointStruct{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Num{Num: uint64(vec.OwnerId)}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: vec.Vector}}},
			Payload: map[string]*pb.Value{
				// Lowercased so venue filters match case-insensitively,
				// same as the badger backend.
				fieldVenue:    {Kind: &pb.Value_StringValue{StringValue: strings.ToLower(vec.Venue)}},
				fieldYear:     {Kind: &pb.Value_IntegerValue{IntegerValue: int64(vec.Year)}},
				fieldDecision: {Kind: &pb.Value_StringValue{StringValue: vec.Decision.String()}},
			},
		}
		byModel[vec.ModelID] = append(byModel[vec.ModelID], point)
	}

	for modelID, points := range byModel {
		if err := v.ensureCollection(ctx, modelID); err != nil {
			return err
		}
		_, err := v.points.Upsert(ctx, &pb.UpsertPoints{
			CollectionName: v.collectionName(modelID),
			Points:         points,
		})
		if err != nil {
			return fmt.Errorf("qdrant upsert: %w", err)
		}
	}
	return nil
}

// Remove deletes the vectors for the given owners under one model.
func (v *VectorIndex) Remove(ctx context.Context, modelID string, owners ...core.ID) error {
	ids := make([]*pb.PointId, len(owners))
	for i, owner := range owners {
		ids[i] = &pb.PointId{PointIdOptions: &pb.PointId_Num{Num: uint64(owner)}}
	}
	_, err := v.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: v.collectionName(modelID),
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{Ids: ids},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant delete: %w", err)
	}
	return nil
}

// Query runs a filtered nearest-neighbor search. The predicate is pushed
// down to Qdrant so filtering happens before the k cut.
func (v *VectorIndex) Query(ctx context.Context, modelID string, vector []float32, k int, pred storage.Predicate) ([]core.Match, error) {
	if k <= 0 {
		return []core.Match{}, nil
	}
	resp, err := v.points.Search(ctx, &pb.SearchPoints{
		CollectionName: v.collectionName(modelID),
		Vector:         vector,
		Limit:          uint64(k),
		Filter:         buildFilter(pred),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}

	matches := make([]core.Match, 0, len(resp.Result))
	for _, pt := range resp.Result {
		matches = append(matches, core.Match{
			Id:    core.ID(pt.Id.GetNum()),
			Score: pt.Score,
		})
	}
	return matches, nil
}

// Count returns the number of vectors stored under a model.
func (v *VectorIndex) Count(ctx context.Context, modelID string) (int, error) {
	resp, err := v.points.Count(ctx, &pb.CountPoints{
		CollectionName: v.collectionName(modelID),
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant count: %w", err)
	}
	return int(resp.Result.Count), nil
}

func (v *VectorIndex) ensureCollection(ctx context.Context, modelID string) error {
	name := v.collectionName(modelID)
	exists, err := v.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{
		CollectionName: name,
	})
	if err != nil {
		return fmt.Errorf("qdrant collection check: %w", err)
	}
	if exists.Result.Exists {
		return nil
	}
	_, err = v.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: name,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(v.dimension),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant collection create: %w", err)
	}
	return nil
}

// buildFilter translates a predicate into a Qdrant filter. Values within a
// field are a disjunction (Should inside one Must), fields combine
// conjunctively.
func buildFilter(pred storage.Predicate) *pb.Filter {
	if pred.IsEmpty() {
		return nil
	}
	var must []*pb.Condition

	if len(pred.Venues) > 0 {
		keywords := make([]string, len(pred.Venues))
		for i, venue := range pred.Venues {
			keywords[i] = strings.ToLower(venue)
		}
		must = append(must, &pb.Condition{
			ConditionOneOf: &pb.Condition_Field{Field: &pb.FieldCondition{
				Key: fieldVenue,
				Match: &pb.Match{MatchValue: &pb.Match_Keywords{
					Keywords: &pb.RepeatedStrings{Strings: keywords},
				}},
			}},
		})
	}
	if len(pred.Years) > 0 {
		years := make([]int64, len(pred.Years))
		for i, y := range pred.Years {
			years[i] = int64(y)
		}
		must = append(must, &pb.Condition{
			ConditionOneOf: &pb.Condition_Field{Field: &pb.FieldCondition{
				Key: fieldYear,
				Match: &pb.Match{MatchValue: &pb.Match_Integers{
					Integers: &pb.RepeatedIntegers{Integers: years},
				}},
			}},
		})
	}
	if len(pred.Decisions) > 0 {
		decisions := make([]string, len(pred.Decisions))
		for i, d := range pred.Decisions {
			decisions[i] = d.String()
		}
		must = append(must, &pb.Condition{
			ConditionOneOf: &pb.Condition_Field{Field: &pb.FieldCondition{
				Key: fieldDecision,
				Match: &pb.Match{MatchValue: &pb.Match_Keywords{
					Keywords: &pb.RepeatedStrings{Strings: decisions},
				}},
			}},
		})
	}
	return &pb.Filter{Must: must}
}
