package main

import (
	"context"
	"encoding/json"
	"flag"
	"iter"
	"log/slog"
	"os"

	"github.com/poiesic/paperlens"
	"github.com/poiesic/paperlens/ai/mock"
	"github.com/poiesic/paperlens/ingestion"
	"github.com/poiesic/paperlens/normalize"
)

// A small fictional corpus for demos and manual testing. Every record uses
// the canonical schema with venue and year carried inline.
var papers = []normalize.RawRecord{
	{"title": "Latent Diffusion for Molecular Graphs", "abstract": "We train diffusion models directly in a learned latent space of molecular graphs, improving validity of generated molecules.", "venueid": "ICLR", "year": "2025", "decision": "Accepted-Oral", "keywords": "diffusion, graphs, chemistry"},
	{"title": "Sparse Mixture Routing Without Load Balancing Losses", "abstract": "A routing scheme for mixture-of-experts models that keeps experts balanced without auxiliary losses.", "venueid": "ICLR", "year": "2025", "decision": "Accepted-Spotlight", "keywords": "mixture of experts, routing"},
	{"title": "Curriculum Distillation for Small Language Models", "abstract": "Ordering distillation targets by teacher confidence yields smaller students with better calibration.", "venueid": "ICLR", "year": "2025", "decision": "Accepted-Poster", "keywords": "distillation, language models"},
	{"title": "Rethinking Positional Encodings for Long Contexts", "abstract": "An empirical study of positional encoding schemes at context lengths beyond one million tokens.", "venueid": "ICLR", "year": "2025", "decision": "Rejected", "keywords": "transformers, positional encoding"},
	{"title": "Gradient-Free Adaptation of Vision Backbones", "abstract": "We adapt frozen vision backbones to new tasks with evolutionary search over lightweight adapters.", "venueid": "ICLR", "year": "2024", "decision": "Accepted-Poster", "keywords": "vision, adaptation"},
	{"title": "Provable Recovery in Overparameterized Autoencoders", "abstract": "Conditions under which overparameterized autoencoders recover sparse ground-truth dictionaries.", "venueid": "NeurIPS", "year": "2024", "decision": "Accepted-Oral", "keywords": "theory, autoencoders"},
	{"title": "Bandit Feedback for Retrieval-Augmented Generation", "abstract": "Treating retrieved passages as arms lets a generator learn which sources to trust from click feedback.", "venueid": "NeurIPS", "year": "2024", "decision": "Accepted-Poster", "keywords": "retrieval, bandits"},
	{"title": "Temporal Consistency Losses for Video Segmentation", "abstract": "A family of consistency losses that stabilize per-frame segmentation without optical flow.", "venueid": "CVPR", "year": "2024", "decision": "Accepted-Poster", "keywords": "video, segmentation"},
	{"title": "Neural Radiance Caching for Indoor Scenes", "abstract": "Caching radiance predictions accelerates neural rendering of indoor scenes by an order of magnitude.", "venueid": "CVPR", "year": "2024", "decision": "Accepted-Oral", "keywords": "rendering, nerf"},
	{"title": "Contrastive Pretraining on Synthetic Tables", "abstract": "Synthetic tabular corpora transfer surprisingly well to real-world table understanding benchmarks.", "venueid": "NeurIPS", "year": "2025", "decision": "Accepted-Poster", "keywords": "tables, pretraining"},
	{"title": "Unlearning Memorized Sequences in Language Models", "abstract": "A gradient-projection method that removes verbatim memorization while preserving perplexity.", "venueid": "NeurIPS", "year": "2025", "decision": "Accepted-Spotlight", "keywords": "unlearning, privacy"},
	{"title": "Equivariant Attention for Point Cloud Registration", "abstract": "SE(3)-equivariant attention layers make point cloud registration robust to large rotations.", "venueid": "CVPR", "year": "2025", "decision": "Accepted-Poster", "keywords": "point clouds, equivariance"},
	{"title": "Speculative Decoding with Heterogeneous Drafters", "abstract": "Mixing drafter models of different sizes raises acceptance rates in speculative decoding.", "venueid": "ICLR", "year": "2025", "decision": "Accepted-Poster", "keywords": "inference, decoding"},
	{"title": "Benchmarking Compositional Generalization in VQA", "abstract": "A new split of visual question answering data that isolates compositional failures.", "venueid": "CVPR", "year": "2025", "decision": "Rejected", "keywords": "vqa, benchmarks"},
	{"title": "Flat Minima and the Geometry of Data Augmentation", "abstract": "We connect augmentation strength to the flatness of minima reached by stochastic gradient descent.", "venueid": "NeurIPS", "year": "2025", "decision": "Accepted-Poster", "keywords": "optimization, augmentation"},
	{"title": "Streaming Inference for State Space Models", "abstract": "Constant-memory streaming inference for structured state space sequence models.", "venueid": "ICLR", "year": "2024", "decision": "Accepted-Spotlight", "keywords": "state space models, streaming"},
}

var seedFileName = flag.String("src", "", "JSON file of raw records to seed instead of the built-in corpus")
var dbPath = flag.String("db", "./papers_db", "database directory")

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// recordsFromFile returns an iterator over raw records in a JSON file.
func recordsFromFile(filename string) (iter.Seq[normalize.RawRecord], error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var raws []normalize.RawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	return recordsFromSlice(raws), nil
}

// recordsFromSlice returns an iterator over a slice of raw records.
func recordsFromSlice(raws []normalize.RawRecord) iter.Seq[normalize.RawRecord] {
	return func(yield func(normalize.RawRecord) bool) {
		for _, raw := range raws {
			if !yield(raw) {
				return
			}
		}
	}
}

// ingestBatched drains a source iterator into the pipeline in batches.
func ingestBatched(ctx context.Context, pipeline *ingestion.Pipeline, source iter.Seq[normalize.RawRecord], batchSize int) error {
	schema := normalize.SourceSchema{Kind: normalize.SchemaCanonical}
	batch := make([]normalize.RawRecord, 0, batchSize)

	for raw := range source {
		batch = append(batch, raw)
		if len(batch) == batchSize {
			if _, err := pipeline.Ingest(ctx, batch, schema); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if _, err := pipeline.Ingest(ctx, batch, schema); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	library, err := paperlens.Open(*dbPath, paperlens.WithEmbedder(mock.NewMockEmbedderWithDimension(384)))
	if err != nil {
		panic(err)
	}
	defer library.Close()

	ingester, err := library.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer ingester.Release()

	ctx := context.Background()

	var source iter.Seq[normalize.RawRecord]
	if seedFileName != nil && *seedFileName != "" {
		source, err = recordsFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = recordsFromSlice(papers)
	}

	if err := ingestBatched(ctx, ingester, source, 5); err != nil {
		panic(err)
	}
}
