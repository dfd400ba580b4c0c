// Package normalize converts heterogeneous per-venue paper metadata into the
// canonical PaperRecord schema.
//
// Each crawler or API client produces records in its own shape (OpenReview
// value-wrapped fields, AAAI OJS article pages, CVF open-access pages). The
// Normalizer maps those shapes into one canonical record at the ingestion
// boundary, so downstream components never see source-specific layouts.
//
// Records with a missing title or abstract fail normalization and are
// excluded from the corpus: such a record cannot be embedded meaningfully
// and must never be silently zero-filled.
package normalize
