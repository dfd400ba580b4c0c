package normalize

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/poiesic/paperlens/core"
)

// RawRecord is one source record as produced by a venue crawler or API
// client: flat string fields keyed by source-specific names. List-valued
// fields (authors, keywords) may arrive either comma-separated or as a
// Python-style list literal, depending on the crawler.
type RawRecord map[string]string

// SchemaKind identifies the shape of a source record.
type SchemaKind string

const (
	// SchemaOpenReview covers ICLR / ICML / NeurIPS records from the
	// OpenReview API (value-wrapped fields, relative pdf paths, decision
	// embedded in the venue string).
	SchemaOpenReview SchemaKind = "openreview"

	// SchemaOJS covers AAAI records scraped from OJS article pages.
	SchemaOJS SchemaKind = "ojs"

	// SchemaCVF covers CVPR / ICCV records from the CVF open-access site.
	SchemaCVF SchemaKind = "cvf"

	// SchemaCanonical covers records already using canonical field names.
	SchemaCanonical SchemaKind = "canonical"
)

// SourceSchema describes where a batch of raw records came from.
// Venue and Year act as defaults for sources whose records do not carry
// them (OJS and CVF pages are crawled per venue and year).
type SourceSchema struct {
	Kind  SchemaKind
	Venue string
	Year  int
}

// Normalizer maps raw source records into canonical PaperRecords.
type Normalizer struct {
	logger *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		n.logger = logger
		return nil
	}
}

// NewNormalizer creates a new normalizer.
func NewNormalizer(opts ...Option) (*Normalizer, error) {
	n := &Normalizer{
		logger: slog.Default().With("component", "normalizer"),
	}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Normalize converts a single raw record into a canonical PaperRecord.
// It assigns the stable content-based paper ID, coerces the year to an
// integer and the decision to the controlled vocabulary (unknown decisions
// default to Unknown rather than failing), and detects the language when
// the source declares none.
//
// Returns a *NormalizationError when the title or abstract is missing or
// empty; such a record must be excluded from the corpus, not zero-filled.
func (n *Normalizer) Normalize(raw RawRecord, schema SourceSchema) (*core.PaperRecord, error) {
	var record *core.PaperRecord
	var err error

	switch schema.Kind {
	case SchemaOpenReview:
		record, err = n.fromOpenReview(raw, schema)
	case SchemaOJS:
		record, err = n.fromOJS(raw, schema)
	case SchemaCVF:
		record, err = n.fromCVF(raw, schema)
	case SchemaCanonical:
		record, err = n.fromCanonical(raw, schema)
	default:
		return nil, &NormalizationError{Schema: string(schema.Kind), Err: ErrUnknownSchema}
	}
	if err != nil {
		return nil, err
	}

	if record.Language == "" {
		record.Language = detectLanguage(record.Title + " " + record.Abstract)
	}
	record.Id = core.PaperID(record.Venue, record.Year, record.Title)

	if verr := core.ValidatePaperRecord(record); verr != nil {
		return nil, &NormalizationError{Schema: string(schema.Kind), Title: record.Title, Err: verr}
	}
	return record, nil
}

// Failure reports one record that could not be normalized.
type Failure struct {
	Index int    // position in the input batch
	Title string // best-effort title, may be empty
	Err   error
}

// NormalizeAll normalizes a batch of raw records. Failed records are
// collected and returned alongside the successes; the batch as a whole
// never fails.
func (n *Normalizer) NormalizeAll(raws []RawRecord, schema SourceSchema) ([]*core.PaperRecord, []Failure) {
	records := make([]*core.PaperRecord, 0, len(raws))
	var failures []Failure

	for i, raw := range raws {
		record, err := n.Normalize(raw, schema)
		if err != nil {
			n.logger.Warn("dropping record", "index", i, "err", err)
			failures = append(failures, Failure{Index: i, Title: bestEffortTitle(raw), Err: err})
			continue
		}
		records = append(records, record)
	}
	return records, failures
}

func (n *Normalizer) fromOpenReview(raw RawRecord, schema SourceSchema) (*core.PaperRecord, error) {
	title := strings.TrimSpace(raw["title"])
	if title == "" {
		return nil, &NormalizationError{Schema: string(SchemaOpenReview), Err: ErrMissingTitle}
	}
	abstract := strings.TrimSpace(raw["abstract"])
	if abstract == "" {
		return nil, &NormalizationError{Schema: string(SchemaOpenReview), Title: title, Err: ErrMissingAbstract}
	}

	venue, year, err := venueYear(raw, schema)
	if err != nil {
		return nil, &NormalizationError{Schema: string(SchemaOpenReview), Title: title, Err: err}
	}

	// OpenReview exposes the decision through the per-note venue string,
	// e.g. "ICLR 2025 Oral" or "Submitted to ICLR 2025".
	decision := core.ParseDecision(raw["venue"])
	if d, ok := raw["decision"]; ok {
		decision = core.ParseDecision(d)
	}

	pdf := strings.TrimSpace(firstOf(raw, "link", "pdf"))
	if pdf != "" && !strings.HasPrefix(pdf, "http://") && !strings.HasPrefix(pdf, "https://") {
		pdf = "https://openreview.net/" + strings.TrimPrefix(pdf, "/")
	}

	return &core.PaperRecord{
		Title:    title,
		Abstract: abstract,
		Authors:  parseList(raw["authors"]),
		Venue:    venue,
		Year:     year,
		Decision: decision,
		PdfURL:   pdf,
		Language: strings.TrimSpace(raw["language"]),
		Keywords: parseList(raw["keywords"]),
		Bibtex:   raw["_bibtex"],
	}, nil
}

func (n *Normalizer) fromOJS(raw RawRecord, schema SourceSchema) (*core.PaperRecord, error) {
	title := strings.TrimSpace(raw["title"])
	if title == "" {
		return nil, &NormalizationError{Schema: string(SchemaOJS), Err: ErrMissingTitle}
	}
	abstract := strings.TrimSpace(raw["abstract"])
	if abstract == "" {
		return nil, &NormalizationError{Schema: string(SchemaOJS), Title: title, Err: ErrMissingAbstract}
	}

	venue, year, err := venueYear(raw, schema)
	if err != nil {
		return nil, &NormalizationError{Schema: string(SchemaOJS), Title: title, Err: err}
	}

	// OJS proceedings pages only list published papers.
	return &core.PaperRecord{
		Title:    title,
		Abstract: abstract,
		Authors:  parseList(raw["authors"]),
		Venue:    venue,
		Year:     year,
		Decision: core.DecisionAcceptedPoster,
		PdfURL:   strings.TrimSpace(firstOf(raw, "link", "pdf")),
		Keywords: parseList(raw["keywords"]),
		Bibtex:   raw["_bibtex"],
	}, nil
}

func (n *Normalizer) fromCVF(raw RawRecord, schema SourceSchema) (*core.PaperRecord, error) {
	title := strings.TrimSpace(raw["title"])
	if title == "" {
		return nil, &NormalizationError{Schema: string(SchemaCVF), Err: ErrMissingTitle}
	}
	abstract := strings.TrimSpace(raw["abstract"])
	if abstract == "" {
		return nil, &NormalizationError{Schema: string(SchemaCVF), Title: title, Err: ErrMissingAbstract}
	}

	venue, year, err := venueYear(raw, schema)
	if err != nil {
		return nil, &NormalizationError{Schema: string(SchemaCVF), Title: title, Err: err}
	}

	return &core.PaperRecord{
		Title:    title,
		Abstract: abstract,
		Authors:  parseList(raw["authors"]),
		Venue:    venue,
		Year:     year,
		Decision: core.DecisionAcceptedPoster,
		PdfURL:   strings.TrimSpace(firstOf(raw, "pdf", "link")),
		Bibtex:   raw["bibtex"],
	}, nil
}

func (n *Normalizer) fromCanonical(raw RawRecord, schema SourceSchema) (*core.PaperRecord, error) {
	title := strings.TrimSpace(raw["title"])
	if title == "" {
		return nil, &NormalizationError{Schema: string(SchemaCanonical), Err: ErrMissingTitle}
	}
	abstract := strings.TrimSpace(raw["abstract"])
	if abstract == "" {
		return nil, &NormalizationError{Schema: string(SchemaCanonical), Title: title, Err: ErrMissingAbstract}
	}

	venue, year, err := venueYear(raw, schema)
	if err != nil {
		return nil, &NormalizationError{Schema: string(SchemaCanonical), Title: title, Err: err}
	}

	return &core.PaperRecord{
		Title:    title,
		Abstract: abstract,
		Authors:  parseList(raw["authors"]),
		Venue:    venue,
		Year:     year,
		Decision: core.ParseDecision(raw["decision"]),
		PdfURL:   strings.TrimSpace(firstOf(raw, "pdf_url", "pdf", "link")),
		Language: strings.TrimSpace(raw["language"]),
		Keywords: parseList(raw["keywords"]),
		Bibtex:   raw["bibtex"],
	}, nil
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// venueYear resolves the canonical venue and year for a record, preferring
// explicit record fields, then the schema defaults, then a year embedded in
// the source venue string.
func venueYear(raw RawRecord, schema SourceSchema) (string, int, error) {
	venue := canonicalVenue(raw["venueid"])
	if venue == "" {
		venue = canonicalVenue(schema.Venue)
	}
	if venue == "" {
		return "", 0, ErrMissingVenue
	}

	if y := strings.TrimSpace(raw["year"]); y != "" {
		year, err := strconv.Atoi(y)
		if err == nil {
			return venue, year, nil
		}
	}
	if schema.Year != 0 {
		return venue, schema.Year, nil
	}
	if m := yearPattern.FindString(raw["venue"]); m != "" {
		year, _ := strconv.Atoi(m)
		return venue, year, nil
	}
	return "", 0, ErrMissingYear
}

// canonicalVenue uppercases a venue name and strips year suffixes, so
// "iclr", "ICLR 2025" and "ICLR.cc/2025/Conference" all collapse to "ICLR".
func canonicalVenue(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.IndexAny(s, "./ "); i > 0 {
		s = s[:i]
	}
	return strings.ToUpper(s)
}

// parseList splits a list-valued source field. It accepts a Python-style
// list literal ("['A. Author', 'B. Author']"), a comma-separated string,
// or an empty value.
func parseList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `'"`)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// firstOf returns the first non-empty value among the given keys.
func firstOf(raw RawRecord, keys ...string) string {
	for _, k := range keys {
		if v := raw[k]; strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// detectLanguage is a coarse heuristic: texts dominated by non-Latin
// letters are tagged "unknown", everything else "en". Cross-lingual
// ranking quality is a model concern, not something retrieval corrects.
func detectLanguage(text string) string {
	var letters, nonLatin int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if r > unicode.MaxLatin1 {
			nonLatin++
		}
	}
	if letters > 0 && nonLatin*10 > letters*3 {
		return "unknown"
	}
	return "en"
}

func bestEffortTitle(raw RawRecord) string {
	return strings.TrimSpace(raw["title"])
}
