// Package export renders ranked result sets into text, CSV, and JSON, and
// derives stable per-result file names for PDF download tooling.
//
// The text format is a compatibility contract: downstream scripts locate
// results by splitting on runs of dashes and scanning for "Title:", "Venue:"
// and "Link:" lines. Field order and the 50-dash separator must not change.
package export
