package badger

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/poiesic/paperlens/core"
)

// Key prefixes for different data types
const (
	paperRecordPrefix    = "paper"
	paperVenueYearPrefix = "pvy"
	paperKeywordPrefix   = "pkw"
	vectorPrefix         = "vec"
	vectorDimPrefix      = "vdim"
	checkpointPrefix     = "chkpt"
)

// makePaperKey generates a key for a paper record by ID.
func makePaperKey(id core.ID) []byte {
	buf := make([]byte, len(paperRecordPrefix)+1+8)
	offset := copy(buf, paperRecordPrefix+":")
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeVenueYearKey generates a composite key for the venue-year index.
// Format: pvy:<venue>:<year>:<id>
// The venue is lowercased so lookups are case-insensitive.
func makeVenueYearKey(venue string, year int, id core.ID) []byte {
	prefix := fmt.Sprintf("%s:%s:%04d:", paperVenueYearPrefix, strings.ToLower(venue), year)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialVenueYearKey generates a scan prefix for one (venue, year).
func makePartialVenueYearKey(venue string, year int) []byte {
	return []byte(fmt.Sprintf("%s:%s:%04d:", paperVenueYearPrefix, strings.ToLower(venue), year))
}

// makeKeywordKey generates a composite key for the keyword index.
// Format: pkw:<keyword>:<id>
func makeKeywordKey(keyword string, id core.ID) []byte {
	prefix := fmt.Sprintf("%s:%s:", paperKeywordPrefix, strings.ToLower(keyword))
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialKeywordKey generates a scan prefix for one keyword.
func makePartialKeywordKey(keyword string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", paperKeywordPrefix, strings.ToLower(keyword)))
}

// escapeModel makes a model ID safe as a key component. Model IDs like
// "nomic-embed-text:latest" contain ':', which would make the vec:<model>:
// scan prefix for model "a" also match the keys of model "a:b".
func escapeModel(modelID string) string {
	modelID = strings.ReplaceAll(modelID, "%", "%25")
	return strings.ReplaceAll(modelID, ":", "%3A")
}

// makeVectorKey generates a key for an embedding vector.
// Format: vec:<model>:<id>
// The owner ID is BigEndian so vectors of one model scan in ID order.
func makeVectorKey(modelID string, id core.ID) []byte {
	prefix := fmt.Sprintf("%s:%s:", vectorPrefix, escapeModel(modelID))
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialVectorKey generates a scan prefix for one model's vectors.
func makePartialVectorKey(modelID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", vectorPrefix, escapeModel(modelID)))
}

// makeVectorDimKey generates the key holding a model's registered dimension.
func makeVectorDimKey(modelID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", vectorDimPrefix, escapeModel(modelID)))
}

// makeCheckpointKey generates a key for a model's ingestion checkpoint.
func makeCheckpointKey(modelID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", checkpointPrefix, escapeModel(modelID)))
}
