package badger

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Key prefixes for different data types
const (
	analysisRecordPrefix = "anlrec"
	analysisDatePrefix   = "anlrecd"
)

// makeAnalysisKey generates a key for an analysis record by ID.
func makeAnalysisKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", analysisRecordPrefix, id))
}

// makeAnalysisDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeAnalysisDateKey(createdAt time.Time, id string) []byte {
	prefix := analysisDatePrefix + ":"
	buf := make([]byte, len(prefix)+8+len(id))
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], id)
	return buf
}

// makePartialAnalysisDateKey generates a partial key for date seeks.
func makePartialAnalysisDateKey(createdAt time.Time) []byte {
	prefix := analysisDatePrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	return buf
}
