package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/cardsift/cardsift/internal/model"
)

// Fingerprint computes the deduplication key for one uploaded file. The
// upload time is bucketed to the hour before hashing so accidental sub-hour
// re-uploads collide while deliberate later re-uploads do not.
func Fingerprint(filename, userID string, uploadedAt time.Time) model.FileFingerprint {
	bucket := uploadedAt.UTC().Truncate(time.Hour)
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", filename, userID, bucket.Format(time.RFC3339))))
	return model.FileFingerprint{
		Hash:       hex.EncodeToString(sum[:]),
		UserID:     userID,
		Filename:   filename,
		HourBucket: bucket,
		CreatedAt:  uploadedAt.UTC(),
	}
}
