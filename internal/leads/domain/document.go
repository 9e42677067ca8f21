package domain

import (
	"time"

	"github.com/google/uuid"
)

// Document is the metadata record for a file attached to a lead. The file
// itself lives in object storage under ObjectKey.
type Document struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	ObjectKey   string
	FileName    string
	ContentType string
	SizeBytes   int64
	UploadedBy  uuid.UUID
	CreatedAt   time.Time
}
