package fieldscan

import (
	"context"
	"time"

	"github.com/yanqian/agri-advisor/internal/domain/advisory"
)

// DefaultMaxPhotoBytes caps uploaded field photos.
const DefaultMaxPhotoBytes = 5 << 20

// Config wires runtime limits for photo intake.
type Config struct {
	MaxPhotoBytes int64
}

// ObjectStorage abstracts blob storage (S3/R2/MinIO/local).
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key      string
	Size     int64
	MimeType string
	ETag     string
}

// Photo is an uploaded image.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SoilTestRequest asks for a soil analysis from a photo.
type SoilTestRequest struct {
	UserID   string
	Location *advisory.Location
	Photo    *Photo
}

// PestRequest asks for pest identification from a photo.
type PestRequest struct {
	UserID   string
	CropName string
	Location *advisory.Location
	Photo    *Photo
}

// Lab is a soil testing facility near the farmer.
type Lab struct {
	Name     string `json:"name"`
	Distance string `json:"distance"`
	Contact  string `json:"contact"`
}

// SoilAnalysis summarises soil properties read from a photo.
type SoilAnalysis struct {
	Texture         string       `json:"texture"`
	PH              float64      `json:"pH"`
	OrganicContent  string       `json:"organicContent"`
	NPK             advisory.NPK `json:"NPK"`
	Recommendations []string     `json:"recommendations"`
	NearbyLabs      []Lab        `json:"nearbyLabs"`
}

// SoilTestResult is returned by SoilTest.
type SoilTestResult struct {
	UserID       string            `json:"userId"`
	Location     advisory.Location `json:"location"`
	PhotoKey     string            `json:"photoKey"`
	SoilAnalysis SoilAnalysis      `json:"soilAnalysis"`
	AnalyzedAt   time.Time         `json:"analyzedAt"`
}

// Treatment lists immediate and preventive measures.
type Treatment struct {
	Immediate  []string `json:"immediate"`
	Preventive []string `json:"preventive"`
}

// Timeline schedules the treatment.
type Timeline struct {
	Immediate  string `json:"immediate"`
	FollowUp   string `json:"followUp"`
	Prevention string `json:"prevention"`
}

// PestAnalysis describes the identified pest.
type PestAnalysis struct {
	PestIdentified string    `json:"pestIdentified"`
	Confidence     float64   `json:"confidence"`
	Severity       string    `json:"severity"`
	Symptoms       []string  `json:"symptoms"`
	Treatment      Treatment `json:"treatment"`
	Timeline       Timeline  `json:"timeline"`
}

// PestResult is returned by DetectPest.
type PestResult struct {
	UserID       string            `json:"userId"`
	CropName     string            `json:"cropName"`
	Location     advisory.Location `json:"location"`
	PhotoKey     string            `json:"photoKey"`
	PestAnalysis PestAnalysis      `json:"pestAnalysis"`
	DetectedAt   time.Time         `json:"detectedAt"`
}
