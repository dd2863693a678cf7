package fieldscan

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/agri-advisor/pkg/errors"
)

// Service handles soil test and pest detection uploads.
type Service interface {
	SoilTest(ctx context.Context, req SoilTestRequest) (SoilTestResult, error)
	DetectPest(ctx context.Context, req PestRequest) (PestResult, error)
}

type service struct {
	cfg     Config
	storage ObjectStorage
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// NewService constructs the field scan service.
func NewService(cfg Config, storage ObjectStorage, logger *slog.Logger) Service {
	if cfg.MaxPhotoBytes <= 0 {
		cfg.MaxPhotoBytes = DefaultMaxPhotoBytes
	}
	return &service{
		cfg:     cfg,
		storage: storage,
		logger:  logger.With("component", "fieldscan.service"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *service) SoilTest(ctx context.Context, req SoilTestRequest) (SoilTestResult, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" || req.Photo == nil || req.Location == nil {
		return SoilTestResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "Missing required fields: userId, soilPhoto, location", nil)
	}
	obj, err := s.storePhoto(ctx, "soil", userID, req.Photo)
	if err != nil {
		return SoilTestResult{}, err
	}
	s.logger.Info("soil photo analysed", "userId", userID, "key", obj.Key, "size", obj.Size)
	return SoilTestResult{
		UserID:       userID,
		Location:     *req.Location,
		PhotoKey:     obj.Key,
		SoilAnalysis: soilAnalysis(),
		AnalyzedAt:   s.now().UTC(),
	}, nil
}

func (s *service) DetectPest(ctx context.Context, req PestRequest) (PestResult, error) {
	userID := strings.TrimSpace(req.UserID)
	crop := strings.TrimSpace(req.CropName)
	if userID == "" || req.Photo == nil || crop == "" || req.Location == nil {
		return PestResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "Missing required fields: userId, pestPhoto, cropName, location", nil)
	}
	obj, err := s.storePhoto(ctx, "pest", userID, req.Photo)
	if err != nil {
		return PestResult{}, err
	}
	s.logger.Info("pest photo analysed", "userId", userID, "crop", crop, "key", obj.Key)
	return PestResult{
		UserID:       userID,
		CropName:     crop,
		Location:     *req.Location,
		PhotoKey:     obj.Key,
		PestAnalysis: pestAnalysis(),
		DetectedAt:   s.now().UTC(),
	}, nil
}

func (s *service) storePhoto(ctx context.Context, kind, userID string, photo *Photo) (StoredObject, error) {
	if len(photo.Data) == 0 {
		return StoredObject{}, apperrors.Wrap(apperrors.CodeInvalidInput, "photo is empty", nil)
	}
	if int64(len(photo.Data)) > s.cfg.MaxPhotoBytes {
		return StoredObject{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("photo exceeds %d bytes", s.cfg.MaxPhotoBytes), nil)
	}
	mimeType := http.DetectContentType(photo.Data)
	if !strings.HasPrefix(mimeType, "image/") {
		return StoredObject{}, apperrors.Wrap(apperrors.CodeUnsupportedFile, "photo must be an image", nil)
	}

	key := path.Join(kind, sanitizeSegment(userID), s.newID()+photoExtension(photo.Filename, mimeType))
	obj, err := s.storage.Put(ctx, key, photo.Data, mimeType)
	if err != nil {
		return StoredObject{}, apperrors.Wrap(apperrors.CodeStorage, "failed to store photo", err)
	}
	return obj, nil
}

var mimeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

func photoExtension(filename, mimeType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && len(ext) <= 6 {
		return ext
	}
	return mimeExtensions[mimeType]
}

func sanitizeSegment(v string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, v)
}
