package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/imgvault/internal/imgcheck"
	"github.com/xxxsen/imgvault/internal/mediastore"
	"github.com/xxxsen/imgvault/internal/metrics"
	"github.com/xxxsen/imgvault/internal/model"
	appErr "github.com/xxxsen/imgvault/internal/pkg/errors"
)

type AssetRegistry interface {
	Put(ctx context.Context, userID string, asset *model.UploadedAsset) error
	ListAll(ctx context.Context, userID string) ([]model.UploadedAsset, error)
}

type UploadService struct {
	media    mediastore.Store
	registry AssetRegistry
	maxBytes int64
	now      func() time.Time
}

// UploadRequest carries the raw body unread so that identity and declared
// type are checked before any payload byte is consumed.
type UploadRequest struct {
	UserID      string
	ContentType string
	Body        io.Reader
	FileName    string
}

func NewUploadService(media mediastore.Store, registry AssetRegistry, maxBytes int64) *UploadService {
	return &UploadService{
		media:    media,
		registry: registry,
		maxBytes: maxBytes,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Upload validates the payload, stores it with the media store and indexes
// it in the caller's history. An indexing failure does not fail the upload:
// the media is already stored and the asset is only missing from history.
func (s *UploadService) Upload(ctx context.Context, req UploadRequest) (*model.UploadResponse, error) {
	if req.UserID == "" {
		return nil, appErr.ErrUnauthorized
	}
	label := contentTypeLabel(req.ContentType)
	if !imgcheck.IsSupported(req.ContentType) {
		metrics.RecordUpload(label, "unsupported", 0)
		return nil, appErr.ErrUnsupportedType
	}
	data, err := s.readBody(req.Body)
	if err != nil {
		metrics.RecordUpload(label, "bad_body", 0)
		return nil, err
	}
	logger := logutil.GetLogger(ctx).With(
		zap.String("user_id", req.UserID),
		zap.String("content_type", req.ContentType),
		zap.Int("bytes", len(data)),
	)
	if !imgcheck.Classify(data, req.ContentType) {
		metrics.RecordUpload(label, "invalid", 0)
		logger.Info("reject upload: content does not match declared type",
			zap.String("detected", imgcheck.Detect(data)))
		return nil, appErr.ErrInvalidImage
	}

	mediaType := imgcheck.MediaTypeFor(req.ContentType)
	stored, err := s.media.Put(ctx, mediastore.Object{
		UserID:    req.UserID,
		MediaType: mediaType,
		DataURL:   mediastore.EncodeDataURL(req.ContentType, data),
	})
	if err != nil {
		metrics.RecordUpload(label, "upstream_error", 0)
		return nil, appErr.Upstream("media store put", err)
	}

	asset := &model.UploadedAsset{
		MediaType: mediaType,
		MediaURL:  stored.URL,
		MediaID:   stored.ID,
		Date:      s.now(),
	}
	if err := s.registry.Put(ctx, req.UserID, asset); err != nil {
		metrics.UntrackedAssetsTotal.Inc()
		logger.Warn("asset stored but not indexed in history",
			zap.String("media_url", stored.URL),
			zap.String("media_id", stored.ID),
			zap.Error(err),
		)
	}
	metrics.RecordUpload(label, "success", len(data))
	logger.Info("upload stored", zap.String("media_id", stored.ID))

	return &model.UploadResponse{
		Type:     "upload",
		MimeType: req.ContentType,
		Bytes:    len(data),
		FileName: req.FileName,
	}, nil
}

func (s *UploadService) readBody(body io.Reader) ([]byte, error) {
	if body == nil {
		return nil, appErr.ErrEmptyBody
	}
	if s.maxBytes > 0 {
		body = io.LimitReader(body, s.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", appErr.ErrInvalid, err)
	}
	if len(data) == 0 {
		return nil, appErr.ErrEmptyBody
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, appErr.ErrTooLarge
	}
	return data, nil
}

// History returns the caller's uploads, newest first.
func (s *UploadService) History(ctx context.Context, userID string) ([]model.UploadedAsset, error) {
	if userID == "" {
		return nil, appErr.ErrUnauthorized
	}
	items, err := s.registry.ListAll(ctx, userID)
	if err != nil {
		return nil, appErr.Upstream("registry list", err)
	}
	if items == nil {
		items = []model.UploadedAsset{}
	}
	return items, nil
}

func contentTypeLabel(contentType string) string {
	if imgcheck.IsSupported(contentType) {
		return contentType
	}
	return "other"
}
