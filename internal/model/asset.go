package model

import "time"

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeGIF   MediaType = "gif"
	// MediaTypeVideo is reserved; the upload endpoint never derives it.
	MediaTypeVideo MediaType = "video"
)

// UploadedAsset is the persisted record of one successful upload. MediaURL
// is the field key inside the owner's collection.
type UploadedAsset struct {
	MediaType MediaType `json:"mediaType"`
	MediaURL  string    `json:"mediaUrl"`
	MediaID   string    `json:"mediaId"`
	Date      time.Time `json:"date"`
}

type UploadResponse struct {
	Type     string `json:"type"`
	MimeType string `json:"mimeType"`
	Bytes    int    `json:"bytes"`
	FileName string `json:"fileName,omitempty"`
}

type ListUploadsResponse struct {
	Type   string          `json:"type"`
	Assets []UploadedAsset `json:"assets"`
}
