package asset

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/asset"
)

// UploadImageInput carries an uploaded image
type UploadImageInput struct {
	FileName  string
	Size      int64
	Content   io.Reader
	OwnerType string
	OwnerID   *uuid.UUID
}

// AssetListFilter narrows the asset list
type AssetListFilter struct {
	Kind      string
	OwnerType string
	OwnerID   *uuid.UUID
	Page      int
	PageSize  int
}

// AssetResponse represents an asset in API responses
type AssetResponse struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	FileName    string     `json:"file_name"`
	ContentType string     `json:"content_type"`
	Size        int64      `json:"size"`
	OwnerType   string     `json:"owner_type,omitempty"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	URL         string     `json:"url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToAssetResponse converts a domain asset to a response
func ToAssetResponse(a *asset.Asset) AssetResponse {
	return AssetResponse{
		ID:          a.ID,
		Kind:        string(a.Kind),
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		OwnerType:   a.OwnerType,
		OwnerID:     a.OwnerID,
		CreatedAt:   a.CreatedAt,
	}
}
