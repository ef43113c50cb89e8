package asset

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
)

// Kind classifies stored files
type Kind string

const (
	KindImage Kind = "image"
	KindPDF   Kind = "pdf"
)

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	return k == KindImage || k == KindPDF
}

// Owner types an asset may be attached to
const (
	OwnerBranding = "branding"
	OwnerInvoice  = "invoice"
	OwnerService  = "service"
)

// ImageContentTypes maps accepted image types to their file extension
var ImageContentTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

// ContentTypePDF is the content type of rendered documents
const ContentTypePDF = "application/pdf"

// Asset errors
var (
	ErrUnsupportedType = shared.NewDomainError("UNSUPPORTED_FILE_TYPE", "Only PNG, JPEG, WebP, GIF and SVG images are accepted")
	ErrFileTooLarge    = shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the maximum upload size")
	ErrEmptyFile       = shared.NewDomainError("EMPTY_FILE", "File is empty")
)

// Asset is the metadata of a stored file. The bytes live in AssetStorage
// under StorageKey.
type Asset struct {
	shared.TenantAggregateRoot
	Kind        Kind
	FileName    string
	ContentType string
	Size        int64
	StorageKey  string
	OwnerType   string
	OwnerID     *uuid.UUID
}

// NewAsset validates metadata and derives a storage key of the form
// <tenant>/<kind>/<yyyy>/<mm>/<id><ext>
func NewAsset(tenantID uuid.UUID, kind Kind, fileName, contentType string, size, maxSize int64) (*Asset, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Asset kind must be image or pdf")
	}
	if size <= 0 {
		return nil, ErrEmptyFile
	}
	if maxSize > 0 && size > maxSize {
		return nil, shared.NewDomainError(ErrFileTooLarge.Code,
			fmt.Sprintf("File is %d bytes, the limit is %d", size, maxSize))
	}

	var ext string
	switch kind {
	case KindImage:
		e, ok := ImageContentTypes[contentType]
		if !ok {
			return nil, ErrUnsupportedType
		}
		ext = e
	case KindPDF:
		if contentType != ContentTypePDF {
			return nil, shared.NewDomainError("UNSUPPORTED_FILE_TYPE", "Documents must be PDF")
		}
		ext = ".pdf"
	}

	a := &Asset{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Kind:                kind,
		FileName:            SanitizeFileName(fileName, ext),
		ContentType:         contentType,
		Size:                size,
	}
	a.StorageKey = BuildStorageKey(tenantID, kind, a.ID, ext, a.CreatedAt)
	return a, nil
}

// AttachTo records the owning record
func (a *Asset) AttachTo(ownerType string, ownerID uuid.UUID) {
	a.OwnerType = ownerType
	a.OwnerID = &ownerID
	a.Touch()
}

// BuildStorageKey returns the object key for an asset
func BuildStorageKey(tenantID uuid.UUID, kind Kind, id uuid.UUID, ext string, at time.Time) string {
	return path.Join(tenantID.String(), string(kind), at.Format("2006"), at.Format("01"), id.String()+ext)
}

// SanitizeFileName keeps the base name, strips path separators and control
// characters, and falls back to "file"+ext
func SanitizeFileName(name, ext string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 || r == '"' {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		name = "file" + ext
	}
	if len(name) > 200 {
		name = name[len(name)-200:]
	}
	return name
}
