// Package model defines database models
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video is the only persisted entity. A row is written once after the
// gateway round trip succeeds and is never updated or deleted afterwards.
type Video struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`

	// Opaque Cloudinary identifier. Thumbnail, preview and download URLs
	// are all derived from it on demand, so none of them are stored here
	PublicID string `gorm:"not null;uniqueIndex" json:"publicId"`

	// Caller-declared size of the source upload. Not re-measured server-side
	OriginalSize   int64 `json:"originalSize"`
	CompressedSize int64 `json:"compressedSize"`

	// Seconds. Stays 0 for assets the gateway reports no duration for
	Duration float64 `json:"duration"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
