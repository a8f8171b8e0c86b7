package models

import (
	"time"

	"github.com/yigit/memberdir/internal/domain"
)

// BusinessProfile defines the model based on the 'business_profiles' table.
// Type-specific columns come from domain.ProfileFields and are only ever
// populated through domain.Flatten.
type BusinessProfile struct {
	ID           int64               `json:"id" db:"id" example:"1"`
	MemberID     int64               `json:"member_id" db:"member_id" example:"1"`
	BusinessType domain.BusinessType `json:"business_type" db:"business_type" example:"salary"`
	CategoryID   *int64              `json:"category_id" db:"category_id"`

	domain.CommonProfileFields
	domain.ProfileFields

	BusinessProfileImage *string              `json:"business_profile_image" db:"business_profile_image"`
	MediaGallery         *string              `json:"media_gallery" db:"media_gallery"` // comma-joined stored paths
	MediaGalleryType     *string              `json:"media_gallery_type" db:"media_gallery_type" example:"image"`
	Status               domain.ProfileStatus `json:"status" db:"status" example:"Approved"`
	RejectionReason      *string              `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt            time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at" db:"updated_at"`

	Category *Category `json:"category,omitempty"` // Relation, no db tag
}

// GalleryPaths returns the stored gallery as a list.
func (p *BusinessProfile) GalleryPaths() []string {
	return domain.SplitMediaPaths(p.MediaGallery)
}

// SetGallery stores paths and re-infers the gallery type. An empty list
// clears both columns.
func (p *BusinessProfile) SetGallery(paths []string) {
	p.MediaGallery = domain.JoinMediaPaths(paths)
	p.MediaGalleryType = domain.InferGalleryType(paths)
}

// MediaPaths lists every file referenced by the profile.
func (p *BusinessProfile) MediaPaths() []string {
	var out []string
	if p.BusinessProfileImage != nil && *p.BusinessProfileImage != "" {
		out = append(out, *p.BusinessProfileImage)
	}
	return append(out, p.GalleryPaths()...)
}
