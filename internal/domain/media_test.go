package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferGalleryType(t *testing.T) {
	assert.Nil(t, InferGalleryType(nil))
	assert.Equal(t, GalleryTypeVideo, *InferGalleryType([]string{"uploads/gallery/a.MP4", "uploads/gallery/b.jpg"}))
	assert.Equal(t, GalleryTypeImage, *InferGalleryType([]string{"uploads/gallery/b.jpg", "uploads/gallery/a.mkv"}))
	assert.Equal(t, GalleryTypeVideo, *InferGalleryType([]string{`uploads\gallery\clip.mov`}))
}

func TestJoinAndSplitMediaPaths(t *testing.T) {
	assert.Nil(t, JoinMediaPaths(nil))

	joined := JoinMediaPaths([]string{"a.jpg", "b.jpg"})
	assert.Equal(t, "a.jpg,b.jpg", *joined)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, SplitMediaPaths(joined))
	assert.Nil(t, SplitMediaPaths(nil))
}

func TestRemoveMediaPaths(t *testing.T) {
	kept, dropped := RemoveMediaPaths(
		[]string{"uploads/g/1.jpg", "uploads/g/2.jpg", "uploads/g/3.jpg"},
		[]string{`uploads\g\2.jpg`, "uploads/g/missing.jpg"},
	)
	assert.Equal(t, []string{"uploads/g/1.jpg", "uploads/g/3.jpg"}, kept)
	assert.Equal(t, []string{"uploads/g/2.jpg"}, dropped)
}
