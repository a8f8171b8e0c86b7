package filestorage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/memberdir/internal/testutil"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	ls, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)
	return ls
}

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	ls := newTestStorage(t)

	stored, err := ls.SaveFileWithPath(testutil.FileHeader(t, "Photo.JPG", "jpeg-bytes"), MediaGalleryDir)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored, "uploads/media-gallery/"))
	assert.True(t, strings.HasSuffix(stored, ".jpg"))
	assert.NotContains(t, stored, "\\")

	content, err := os.ReadFile(ls.GetFullPath(stored))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(content))

	require.NoError(t, ls.DeleteFile(stored))
	_, err = os.Stat(ls.GetFullPath(stored))
	assert.True(t, os.IsNotExist(err))

	// deleting again is a no-op
	assert.NoError(t, ls.DeleteFile(stored))
}

func TestLocalStorage_SaveNilHeader(t *testing.T) {
	ls := newTestStorage(t)

	stored, err := ls.SaveFileWithPath(nil, ProfileImageDir)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestLocalStorage_GetFullPath(t *testing.T) {
	ls := newTestStorage(t)

	tests := []struct {
		name   string
		stored string
		want   string
	}{
		{name: "prefixed", stored: "uploads/a/b.png", want: filepath.Join(ls.BasePath(), "a", "b.png")},
		{name: "backslashes", stored: `uploads\a\b.png`, want: filepath.Join(ls.BasePath(), "a", "b.png")},
		{name: "traversal is clamped", stored: "uploads/../../etc/passwd", want: filepath.Join(ls.BasePath(), "etc", "passwd")},
		{name: "prefix only", stored: "uploads", want: ""},
		{name: "empty", stored: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ls.GetFullPath(tt.stored))
		})
	}
}
