package filestorage

import (
	"mime/multipart"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/memberdir/internal/testutil"
)

func TestLedger_ReleaseRemovesTrackedFiles(t *testing.T) {
	ls := newTestStorage(t)
	ledger := NewLedger(ls)

	first, err := ledger.Save(testutil.FileHeader(t, "a.png", "a"), ProfileImageDir)
	require.NoError(t, err)
	gallery, err := ledger.SaveAll([]*multipart.FileHeader{nil}, MediaGalleryDir)
	require.NoError(t, err)
	assert.Empty(t, gallery)

	second, err := ledger.Save(testutil.FileHeader(t, "b.mp4", "b"), MediaGalleryDir)
	require.NoError(t, err)

	assert.Equal(t, []string{first, second}, ledger.Paths())

	assert.Equal(t, 2, ledger.Release())
	for _, p := range []string{first, second} {
		_, err := os.Stat(ls.GetFullPath(p))
		assert.True(t, os.IsNotExist(err), p)
	}
	assert.Empty(t, ledger.Paths())
	assert.Equal(t, 0, ledger.Release())
}

func TestLedger_ClearKeepsFiles(t *testing.T) {
	ls := newTestStorage(t)
	ledger := NewLedger(ls)

	stored, err := ledger.Save(testutil.FileHeader(t, "keep.jpg", "k"), BusinessProfileImageDir)
	require.NoError(t, err)

	ledger.Clear()
	assert.Equal(t, 0, ledger.Release())

	_, err = os.Stat(ls.GetFullPath(stored))
	assert.NoError(t, err)
}

func TestLedger_ReleaseSkipsMissingFiles(t *testing.T) {
	ls := newTestStorage(t)
	ledger := NewLedger(ls)

	ledger.Track("uploads/media-gallery/never-written.jpg")
	ledger.Track("")

	assert.Equal(t, 1, ledger.Release())
}
