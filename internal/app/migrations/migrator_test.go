package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schema "github.com/yigit/memberdir/migrations"
)

func TestList(t *testing.T) {
	fsys := fstest.MapFS{
		"002_referrals.sql": {Data: []byte("SELECT 2;")},
		"001_init.sql":      {Data: []byte("SELECT 1;")},
		"README.md":         {Data: []byte("docs")},
		"archive/000.sql":   {Data: []byte("SELECT 0;")},
	}

	got, err := List(fsys)
	require.NoError(t, err)
	assert.Equal(t, []Migration{
		{Version: "001", Name: "001_init.sql"},
		{Version: "002", Name: "002_referrals.sql"},
	}, got)
}

func TestList_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"001_init.sql":  {Data: []byte("SELECT 1;")},
		"001_other.sql": {Data: []byte("SELECT 1;")},
	}

	_, err := List(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001")
}

func TestEmbeddedSchema(t *testing.T) {
	got, err := List(schema.Files)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "001", got[0].Version)

	content, err := schema.Files.ReadFile(got[0].Name)
	require.NoError(t, err)
	for _, name := range []string{
		"members_email_key",
		"members_application_id_key",
		"categories_name_key",
		"notifications_member_id_fkey",
	} {
		assert.Contains(t, string(content), name)
	}
}
