package checkpoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.json"))
	task, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, task)

	// Deleting a missing checkpoint is fine.
	require.NoError(t, repo.Delete(context.Background()))
}

// TestFileRepository_SaveLoadDelete ensures a saved task comes back unchanged and can be removed.
func TestFileRepository_SaveLoadDelete(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), DefaultFilename)
	repo := NewFileRepository(file)

	want := &install.DownloadTask{
		URL:         "https://x/y.zip",
		Destination: "mcl.zip",
		Total:       20480,
		Transferred: 10240,
	}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, repo.Delete(context.Background()))

	_, err = os.Stat(file)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestFileRepository_Invalid rejects documents that break the task invariants.
func TestFileRepository_Invalid(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"url":"https://x","destination":"a","total":1,"transferred":5}`), 0o600))

	_, err := NewFileRepository(file).Load(context.Background())
	require.Error(t, err)

	require.NoError(t, os.WriteFile(file, []byte(`not json`), 0o600))

	_, err = NewFileRepository(file).Load(context.Background())
	require.Error(t, err)
}
