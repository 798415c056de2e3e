package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "http://files.local/")
	require.NoError(t, err)

	key := storage.PayslipKey("c1", "p1", "NOM-000001")
	info, err := store.Save(context.Background(), key, strings.NewReader("%PDF-1.3"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, key, info.Key)
	assert.Equal(t, "NOM-000001.pdf", info.FileName)
	assert.Equal(t, int64(8), info.FileSize)
	assert.Equal(t, "application/pdf", info.FileType)
	assert.Equal(t, "http://files.local/payslips/c1/p1/NOM-000001.pdf", info.URL)

	data, err := os.ReadFile(filepath.Join(dir, "payslips", "c1", "p1", "NOM-000001.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))
}

func TestLocalStore_KeyStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStore(filepath.Join(dir, "root"), "http://files.local")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../../escape.pdf", strings.NewReader("x"), "application/pdf")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "root", "escape.pdf"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_RejectsEmptyKey(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir(), "http://files.local")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "", strings.NewReader("x"), "application/pdf")
	assert.Error(t, err)
}

func TestS3Store_URL(t *testing.T) {
	store, err := storage.NewS3Store(context.Background(), storage.S3Config{
		Endpoint:  "http://localhost:9000",
		Region:    "us-east-1",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "payslips",
		PublicURL: "https://cdn.example.com/",
		PathStyle: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/payslips/a.pdf", store.URL("/payslips/a.pdf"))
}
