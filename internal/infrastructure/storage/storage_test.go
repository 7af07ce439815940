package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gemline/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minioConfig() config.StorageConfig {
	return config.StorageConfig{
		Endpoint:          "localhost:9000",
		Region:            "us-east-1",
		Bucket:            "reports",
		AccessKey:         "minio",
		SecretKey:         "minio-secret",
		UsePathStyle:      true,
		Prefix:            "/exports/",
		PresignExpiration: 30 * time.Minute,
	}
}

func TestNewS3Archive_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewS3Archive(ctx, config.StorageConfig{AccessKey: "k", SecretKey: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")

	_, err = NewS3Archive(ctx, config.StorageConfig{Bucket: "reports"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret key")

	a, err := NewS3Archive(ctx, minioConfig(), WithPresignExpiration(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "reports", a.Bucket())
	assert.Equal(t, time.Hour, a.presignExpiration)
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		ssl      bool
		want     string
	}{
		{"", false, ""},
		{"localhost:9000", false, "http://localhost:9000"},
		{"s3.internal:443", true, "https://s3.internal:443"},
		{"https://minio.example.com", false, "https://minio.example.com"},
	}
	for _, tt := range tests {
		got, err := normalizeEndpoint(tt.endpoint, tt.ssl)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestS3Archive_KeyAndPresign(t *testing.T) {
	a, err := NewS3Archive(context.Background(), minioConfig())
	require.NoError(t, err)

	key := a.Key("sales/2026-03.xlsx")
	assert.Equal(t, "exports/sales/2026-03.xlsx", key)

	link, expires, err := a.PresignGet(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://localhost:9000/reports/exports/sales/2026-03.xlsx?"))
	assert.Contains(t, link, "X-Amz-Signature=")
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expires, time.Minute)

	_, _, err = a.PresignGet(context.Background(), "")
	assert.Error(t, err)
	assert.Error(t, a.Put(context.Background(), "", "text/csv", nil))
}

func TestMemoryArchive(t *testing.T) {
	m := NewMemoryArchive()
	ctx := context.Background()
	data := []byte("store,revenue\nNYC,100.00\n")

	require.NoError(t, m.Put(ctx, "sales.csv", "text/csv", data))
	data[0] = 'X'

	obj, ok := m.Get("sales.csv")
	require.True(t, ok)
	assert.Equal(t, "text/csv", obj.ContentType)
	assert.Equal(t, byte('s'), obj.Data[0], "stored bytes are a copy")

	link, _, err := m.PresignGet(ctx, "sales.csv")
	require.NoError(t, err)
	assert.Equal(t, "memory://reports/sales.csv", link)

	_, _, err = m.PresignGet(ctx, "missing.csv")
	assert.Error(t, err)
}
