package storage_test

import (
	"testing"

	"schema-compare/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"bare endpoint", storage.Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "reports", Region: "us-east-1"}},
		{"http scheme is stripped", storage.Config{Endpoint: "http://minio:9000", AccessKey: "k", SecretKey: "s"}},
		{"https with ssl", storage.Config{Endpoint: "https://s3.amazonaws.com", AccessKey: "k", SecretKey: "s", UseSSL: true, Region: "eu-west-1"}},
		{"zero timeout falls back", storage.Config{Endpoint: "localhost:9000", TimeoutSeconds: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := storage.NewClient(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}
