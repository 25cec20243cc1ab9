package storage_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"schema-compare/core/storage"
	"schema-compare/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		in     string
		bucket string
		key    string
		ok     bool
	}{
		{"storage://configs/compare.yaml", "configs", "compare.yaml", true},
		{"storage://configs/nested/tasks.json", "configs", "nested/tasks.json", true},
		{"storage://configs", "", "", false},
		{"storage:///key", "", "", false},
		{"compare.yaml", "", "", false},
		{"/etc/compare.yaml", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			bucket, key, ok := storage.ParseURI(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestReadObject(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "configs", "compare.yaml", mock.Anything).
		Return(io.NopCloser(strings.NewReader("tasks: []")), nil)
	client.On("GetObject", mock.Anything, "configs", "missing.yaml", mock.Anything).
		Return(nil, errors.New("NoSuchKey"))

	data, err := storage.ReadObject(context.Background(), client, "configs", "compare.yaml")
	require.NoError(t, err)
	assert.Equal(t, "tasks: []", string(data))

	_, err = storage.ReadObject(context.Background(), client, "configs", "missing.yaml")
	assert.ErrorContains(t, err, "configs/missing.yaml")
}

func TestEnsureBucket(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "reports").Return(true, nil)

		require.NoError(t, storage.EnsureBucket(context.Background(), client, "reports", ""))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("created", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "reports").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "reports", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		require.NoError(t, storage.EnsureBucket(context.Background(), client, "reports", "eu-west-1"))
		client.AssertExpectations(t)
	})

	t.Run("check fails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "reports").Return(false, errors.New("denied"))

		assert.Error(t, storage.EnsureBucket(context.Background(), client, "reports", ""))
	})
}

func TestWriteObject(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "reports", "reports/a.md", mock.Anything, int64(5),
		minio.PutObjectOptions{ContentType: "text/markdown"}).Return(minio.UploadInfo{Key: "reports/a.md"}, nil)

	info, err := storage.WriteObject(context.Background(), client, "reports", "reports/a.md", "text/markdown", []byte("# hi\n"))
	require.NoError(t, err)
	assert.Equal(t, "reports/a.md", info.Key)
}

func TestListKeys(t *testing.T) {
	client := new(mocks.Client)
	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "reports/1.md"}
	ch <- minio.ObjectInfo{Key: "reports/2.md"}
	close(ch)
	client.On("ListObjects", mock.Anything, "reports", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	keys, err := storage.ListKeys(context.Background(), client, "reports", "reports/")
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/1.md", "reports/2.md"}, keys)
}
