package native

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v3"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type objectStorageMock struct {
	mock.Mock
}

func (m *objectStorageMock) Download(ctx context.Context, w io.WriterAt, uri string) (int64, error) {
	args := m.Called(uri)
	data := []byte(args.String(0))
	if _, err := w.WriteAt(data, 0); err != nil {
		return 0, err
	}
	return int64(len(data)), args.Error(1)
}

func Test_downloadFileHTTP(t *testing.T) {
	tests := []struct {
		name     string
		statuses []int
		retries  uint64
		attempts int32
		wantErr  bool
	}{
		{"First attempt", []int{200}, 3, 1, false},
		{"Recovers after server errors", []int{503, 500, 200}, 3, 3, false},
		{"Too many requests is retried", []int{429, 200}, 3, 2, false},
		{"Client error is permanent", []int{404, 200}, 3, 1, true},
		{"Retries exhausted", []int{500, 500, 500, 200}, 2, 3, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var attempts int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&attempts, 1)
				status := tc.statuses[int(n)-1]
				w.WriteHeader(status)
				if status == http.StatusOK {
					_, _ = w.Write([]byte("payload"))
				}
			}))
			defer ts.Close()

			var buf bytes.Buffer
			retry := backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), tc.retries)
			n, err := downloadFileHTTP(context.Background(), ts.Client(), &buf, ts.URL+"/file.pdf", retry)
			assert.Equal(t, tc.attempts, atomic.LoadInt32(&attempts))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), n)
			assert.Equal(t, "payload", buf.String())
		})
	}
}

func TestFetcher_Fetch(t *testing.T) {
	source := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(source, "/import/files/a.txt", []byte("local"), 0o644))

	storage := &objectStorageMock{}
	storage.On("Download", "s3://bucket/a.txt").Return("remote", nil).Once()

	tests := []struct {
		name    string
		fetcher *Fetcher
		src     string
		want    string
		wantErr bool
	}{
		{"Relative path", NewFetcher(source, nil, discardLogger()), "files/a.txt", "local", false},
		{"Absolute path", NewFetcher(source, nil, discardLogger()), "/import/files/a.txt", "local", false},
		{"File URL", NewFetcher(source, nil, discardLogger()), "file:///import/files/a.txt", "local", false},
		{"Missing file", NewFetcher(source, nil, discardLogger()), "files/b.txt", "", true},
		{"S3", NewFetcher(source, storage, discardLogger()), "s3://bucket/a.txt", "remote", false},
		{"S3 not configured", NewFetcher(source, nil, discardLogger()), "s3://bucket/a.txt", "", true},
		{"Unsupported scheme", NewFetcher(source, nil, discardLogger()), "ftp://example.org/a.txt", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target, err := afero.TempFile(afero.NewMemMapFs(), "", "fetch-")
			require.NoError(t, err)
			defer target.Close()

			n, err := tc.fetcher.Fetch(context.Background(), target, tc.src, "/import")
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.want)), n)
			_, err = target.Seek(0, io.SeekStart)
			require.NoError(t, err)
			data, err := io.ReadAll(target)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(data))
		})
	}
	storage.AssertExpectations(t)
}

func TestFetcher_FetchWithoutTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("remote"))
	}))
	defer ts.Close()

	target, err := afero.TempFile(afero.NewMemMapFs(), "", "fetch-")
	require.NoError(t, err)
	defer target.Close()

	f := &Fetcher{}
	n, err := f.Fetch(context.Background(), target, ts.URL+"/a.txt", "")

	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
}
