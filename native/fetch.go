package native

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/JiscSD/native-xml-adapter/s3"

	"github.com/cenkalti/backoff/v3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Fetcher copies the content referenced by an href into a file.
type Fetcher struct {
	// Source is where local paths are read from.
	Source afero.Fs

	// S3 serves s3:// locations. It can be nil.
	S3 s3.ObjectStorage

	HTTPClient *http.Client

	// Timeout bounds a whole fetch, retries included. Zero means no bound.
	Timeout time.Duration

	// Retries is the number of additional attempts of a remote fetch.
	Retries uint64

	logger logrus.FieldLogger
}

// NewFetcher returns a fetcher with a five minute timeout and three
// retries.
func NewFetcher(source afero.Fs, storage s3.ObjectStorage, logger logrus.FieldLogger) *Fetcher {
	return &Fetcher{
		Source:     source,
		S3:         storage,
		HTTPClient: http.DefaultClient,
		Timeout:    time.Minute * 5,
		Retries:    3,
		logger:     logger,
	}
}

type fetchTarget interface {
	io.Writer
	io.WriterAt
	Name() string
}

// Fetch writes the content of src into target. Remote URLs are fetched
// over HTTP or S3, absolute paths are read from Source and relative paths
// are resolved against importDir.
func (f *Fetcher) Fetch(ctx context.Context, target fetchTarget, src, importDir string) (int64, error) {
	logger := f.logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	client := f.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger.Debugf("Saving %s into %s", src, target.Name())
	var (
		n   int64
		err error
	)
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	u, perr := url.Parse(src)
	switch {
	case perr == nil && (u.Scheme == "http" || u.Scheme == "https"):
		n, err = downloadFileHTTP(ctx, client, target, src, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), f.Retries))
	case perr == nil && u.Scheme == "s3":
		if f.S3 == nil {
			return 0, errors.Errorf("no S3 storage configured for %s", src)
		}
		n, err = f.S3.Download(ctx, target, src)
	case perr == nil && u.Scheme == "file":
		n, err = f.copyLocal(target, u.Path)
	case perr == nil && u.Scheme != "" && len(u.Scheme) > 1:
		return 0, errors.Errorf("unsupported location scheme: %s", u.Scheme)
	case filepath.IsAbs(src):
		n, err = f.copyLocal(target, src)
	default:
		n, err = f.copyLocal(target, filepath.Join(importDir, src))
	}
	if err != nil {
		logger.Errorf("Error fetching %s: %s", src, err)
		return n, err
	}
	logger.Debugf("Fetched %s - %d bytes written", src, n)
	return n, nil
}

func (f *Fetcher) copyLocal(target io.Writer, p string) (int64, error) {
	file, err := f.Source.Open(p)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return io.Copy(target, file)
}

func downloadFileHTTP(ctx context.Context, httpClient *http.Client, target io.Writer, location string, retry backoff.BackOff) (int64, error) {
	// Use exponential backoff algorithm if the user doesn't provide one.
	if retry == nil {
		retry = backoff.NewExponentialBackOff()
	}
	// Create a BackOffContext to stop retrying after the context is canceled.
	cb := backoff.WithContext(retry, ctx)

	req, err := http.NewRequest("GET", location, nil)
	if err != nil {
		return 0, err
	}
	req = req.WithContext(ctx)

	var resp *http.Response
	op := func() error {
		var err error
		resp, err = httpClient.Do(req)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusOK {
			return nil
		}
		resp.Body.Close()
		err = fmt.Errorf("unexpected status code: %d (%s)", resp.StatusCode, resp.Status)
		// Client errors won't go away by retrying.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return backoff.Permanent(err)
		}
		return err
	}

	if err := backoff.Retry(op, cb); err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return io.Copy(target, resp.Body)
}
