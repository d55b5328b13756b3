package native

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const tempDir = "tmp"

// FileStore keeps revision payloads: temporary files while a revision is
// being materialized and permanent files once committed.
type FileStore struct {
	fs afero.Fs
}

// NewFileStore returns a store rooted at fs. Use afero.NewBasePathFs to
// root it at a directory of the host.
func NewFileStore(fs afero.Fs) *FileStore {
	return &FileStore{fs: fs}
}

// Fs returns the underlying filesystem.
func (s *FileStore) Fs() afero.Fs {
	return s.fs
}

// TempFile creates an empty temporary file.
func (s *FileStore) TempFile() (afero.File, error) {
	if err := s.fs.MkdirAll(tempDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "temporary directory cannot be created")
	}
	f, err := afero.TempFile(s.fs, tempDir, "native-")
	if err != nil {
		return nil, errors.Wrap(err, "temporary file cannot be created")
	}
	return f, nil
}

// Discard closes and removes a temporary file.
func (s *FileStore) Discard(f afero.File) {
	f.Close()
	s.fs.Remove(f.Name())
}

// Commit moves a closed temporary file into permanent storage under a
// fresh name and returns its path.
func (s *FileStore) Commit(name string, contextID, submissionID int64, ext string) (string, error) {
	dir := fmt.Sprintf("contexts/%d/submissions/%d", contextID, submissionID)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "directory %s cannot be created", dir)
	}
	filename := uuid.New().String()
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		filename += "." + ext
	}
	p := path.Join(dir, filename)
	if err := s.fs.Rename(name, p); err != nil {
		return "", errors.Wrapf(err, "%s cannot be moved into storage", name)
	}
	return p, nil
}

// Exists reports whether a stored file is present.
func (s *FileStore) Exists(p string) bool {
	ok, err := afero.Exists(s.fs, p)
	return err == nil && ok
}

// ReadFile returns the content of a stored file.
func (s *FileStore) ReadFile(p string) ([]byte, error) {
	return afero.ReadFile(s.fs, p)
}

// Size returns the size of a stored file.
func (s *FileStore) Size(p string) (int64, error) {
	fi, err := s.fs.Stat(p)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
