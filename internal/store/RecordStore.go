package store

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"plantao/internal/models"
)

const (
	fileMode os.FileMode = 0644
	dirMode  os.FileMode = 0755
)

// FileVersion identifies one on-disk generation of the record file.
// Sum covers edits that keep size and a coarse mtime unchanged.
type FileVersion struct {
	ModTime time.Time
	Size    int64
	Sum     uint64
}

// RecordStore owns the record file. Writers are serialized by the gate;
// readers never take it because the file is only ever replaced by rename.
// A single process is assumed to own the file.
type RecordStore struct {
	path       string
	gate       sync.Locker
	normalizer *models.Normalizer
	now        func() time.Time
	rename     func(oldpath, newpath string) error

	// guarded by gate
	lastStamp time.Time
}

// NewRecordStore creates a store for the file at path. A nil gate gets a
// private mutex.
func NewRecordStore(path string, normalizer *models.Normalizer, gate sync.Locker) *RecordStore {
	if gate == nil {
		gate = &sync.Mutex{}
	}
	if normalizer == nil {
		normalizer = models.NewNormalizer(models.DefaultSupportContact(), nil)
	}
	return &RecordStore{
		path:       path,
		gate:       gate,
		normalizer: normalizer,
		now:        time.Now,
		rename:     os.Rename,
	}
}

func (s *RecordStore) Path() string {
	return s.path
}

// Read loads the record from disk and normalizes it. A missing file yields
// the default record; an unreadable one yields the default record with a
// warning attached. Read never fails.
func (s *RecordStore) Read() ReadResult {
	dirErr := os.MkdirAll(filepath.Dir(s.path), dirMode)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ReadResult{
				Record:  s.normalizer.Normalize(s.normalizer.Default()),
				Outcome: OutcomeMissingFile,
			}
		}
		if dirErr != nil {
			return s.corrupt(errors.Wrapf(err, "read record file (create data dir: %v)", dirErr))
		}
		return s.corrupt(errors.Wrap(err, "read record file"))
	}

	raw, err := DecodeValue(data)
	if err != nil {
		return s.corrupt(err)
	}
	return ReadResult{Record: s.normalizer.Normalize(raw), Outcome: OutcomeOk}
}

func (s *RecordStore) corrupt(cause error) ReadResult {
	rec := s.normalizer.Normalize(s.normalizer.Default())
	rec[models.FieldWarning] = models.CorruptFileWarning
	return ReadResult{Record: rec, Outcome: OutcomeCorruptFile, Cause: cause}
}

// Write normalizes raw, stamps updatedAt and atomically replaces the file.
// On error the previous file content is left in place.
func (s *RecordStore) Write(raw any) (models.Record, error) {
	s.gate.Lock()
	defer s.gate.Unlock()

	return s.write(s.normalizer.Normalize(raw))
}

// Reset writes the default record.
func (s *RecordStore) Reset() (models.Record, error) {
	s.gate.Lock()
	defer s.gate.Unlock()

	return s.write(s.normalizer.Default())
}

func (s *RecordStore) write(rec models.Record) (models.Record, error) {
	stamp := s.now()
	if stamp.Before(s.lastStamp) {
		stamp = s.lastStamp
	}
	rec[models.FieldUpdatedAt] = FormatTimestamp(stamp)

	if err := s.persist(rec); err != nil {
		return nil, err
	}
	s.lastStamp = stamp
	return rec, nil
}

// Stat reports the current file generation; ok is false when there is no file.
func (s *RecordStore) Stat() (FileVersion, bool) {
	info, err := os.Stat(s.path)
	if err != nil || !info.Mode().IsRegular() {
		return FileVersion{}, false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return FileVersion{}, false
	}
	return FileVersion{ModTime: info.ModTime(), Size: int64(len(data)), Sum: xxhash.Sum64(data)}, true
}

func (s *RecordStore) persist(rec models.Record) error {
	payload, err := EncodeRecord(rec)
	if err != nil {
		return s.fail(OpEncode, err)
	}

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, dirMode); err != nil {
		return s.fail(OpMkdir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return s.fail(OpCreate, err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return s.fail(OpWrite, err)
	}

	if err = tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return s.fail(OpSync, err)
	}

	if err = tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return s.fail(OpChmod, err)
	}

	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return s.fail(OpClose, err)
	}

	if err = s.rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return s.fail(OpReplace, err)
	}
	return nil
}

func (s *RecordStore) fail(op string, err error) error {
	return &WriteError{Op: op, Path: s.path, Err: errors.WithStack(err)}
}
