package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"plantao/internal/providers"
	"plantao/internal/snapshot/interfaces"
	"plantao/internal/structures"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const snapshotSuffix = ".json.zst"

// Snapshot is one compressed copy of the record file.
type Snapshot struct {
	Path    string
	TakenAt time.Time
}

// FileManager copies the record file into compressed, timestamped snapshots
// and prunes old ones. Snapshots are never read by the record store.
type FileManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	recordPath string
	dir        string
	prefix     string
	keep       int
	now        func() time.Time
	closeOnce  sync.Once
}

func NewFileManager(compressor interfaces.CompressorInterface, conf *structures.Config, logger providers.Logger) *FileManager {
	recordPath := providers.RecordPath(conf)
	return &FileManager{
		compressor: compressor,
		logger:     logger,
		recordPath: recordPath,
		dir:        conf.Snapshot.Dir,
		prefix:     strings.TrimSuffix(filepath.Base(recordPath), filepath.Ext(recordPath)) + "-",
		keep:       conf.Snapshot.Keep,
		now:        time.Now,
	}
}

// SaveSnapshot writes a snapshot of the current record file. It returns an
// empty path and no error when there is no record file yet.
func (f *FileManager) SaveSnapshot() (string, error) {
	data, err := os.ReadFile(f.recordPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	compressed, err := f.compressor.Compress(data)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(f.dir, 0755); err != nil {
		return "", err
	}
	fileName := filepath.Join(f.dir, f.prefix+strconv.FormatInt(f.now().UnixNano(), 10)+snapshotSuffix)
	if err = writeFileAtomic(fileName, compressed); err != nil {
		return "", err
	}

	if err = f.prune(); err != nil {
		f.logger.Warnf(providers.TypeApp, "Prune snapshots in %s: %s", f.dir, err)
	}
	return fileName, nil
}

func writeFileAtomic(fileName string, data []byte) error {
	file, err := os.CreateTemp(filepath.Dir(fileName), "."+filepath.Base(fileName)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpFile := file.Name()

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, fileName); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return nil
}

// List returns the snapshots in the directory, oldest first.
func (f *FileManager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out []Snapshot
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !strings.HasPrefix(name, f.prefix) || !strings.HasSuffix(name, snapshotSuffix) {
			continue
		}
		nanos, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, f.prefix), snapshotSuffix), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, Snapshot{Path: filepath.Join(f.dir, name), TakenAt: time.Unix(0, nanos)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TakenAt.Before(out[j].TakenAt) })
	return out, nil
}

// Latest returns the newest snapshot; ok is false when there is none.
func (f *FileManager) Latest() (Snapshot, bool, error) {
	list, err := f.List()
	if err != nil || len(list) == 0 {
		return Snapshot{}, false, err
	}
	return list[len(list)-1], true, nil
}

// LoadSnapshot returns the record file bytes stored in a snapshot.
func (f *FileManager) LoadSnapshot(fileName string) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", fileName, err)
	}
	return decompressed, nil
}

// prune keeps the newest keep snapshots. keep <= 0 keeps everything.
func (f *FileManager) prune() error {
	if f.keep <= 0 {
		return nil
	}
	list, err := f.List()
	if err != nil {
		return err
	}
	var errs []error
	for len(list) > f.keep {
		if err := os.Remove(list[0].Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
		list = list[1:]
	}
	return errors.Join(errs...)
}

// Close releases the compressor. Safe to call more than once.
func (f *FileManager) Close() {
	f.closeOnce.Do(f.compressor.Close)
}
