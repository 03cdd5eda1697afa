package snapshot

import (
	"errors"
	"fmt"
	"plantao/internal/models"
	"plantao/internal/providers"
	"plantao/internal/store"
)

var ErrNoSnapshot = errors.New("no snapshot found")

// RecordWriter is the part of the record store a restore needs.
type RecordWriter interface {
	Write(raw any) (models.Record, error)
}

// Restorer puts a snapshot back as the live record. The snapshot goes
// through the normal write path, so it is normalized and stamped again.
type Restorer struct {
	fileManager *FileManager
	records     RecordWriter
	logger      providers.Logger
}

func NewRestorer(fileManager *FileManager, records RecordWriter, logger providers.Logger) *Restorer {
	return &Restorer{fileManager: fileManager, records: records, logger: logger}
}

// Restore writes the snapshot at fileName, or the newest one when fileName
// is empty, and returns the path it used.
func (r *Restorer) Restore(fileName string) (string, models.Record, error) {
	if fileName == "" {
		latest, ok, err := r.fileManager.Latest()
		if err != nil {
			return "", nil, err
		}
		if !ok {
			return "", nil, ErrNoSnapshot
		}
		fileName = latest.Path
	}

	data, err := r.fileManager.LoadSnapshot(fileName)
	if err != nil {
		return "", nil, err
	}
	raw, err := store.DecodeValue(data)
	if err != nil {
		return "", nil, fmt.Errorf("snapshot %s: %w", fileName, err)
	}

	rec, err := r.records.Write(raw)
	if err != nil {
		return "", nil, err
	}
	r.logger.Infof(providers.TypeStore, "Restored record from snapshot %s", fileName)
	return fileName, rec, nil
}

func (r *Restorer) Close() {
	r.fileManager.Close()
}
