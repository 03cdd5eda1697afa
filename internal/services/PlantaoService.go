package services

import (
	"plantao/internal/models"
	"plantao/internal/providers"
	"plantao/internal/store"
	"time"

	"go.uber.org/atomic"
)

// RecordStoreInterface is the durable store as the service uses it.
type RecordStoreInterface interface {
	Read() store.ReadResult
	Write(raw any) (models.Record, error)
	Reset() (models.Record, error)
	Stat() (store.FileVersion, bool)
	Path() string
}

type PlantaoServiceInterface interface {
	ReadRecord() models.Record
	WriteRecord(body any) (models.Record, error)
	ResetRecord() (models.Record, error)
	RecordVersion() (store.FileVersion, bool)
	Stats() ServiceStats
}

type ServiceStats struct {
	Writes        int64  `json:"writes"`
	WriteFailures int64  `json:"write_failures"`
	CorruptReads  int64  `json:"corrupt_reads"`
	LastWriteAt   string `json:"last_write_at,omitempty"`
}

type PlantaoService struct {
	store   RecordStoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface

	writes        atomic.Int64
	writeFailures atomic.Int64
	corruptReads  atomic.Int64
	lastWriteAt   atomic.String
}

func NewPlantaoService(recordStore RecordStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *PlantaoService {
	return &PlantaoService{
		store:   recordStore,
		logger:  logger,
		metrics: metrics,
	}
}

func (ps *PlantaoService) ReadRecord() models.Record {
	res := ps.store.Read()
	ps.metrics.IncReadOutcome(res.Outcome.String())

	switch res.Outcome {
	case store.OutcomeCorruptFile:
		ps.corruptReads.Inc()
		ps.logger.Warnf(providers.TypeStore, "Record file %s unreadable, serving defaults: %s", ps.store.Path(), res.Cause)
	case store.OutcomeMissingFile:
		ps.logger.Debugf(providers.TypeStore, "Record file %s not found, serving defaults", ps.store.Path())
	}
	return res.Record
}

func (ps *PlantaoService) WriteRecord(body any) (models.Record, error) {
	return ps.track("write", func() (models.Record, error) {
		return ps.store.Write(body)
	})
}

func (ps *PlantaoService) ResetRecord() (models.Record, error) {
	return ps.track("reset", func() (models.Record, error) {
		return ps.store.Reset()
	})
}

func (ps *PlantaoService) track(op string, fn func() (models.Record, error)) (models.Record, error) {
	start := time.Now()
	rec, err := fn()
	ps.metrics.ObservePersistenceDuration(time.Since(start))

	if err != nil {
		ps.writeFailures.Inc()
		ps.metrics.IncWrites("error")
		ps.logger.Errorf(providers.TypeStore, "Record %s failed: %s", op, err)
		return nil, err
	}

	ps.writes.Inc()
	ps.metrics.IncWrites("ok")
	if ts, ok := rec.UpdatedAt(); ok {
		ps.lastWriteAt.Store(ts)
	}
	ps.logger.Infof(providers.TypeStore, "Record %s persisted to %s", op, ps.store.Path())
	return rec, nil
}

func (ps *PlantaoService) RecordVersion() (store.FileVersion, bool) {
	return ps.store.Stat()
}

func (ps *PlantaoService) Stats() ServiceStats {
	return ServiceStats{
		Writes:        ps.writes.Load(),
		WriteFailures: ps.writeFailures.Load(),
		CorruptReads:  ps.corruptReads.Load(),
		LastWriteAt:   ps.lastWriteAt.Load(),
	}
}
