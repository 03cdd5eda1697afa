package snapshot

import (
	"plantao/internal/providers"
	"plantao/internal/snapshot/interfaces"
	"plantao/internal/structures"
	"sync"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	fileManager *FileManager
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	if !s.config.Snapshot.Enabled {
		return
	}
	s.cron = gron.New()
	interval := s.config.Snapshot.Interval

	s.cron.AddFunc(gron.Every(interval), func() {
		_ = s.Persist()
	})

	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Snapshots every %s into %s, keeping %d", interval, s.config.Snapshot.Dir, s.config.Snapshot.Keep)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

// Persist takes one snapshot now. It is a no-op when snapshots are disabled.
func (s *Scheduler) Persist() error {
	if !s.config.Snapshot.Enabled {
		return nil
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	fileName, err := s.fileManager.SaveSnapshot()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while taking snapshot: %s", err)
		return err
	}
	if fileName == "" {
		s.logger.Debugf(providers.TypeApp, "No record file yet, snapshot skipped")
		return nil
	}
	s.logger.Infof(providers.TypeApp, "Snapshot written to %s", fileName)
	return nil
}

// Close stops the cron and releases the file manager.
func (s *Scheduler) Close() {
	s.Stop()
	s.fileManager.Close()
}

func NewScheduler(config *structures.Config, logger providers.Logger, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		fileManager: fileManager,
	}
}
