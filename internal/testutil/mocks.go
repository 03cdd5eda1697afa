package testutil

import (
	"plantao/internal/models"
	"plantao/internal/providers"
	"plantao/internal/services"
	"plantao/internal/store"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu           sync.Mutex
	ReadOutcomes map[string]int
	Writes       map[string]int
	Persisted    int
	CacheHits    int
	CacheMisses  int
	RateLimited  int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{ReadOutcomes: map[string]int{}, Writes: map[string]int{}}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}
func (m *MockMetrics) IncReadOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadOutcomes[outcome]++
}
func (m *MockMetrics) IncWrites(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes[result]++
}
func (m *MockMetrics) IncRateLimited() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RateLimited++
}

// MockRecordStore implements services.RecordStoreInterface in memory.
type MockRecordStore struct {
	mu         sync.Mutex
	Result     store.ReadResult
	WriteErr   error
	WriteCalls []any
	ResetCalls int
	Version    store.FileVersion
	HasFile    bool
	FilePath   string
}

func (m *MockRecordStore) Read() store.ReadResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Result
}

func (m *MockRecordStore) Write(raw any) (models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCalls = append(m.WriteCalls, raw)
	if m.WriteErr != nil {
		return nil, m.WriteErr
	}
	rec := models.Normalize(raw)
	rec[models.FieldUpdatedAt] = store.FormatTimestamp(time.Now())
	m.Result = store.ReadResult{Record: rec, Outcome: store.OutcomeOk}
	return rec, nil
}

func (m *MockRecordStore) Reset() (models.Record, error) {
	m.mu.Lock()
	m.ResetCalls++
	m.mu.Unlock()
	return m.Write(map[string]any{})
}

func (m *MockRecordStore) Stat() (store.FileVersion, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Version, m.HasFile
}

func (m *MockRecordStore) Path() string {
	return m.FilePath
}

// MockPlantaoService implements services.PlantaoServiceInterface.
type MockPlantaoService struct {
	mu         sync.Mutex
	Record     models.Record
	WriteErr   error
	WriteCalls []any
	ResetCalls int
	ReadCalls  int
	Version    store.FileVersion
	HasFile    bool
	StatsValue services.ServiceStats
}

func (m *MockPlantaoService) ReadRecord() models.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadCalls++
	if m.Record == nil {
		return models.Normalize(nil)
	}
	return m.Record.Clone()
}

func (m *MockPlantaoService) WriteRecord(body any) (models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCalls = append(m.WriteCalls, body)
	if m.WriteErr != nil {
		return nil, m.WriteErr
	}
	m.Record = models.Normalize(body)
	m.Record[models.FieldUpdatedAt] = store.FormatTimestamp(time.Now())
	return m.Record.Clone(), nil
}

func (m *MockPlantaoService) ResetRecord() (models.Record, error) {
	m.mu.Lock()
	m.ResetCalls++
	m.mu.Unlock()
	return m.WriteRecord(map[string]any{})
}

func (m *MockPlantaoService) RecordVersion() (store.FileVersion, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Version, m.HasFile
}

func (m *MockPlantaoService) Stats() services.ServiceStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StatsValue
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu      sync.Mutex
	Data    map[string][]byte
	Clears  int
	Deletes []string
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes = append(m.Deletes, key)
	delete(m.Data, key)
}

func (m *MockCache) ClearCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Clears
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clears++
	m.Data = make(map[string][]byte)
}

// MockCompressor implements snapshot.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closes       int
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closes++ }
