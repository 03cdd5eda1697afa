package interfaces

type SchedulerInterface interface {
	Init()
	Stop()
	Persist() error
	// Close releases the snapshot codec. Call it after the last Persist.
	Close()
}
