package tasks

// SchedulerInterface defines the operations the server layer needs from
// the sync scheduler: lifecycle control and on-demand triggering.
type SchedulerInterface interface {
	Start()
	Stop()
	TriggerSync() bool
}
