package scheduler

import "github.com/hibiken/asynq"

// TaskFetchLeads is the periodic IndiaMART lead fetch. It carries no payload:
// the worker derives the window from the configured lookback at run time.
const TaskFetchLeads = "indiamart.fetch.scheduled"

// NewFetchLeadsTask creates the periodic fetch task.
func NewFetchLeadsTask() *asynq.Task {
	return asynq.NewTask(TaskFetchLeads, nil)
}
