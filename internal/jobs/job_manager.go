package jobs

import (
	"fmt"
)

// Job is a scheduled task the manager can start and stop.
type Job interface {
	Name() string
	Start() error
	Stop()
}

// JobManager starts and stops every scheduled job together.
type JobManager struct {
	jobs []Job
}

func NewJobManager(jobs ...Job) *JobManager {
	return &JobManager{jobs: jobs}
}

// StartAll starts the jobs in order. If one fails the ones already started
// are stopped again.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.jobs {
		if err := job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", job.Name(), err)
		}
	}
	return nil
}

// StopAll stops the jobs in reverse order and waits for running executions.
func (jm *JobManager) StopAll() {
	for i := len(jm.jobs) - 1; i >= 0; i-- {
		jm.jobs[i].Stop()
	}
}
