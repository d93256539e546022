package jobs

import (
	"fmt"
)

// Job is a scheduled background task.
type Job interface {
	Start() error
	Stop()
}

// JobManager starts and stops every scheduled job of the service.
type JobManager struct {
	jobs []namedJob
}

type namedJob struct {
	name string
	job  Job
}

// NewJobManager wires the service's jobs.
func NewJobManager(redelivery *NotificationRedeliveryJob) *JobManager {
	return &JobManager{
		jobs: []namedJob{{name: "notification redelivery", job: redelivery}},
	}
}

// StartAll starts the jobs in order. If one fails to start, the ones already
// started are stopped again.
func (jm *JobManager) StartAll() error {
	for i, nj := range jm.jobs {
		if err := nj.job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.job.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", nj.name, err)
		}
	}
	return nil
}

// StopAll stops all jobs, last started first.
func (jm *JobManager) StopAll() {
	for i := len(jm.jobs) - 1; i >= 0; i-- {
		jm.jobs[i].job.Stop()
	}
}
