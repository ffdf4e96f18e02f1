package transferanalyzer

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/transfer-analyzer/analyzer"
)

type JobStatus string

const (
	StatusRunning JobStatus = "running"
	StatusDone    JobStatus = "done"
	StatusError   JobStatus = "error"
)

// Job tracks one analysis run launched through the HTTP API
type Job struct {
	ID         string
	CreatedAt  time.Time
	mu         sync.RWMutex
	status     JobStatus
	summary    *analyzer.Summary
	err        string
	reportPath string
}

func newJob() *Job {
	return &Job{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		status:    StatusRunning,
	}
}

func (j *Job) finish(sum analyzer.Summary, reportPath string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusDone
	j.summary = &sum
	j.reportPath = reportPath
}

func (j *Job) fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusError
	j.err = err.Error()
}

// JobView is the JSON shape of a job returned by the API
type JobView struct {
	ID        string            `json:"id"`
	Status    JobStatus         `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	Summary   *analyzer.Summary `json:"summary,omitempty"`
	Error     string            `json:"error,omitempty"`
}

func (j *Job) view() JobView {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return JobView{
		ID:        j.ID,
		Status:    j.status,
		CreatedAt: j.CreatedAt,
		Summary:   j.summary,
		Error:     j.err,
	}
}

func (j *Job) report() (string, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.reportPath, j.status == StatusDone && j.reportPath != ""
}

type jobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func newJobStore() *jobStore {
	return &jobStore{jobs: map[string]*Job{}}
}

func (s *jobStore) add(j *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
}

func (s *jobStore) get(id string) *Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs[id]
}
