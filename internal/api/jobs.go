package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/CedarQuran/core/errors"
	"github.com/FocuswithJustin/CedarQuran/core/metrics"
	"github.com/FocuswithJustin/CedarQuran/internal/logging"
)

// JobStatus represents the current state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// ChapterStatsResult is the per-chapter output of a corpus-stats job.
type ChapterStatsResult struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Verses  int    `json:"verses"`
	Words   int    `json:"words"`
	Letters int    `json:"letters"`
}

// StatsResult is the final output of a corpus-stats job.
type StatsResult struct {
	Chapters []ChapterStatsResult `json:"chapters"`
	Totals   metrics.Counts       `json:"totals"`
}

// Job represents an asynchronous corpus analysis job.
type Job struct {
	ID          string             `json:"id"`
	Status      JobStatus          `json:"status"`
	Progress    int                `json:"progress"` // 0-100
	Result      *StatsResult       `json:"result,omitempty"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
	CompletedAt string             `json:"completed_at,omitempty"`
	ctx         context.Context    `json:"-"`
	cancel      context.CancelFunc `json:"-"`
}

// defaultJobLimit bounds the number of jobs kept in memory. Terminal
// jobs beyond the limit are pruned oldest-first on the next Create.
const defaultJobLimit = 128

// JobStore manages analysis jobs in memory.
type JobStore struct {
	jobs  map[string]*Job
	order []string // creation order, for pruning
	limit int
	mu    sync.RWMutex
}

// NewJobStore creates a new job store.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs:  make(map[string]*Job),
		limit: defaultJobLimit,
	}
}

// Create creates a new pending job and returns it. Terminal jobs are
// pruned oldest-first when the store exceeds its limit, so finished
// results stay queryable for a while but never accumulate unbounded.
func (s *JobStore) Create() *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now().UTC().Format(time.RFC3339)

	job := &Job{
		ID:        uuid.New().String(),
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		ctx:       ctx,
		cancel:    cancel,
	}
	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)
	s.prune()
	return job
}

// prune drops the oldest terminal jobs until the store fits its
// limit. Pending and running jobs are never dropped. Callers hold
// s.mu.
func (s *JobStore) prune() {
	if len(s.jobs) <= s.limit {
		return
	}
	kept := s.order[:0]
	for _, id := range s.order {
		job, ok := s.jobs[id]
		if !ok {
			continue
		}
		if len(s.jobs) > s.limit && isTerminal(job.Status) {
			job.cancel()
			delete(s.jobs, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

func isTerminal(status JobStatus) bool {
	switch status {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// Get retrieves a snapshot of a job by ID.
func (s *JobStore) Get(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, errors.NewNotFound("job", id)
	}
	return *job, nil
}

// Cancel cancels a running job.
func (s *JobStore) Cancel(id string) error {
	s.mu.RLock()
	job, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return errors.NewNotFound("job", id)
	}
	job.cancel()
	return nil
}

// update mutates a job under the store lock.
func (s *JobStore) update(id string, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return
	}
	fn(job)
	job.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if isTerminal(job.Status) {
		job.CompletedAt = job.UpdatedAt
	}
}

// runStatsJob computes per-chapter and total counts for the whole
// corpus, reporting progress to the store and the WebSocket hub.
func (s *Server) runStatsJob(job *Job, opts metrics.Options) {
	s.jobs.update(job.ID, func(j *Job) { j.Status = JobStatusRunning })
	logging.JobEvent(job.ID, string(JobStatusRunning), 0)

	chapters := s.analyzer.Corpus().Chapters()
	result := &StatsResult{Chapters: make([]ChapterStatsResult, 0, len(chapters))}

	for i := range chapters {
		select {
		case <-job.ctx.Done():
			s.jobs.update(job.ID, func(j *Job) { j.Status = JobStatusCancelled })
			s.hub.BroadcastError("corpus-stats", job.ID, "cancelled")
			return
		default:
		}

		ch := &chapters[i]
		counts, err := s.analyzer.ChapterCounts(ch.Number, opts)
		if err != nil {
			s.jobs.update(job.ID, func(j *Job) {
				j.Status = JobStatusFailed
				j.Error = err.Error()
			})
			logging.JobEvent(job.ID, string(JobStatusFailed), 0, "error", err)
			s.hub.BroadcastError("corpus-stats", job.ID, err.Error())
			return
		}

		result.Chapters = append(result.Chapters, ChapterStatsResult{
			Number:  ch.Number,
			Name:    ch.Name,
			Verses:  ch.VerseCount(),
			Words:   counts.Words,
			Letters: counts.Letters,
		})
		result.Totals.Words += counts.Words
		result.Totals.Letters += counts.Letters

		progress := (i + 1) * 100 / len(chapters)
		s.jobs.update(job.ID, func(j *Job) { j.Progress = progress })
		s.hub.BroadcastProgress("corpus-stats", job.ID, progress)
	}

	s.jobs.update(job.ID, func(j *Job) {
		j.Status = JobStatusCompleted
		j.Progress = 100
		j.Result = result
	})
	logging.JobEvent(job.ID, string(JobStatusCompleted), 100)
	s.hub.BroadcastComplete("corpus-stats", job.ID, map[string]interface{}{
		"words":   result.Totals.Words,
		"letters": result.Totals.Letters,
	})
}

func (s *Server) handleCreateStatsJob(w http.ResponseWriter, r *http.Request) {
	opts := optionsFromQuery(r)
	if err := opts.Tokenize.Validate(); err != nil {
		writeError(w, err)
		return
	}

	job := s.jobs.Create()
	go s.runStatsJob(job, opts)

	snapshot, err := s.jobs.Get(job.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, snapshot, 0)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job, 0)
}
