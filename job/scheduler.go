// Package job implements the scheduler lifecycle. Backends and the
// fairness policy are fixed at construction; with a job directory the
// queue contents and a snapshot of the slot/priority layout persist
// across restarts.
package job

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/schedq"
	"github.com/fwojciec/schedq/fair"
	"github.com/fwojciec/schedq/memory"
	"github.com/fwojciec/schedq/sqlite"
)

// Policy selects the fairness rule used when popping.
type Policy int

const (
	// RoundRobin grants each active slot one turn per rotation cycle.
	RoundRobin Policy = iota

	// DownloaderAware favors the active slot with the fewest requests
	// in flight downstream. Requires a Tracker.
	DownloaderAware
)

// Config fixes the scheduler's backends at startup.
type Config struct {
	// Dir is the job directory holding queue files and the snapshot.
	// Empty means in-memory queues: nothing survives a restart.
	Dir string

	// Order is the tie-break within a priority level.
	Order schedq.Order

	// Policy is the fairness rule across slots.
	Policy Policy

	// Tracker supplies in-flight counts for the downloader-aware policy.
	Tracker schedq.Tracker
}

// Compile-time interface verification.
var _ schedq.Scheduler = (*Scheduler)(nil)

// Scheduler is the external-facing orchestrator over a fairness queue.
// It is single-threaded: callers driving it from multiple goroutines
// must serialize Enqueue, Next, and Close themselves.
type Scheduler struct {
	cfg   Config
	queue schedq.FairQueue
}

// NewScheduler creates a scheduler with the given configuration. Call
// Open before use.
func NewScheduler(cfg Config) *Scheduler {
	return &Scheduler{cfg: cfg}
}

// Open prepares the scheduler, resuming the persisted snapshot when the
// job directory holds one. A snapshot with an incompatible layout aborts
// the open with EMALFORMED rather than silently dropping queued work.
func (s *Scheduler) Open() error {
	var snap schedq.Snapshot
	if s.cfg.Dir != "" {
		var err error
		snap, err = readSnapshot(snapshotPath(s.cfg.Dir))
		if err != nil {
			return err
		}
	}

	factory := s.partitionFactory()

	var (
		queue schedq.FairQueue
		err   error
	)
	switch s.cfg.Policy {
	case DownloaderAware:
		queue, err = fair.NewDownloaderAware(factory, s.cfg.Tracker, snap)
	default:
		queue, err = fair.NewRoundRobin(factory, snap)
	}
	if err != nil {
		return err
	}
	s.queue = queue
	return nil
}

// Enqueue adds a request using its own Priority field.
func (s *Scheduler) Enqueue(r *schedq.Request) error {
	if s.queue == nil {
		return schedq.Errorf(schedq.EINTERNAL, "scheduler is not open")
	}
	if r == nil {
		return schedq.Errorf(schedq.EINVALID, "request required")
	}
	return s.queue.Push(r, r.Priority)
}

// Next returns the next request to dispatch, or nil when none pending.
func (s *Scheduler) Next() (*schedq.Request, error) {
	if s.queue == nil {
		return nil, schedq.Errorf(schedq.EINTERNAL, "scheduler is not open")
	}
	return s.queue.Pop()
}

// HasPending reports whether any request is waiting.
func (s *Scheduler) HasPending() bool {
	return s.Len() > 0
}

// Len returns the number of pending requests.
func (s *Scheduler) Len() int {
	if s.queue == nil {
		return 0
	}
	return s.queue.Len()
}

// Close shuts the fairness queue down and, when a job directory is
// configured, writes the snapshot so the run can resume. The reason is
// informational; decorators log it.
func (s *Scheduler) Close(reason string) error {
	if s.queue == nil {
		return nil
	}
	snap, err := s.queue.Close()
	s.queue = nil
	if err != nil {
		return err
	}
	if s.cfg.Dir == "" {
		return nil
	}
	return writeSnapshot(snapshotPath(s.cfg.Dir), snap)
}

// partitionFactory binds the configured backend into a fair.PartitionFactory.
func (s *Scheduler) partitionFactory() fair.PartitionFactory {
	if s.cfg.Dir == "" {
		return func(slot string, levels []int) (*fair.Partition, error) {
			return fair.NewPartition(func(int) (schedq.Queue, error) {
				return memory.New(s.cfg.Order), nil
			}, levels)
		}
	}

	create := sqlite.Unique(func(path string) (schedq.Queue, error) {
		return sqlite.OpenQueue(path, s.cfg.Order)
	})

	return func(slot string, levels []int) (*fair.Partition, error) {
		dir := filepath.Join(s.cfg.Dir, "slots", schedq.SlotPath(slot))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, schedq.Errorf(schedq.ESTORAGE, "create slot directory %q: %v", dir, err)
		}

		// Levels listed in the snapshot re-attach to their existing
		// files once; everything else gets a fresh unique file.
		resume := make(map[int]bool, len(levels))
		for _, lvl := range levels {
			resume[lvl] = true
		}

		mk := func(priority int) (schedq.Queue, error) {
			base := fmt.Sprintf("p%d", priority)
			if resume[priority] {
				delete(resume, priority)
				return sqlite.Attach(dir, base, s.cfg.Order)
			}
			return create(filepath.Join(dir, base))
		}
		return fair.NewPartition(mk, levels)
	}
}
