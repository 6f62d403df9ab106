package sqlite

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/fwojciec/schedq"
)

// Unique wraps a disk queue factory so every queue it creates gets a
// fresh, collision-free file name: a random suffix is appended to the
// base path, regenerated until the resulting path does not exist yet.
// Sanitized slot paths and restarts sharing a root directory can both
// leave files at the base path; the suffix keeps independently created
// queues from ever aliasing the same file.
func Unique(f schedq.DiskQueueFactory) schedq.DiskQueueFactory {
	return func(base string) (schedq.Queue, error) {
		for {
			path := base + "-" + uuid.NewString()[:8] + ".db"
			if _, err := os.Stat(path); err == nil {
				continue
			} else if !os.IsNotExist(err) {
				return nil, schedq.Errorf(schedq.ESTORAGE, "stat %q: %v", path, err)
			}
			return f(path)
		}
	}
}

// Attach reopens the one existing queue file for base inside dir, used
// when resuming from a snapshot. Zero or several candidates mean the
// snapshot and the directory disagree; resuming would lose or duplicate
// work, so fail loudly instead.
func Attach(dir, base string, order schedq.Order) (schedq.Queue, error) {
	matches, err := filepath.Glob(filepath.Join(dir, base+"-*.db"))
	if err != nil {
		return nil, schedq.Errorf(schedq.ESTORAGE, "scan %q for %q: %v", dir, base, err)
	}
	if len(matches) == 0 {
		return nil, schedq.Errorf(schedq.ESTORAGE, "no queue file for %q in %q; snapshot refers to missing data", base, dir)
	}
	if len(matches) > 1 {
		return nil, schedq.Errorf(schedq.ESTORAGE, "%d queue files for %q in %q; cannot resume unambiguously", len(matches), base, dir)
	}
	return OpenQueue(matches[0], order)
}
