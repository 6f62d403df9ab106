package fair

import "github.com/fwojciec/schedq"

// Compile-time interface verification.
var _ schedq.FairQueue = (*DownloaderAware)(nil)

// DownloaderAware shares RoundRobin's partitioning and persistence but
// replaces the pop-selection rule: it dispatches from the active slot
// with the fewest requests currently in flight downstream, breaking ties
// by rotation order (earliest-active slot wins). Slots the tracker has
// never seen count as zero in flight.
type DownloaderAware struct {
	rr      *RoundRobin
	tracker schedq.Tracker
}

// NewDownloaderAware builds the queue, resuming from snap when non-nil.
func NewDownloaderAware(factory PartitionFactory, tracker schedq.Tracker, snap schedq.Snapshot) (*DownloaderAware, error) {
	if tracker == nil {
		return nil, schedq.Errorf(schedq.EINVALID, "downloader-aware queue requires a tracker")
	}
	rr, err := NewRoundRobin(factory, snap)
	if err != nil {
		return nil, err
	}
	return &DownloaderAware{rr: rr, tracker: tracker}, nil
}

func (d *DownloaderAware) Push(r *schedq.Request, priority int) error {
	return d.rr.Push(r, priority)
}

// Pop dispatches one entry from the least busy active slot.
func (d *DownloaderAware) Pop() (*schedq.Request, error) {
	if len(d.rr.rotation) == 0 {
		return nil, nil
	}

	best := 0
	bestCount := d.tracker.InFlight(d.rr.rotation[0])
	for i := 1; i < len(d.rr.rotation); i++ {
		if c := d.tracker.InFlight(d.rr.rotation[i]); c < bestCount {
			best, bestCount = i, c
		}
	}

	slot := d.rr.rotation[best]
	d.rr.rotation = append(d.rr.rotation[:best], d.rr.rotation[best+1:]...)
	return d.rr.popSlot(slot)
}

func (d *DownloaderAware) Len() int {
	return d.rr.Len()
}

func (d *DownloaderAware) Close() (schedq.Snapshot, error) {
	return d.rr.Close()
}
