package job

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fwojciec/schedq"
)

// snapshotFile is the slot-to-priorities mapping written on close.
const snapshotFile = "slots.yaml"

func snapshotPath(dir string) string {
	return filepath.Join(dir, snapshotFile)
}

// readSnapshot loads the resume snapshot. A missing file means a fresh
// start. A file that is not a slot-to-priorities mapping (such as the
// flat-list layout written by earlier versions) aborts the open:
// misreading it would silently drop previously queued work. So does a
// slot entry with no priority levels, since only slots with pending
// entries are ever written.
func readSnapshot(path string) (schedq.Snapshot, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, schedq.Errorf(schedq.ESTORAGE, "read snapshot %q: %v", path, err)
	}

	var snap schedq.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		var legacy []any
		if yaml.Unmarshal(data, &legacy) == nil {
			return nil, schedq.Errorf(schedq.EMALFORMED,
				"snapshot %q uses the legacy flat-list layout, likely written by an older version; it cannot be resumed", path)
		}
		return nil, schedq.Errorf(schedq.EMALFORMED, "snapshot %q is not a slot-to-priorities mapping: %v", path, err)
	}
	for slot, levels := range snap {
		if len(levels) == 0 {
			return nil, schedq.Errorf(schedq.EMALFORMED, "snapshot %q lists slot %q with no priority levels", path, slot)
		}
	}
	return snap, nil
}

// writeSnapshot persists snap atomically: write to a temporary file in
// the same directory, then rename over the final path.
func writeSnapshot(path string, snap schedq.Snapshot) error {
	if snap == nil {
		snap = schedq.Snapshot{}
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return schedq.Errorf(schedq.EINTERNAL, "encode snapshot: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return schedq.Errorf(schedq.ESTORAGE, "create snapshot directory: %v", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return schedq.Errorf(schedq.ESTORAGE, "write snapshot %q: %v", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return schedq.Errorf(schedq.ESTORAGE, "commit snapshot %q: %v", path, err)
	}
	return nil
}
