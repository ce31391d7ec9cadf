package service

import (
	"sort"

	"github.com/avdeyev/go-note-sync/models"
)

// MergeByID implements the union-by-id policy shared by tasks, folders,
// sections and the activity log. The result contains every id present on
// either side exactly once.
//
// The map of survivors is seeded from remote entries; a local entry
// replaces its remote counterpart when either no counterpart exists or the
// local comparison timestamp is greater or equal. Local strictly wins
// ties: the device performing the merge keeps its own recent edits, which
// reduces perceived data loss for the active user.
//
// Output order is deterministic: remote order first (with replacements in
// place), then local-only entries in local order.
func MergeByID[T models.Mergeable](local, remote []T) []T {
	merged := make([]T, 0, len(local)+len(remote))

	localByKey := make(map[string]T, len(local))
	for _, l := range local {
		localByKey[l.Key()] = l
	}

	remoteKeys := make(map[string]struct{}, len(remote))
	for _, r := range remote {
		if _, dup := remoteKeys[r.Key()]; dup {
			continue
		}
		remoteKeys[r.Key()] = struct{}{}

		if l, ok := localByKey[r.Key()]; ok && !l.CompareAt().Before(r.CompareAt()) {
			merged = append(merged, l)
			continue
		}
		merged = append(merged, r)
	}

	for _, l := range local {
		if _, ok := remoteKeys[l.Key()]; !ok {
			merged = append(merged, l)
		}
	}

	return merged
}

// MergeSettings unions preference keys from both sides. On a key collision
// the local value wins; a key only the remote side has is adopted. Keys
// removed locally therefore reappear after a merge — the settings policy
// trades deletion propagation for simplicity.
func MergeSettings(local, remote models.Settings) models.Settings {
	if local == nil && remote == nil {
		return nil
	}

	merged := make(models.Settings, len(local)+len(remote))
	for k, v := range remote {
		merged[k] = v
	}
	for k, v := range local {
		merged[k] = v
	}
	return merged
}

// MergeActivity unions log entries by id and orders the result newest
// first. Entries are never dropped during a merge: the activity log is
// append-only across devices.
func MergeActivity(local, remote []models.ActivityEntry) []models.ActivityEntry {
	merged := MergeByID(local, remote)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	return merged
}

// ReplaceWholeDoc resolves a whole-document category: the local document
// is authoritative whenever it exists; the remote copy is adopted
// wholesale only when there is nothing local. No field-level merge
// happens for these categories.
func ReplaceWholeDoc(local, remote []byte) []byte {
	if len(local) > 0 {
		return local
	}
	return remote
}
