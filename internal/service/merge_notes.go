// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package service

import (
	"time"

	"github.com/avdeyev/go-note-sync/models"
)

// NoteConflict pairs the two sides of a detected divergence: the local
// note whose content survives the merge and the remote revision that is
// preserved for the user as a conflict copy.
type NoteConflict struct {
	Local  models.Note
	Remote models.Note
}

// DetectConflict reports whether the local and remote revisions of one
// note have truly diverged: local carries unsynced edits built on a base
// the remote store has already advanced past.
//
// The full decision table for a note present on both sides:
//   - equal sync versions: no conflict, local is kept (both sides
//     converged on the same base).
//   - local version ahead: no conflict, local wins.
//   - local dirty and remote version ahead: conflict. Both devices edited
//     since the last common point; neither side may be silently dropped.
//   - remote version ahead and local clean: no conflict, remote wins
//     outright, local has nothing to lose.
//
// Notes are the only category with this three-way compare; every other
// category is deliberately last-writer-wins or local-priority.
func DetectConflict(local, remote models.Note) bool {
	return local.IsDirty && remote.SyncVersion > local.SyncVersion
}

// MergeNotes reconciles the local and remote note sets and returns the
// post-merge state ready to persist, plus the divergences that need a new
// conflict copy.
//
// Per-note outcomes:
//   - conflicted notes keep the local content but are flagged
//     (HasConflict, sync status conflict) and stay dirty; they are never
//     confirmed until the user resolves them. A note that is already
//     flagged passes through frozen and produces no second copy, so
//     re-merging the same divergence is idempotent.
//   - locally won notes are confirmed: a dirty winner publishes its edits
//     and bumps its sync version, a clean winner keeps its version.
//   - remotely won revisions are adopted wholesale.
//   - a local-only note that is clean and has synced before was deleted
//     on another device and is dropped; dirty or never-synced notes are
//     kept and uploaded.
//
// The caller persists the returned conflicts through the conflict store
// and stitches the resulting copy ids into the merged notes before
// saving them.
func MergeNotes(local, remote []models.Note, deviceID string, now time.Time) ([]models.Note, []NoteConflict) {
	merged := make([]models.Note, 0, len(local)+len(remote))
	var conflicts []NoteConflict

	localByID := make(map[string]models.Note, len(local))
	for _, l := range local {
		localByID[l.ID] = l
	}

	remoteSeen := make(map[string]struct{}, len(remote))
	for _, r := range remote {
		if _, dup := remoteSeen[r.ID]; dup {
			continue
		}
		remoteSeen[r.ID] = struct{}{}

		l, ok := localByID[r.ID]
		if !ok {
			merged = append(merged, confirmRemote(r, now))
			continue
		}

		switch {
		case l.HasConflict:
			// Still waiting on the user: a conflicted note is frozen
			// until resolved, whatever the remote side did meanwhile.
			merged = append(merged, l)
		case DetectConflict(l, r):
			flagged := l
			flagged.HasConflict = true
			flagged.SyncStatus = models.StatusConflict
			merged = append(merged, flagged)
			conflicts = append(conflicts, NoteConflict{Local: l, Remote: r})
		case r.SyncVersion > l.SyncVersion:
			merged = append(merged, confirmRemote(r, now))
		default:
			merged = append(merged, confirmLocal(l, deviceID, now))
		}
	}

	for _, l := range local {
		if _, ok := remoteSeen[l.ID]; ok {
			continue
		}
		if l.HasConflict {
			merged = append(merged, l)
			continue
		}
		if !l.IsDirty && l.LastSyncedAt != nil {
			// Clean and previously synced, yet gone from the remote file:
			// another device deleted it.
			continue
		}
		merged = append(merged, confirmLocal(l, deviceID, now))
	}

	return merged, conflicts
}

// confirmLocal stamps a locally won note as confirmed by this merge. A
// dirty winner is publishing its local edits, so the sync version is
// bumped and the note is re-authored by this device; a clean winner keeps
// its version.
func confirmLocal(n models.Note, deviceID string, now time.Time) models.Note {
	if n.IsDirty {
		n.SyncVersion++
		n.DeviceID = deviceID
	}
	n.IsDirty = false
	n.SyncStatus = models.StatusSynced
	n.LastSyncedAt = &now
	return n
}

// confirmRemote adopts a remote revision as local state. Conflict flags
// are stripped: conflict state is device-local, a copy referenced by
// another device does not exist here.
func confirmRemote(n models.Note, now time.Time) models.Note {
	n.IsDirty = false
	n.SyncStatus = models.StatusSynced
	n.LastSyncedAt = &now
	n.HasConflict = false
	n.ConflictCopyID = nil
	return n
}
