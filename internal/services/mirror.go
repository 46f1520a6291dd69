package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoMirror is returned by MirrorStatus when the backend is not the
// local SQLite mirror.
var ErrNoMirror = errors.New("backend has no local mirror")

// MirrorStatus summarizes what the local mirror holds.
type MirrorStatus struct {
	// Counts maps each mirror table to its row count.
	Counts map[string]int64
	// Latest is the start time of the newest query, zero when empty.
	Latest    time.Time
	CheckedAt time.Time
}

// Empty reports whether the mirror has no query history.
func (s MirrorStatus) Empty() bool {
	return s.Latest.IsZero()
}

// MirrorStatus reads the row counts and the latest query time of the
// local mirror.
func (m *Manager) MirrorStatus(ctx context.Context) (MirrorStatus, error) {
	if m.backend == nil || m.backend.Mirror == nil {
		return MirrorStatus{}, ErrNoMirror
	}

	counts, err := m.backend.Mirror.TableCounts(ctx)
	if err != nil {
		return MirrorStatus{}, fmt.Errorf("failed to read mirror status: %w", err)
	}
	latest, err := m.backend.Mirror.LatestActivity(ctx)
	if err != nil {
		return MirrorStatus{}, fmt.Errorf("failed to read mirror status: %w", err)
	}

	return MirrorStatus{Counts: counts, Latest: latest, CheckedAt: time.Now()}, nil
}
