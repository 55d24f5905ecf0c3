package lvm

import (
	"context"
	"sync"
)

// mockEraser is a mock implementation of VolumeEraser for testing.
type mockEraser struct {
	mu      sync.Mutex
	cleared []string
	failFor map[string]error
}

func newMockEraser() *mockEraser {
	return &mockEraser{failFor: make(map[string]error)}
}

func (m *mockEraser) ClearVolume(_ context.Context, path string, _ EraseOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cleared = append(m.cleared, path)
	return m.failFor[path]
}
