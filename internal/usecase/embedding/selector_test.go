package embedding

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/techstore/catalogqa/internal/domain"
)

type mockBackend struct {
	plainMockEmbedder
	name     string
	dim      int
	probeErr error
	probed   int
}

func (m *mockBackend) Probe(_ context.Context) (int, error) {
	m.probed++
	return m.dim, m.probeErr
}

func (m *mockBackend) Provider() string { return m.name }
func (m *mockBackend) Model() string    { return m.name + "-model" }

func TestSelect_PrefersLocal(t *testing.T) {
	local := &mockBackend{name: "local", dim: 384}
	remote := &mockBackend{name: "remote", dim: 1536}

	sel, err := Select(context.Background(), local, remote, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Backend != local || sel.Dim != 384 {
		t.Errorf("selected %s/%d", sel.Backend.Provider(), sel.Dim)
	}
	if remote.probed != 0 {
		t.Error("remote must not be probed when local works")
	}
}

func TestSelect_FallsBackToRemote(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	local := &mockBackend{name: "local", probeErr: errors.New("connection refused")}
	remote := &mockBackend{name: "remote", dim: 1536}

	sel, err := Select(context.Background(), local, remote, zap.New(core))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Backend != remote || sel.Dim != 1536 {
		t.Errorf("selected %s/%d", sel.Backend.Provider(), sel.Dim)
	}
	if logs.FilterMessage("Local embedding backend unavailable").Len() != 1 {
		t.Error("local failure must be logged")
	}
}

func TestSelect_RemoteOnly(t *testing.T) {
	remote := &mockBackend{name: "remote", dim: 8}
	sel, err := Select(context.Background(), nil, remote, zap.NewNop())
	if err != nil || sel.Backend != remote {
		t.Fatalf("sel=%v err=%v", sel, err)
	}
}

func TestSelect_NoBackend(t *testing.T) {
	tests := []struct {
		name          string
		local, remote Backend
	}{
		{"none configured", nil, nil},
		{"local down, no remote", &mockBackend{probeErr: errors.New("down")}, nil},
		{"both down", &mockBackend{probeErr: errors.New("down")}, &mockBackend{probeErr: errors.New("401")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Select(context.Background(), tt.local, tt.remote, zap.NewNop())
			if !errors.Is(err, domain.ErrNoEmbeddingBackend) {
				t.Fatalf("expected ErrNoEmbeddingBackend, got %v", err)
			}
		})
	}
}
