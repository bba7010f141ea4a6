package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockCorpus struct {
	available bool
}

func (m *mockCorpus) Available() bool { return m.available }

// --- Tests ---

func TestCheck(t *testing.T) {
	tests := []struct {
		name        string
		corpus      bool
		storageErr  error
		wantStatus  Status
		wantCorpus  CheckResult
		wantStorage CheckResult
	}{
		{"all healthy", true, nil, Healthy, CheckOK, CheckOK},
		{"storage down", true, errors.New("conn refused"), Degraded, CheckOK, CheckError},
		{"corpus unavailable", false, nil, Unhealthy, CheckError, CheckOK},
		{"both down", false, errors.New("timeout"), Unhealthy, CheckError, CheckError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(&mockCorpus{available: tc.corpus}, &mockPinger{err: tc.storageErr})
			r := svc.Check(context.Background())

			if r.Status != tc.wantStatus {
				t.Errorf("expected %q, got %q", tc.wantStatus, r.Status)
			}
			if r.Checks["corpus"] != tc.wantCorpus {
				t.Errorf("expected corpus %q, got %q", tc.wantCorpus, r.Checks["corpus"])
			}
			if r.Checks["storage"] != tc.wantStorage {
				t.Errorf("expected storage %q, got %q", tc.wantStorage, r.Checks["storage"])
			}
		})
	}
}

func TestCheck_NilStorage(t *testing.T) {
	svc := New(&mockCorpus{available: true}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["storage"]; ok {
		t.Error("storage check must be skipped when nil")
	}
}
