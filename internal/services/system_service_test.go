package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/the-dna-lab/catalog-api/internal/domain"
)

type stubHealthRepository struct {
	report domain.SystemHealthReport
	err    error
	calls  int
}

func (s *stubHealthRepository) Collect(ctx context.Context) (domain.SystemHealthReport, error) {
	s.calls++
	return s.report, s.err
}

func TestSystemServiceHealthFillsDefaults(t *testing.T) {
	repo := &stubHealthRepository{
		report: domain.SystemHealthReport{
			Checks: map[string]domain.SystemHealthCheck{
				"firestore": {Status: domain.HealthStatusOK},
				"pubsub":    {Status: domain.HealthStatusDegraded},
			},
		},
	}
	svc, err := NewSystemService(SystemServiceDeps{
		HealthRepository: repo,
		Clock:            testClock,
	})
	if err != nil {
		t.Fatalf("NewSystemService: %v", err)
	}

	report, err := svc.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("collect calls = %d", repo.calls)
	}
	if report.Status != domain.HealthStatusDegraded {
		t.Fatalf("status = %q, want degraded", report.Status)
	}
	if !report.GeneratedAt.Equal(testClock().UTC()) {
		t.Fatalf("generatedAt = %v", report.GeneratedAt)
	}
}

func TestSystemServiceHealthPropagatesErrors(t *testing.T) {
	repo := &stubHealthRepository{err: errors.New("collect failed")}
	svc, err := NewSystemService(SystemServiceDeps{
		HealthRepository: repo,
		Clock:            func() time.Time { return testClock() },
	})
	if err != nil {
		t.Fatalf("NewSystemService: %v", err)
	}

	if _, err := svc.Health(context.Background()); err == nil {
		t.Fatal("expected error from Health")
	}
}
