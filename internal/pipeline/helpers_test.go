package pipeline_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kurochkinivan/bulk_uploader/internal/domain"
	"github.com/stretchr/testify/require"
)

var discardLog = slog.New(slog.DiscardHandler)

// memTrackers enforces the same status rules as the postgres repository.
type memTrackers struct {
	mu      sync.Mutex
	jobs    map[string]*domain.IngestionJob
	updates []domain.JobUpdate

	// onUpdate runs after every accepted update.
	onUpdate func(domain.JobUpdate)
}

func newMemTrackers(jobs ...*domain.IngestionJob) *memTrackers {
	m := &memTrackers{jobs: make(map[string]*domain.IngestionJob)}
	for _, job := range jobs {
		m.jobs[job.ID] = job
	}
	return m
}

func (m *memTrackers) JobByID(_ context.Context, id string) (*domain.IngestionJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	cp := *job
	cp.Errors = slices.Clone(job.Errors)
	return &cp, nil
}

func (m *memTrackers) UpdateJob(_ context.Context, id string, update domain.JobUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}

	if update.Status != nil {
		if !domain.CanTransition(job.Status, *update.Status) {
			return domain.ErrInvalidTransition
		}
	} else if job.Status != domain.StatusProcessing {
		return domain.ErrJobNotRunning
	}

	update.Apply(job)
	job.UpdatedAt = time.Now()
	m.updates = append(m.updates, update)

	if m.onUpdate != nil {
		m.onUpdate(update)
	}

	return nil
}

func (m *memTrackers) JobsByOwner(_ context.Context, owner string) ([]*domain.IngestionJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var jobs []*domain.IngestionJob
	for _, job := range m.jobs {
		if job.Owner == owner {
			cp := *job
			jobs = append(jobs, &cp)
		}
	}

	slices.SortFunc(jobs, func(a, b *domain.IngestionJob) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return jobs, nil
}

func (m *memTrackers) setStatus(id string, status domain.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobs[id].Status = status
}

func (m *memTrackers) get(t *testing.T, id string) *domain.IngestionJob {
	t.Helper()

	job, err := m.JobByID(context.Background(), id)
	require.NoError(t, err)

	return job
}

type published struct {
	routingKey string
	event      domain.Event
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []published
}

func (b *recordingBroadcaster) Publish(_ context.Context, routingKey string, event domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = append(b.events, published{routingKey: routingKey, event: event})
}

func (b *recordingBroadcaster) named(name domain.EventName) []domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	var events []domain.Event
	for _, p := range b.events {
		if p.event.Name == name {
			events = append(events, p.event)
		}
	}
	return events
}

func (b *recordingBroadcaster) names() []domain.EventName {
	b.mu.Lock()
	defer b.mu.Unlock()

	names := make([]domain.EventName, 0, len(b.events))
	for _, p := range b.events {
		names = append(names, p.event.Name)
	}
	return names
}

func (b *recordingBroadcaster) percents() []int {
	var percents []int
	for _, e := range b.named(domain.EventProgress) {
		percents = append(percents, e.Payload.(domain.ProgressPayload).Percent)
	}
	return percents
}

// createCSV writes a two column file with n data rows; cell "id" holds the
// 1-based row number.
func createCSV(t *testing.T, n int) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("id,name\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d,user-%d\n", i, i)
	}

	return writeCSV(t, b.String())
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "*.csv")
	require.NoError(t, err)

	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	return f.Name()
}

func newJob(id, owner, path string) *domain.IngestionJob {
	return &domain.IngestionJob{
		ID:         id,
		Owner:      owner,
		SourcePath: path,
		Status:     domain.StatusQueued,
		Errors:     []domain.RowError{},
		CreatedAt:  time.Now(),
	}
}
