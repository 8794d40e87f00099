package service

import (
	"context"
	"errors"
	"sync"

	"followstats/internal/core/stats"
	"followstats/internal/modkit/repokit"
	"followstats/internal/services/api/users/domain"
	"followstats/internal/services/api/users/repo"

	"github.com/jackc/pgx/v5/pgconn"
)

// memRepo is an in memory repo.Repo
type memRepo struct {
	mu       sync.Mutex
	users    map[string]domain.Profile
	samples  map[int64][]stats.Sample
	nextID   int64
	failOn   string
	loads    int
	recorded []stats.Sample
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]domain.Profile{}, samples: map[int64][]stats.Sample{}, nextID: 1}
}

func (m *memRepo) add(p domain.Profile, samples ...stats.Sample) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.UserID = m.nextID
	m.nextID++
	m.users[p.Username] = p
	for i := range samples {
		samples[i].SubjectID = p.UserID
	}
	m.samples[p.UserID] = samples
	return p.UserID
}

func (m *memRepo) fail(op string) error {
	if m.failOn == op {
		return errors.New(op + " failed")
	}
	return nil
}

func (m *memRepo) UserID(_ context.Context, username string) (int64, bool, error) {
	if err := m.fail("UserID"); err != nil {
		return 0, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.users[username]
	return p.UserID, ok, nil
}

func (m *memRepo) Profile(_ context.Context, id int64) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.users {
		if p.UserID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memRepo) Samples(_ context.Context, id int64) ([]stats.Sample, error) {
	if err := m.fail("Samples"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	return append([]stats.Sample(nil), m.samples[id]...), nil
}

func (m *memRepo) Users(context.Context) ([]domain.UserRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.UserRef
	for _, p := range m.users {
		out = append(out, domain.UserRef{UserID: p.UserID, Username: p.Username})
	}
	return out, nil
}

func (m *memRepo) RecentSamples(_ context.Context, id int64, _ int) ([]stats.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.samples[id], nil
}

func (m *memRepo) UpsertUser(_ context.Context, p domain.Profile) (int64, bool, error) {
	if err := m.fail("UpsertUser"); err != nil {
		return 0, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.users[p.Username]; ok {
		p.UserID = old.UserID
		m.users[p.Username] = p
		return p.UserID, false, nil
	}
	p.UserID = m.nextID
	m.nextID++
	m.users[p.Username] = p
	return p.UserID, true, nil
}

func (m *memRepo) RecordSample(_ context.Context, s stats.Sample) error {
	if err := m.fail("RecordSample"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, s)
	m.samples[s.SubjectID] = append(m.samples[s.SubjectID], s)
	return nil
}

func binderOf(r *memRepo) repokit.Binder[repo.Repo] {
	return repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return r })
}

// fakeTx runs fn inline and records Exec statements
type fakeTx struct {
	mu    sync.Mutex
	execs []string
	txs   int
}

func (f *fakeTx) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error {
	f.mu.Lock()
	f.txs++
	f.mu.Unlock()
	return fn(f)
}

func (f *fakeTx) Exec(_ context.Context, sql string, _ ...any) (repokit.CommandTag, error) {
	f.mu.Lock()
	f.execs = append(f.execs, sql)
	f.mu.Unlock()
	return pgconn.NewCommandTag("SET"), nil
}

func (f *fakeTx) Query(context.Context, string, ...any) (repokit.Rows, error) {
	return nil, errors.New("fakeTx: no rows")
}

func (f *fakeTx) QueryRow(context.Context, string, ...any) repokit.Row { return nil }

// stubSource answers Lookup from a map
type stubSource struct {
	snaps map[string]*domain.Snapshot
	err   error
}

func (s stubSource) Lookup(_ context.Context, username string) (*domain.Snapshot, error) {
	return s.snaps[username], s.err
}

type stubExpander struct {
	to  string
	err error
}

func (s stubExpander) Expand(context.Context, string) (string, error) { return s.to, s.err }
