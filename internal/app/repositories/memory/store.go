// Package memory is an in-process repositories.Store. Transactions work on a
// copy of the data that replaces the original only on commit, which gives the
// same all-or-nothing behaviour as PostgreSQL. It mirrors the schema's
// unique, cascade and set-null constraints.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/app/repositories"
)

type state struct {
	members       map[int64]models.Member
	profiles      map[int64]models.BusinessProfile
	categories    map[int64]models.Category
	referrals     map[int64]models.Referral
	families      map[int64]models.MemberFamily
	notifications map[int64]models.Notification
	seq           map[string]int64
}

func newState() *state {
	return &state{
		members:       map[int64]models.Member{},
		profiles:      map[int64]models.BusinessProfile{},
		categories:    map[int64]models.Category{},
		referrals:     map[int64]models.Referral{},
		families:      map[int64]models.MemberFamily{},
		notifications: map[int64]models.Notification{},
		seq:           map[string]int64{},
	}
}

func cloneMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	seq := make(map[string]int64, len(s.seq))
	for k, v := range s.seq {
		seq[k] = v
	}
	return &state{
		members:       cloneMap(s.members),
		profiles:      cloneMap(s.profiles),
		categories:    cloneMap(s.categories),
		referrals:     cloneMap(s.referrals),
		families:      cloneMap(s.families),
		notifications: cloneMap(s.notifications),
		seq:           seq,
	}
}

func (s *state) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// Store implements repositories.Store in memory.
type Store struct {
	mu   *sync.Mutex
	data *state
	inTx bool
	now  func() time.Time

	faults *faults
}

var _ repositories.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		mu:     &sync.Mutex{},
		data:   newState(),
		now:    time.Now,
		faults: &faults{byOp: map[string]error{}},
	}
}

// SetClock overrides the timestamp source for created_at/updated_at.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// FailOn makes the next call of op return err. Operation names have the
// form "<table>.<method>", for example "families.Create".
func (s *Store) FailOn(op string, err error) {
	s.faults.set(op, err)
}

func (s *Store) Members() repositories.IMemberRepository { return memberRepo{s} }
func (s *Store) BusinessProfiles() repositories.IBusinessProfileRepository {
	return profileRepo{s}
}
func (s *Store) Categories() repositories.ICategoryRepository       { return categoryRepo{s} }
func (s *Store) Referrals() repositories.IReferralRepository        { return referralRepo{s} }
func (s *Store) Families() repositories.IFamilyRepository           { return familyRepo{s} }
func (s *Store) Notifications() repositories.INotificationRepository { return notificationRepo{s} }

// WithTransaction runs fn on a private copy and publishes it if fn succeeds.
// Transactions are serialized.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{
		mu:     &sync.Mutex{},
		data:   s.data.clone(),
		inTx:   true,
		now:    s.now,
		faults: s.faults,
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

// do runs fn under the store lock after checking for an injected fault.
func (s *Store) do(op string, fn func(d *state) error) error {
	if err := s.faults.take(op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

type faults struct {
	mu   sync.Mutex
	byOp map[string]error
}

func (f *faults) set(op string, err error) {
	f.mu.Lock()
	f.byOp[op] = err
	f.mu.Unlock()
}

func (f *faults) take(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err, ok := f.byOp[op]
	if ok {
		delete(f.byOp, op)
	}
	return err
}

// Counts reports the number of rows per table.
type Counts struct {
	Members, BusinessProfiles, Categories, Referrals, Families, Notifications int
}

// Counts returns the current row counts.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Members:          len(s.data.members),
		BusinessProfiles: len(s.data.profiles),
		Categories:       len(s.data.categories),
		Referrals:        len(s.data.referrals),
		Families:         len(s.data.families),
		Notifications:    len(s.data.notifications),
	}
}
