package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/memberdir/internal/db"
)

// ErrCategoryNameTaken is returned when a category insert hits the unique name.
var ErrCategoryNameTaken = errors.New("category name already exists")

// DBTX is implemented by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRunner opens database transactions. *db.PostgresDB implements it.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// Store gives access to every repository and lets callers group writes into
// one transaction. Repositories obtained from the Store passed to fn all
// share that transaction.
type Store interface {
	Members() IMemberRepository
	BusinessProfiles() IBusinessProfileRepository
	Categories() ICategoryRepository
	Referrals() IReferralRepository
	Families() IFamilyRepository
	Notifications() INotificationRepository

	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// Repositories is the PostgreSQL Store
type Repositories struct {
	runner TxRunner
	inTx   bool

	members          *MemberRepository
	businessProfiles *BusinessProfileRepository
	categories       *CategoryRepository
	referrals        *ReferralRepository
	families         *FamilyRepository
	notifications    *NotificationRepository
}

// NewRepositories initializes all repositories on top of the connection pool
func NewRepositories(pg *db.PostgresDB) *Repositories {
	return newRepositories(pg.Pool, pg, false)
}

func newRepositories(conn DBTX, runner TxRunner, inTx bool) *Repositories {
	return &Repositories{
		runner:           runner,
		inTx:             inTx,
		members:          NewMemberRepository(conn),
		businessProfiles: NewBusinessProfileRepository(conn),
		categories:       NewCategoryRepository(conn),
		referrals:        NewReferralRepository(conn),
		families:         NewFamilyRepository(conn),
		notifications:    NewNotificationRepository(conn),
	}
}

func (r *Repositories) Members() IMemberRepository                   { return r.members }
func (r *Repositories) BusinessProfiles() IBusinessProfileRepository { return r.businessProfiles }
func (r *Repositories) Categories() ICategoryRepository              { return r.categories }
func (r *Repositories) Referrals() IReferralRepository               { return r.referrals }
func (r *Repositories) Families() IFamilyRepository                  { return r.families }
func (r *Repositories) Notifications() INotificationRepository       { return r.notifications }

// WithTransaction runs fn against repositories bound to a single pgx.Tx.
// Nested calls reuse the surrounding transaction.
func (r *Repositories) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if r.inTx {
		return fn(ctx, r)
	}
	return r.runner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newRepositories(tx, r.runner, true))
	})
}

// statementBuilder is shared by all repositories.
var statementBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
