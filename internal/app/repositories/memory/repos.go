package memory

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/app/repositories"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"github.com/yigit/memberdir/internal/pkg/helpers"
)

func sortedValues[V any](m map[int64]V, keep func(V) bool) []V {
	out := []V{}
	for _, id := range slices.Sorted(maps.Keys(m)) {
		if keep == nil || keep(m[id]) {
			out = append(out, m[id])
		}
	}
	return out
}

func fkError(table string, id int64) error {
	return fmt.Errorf("insert into %s violates foreign key: member %d does not exist", table, id)
}

// --- members ---

type memberRepo struct{ s *Store }

func (r memberRepo) Create(_ context.Context, m *models.Member) error {
	return r.s.do("members.Create", func(d *state) error {
		for _, other := range d.members {
			if other.Email == m.Email {
				return apperrors.ErrEmailAlreadyExists
			}
			if other.ApplicationID == m.ApplicationID {
				return fmt.Errorf("duplicate application id %q", m.ApplicationID)
			}
		}
		m.ID = d.next("members")
		// preset CreatedAt is kept so fixtures can age an account
		if m.CreatedAt.IsZero() {
			m.CreatedAt = r.s.now()
		}
		m.UpdatedAt = m.CreatedAt
		row := *m
		row.BusinessProfiles, row.Family = nil, nil
		d.members[m.ID] = row
		return nil
	})
}

func (r memberRepo) find(op string, match func(models.Member) bool) (*models.Member, error) {
	var found *models.Member
	err := r.s.do(op, func(d *state) error {
		for _, id := range slices.Sorted(maps.Keys(d.members)) {
			if m := d.members[id]; match(m) {
				found = &m
				return nil
			}
		}
		return apperrors.ErrMemberNotFound
	})
	return found, err
}

func (r memberRepo) GetByID(_ context.Context, id int64) (*models.Member, error) {
	return r.find("members.GetByID", func(m models.Member) bool { return m.ID == id })
}

func (r memberRepo) GetByEmail(_ context.Context, email string) (*models.Member, error) {
	return r.find("members.GetByEmail", func(m models.Member) bool { return m.Email == email })
}

func (r memberRepo) GetByApplicationID(_ context.Context, applicationID string) (*models.Member, error) {
	return r.find("members.GetByApplicationID", func(m models.Member) bool { return m.ApplicationID == applicationID })
}

func (r memberRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == apperrors.ErrMemberNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r memberRepo) List(_ context.Context, p helpers.Page) ([]models.Member, int64, error) {
	var page []models.Member
	var total int64
	err := r.s.do("members.List", func(d *state) error {
		all := sortedValues(d.members, nil)
		total = int64(len(all))
		start := min(int(p.Offset()), len(all))
		end := min(start+p.Size, len(all))
		page = append([]models.Member{}, all[start:end]...)
		return nil
	})
	return page, total, err
}

func (r memberRepo) Update(_ context.Context, m *models.Member) error {
	return r.s.do("members.Update", func(d *state) error {
		stored, ok := d.members[m.ID]
		if !ok {
			return apperrors.ErrMemberNotFound
		}
		for id, other := range d.members {
			if id != m.ID && other.Email == m.Email {
				return apperrors.ErrEmailAlreadyExists
			}
		}
		row := *m
		row.BusinessProfiles, row.Family = nil, nil
		row.CreatedAt = stored.CreatedAt
		row.ApplicationID, row.RewardPoints = stored.ApplicationID, stored.RewardPoints
		row.UpdatedAt = r.s.now()
		m.ApplicationID, m.RewardPoints, m.UpdatedAt = row.ApplicationID, row.RewardPoints, row.UpdatedAt
		d.members[m.ID] = row
		return nil
	})
}

func (r memberRepo) Delete(_ context.Context, id int64) error {
	return r.s.do("members.Delete", func(d *state) error {
		if _, ok := d.members[id]; !ok {
			return apperrors.ErrMemberNotFound
		}
		for _, n := range d.notifications {
			if n.MemberID == id {
				return apperrors.NewConflictError("member still has dependent records")
			}
		}
		delete(d.members, id)
		for pid, p := range d.profiles {
			if p.MemberID == id {
				delete(d.profiles, pid)
			}
		}
		for fid, f := range d.families {
			if f.MemberID == id {
				delete(d.families, fid)
			}
		}
		for rid, ref := range d.referrals {
			if ref.ReferrerID == id || ref.ReferredID == id {
				delete(d.referrals, rid)
			}
		}
		return nil
	})
}

func (r memberRepo) IncrementRewardPoints(_ context.Context, id int64, points int) error {
	return r.s.do("members.IncrementRewardPoints", func(d *state) error {
		m, ok := d.members[id]
		if !ok {
			return apperrors.ErrMemberNotFound
		}
		m.RewardPoints += points
		m.UpdatedAt = r.s.now()
		d.members[id] = m
		return nil
	})
}

func expire(d *state, now time.Time, keep func(models.Member) bool) int64 {
	var n int64
	for id, m := range d.members {
		if keep(m) && domain.MembershipExpired(m.PaidStatus, m.MembershipValidUntil, now) {
			m.PaidStatus, m.MembershipValidUntil = domain.PaidStatusUnpaid, nil
			m.UpdatedAt = now
			d.members[id] = m
			n++
		}
	}
	return n
}

func (r memberRepo) ExpireMembership(_ context.Context, id int64, now time.Time) (bool, error) {
	var n int64
	err := r.s.do("members.ExpireMembership", func(d *state) error {
		n = expire(d, now, func(m models.Member) bool { return m.ID == id })
		return nil
	})
	return n > 0, err
}

func (r memberRepo) ExpireMemberships(_ context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.s.do("members.ExpireMemberships", func(d *state) error {
		n = expire(d, now, func(models.Member) bool { return true })
		return nil
	})
	return n, err
}

// --- business profiles ---

type profileRepo struct{ s *Store }

func (r profileRepo) Create(_ context.Context, p *models.BusinessProfile) error {
	return r.s.do("business_profiles.Create", func(d *state) error {
		if _, ok := d.members[p.MemberID]; !ok {
			return fkError("business_profiles", p.MemberID)
		}
		if p.CategoryID != nil {
			if _, ok := d.categories[*p.CategoryID]; !ok {
				return fmt.Errorf("insert into business_profiles violates foreign key: category %d does not exist", *p.CategoryID)
			}
		}
		p.ID = d.next("business_profiles")
		p.CreatedAt = r.s.now()
		p.UpdatedAt = p.CreatedAt
		row := *p
		row.Category = nil
		d.profiles[p.ID] = row
		return nil
	})
}

func (r profileRepo) GetByID(_ context.Context, id int64) (*models.BusinessProfile, error) {
	var out *models.BusinessProfile
	err := r.s.do("business_profiles.GetByID", func(d *state) error {
		p, ok := d.profiles[id]
		if !ok {
			return apperrors.ErrBusinessProfileNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r profileRepo) ListByMemberID(_ context.Context, memberID int64) ([]models.BusinessProfile, error) {
	var out []models.BusinessProfile
	err := r.s.do("business_profiles.ListByMemberID", func(d *state) error {
		out = sortedValues(d.profiles, func(p models.BusinessProfile) bool { return p.MemberID == memberID })
		return nil
	})
	return out, err
}

// profileFieldIndex maps column names (the json names) to struct fields.
var profileFieldIndex = func() map[string][]int {
	idx := map[string][]int{}
	var walk func(t reflect.Type, prefix []int)
	walk = func(t reflect.Type, prefix []int) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			path := append(append([]int{}, prefix...), i)
			if f.Anonymous {
				walk(f.Type, path)
				continue
			}
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name != "" && name != "-" {
				idx[name] = path
			}
		}
	}
	walk(reflect.TypeOf(models.BusinessProfile{}), nil)
	return idx
}()

func (r profileRepo) Update(_ context.Context, p *models.BusinessProfile, columns []string) error {
	return r.s.do("business_profiles.Update", func(d *state) error {
		stored, ok := d.profiles[p.ID]
		if !ok {
			return apperrors.ErrBusinessProfileNotFound
		}
		dst := reflect.ValueOf(&stored).Elem()
		src := reflect.ValueOf(p).Elem()
		for _, col := range columns {
			path, ok := profileFieldIndex[col]
			if !ok || !slices.Contains(repositories.ProfileColumns, col) {
				return fmt.Errorf("unknown business profile column %q", col)
			}
			dst.FieldByIndex(path).Set(src.FieldByIndex(path))
		}
		stored.UpdatedAt = r.s.now()
		p.UpdatedAt = stored.UpdatedAt
		d.profiles[p.ID] = stored
		return nil
	})
}

func (r profileRepo) UpdateStatus(_ context.Context, id int64, status domain.ProfileStatus, reason *string) error {
	return r.s.do("business_profiles.UpdateStatus", func(d *state) error {
		p, ok := d.profiles[id]
		if !ok {
			return apperrors.ErrBusinessProfileNotFound
		}
		p.Status, p.RejectionReason = status, reason
		p.UpdatedAt = r.s.now()
		d.profiles[id] = p
		return nil
	})
}

func (r profileRepo) Delete(_ context.Context, id int64) error {
	return r.s.do("business_profiles.Delete", func(d *state) error {
		if _, ok := d.profiles[id]; !ok {
			return apperrors.ErrBusinessProfileNotFound
		}
		delete(d.profiles, id)
		return nil
	})
}

// --- categories ---

type categoryRepo struct{ s *Store }

func (r categoryRepo) get(op string, match func(models.Category) bool) (*models.Category, error) {
	var out *models.Category
	err := r.s.do(op, func(d *state) error {
		for _, c := range sortedValues(d.categories, match) {
			out = &c
			return nil
		}
		return apperrors.ErrCategoryNotFound
	})
	return out, err
}

func (r categoryRepo) GetByID(_ context.Context, id int64) (*models.Category, error) {
	return r.get("categories.GetByID", func(c models.Category) bool { return c.ID == id })
}

func (r categoryRepo) GetByName(_ context.Context, name string) (*models.Category, error) {
	return r.get("categories.GetByName", func(c models.Category) bool { return c.Name == name })
}

func insertCategory(d *state, c *models.Category, now time.Time) error {
	for _, other := range d.categories {
		if other.Name == c.Name {
			*c = other
			return repositories.ErrCategoryNameTaken
		}
	}
	c.ID = d.next("categories")
	c.CreatedAt = now
	d.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) Create(_ context.Context, c *models.Category) error {
	return r.s.do("categories.Create", func(d *state) error {
		created := *c
		if err := insertCategory(d, &created, r.s.now()); err != nil {
			return err
		}
		*c = created
		return nil
	})
}

func (r categoryRepo) Ensure(_ context.Context, name string) (*models.Category, error) {
	c := &models.Category{Name: name}
	err := r.s.do("categories.Ensure", func(d *state) error {
		if err := insertCategory(d, c, r.s.now()); err != nil && err != repositories.ErrCategoryNameTaken {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r categoryRepo) List(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	err := r.s.do("categories.List", func(d *state) error {
		out = sortedValues(d.categories, nil)
		slices.SortStableFunc(out, func(a, b models.Category) int { return strings.Compare(a.Name, b.Name) })
		return nil
	})
	return out, err
}

func (r categoryRepo) Delete(_ context.Context, id int64) error {
	return r.s.do("categories.Delete", func(d *state) error {
		if _, ok := d.categories[id]; !ok {
			return apperrors.ErrCategoryNotFound
		}
		delete(d.categories, id)
		for pid, p := range d.profiles {
			if p.CategoryID != nil && *p.CategoryID == id {
				p.CategoryID = nil
				d.profiles[pid] = p
			}
		}
		return nil
	})
}

// --- referrals ---

type referralRepo struct{ s *Store }

func (r referralRepo) Create(_ context.Context, ref *models.Referral) error {
	return r.s.do("referrals.Create", func(d *state) error {
		for _, id := range []int64{ref.ReferrerID, ref.ReferredID} {
			if _, ok := d.members[id]; !ok {
				return fkError("referrals", id)
			}
		}
		ref.ID = d.next("referrals")
		ref.CreatedAt = r.s.now()
		d.referrals[ref.ID] = *ref
		return nil
	})
}

func (r referralRepo) ListByReferrerID(_ context.Context, referrerID int64) ([]models.Referral, error) {
	var out []models.Referral
	err := r.s.do("referrals.ListByReferrerID", func(d *state) error {
		out = sortedValues(d.referrals, func(ref models.Referral) bool { return ref.ReferrerID == referrerID })
		return nil
	})
	return out, err
}

// --- families ---

type familyRepo struct{ s *Store }

func (r familyRepo) Create(_ context.Context, f *models.MemberFamily) error {
	return r.s.do("families.Create", func(d *state) error {
		if _, ok := d.members[f.MemberID]; !ok {
			return fkError("member_families", f.MemberID)
		}
		f.ID = d.next("member_families")
		f.CreatedAt = r.s.now()
		f.UpdatedAt = f.CreatedAt
		d.families[f.ID] = *f
		return nil
	})
}

func (r familyRepo) get(op string, match func(models.MemberFamily) bool) (*models.MemberFamily, error) {
	var out *models.MemberFamily
	err := r.s.do(op, func(d *state) error {
		for _, f := range sortedValues(d.families, match) {
			out = &f
			return nil
		}
		return apperrors.ErrFamilyNotFound
	})
	return out, err
}

func (r familyRepo) GetByID(_ context.Context, id int64) (*models.MemberFamily, error) {
	return r.get("families.GetByID", func(f models.MemberFamily) bool { return f.ID == id })
}

func (r familyRepo) GetByMemberID(_ context.Context, memberID int64) (*models.MemberFamily, error) {
	return r.get("families.GetByMemberID", func(f models.MemberFamily) bool { return f.MemberID == memberID })
}

func (r familyRepo) Update(_ context.Context, f *models.MemberFamily) error {
	return r.s.do("families.Update", func(d *state) error {
		stored, ok := d.families[f.ID]
		if !ok {
			return apperrors.ErrFamilyNotFound
		}
		row := *f
		row.MemberID, row.CreatedAt = stored.MemberID, stored.CreatedAt
		row.UpdatedAt = r.s.now()
		f.UpdatedAt = row.UpdatedAt
		d.families[f.ID] = row
		return nil
	})
}

func (r familyRepo) Delete(_ context.Context, id int64) error {
	return r.s.do("families.Delete", func(d *state) error {
		if _, ok := d.families[id]; !ok {
			return apperrors.ErrFamilyNotFound
		}
		delete(d.families, id)
		return nil
	})
}

// --- notifications ---

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, n *models.Notification) error {
	return r.s.do("notifications.Create", func(d *state) error {
		if _, ok := d.members[n.MemberID]; !ok {
			return fkError("notifications", n.MemberID)
		}
		n.ID = d.next("notifications")
		n.CreatedAt = r.s.now()
		d.notifications[n.ID] = *n
		return nil
	})
}

func (r notificationRepo) ListByMemberID(_ context.Context, memberID int64) ([]models.Notification, error) {
	var out []models.Notification
	err := r.s.do("notifications.ListByMemberID", func(d *state) error {
		out = sortedValues(d.notifications, func(n models.Notification) bool { return n.MemberID == memberID })
		slices.Reverse(out)
		return nil
	})
	return out, err
}

func (r notificationRepo) DeleteByMemberID(_ context.Context, memberID int64) (int64, error) {
	var n int64
	err := r.s.do("notifications.DeleteByMemberID", func(d *state) error {
		for id, note := range d.notifications {
			if note.MemberID == memberID {
				delete(d.notifications, id)
				n++
			}
		}
		return nil
	})
	return n, err
}
