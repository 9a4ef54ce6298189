package testutil

import (
	"context"
	"database/sql"
	"milkroute/internal/models"
	"milkroute/internal/repository"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

var (
	_ repository.ZoneRepository         = (*FakeZoneRepository)(nil)
	_ repository.SubscriptionRepository = (*FakeSubscriptionRepository)(nil)
	_ repository.DeliveryRepository     = (*FakeDeliveryRepository)(nil)
	_ repository.UserRepository         = (*FakeUserRepository)(nil)
	_ repository.RoleRepository         = (*FakeRoleRepository)(nil)
	_ repository.RefreshTokenRepository = (*FakeRefreshTokenRepository)(nil)
)

// fakeBase satisfies repository.Repository without a database
type fakeBase struct{}

func (fakeBase) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeBase) DB() *sql.DB { return nil }

// FakeZoneRepository is an in-memory repository.ZoneRepository
type FakeZoneRepository struct {
	fakeBase
	mu    sync.Mutex
	zones []models.Zone
	// InUse marks zones that Delete must refuse
	InUse map[uuid.UUID]bool
	// Err is returned from every call when set
	Err error
}

func NewFakeZoneRepository(zones ...models.Zone) *FakeZoneRepository {
	return &FakeZoneRepository{zones: zones, InUse: map[uuid.UUID]bool{}}
}

func (r *FakeZoneRepository) Create(_ context.Context, zone *models.Zone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if lo.ContainsBy(r.zones, func(z models.Zone) bool { return z.Code == zone.Code }) {
		return repository.ErrConflict
	}
	zone.ID = uuid.New()
	zone.CreatedAt = time.Now()
	zone.UpdatedAt = zone.CreatedAt
	r.zones = append(r.zones, *zone)
	return nil
}

func (r *FakeZoneRepository) Update(_ context.Context, zone *models.Zone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if lo.ContainsBy(r.zones, func(z models.Zone) bool { return z.Code == zone.Code && z.ID != zone.ID }) {
		return repository.ErrConflict
	}
	for i := range r.zones {
		if r.zones[i].ID == zone.ID {
			zone.CreatedAt = r.zones[i].CreatedAt
			zone.UpdatedAt = time.Now()
			r.zones[i] = *zone
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *FakeZoneRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if r.InUse[id] {
		return repository.ErrHasAssociatedRecords
	}
	for i := range r.zones {
		if r.zones[i].ID == id {
			r.zones = append(r.zones[:i], r.zones[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *FakeZoneRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Zone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	zone, ok := lo.Find(r.zones, func(z models.Zone) bool { return z.ID == id })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &zone, nil
}

func (r *FakeZoneRepository) GetByCode(_ context.Context, code string) (*models.Zone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	zone, ok := lo.Find(r.zones, func(z models.Zone) bool { return z.Code == code })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &zone, nil
}

func (r *FakeZoneRepository) List(_ context.Context, filter repository.ZoneFilter) ([]models.Zone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	zones := lo.Filter(r.zones, func(z models.Zone, _ int) bool {
		if filter.Search != nil {
			q := strings.ToLower(*filter.Search)
			if !strings.Contains(strings.ToLower(z.Name), q) && !strings.Contains(strings.ToLower(z.Code), q) {
				return false
			}
		}
		if filter.IsActive != nil && z.IsActive != *filter.IsActive {
			return false
		}
		if filter.Vertical != nil && !lo.Contains(z.Verticals, *filter.Vertical) {
			return false
		}
		return true
	})
	return paginate(zones, filter.Limit, filter.Offset), nil
}

func (r *FakeZoneRepository) ListActive(_ context.Context) ([]models.Zone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return lo.Filter(r.zones, func(z models.Zone, _ int) bool { return z.IsActive }), nil
}

// FakeSubscriptionRepository is an in-memory repository.SubscriptionRepository
type FakeSubscriptionRepository struct {
	fakeBase
	mu   sync.Mutex
	subs []models.Subscription
	Err  error
}

func NewFakeSubscriptionRepository(subs ...models.Subscription) *FakeSubscriptionRepository {
	return &FakeSubscriptionRepository{subs: subs}
}

func (r *FakeSubscriptionRepository) Create(_ context.Context, sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if sub.Status == "" {
		sub.Status = models.SubscriptionStatusActive
	}
	sub.ID = uuid.New()
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = sub.CreatedAt
	r.subs = append(r.subs, *sub)
	return nil
}

func (r *FakeSubscriptionRepository) Update(_ context.Context, sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	existing := r.find(sub.ID)
	if existing == nil {
		return repository.ErrNotFound
	}
	sub.Status = existing.Status
	sub.VacationStart = existing.VacationStart
	sub.VacationEnd = existing.VacationEnd
	sub.CreatedAt = existing.CreatedAt
	sub.UpdatedAt = time.Now()
	*existing = *sub
	return nil
}

func (r *FakeSubscriptionRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	sub := r.find(id)
	if sub == nil {
		return nil, repository.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *FakeSubscriptionRepository) List(_ context.Context, filter repository.SubscriptionFilter) ([]models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	subs := lo.Filter(r.subs, func(s models.Subscription, _ int) bool {
		if filter.Search != nil {
			q := strings.ToLower(*filter.Search)
			if !strings.Contains(strings.ToLower(s.CustomerName), q) && !strings.Contains(s.Phone, q) {
				return false
			}
		}
		if filter.Status != nil && s.Status != *filter.Status {
			return false
		}
		if filter.ZoneID != nil && (s.ZoneID == nil || *s.ZoneID != *filter.ZoneID) {
			return false
		}
		return true
	})
	return paginate(subs, filter.Limit, filter.Offset), nil
}

func (r *FakeSubscriptionRepository) ListActive(_ context.Context) ([]models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return lo.Filter(r.subs, func(s models.Subscription, _ int) bool { return s.IsActive() }), nil
}

func (r *FakeSubscriptionRepository) UpdateStatus(_ context.Context, id uuid.UUID, status models.SubscriptionStatus) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	sub := r.find(id)
	if sub == nil {
		return nil, repository.ErrNotFound
	}
	if !sub.Status.CanTransitionTo(status) {
		return nil, errors.Wrapf(repository.ErrInvalidTransition, "%s to %s", sub.Status, status)
	}
	sub.Status = status
	sub.UpdatedAt = time.Now()
	cp := *sub
	return &cp, nil
}

func (r *FakeSubscriptionRepository) SetVacation(_ context.Context, id uuid.UUID, start, end models.Date) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	sub := r.find(id)
	if sub == nil {
		return nil, repository.ErrNotFound
	}
	sub.VacationStart = &start
	sub.VacationEnd = &end
	cp := *sub
	return &cp, nil
}

func (r *FakeSubscriptionRepository) ClearVacation(_ context.Context, id uuid.UUID) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	sub := r.find(id)
	if sub == nil {
		return nil, repository.ErrNotFound
	}
	sub.VacationStart = nil
	sub.VacationEnd = nil
	cp := *sub
	return &cp, nil
}

func (r *FakeSubscriptionRepository) find(id uuid.UUID) *models.Subscription {
	for i := range r.subs {
		if r.subs[i].ID == id {
			return &r.subs[i]
		}
	}
	return nil
}

// FakeDeliveryRepository is an in-memory repository.DeliveryRepository
type FakeDeliveryRepository struct {
	fakeBase
	mu         sync.Mutex
	deliveries []models.Delivery
	Err        error
}

func NewFakeDeliveryRepository() *FakeDeliveryRepository {
	return &FakeDeliveryRepository{}
}

func (r *FakeDeliveryRepository) CreateBatch(_ context.Context, deliveries []models.Delivery) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	created := 0
	for _, d := range deliveries {
		exists := lo.ContainsBy(r.deliveries, func(e models.Delivery) bool {
			return e.SubscriptionID == d.SubscriptionID && e.DeliveryDate.Equal(d.DeliveryDate)
		})
		if exists {
			continue
		}
		d.ID = uuid.New()
		if d.Status == "" {
			d.Status = models.DeliveryStatusScheduled
		}
		d.CreatedAt = time.Now()
		d.UpdatedAt = d.CreatedAt
		r.deliveries = append(r.deliveries, d)
		created++
	}
	return created, nil
}

func (r *FakeDeliveryRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	d, ok := lo.Find(r.deliveries, func(d models.Delivery) bool { return d.ID == id })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r *FakeDeliveryRepository) ListByDate(_ context.Context, date models.Date, filter repository.DeliveryFilter) ([]models.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return lo.Filter(r.deliveries, func(d models.Delivery, _ int) bool {
		if !d.DeliveryDate.Equal(date) {
			return false
		}
		if filter.ZoneID != nil && (d.ZoneID == nil || *d.ZoneID != *filter.ZoneID) {
			return false
		}
		if filter.Status != nil && d.Status != *filter.Status {
			return false
		}
		return true
	}), nil
}

func (r *FakeDeliveryRepository) UpdateStatus(_ context.Context, id uuid.UUID, status models.DeliveryStatus) (*models.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for i := range r.deliveries {
		if r.deliveries[i].ID == id {
			r.deliveries[i].Status = status
			r.deliveries[i].UpdatedAt = time.Now()
			d := r.deliveries[i]
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

// All returns every stored delivery ordered by date
func (r *FakeDeliveryRepository) All() []models.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]models.Delivery(nil), r.deliveries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DeliveryDate.Before(out[j].DeliveryDate) })
	return out
}

// FakeUserRepository is an in-memory repository.UserRepository
type FakeUserRepository struct {
	fakeBase
	mu    sync.Mutex
	users []models.User
}

func NewFakeUserRepository(users ...models.User) *FakeUserRepository {
	return &FakeUserRepository{users: users}
}

func (r *FakeUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lo.ContainsBy(r.users, func(u models.User) bool { return u.Username == user.Username }) {
		return repository.ErrConflict
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users = append(r.users, *user)
	return nil
}

func (r *FakeUserRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := lo.Find(r.users, func(u models.User) bool { return u.ID == id })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *FakeUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := lo.Find(r.users, func(u models.User) bool { return u.Username == username })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *FakeUserRepository) UpdateLastLogin(_ context.Context, id uuid.UUID, lastLoginAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].LastLoginAt = &lastLoginAt
			return nil
		}
	}
	return repository.ErrNotFound
}

// FakeRoleRepository serves the two seeded roles
type FakeRoleRepository struct {
	fakeBase
	Admin models.Role
	Staff models.Role
}

func NewFakeRoleRepository() *FakeRoleRepository {
	return &FakeRoleRepository{
		Admin: models.Role{ID: uuid.New(), Name: models.RoleAdmin, IsProtected: true, IsAdminGroup: true},
		Staff: models.Role{ID: uuid.New(), Name: models.RoleStaff, IsProtected: true},
	}
}

func (r *FakeRoleRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Role, error) {
	for _, role := range []models.Role{r.Admin, r.Staff} {
		if role.ID == id {
			return &role, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *FakeRoleRepository) GetByName(_ context.Context, name string) (*models.Role, error) {
	for _, role := range []models.Role{r.Admin, r.Staff} {
		if role.Name == name {
			return &role, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *FakeRoleRepository) List(_ context.Context) ([]models.Role, error) {
	return []models.Role{r.Admin, r.Staff}, nil
}

// FakeRefreshTokenRepository is an in-memory repository.RefreshTokenRepository
type FakeRefreshTokenRepository struct {
	fakeBase
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
}

func NewFakeRefreshTokenRepository() *FakeRefreshTokenRepository {
	return &FakeRefreshTokenRepository{tokens: map[string]models.RefreshToken{}}
}

func (r *FakeRefreshTokenRepository) Create(_ context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *FakeRefreshTokenRepository) GetByToken(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.tokens[token]
	if !ok {
		return nil, repository.ErrTokenInvalid
	}
	if rt.IsExpired(time.Now()) {
		return nil, repository.ErrTokenExpired
	}
	return &rt, nil
}

func (r *FakeRefreshTokenRepository) DeleteByToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token]; !ok {
		return repository.ErrTokenInvalid
	}
	delete(r.tokens, token)
	return nil
}

func (r *FakeRefreshTokenRepository) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, rt := range r.tokens {
		if rt.UserID == userID {
			delete(r.tokens, token)
		}
	}
	return nil
}

func (r *FakeRefreshTokenRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for token, rt := range r.tokens {
		if rt.IsExpired(now) {
			delete(r.tokens, token)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored tokens
func (r *FakeRefreshTokenRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

func paginate[T any](items []T, limit, offset *int) []T {
	if offset != nil {
		if *offset >= len(items) {
			return []T{}
		}
		items = items[*offset:]
	}
	if limit != nil && *limit < len(items) {
		items = items[:*limit]
	}
	return items
}
