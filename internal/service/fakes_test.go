package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/masjid-annur/dashboard-server-go/internal/database"
	"github.com/masjid-annur/dashboard-server-go/internal/model"
	"github.com/masjid-annur/dashboard-server-go/internal/repository"
)

// passthroughTx satisfies TxRunner without a database.
type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn database.TxFunc) error {
	return fn(nil)
}

// fakeAdminRepo is an in-memory AdminRepository. Create enforces the email
// unique index the way Postgres would, returning a 23505.
type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[string]model.Admin
	err    error
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[string]model.Admin)}
}

func (r *fakeAdminRepo) WithTx(tx *sqlx.Tx) repository.AdminRepository { return r }

func (r *fakeAdminRepo) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.admins[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (r *fakeAdminRepo) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) FindAll(ctx context.Context) ([]model.Admin, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Admin, 0, len(r.admins))
	for _, a := range r.admins {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Email != out[j].Email {
			return out[i].Email < out[j].Email
		}
		return out[i].Username < out[j].Username
	})
	return out, nil
}

func (r *fakeAdminRepo) Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == params.Email {
			return nil, &pq.Error{Code: "23505", Constraint: "admins_email_key"}
		}
	}
	admin := model.Admin{
		ID:           uuid.NewString(),
		Email:        params.Email,
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
	}
	r.admins[admin.ID] = admin
	return &admin, nil
}

func (r *fakeAdminRepo) Update(ctx context.Context, id string, params model.UpdateAdminParams) (*model.Admin, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.admins[id]
	if !ok {
		return nil, nil
	}
	for _, a := range r.admins {
		if a.ID != id && a.Email == params.Email {
			return nil, &pq.Error{Code: "23505", Constraint: "admins_email_key"}
		}
	}
	admin.Email = params.Email
	admin.Username = params.Username
	if params.PasswordHash != nil {
		admin.PasswordHash = *params.PasswordHash
	}
	r.admins[id] = admin
	return &admin, nil
}

func (r *fakeAdminRepo) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.admins, id)
	return nil
}

func (r *fakeAdminRepo) Count(ctx context.Context) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.admins), nil
}

// fakeKajianRepo is an in-memory KajianRepository whose FindAll applies the
// same Senin-first ordering the SQL does.
type fakeKajianRepo struct {
	mu       sync.Mutex
	sessions map[string]model.Kajian
	err      error
}

func newFakeKajianRepo() *fakeKajianRepo {
	return &fakeKajianRepo{sessions: make(map[string]model.Kajian)}
}

func (r *fakeKajianRepo) FindByID(ctx context.Context, id string) (*model.Kajian, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if k, ok := r.sessions[id]; ok {
		return &k, nil
	}
	return nil, nil
}

func (r *fakeKajianRepo) FindAll(ctx context.Context) ([]model.Kajian, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Kajian, 0, len(r.sessions))
	for _, k := range r.sessions {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day.Order() != out[j].Day.Order() {
			return out[i].Day.Order() < out[j].Day.Order()
		}
		return out[i].TimeStart < out[j].TimeStart
	})
	return out, nil
}

func (r *fakeKajianRepo) FindByDay(ctx context.Context, day model.Weekday) ([]model.Kajian, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Kajian
	for _, k := range all {
		if k.Day == day {
			out = append(out, k)
		}
	}
	return out, nil
}

func (r *fakeKajianRepo) Create(ctx context.Context, params model.CreateKajianParams) (*model.Kajian, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	image := params.Image
	kajian := model.Kajian{
		ID:        uuid.NewString(),
		Day:       params.Day,
		Ustaz:     params.Ustaz,
		TimeStart: params.TimeStart,
		TimeEnd:   params.TimeEnd,
		Topic:     params.Topic,
		Image:     &image,
	}
	r.sessions[kajian.ID] = kajian
	return &kajian, nil
}

func (r *fakeKajianRepo) Update(ctx context.Context, id string, params model.UpdateKajianParams) (*model.Kajian, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	kajian, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	image := params.Image
	kajian.Day = params.Day
	kajian.Ustaz = params.Ustaz
	kajian.TimeStart = params.TimeStart
	kajian.TimeEnd = params.TimeEnd
	kajian.Topic = params.Topic
	kajian.Image = &image
	r.sessions[id] = kajian
	return &kajian, nil
}

func (r *fakeKajianRepo) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *fakeKajianRepo) Count(ctx context.Context) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions), nil
}

func (r *fakeKajianRepo) CountByDay(ctx context.Context) ([]repository.DayCount, error) {
	if r.err != nil {
		return nil, r.err
	}
	all, _ := r.FindAll(ctx)
	counts := map[model.Weekday]int{}
	for _, k := range all {
		counts[k.Day]++
	}
	var out []repository.DayCount
	for _, d := range model.Weekdays {
		if counts[d] > 0 {
			out = append(out, repository.DayCount{Day: d, Count: counts[d]})
		}
	}
	return out, nil
}

// fakeSessionRepo is an in-memory AdminSessionRepository.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]model.AdminSession // keyed by token hash
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]model.AdminSession)}
}

func (r *fakeSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.AdminSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[tokenHash]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) Create(ctx context.Context, params model.CreateAdminSessionParams) (*model.AdminSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session := model.AdminSession{
		ID:         uuid.NewString(),
		AdminEmail: params.AdminEmail,
		TokenHash:  params.TokenHash,
		ExpiresAt:  params.ExpiresAt,
	}
	r.sessions[session.TokenHash] = session
	return &session, nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, s := range r.sessions {
		if s.ID == id {
			delete(r.sessions, hash)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, tokenHash)
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

// countingPublisher records schedule notifications.
type countingPublisher struct {
	mu    sync.Mutex
	count int
}

func (p *countingPublisher) PublishScheduleUpdated(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
}

func (p *countingPublisher) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}
