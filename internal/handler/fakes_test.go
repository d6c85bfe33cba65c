package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/masjid-annur/dashboard-server-go/internal/database"
	"github.com/masjid-annur/dashboard-server-go/internal/middleware"
	"github.com/masjid-annur/dashboard-server-go/internal/model"
	"github.com/masjid-annur/dashboard-server-go/internal/repository"
	"github.com/masjid-annur/dashboard-server-go/internal/service"
	"github.com/masjid-annur/dashboard-server-go/internal/util"
)

const (
	testDefaultEmail    = "admin@gmail.com"
	testDefaultPassword = "admin123"
	testSessionSecret   = "test-session-secret"
)

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn database.TxFunc) error {
	return fn(nil)
}

type mockAdminRepo struct {
	findByIDFunc    func(ctx context.Context, id string) (*model.Admin, error)
	findByEmailFunc func(ctx context.Context, email string) (*model.Admin, error)
	findAllFunc     func(ctx context.Context) ([]model.Admin, error)
	createFunc      func(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error)
	updateFunc      func(ctx context.Context, id string, params model.UpdateAdminParams) (*model.Admin, error)
	deleteFunc      func(ctx context.Context, id string) error
	countFunc       func(ctx context.Context) (int, error)
}

func (m *mockAdminRepo) WithTx(tx *sqlx.Tx) repository.AdminRepository { return m }

func (m *mockAdminRepo) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAdminRepo) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockAdminRepo) FindAll(ctx context.Context) ([]model.Admin, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockAdminRepo) Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, params)
	}
	return &model.Admin{ID: "new", Email: params.Email, Username: params.Username, PasswordHash: params.PasswordHash}, nil
}

func (m *mockAdminRepo) Update(ctx context.Context, id string, params model.UpdateAdminParams) (*model.Admin, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *mockAdminRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockAdminRepo) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

type mockKajianRepo struct {
	findByIDFunc   func(ctx context.Context, id string) (*model.Kajian, error)
	findAllFunc    func(ctx context.Context) ([]model.Kajian, error)
	findByDayFunc  func(ctx context.Context, day model.Weekday) ([]model.Kajian, error)
	createFunc     func(ctx context.Context, params model.CreateKajianParams) (*model.Kajian, error)
	updateFunc     func(ctx context.Context, id string, params model.UpdateKajianParams) (*model.Kajian, error)
	deleteFunc     func(ctx context.Context, id string) error
	countFunc      func(ctx context.Context) (int, error)
	countByDayFunc func(ctx context.Context) ([]repository.DayCount, error)
}

func (m *mockKajianRepo) FindByID(ctx context.Context, id string) (*model.Kajian, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockKajianRepo) FindAll(ctx context.Context) ([]model.Kajian, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockKajianRepo) FindByDay(ctx context.Context, day model.Weekday) ([]model.Kajian, error) {
	if m.findByDayFunc != nil {
		return m.findByDayFunc(ctx, day)
	}
	return nil, nil
}

func (m *mockKajianRepo) Create(ctx context.Context, params model.CreateKajianParams) (*model.Kajian, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, params)
	}
	image := params.Image
	return &model.Kajian{
		ID:        "new",
		Day:       params.Day,
		Ustaz:     params.Ustaz,
		TimeStart: params.TimeStart,
		TimeEnd:   params.TimeEnd,
		Topic:     params.Topic,
		Image:     &image,
	}, nil
}

func (m *mockKajianRepo) Update(ctx context.Context, id string, params model.UpdateKajianParams) (*model.Kajian, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *mockKajianRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockKajianRepo) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockKajianRepo) CountByDay(ctx context.Context) ([]repository.DayCount, error) {
	if m.countByDayFunc != nil {
		return m.countByDayFunc(ctx)
	}
	return nil, nil
}

type mockSessionRepo struct {
	findByTokenHashFunc func(ctx context.Context, tokenHash string) (*model.AdminSession, error)
	createFunc          func(ctx context.Context, params model.CreateAdminSessionParams) (*model.AdminSession, error)
	deleteByHashFunc    func(ctx context.Context, tokenHash string) error
}

func (m *mockSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.AdminSession, error) {
	if m.findByTokenHashFunc != nil {
		return m.findByTokenHashFunc(ctx, tokenHash)
	}
	return nil, nil
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateAdminSessionParams) (*model.AdminSession, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, params)
	}
	return &model.AdminSession{
		ID:         "session-1",
		AdminEmail: params.AdminEmail,
		TokenHash:  params.TokenHash,
		ExpiresAt:  params.ExpiresAt,
	}, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *mockSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	if m.deleteByHashFunc != nil {
		return m.deleteByHashFunc(ctx, tokenHash)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

// validSessionRepo accepts any token issued for the given secret/token pair.
func validSessionRepo(secret, token string) *mockSessionRepo {
	hash := util.HmacSHA256(secret, token)
	return &mockSessionRepo{
		findByTokenHashFunc: func(ctx context.Context, tokenHash string) (*model.AdminSession, error) {
			if tokenHash == hash {
				return &model.AdminSession{
					ID:         "session-1",
					AdminEmail: testDefaultEmail,
					TokenHash:  hash,
					ExpiresAt:  time.Now().Add(time.Hour),
				}, nil
			}
			return nil, nil
		},
	}
}

func sessionGuard(repo repository.AdminSessionRepository) func(http.Handler) http.Handler {
	return middleware.NewAdminSessionMiddleware(repo, testSessionSecret).Handler
}

func newTestAdminService(repo repository.AdminRepository) *service.AdminService {
	return service.NewAdminService(passthroughTx{}, repo, testDefaultEmail, testDefaultPassword)
}

type fakeUploader struct {
	uploadFunc func(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

func (f *fakeUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if f.uploadFunc != nil {
		return f.uploadFunc(ctx, filename, contentType, body)
	}
	return "https://cdn.masjid.id/kajian/artwork.jpg", nil
}

func doJSON(handler http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}
