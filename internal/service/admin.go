package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/masjid-annur/dashboard-server-go/internal/database"
	apperrors "github.com/masjid-annur/dashboard-server-go/internal/errors"
	"github.com/masjid-annur/dashboard-server-go/internal/model"
	"github.com/masjid-annur/dashboard-server-go/internal/repository"
	"github.com/masjid-annur/dashboard-server-go/internal/util"
)

// TxRunner executes a function inside a database transaction.
// *database.DB satisfies it; tests substitute a pass-through.
type TxRunner interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

// AdminService owns the admin-account lifecycle: authentication, listing,
// creation, update, and guarded deletion.
type AdminService struct {
	tx   TxRunner
	repo repository.AdminRepository

	defaultEmail    string
	defaultPassword string
}

func NewAdminService(tx TxRunner, repo repository.AdminRepository, defaultEmail, defaultPassword string) *AdminService {
	return &AdminService{
		tx:              tx,
		repo:            repo,
		defaultEmail:    defaultEmail,
		defaultPassword: defaultPassword,
	}
}

type AdminForm struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// AdminUpdateForm allows an empty password, which keeps the stored hash.
type AdminUpdateForm struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// Authenticate checks an email/password pair against the store. While the
// admins table is still empty, the configured default credentials resolve to
// a bootstrap identity so the dashboard can be reached at all.
func (s *AdminService) Authenticate(ctx context.Context, email, password string) (*model.Identity, error) {
	if email == "" || password == "" {
		return nil, apperrors.InvalidCredentials("Email and password are required")
	}

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	if admin == nil {
		if email != s.defaultEmail {
			return nil, apperrors.InvalidCredentials("Account not found")
		}
		return s.authenticateBootstrap(password)
	}

	if admin.PasswordHash == "" {
		return nil, apperrors.CredentialsUnavailable()
	}

	if !util.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, apperrors.InvalidCredentials("Wrong password")
	}

	return &model.Identity{
		ID:       admin.ID,
		Email:    admin.Email,
		Username: admin.Username,
		Source:   model.IdentityPersisted,
	}, nil
}

// authenticateBootstrap hashes the configured default password on the fly and
// verifies against it, mirroring the stored-hash path. The resulting identity
// carries no ID and is never persisted.
func (s *AdminService) authenticateBootstrap(password string) (*model.Identity, error) {
	hash, err := util.HashPassword(s.defaultPassword)
	if err != nil {
		return nil, apperrors.Internal("Failed to prepare bootstrap credentials").WithCause(err)
	}

	if !util.CheckPasswordHash(password, hash) {
		return nil, apperrors.InvalidCredentials("Wrong password")
	}

	log.Info().Str("email", s.defaultEmail).Msg("bootstrap admin authenticated")

	return &model.Identity{
		Email:    s.defaultEmail,
		Username: "admin",
		Source:   model.IdentityBootstrap,
	}, nil
}

// List returns all admin accounts ordered by email then username.
func (s *AdminService) List(ctx context.Context) ([]model.Admin, error) {
	admins, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return admins, nil
}

func (s *AdminService) Add(ctx context.Context, form AdminForm) (*model.Admin, error) {
	if err := validateStruct(form); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, form.Email)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("Email is already registered")
	}

	hash, err := util.HashPassword(form.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password").WithCause(err)
	}

	admin, err := s.repo.Create(ctx, model.CreateAdminParams{
		Email:        form.Email,
		Username:     form.Username,
		PasswordHash: hash,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		return nil, apperrors.Storage(err)
	}

	return admin, nil
}

func (s *AdminService) Update(ctx context.Context, id string, form AdminUpdateForm) (*model.Admin, error) {
	if err := validateStruct(form); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if current == nil {
		return nil, apperrors.NotFound("Admin")
	}

	claimed, err := s.repo.FindByEmail(ctx, form.Email)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if claimed != nil && claimed.ID != id {
		return nil, apperrors.Conflict("Email is already registered")
	}

	var hash *string
	if form.Password != "" {
		h, err := util.HashPassword(form.Password)
		if err != nil {
			return nil, apperrors.Internal("Failed to hash password").WithCause(err)
		}
		hash = &h
	}

	admin, err := s.repo.Update(ctx, id, model.UpdateAdminParams{
		Email:        form.Email,
		Username:     form.Username,
		PasswordHash: hash,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		return nil, apperrors.Storage(err)
	}
	if admin == nil {
		return nil, apperrors.NotFound("Admin")
	}

	return admin, nil
}

// Delete removes an admin account. The configured default admin cannot be
// deleted, and neither can the last remaining account; both guards run inside
// one transaction so the count cannot change between check and delete.
func (s *AdminService) Delete(ctx context.Context, id string) error {
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)

		admin, err := repo.FindByID(ctx, id)
		if err != nil {
			return apperrors.Storage(err)
		}
		if admin == nil {
			return apperrors.NotFound("Admin")
		}

		if admin.Email == s.defaultEmail {
			return apperrors.Forbidden("The default admin cannot be deleted")
		}

		count, err := repo.Count(ctx)
		if err != nil {
			return apperrors.Storage(err)
		}
		if count <= 1 {
			return apperrors.Forbidden("At least one admin must remain")
		}

		if err := repo.Delete(ctx, id); err != nil {
			return apperrors.Storage(err)
		}
		return nil
	})
	if err != nil && !apperrors.IsAppError(err) {
		return apperrors.Storage(err)
	}
	return err
}

func (s *AdminService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
