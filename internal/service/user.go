package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/crucial707/ems-inventory/internal/apperrors"
	"github.com/crucial707/ems-inventory/internal/authz"
	"github.com/crucial707/ems-inventory/internal/crypto"
	"github.com/crucial707/ems-inventory/internal/metrics"
	"github.com/crucial707/ems-inventory/internal/models"
	"github.com/crucial707/ems-inventory/internal/repo"
	"github.com/crucial707/ems-inventory/internal/validate"
)

// UserService exposes user administration, login, and self-service account
// changes. Passwords pass through the credential store before storage and
// never appear in audit details, plaintext or ciphertext.
type UserService struct {
	repo   *repo.UserRepo
	audit  *repo.AuditRepo
	gate   *authz.Gate
	cipher *crypto.Cipher
	roles  validate.Roles
}

func NewUserService(r *repo.UserRepo, audit *repo.AuditRepo, gate *authz.Gate, cipher *crypto.Cipher, roles validate.Roles) *UserService {
	return &UserService{repo: r, audit: audit, gate: gate, cipher: cipher, roles: roles}
}

func (s *UserService) logAudit(ctx context.Context, username, object, action, details string) {
	if err := s.audit.Append(ctx, username, object, action, details); err != nil {
		metrics.AuditAppendFailures.Inc()
		slog.Error("audit append failed after mutation",
			"user", username,
			"object", object,
			"action", action,
			"error", err)
	}
}

// Add creates a new user. Admin only. Username uniqueness is checked first;
// a duplicate returns ErrAlreadyExists with no mutation and no audit entry.
func (s *UserService) Add(ctx context.Context, p *models.Principal, username, password, role, email string) (models.User, error) {
	if err := s.gate.Require(ctx, p, "add_user", models.RoleAdmin); err != nil {
		return models.User{}, err
	}

	if !validate.NonEmptyString(username) {
		return models.User{}, apperrors.Invalid("username", "must be a non-empty string")
	}
	exists, err := s.repo.Exists(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, apperrors.ErrAlreadyExists
	}

	if !validate.NonEmptyString(password) {
		return models.User{}, apperrors.Invalid("password", "must be a non-empty string")
	}
	if !s.roles.Valid(role) {
		return models.User{}, apperrors.Invalid("role", "is not a configured role")
	}
	if !validate.ValidEmail(email) {
		return models.User{}, apperrors.Invalid("email", "is not a valid address")
	}

	encrypted, err := s.cipher.Encrypt(password)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.repo.Create(ctx, username, encrypted, role, email)
	if err != nil {
		return models.User{}, err
	}

	metrics.MutationsTotal.WithLabelValues("user", "add").Inc()
	s.logAudit(ctx, p.Username, username, models.ActionAdd, "New user added")
	return user, nil
}

// ChangeRole assigns a new role to the target user. Admin only.
func (s *UserService) ChangeRole(ctx context.Context, p *models.Principal, target, role string) error {
	if err := s.gate.Require(ctx, p, "change_user_role", models.RoleAdmin); err != nil {
		return err
	}
	if !validate.NonEmptyString(target) {
		return apperrors.Invalid("username", "must be a non-empty string")
	}
	if !s.roles.Valid(role) {
		return apperrors.Invalid("role", "is not a configured role")
	}

	if err := s.repo.SetRole(ctx, target, role); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("user", "change_role").Inc()
	s.logAudit(ctx, p.Username, target, models.ActionUpdate, "Set user role to "+role)
	return nil
}

// Delete removes a user. Admin only.
func (s *UserService) Delete(ctx context.Context, p *models.Principal, target string) error {
	if err := s.gate.Require(ctx, p, "delete_user", models.RoleAdmin); err != nil {
		return err
	}
	if !validate.NonEmptyString(target) {
		return apperrors.Invalid("username", "must be a non-empty string")
	}

	if err := s.repo.Delete(ctx, target); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("user", "delete").Inc()
	s.logAudit(ctx, p.Username, target, models.ActionDelete, "Deleted user")
	return nil
}

// View returns one user's record. Admin only.
func (s *UserService) View(ctx context.Context, p *models.Principal, target string) (models.User, error) {
	if err := s.gate.Require(ctx, p, "view_user", models.RoleAdmin); err != nil {
		return models.User{}, err
	}
	if !validate.NonEmptyString(target) {
		return models.User{}, apperrors.Invalid("username", "must be a non-empty string")
	}
	return s.repo.GetByUsername(ctx, target)
}

// List returns all users. Admin only.
func (s *UserService) List(ctx context.Context, p *models.Principal) ([]models.User, error) {
	if err := s.gate.Require(ctx, p, "show_all_users", models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Login authenticates a username/password pair and returns the session
// principal. It is not gated: it is how a principal is obtained. Every
// credential failure — unknown user, wrong password, undecryptable stored
// secret — returns the same ErrInvalidCredentials so callers cannot
// enumerate usernames. Genuine storage errors propagate unchanged.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.Principal, error) {
	if !validate.NonEmptyString(username) || !validate.NonEmptyString(password) {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, apperrors.ErrNotFound) {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.cipher.Compare(user.EncryptedPassword, password) {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	principal := &models.Principal{
		Username: user.Username,
		Role:     user.Role,
		Email:    user.Email,
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.logAudit(ctx, principal.Username, principal.Username, models.ActionLogin, "Logged in")
	return principal, nil
}

// Logout records the end of a session. The principal simply stops being used;
// the only effect is the LOGOUT audit entry.
func (s *UserService) Logout(ctx context.Context, p *models.Principal) error {
	if p == nil {
		return apperrors.ErrUnauthorized
	}
	return s.audit.Append(ctx, p.Username, p.Username, models.ActionLogout, "Logged out")
}

// reauthenticate verifies the caller's current password before a sensitive
// self-service change is accepted.
func (s *UserService) reauthenticate(ctx context.Context, p *models.Principal, currentPassword string) error {
	if p == nil {
		return apperrors.ErrUnauthorized
	}
	user, err := s.repo.GetByUsername(ctx, p.Username)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if !s.cipher.Compare(user.EncryptedPassword, currentPassword) {
		return apperrors.ErrInvalidCredentials
	}
	return nil
}

// ChangeOwnPassword replaces the caller's password after re-authentication.
// newPassword must be typed twice and match. The audit details never contain
// the password value.
func (s *UserService) ChangeOwnPassword(ctx context.Context, p *models.Principal, currentPassword, newPassword, confirm string) error {
	if err := s.reauthenticate(ctx, p, currentPassword); err != nil {
		return err
	}
	if newPassword != confirm {
		return apperrors.Invalid("password", "entries do not match")
	}
	if !validate.NonEmptyString(newPassword) {
		return apperrors.Invalid("password", "must be a non-empty string")
	}

	encrypted, err := s.cipher.Encrypt(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.SetPassword(ctx, p.Username, encrypted); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("user", "change_password").Inc()
	s.logAudit(ctx, p.Username, p.Username, models.ActionUpdate, "Changed password")
	return nil
}

// ChangeOwnUsername renames the caller after re-authentication. The audit
// entry is attributed to the old username; the returned principal carries
// the new one.
func (s *UserService) ChangeOwnUsername(ctx context.Context, p *models.Principal, currentPassword, newUsername, confirm string) (*models.Principal, error) {
	if err := s.reauthenticate(ctx, p, currentPassword); err != nil {
		return nil, err
	}
	if newUsername != confirm {
		return nil, apperrors.Invalid("username", "entries do not match")
	}
	if !validate.NonEmptyString(newUsername) {
		return nil, apperrors.Invalid("username", "must be a non-empty string")
	}

	if err := s.repo.SetUsername(ctx, p.Username, newUsername); err != nil {
		return nil, err
	}

	metrics.MutationsTotal.WithLabelValues("user", "change_username").Inc()
	s.logAudit(ctx, p.Username, p.Username, models.ActionUpdate, "Changed username to "+newUsername)
	return &models.Principal{Username: newUsername, Role: p.Role, Email: p.Email}, nil
}

// ChangeOwnEmail replaces the caller's email address after re-authentication.
func (s *UserService) ChangeOwnEmail(ctx context.Context, p *models.Principal, currentPassword, newEmail, confirm string) (*models.Principal, error) {
	if err := s.reauthenticate(ctx, p, currentPassword); err != nil {
		return nil, err
	}
	if newEmail != confirm {
		return nil, apperrors.Invalid("email", "entries do not match")
	}
	if !validate.ValidEmail(newEmail) {
		return nil, apperrors.Invalid("email", "is not a valid address")
	}

	if err := s.repo.SetEmail(ctx, p.Username, newEmail); err != nil {
		return nil, err
	}

	metrics.MutationsTotal.WithLabelValues("user", "change_email").Inc()
	s.logAudit(ctx, p.Username, p.Username, models.ActionUpdate, "Changed email to "+newEmail)
	return &models.Principal{Username: p.Username, Role: p.Role, Email: newEmail}, nil
}
