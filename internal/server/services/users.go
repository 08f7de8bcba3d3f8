package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/taskplaces/internal/common"
	"github.com/dmitrijs2005/taskplaces/internal/logging"
	"github.com/dmitrijs2005/taskplaces/internal/server/models"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/users"
)

// PasswordHasher is the CredentialStore contract.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// TokenIssuer is the TokenService contract.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// OwnerCache is implemented by services that cache lists per owner.
type OwnerCache interface {
	ForgetOwner(ctx context.Context, ownerID string)
}

type NewUser struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is a successful login: the account and a fresh access token.
type LoginResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// ErrNotYourAccount rejects acting on an identity other than the caller's.
var ErrNotYourAccount = common.Forbidden("You can only modify your own account")

// UserService provides account operations:
// - Create: register a user with a unique email
// - Login: verify credentials and issue an access token
// - Me: the caller's own account
// - Update / Remove: self-only profile changes and deletion
type UserService struct {
	repos   repomanager.RepositoryManager
	hasher  PasswordHasher
	tokens  TokenIssuer
	removal RemovalStrategy
	owned   []OwnerCache
	logger  logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService builds a UserService. owned lists the services whose
// cached lists must be dropped when an account goes away.
func NewUserService(
	repos repomanager.RepositoryManager,
	hasher PasswordHasher,
	tokens TokenIssuer,
	removal RemovalStrategy,
	logger logging.Logger,
	owned ...OwnerCache,
) *UserService {
	return &UserService{
		repos:   repos,
		hasher:  hasher,
		tokens:  tokens,
		removal: removal,
		owned:   owned,
		logger:  logger.With("module", "user_service"),
	}
}

// Create registers a user. The email must not belong to any account,
// including deactivated ones.
func (s *UserService) Create(ctx context.Context, in NewUser) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return nil, common.Validation("name, email and password are required")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	var created *models.User
	err = s.repos.WithTx(ctx, func(ctx context.Context, m repomanager.RepositoryManager) error {
		if err := emailAvailable(ctx, m.Users(), email, ""); err != nil {
			return err
		}
		u, err := m.Users().Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
		if err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user created", "user_id", created.ID)
	return created, nil
}

// Login checks email and password. An unknown email, a deactivated account
// and a wrong password all yield common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repos.Users().GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if user == nil || !user.Active {
		// keep the timing of a real comparison
		s.hasher.Verify(password, s.dummy())
		return nil, common.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &LoginResult{User: user, Token: token}, nil
}

// Me returns the caller's account. A token outliving its account yields
// ErrUserNotFound, not an authentication error.
func (s *UserService) Me(ctx context.Context, callerID string) (*models.User, error) {
	u, err := s.repos.Users().GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return u, nil
}

// Update changes name and/or email of the caller's own account. The identity
// check happens before any lookup.
func (s *UserService) Update(ctx context.Context, id, callerID string, patch models.UserPatch) (*models.User, error) {
	if id != callerID {
		return nil, ErrNotYourAccount
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, common.Validation("name should not be empty")
		}
		patch.Name = &name
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email == "" {
			return nil, common.Validation("email should not be empty")
		}
		patch.Email = &email
	}

	var updated *models.User
	err := s.repos.WithTx(ctx, func(ctx context.Context, m repomanager.RepositoryManager) error {
		u, err := m.Users().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if patch.Email != nil && *patch.Email != u.Email {
			if err := emailAvailable(ctx, m.Users(), *patch.Email, u.ID); err != nil {
				return err
			}
		}
		patch.Apply(u)
		updated, err = m.Users().Update(ctx, u)
		if errors.Is(err, common.ErrorNotFound) {
			return ErrUserNotFound
		}
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) || errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return updated, nil
}

// Remove deletes or deactivates the caller's own account, depending on the
// configured RemovalStrategy.
func (s *UserService) Remove(ctx context.Context, id, callerID string) error {
	if id != callerID {
		return ErrNotYourAccount
	}

	if err := s.removal.Remove(ctx, s.repos.Users(), id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("error removing user: %w", err)
	}

	for _, o := range s.owned {
		o.ForgetOwner(ctx, id)
	}
	s.logger.Info(ctx, "user removed", "user_id", id, "strategy", s.removal.Name())
	return nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("not-a-real-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func emailAvailable(ctx context.Context, repo users.Repository, email, selfID string) error {
	existing, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return users.ErrEmailTaken
	}
	return nil
}
