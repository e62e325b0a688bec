package casdoor

import (
	"context"
	"fmt"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/google/uuid"

	"github.com/Rex-a25/money-biz-server/internal/repositories"
)

// CasdoorConfig holds the configuration for the Casdoor connection.
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// IdentityCasdoor implements repositories.IdentityStore against Casdoor.
type IdentityCasdoor struct {
	client *casdoorsdk.Client
	config CasdoorConfig
}

func NewIdentityCasdoor(config CasdoorConfig) repositories.IdentityStore {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &IdentityCasdoor{
		client: client,
		config: config,
	}
}

func (s *IdentityCasdoor) toIdentity(user *casdoorsdk.User) *repositories.Identity {
	if user == nil {
		return nil
	}
	return &repositories.Identity{
		ID:          user.Id,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

// SignIn authenticates an email/password pair against Casdoor.
func (s *IdentityCasdoor) SignIn(ctx context.Context, email, password string) (*repositories.Identity, error) {
	casdoorUser, err := s.client.GetUserByEmail(email)
	if err != nil {
		if isRateLimited(err) {
			return nil, repositories.ErrTooManyRequests
		}
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}
	if casdoorUser == nil {
		return nil, repositories.ErrInvalidCredential
	}

	casdoorUser.Password = password
	ok, err := s.client.CheckUserPassword(casdoorUser)
	if err != nil {
		if isRateLimited(err) {
			return nil, repositories.ErrTooManyRequests
		}
		return nil, repositories.ErrInvalidCredential
	}
	if !ok {
		return nil, repositories.ErrInvalidCredential
	}

	return s.toIdentity(casdoorUser), nil
}

// CreateIdentity registers a new account with the auth provider and
// returns its stable id. The email must not already be registered.
func (s *IdentityCasdoor) CreateIdentity(ctx context.Context, email, password, displayName string) (*repositories.Identity, error) {
	existing, err := s.client.GetUserByEmail(email)
	if err == nil && existing != nil {
		return nil, repositories.ErrEmailInUse
	}

	user := &casdoorsdk.User{
		Owner:             s.config.OrganizationName,
		Id:                uuid.NewString(),
		Name:              nameFromEmail(email),
		Email:             email,
		Password:          password,
		DisplayName:       displayName,
		SignupApplication: s.config.ApplicationName,
	}

	ok, err := s.client.AddUser(user)
	if err != nil {
		if isDuplicate(err) {
			return nil, repositories.ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}
	if !ok {
		return nil, repositories.ErrEmailInUse
	}

	return s.toIdentity(user), nil
}

// ExistsByEmail checks whether the auth provider already knows an email.
func (s *IdentityCasdoor) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	user, err := s.client.GetUserByEmail(email)
	if err != nil {
		return false, fmt.Errorf("failed to check identity existence: %w", err)
	}
	return user != nil, nil
}

func isRateLimited(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "too many")
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "exist") || strings.Contains(msg, "duplicate")
}

func nameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
