package service

import (
	"context"
	"errors"
	"fmt"

	"newsAggregator/internal/models"
	"newsAggregator/internal/repository"
)

type UserService interface {
	Register(ctx context.Context, in models.RegisterRequest) (*models.User, error)
	SignIn(ctx context.Context, in models.SignInRequest) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, userUUID string) (*models.User, error)
	UpdatePassword(ctx context.Context, userUUID, password string) error
	Delete(ctx context.Context, userUUID string) error
}

type userService struct {
	userRepo repository.UserRepository
	opts     Options
}

func NewUserService(userRepo repository.UserRepository, opts Options) UserService {
	return &userService{
		userRepo: userRepo,
		opts:     opts.withDefaults(),
	}
}

// Register rejects a taken username or email up front, then inserts with a
// fresh user_uuid, generating a new one each time the uuid itself collides.
func (s *userService) Register(ctx context.Context, in models.RegisterRequest) (*models.User, error) {
	if err := s.taken(ctx, s.userRepo.GetByUsername, in.Username, MsgUsernameTaken); err != nil {
		return nil, err
	}
	if err := s.taken(ctx, s.userRepo.GetByEmail, in.EmailAddress, MsgEmailTaken); err != nil {
		return nil, err
	}

	hash, err := s.opts.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	for attempt := 1; attempt <= s.opts.RegisterAttempts; attempt++ {
		user := &models.User{
			Username:     in.Username,
			PasswordHash: hash,
			UserUUID:     s.opts.NewID(),
			EmailAddress: in.EmailAddress,
			IsActivated:  false,
			Origin:       s.opts.Origin,
		}

		err := s.userRepo.Create(ctx, user)
		if err == nil {
			return user, nil
		}

		var unique *repository.UniqueViolationError
		if !errors.As(err, &unique) {
			return nil, err
		}
		switch unique.Column {
		case "user_uuid":
			continue
		case "username":
			// lost a race with a concurrent registration
			return nil, &ConflictError{Message: MsgUsernameTaken}
		default:
			return nil, &ConflictError{Message: MsgEmailTaken}
		}
	}

	return nil, &RetryExhaustedError{Attempts: s.opts.RegisterAttempts}
}

func (s *userService) taken(ctx context.Context, lookup func(context.Context, string) (*models.User, error), value, message string) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return &ConflictError{Message: message}
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return err
	}
}

// SignIn looks the user up by username and by email independently. A username
// match decides the outcome even when the email belongs to someone else.
func (s *userService) SignIn(ctx context.Context, in models.SignInRequest) (*models.User, error) {
	byUsername, err := s.lookup(ctx, s.userRepo.GetByUsername, in.Username)
	if err != nil {
		return nil, err
	}
	byEmail, err := s.lookup(ctx, s.userRepo.GetByEmail, in.EmailAddress)
	if err != nil {
		return nil, err
	}

	switch {
	case byUsername != nil:
		return s.verify(byUsername, in.Password, MsgWrongUsernamePassword)
	case byEmail != nil:
		return s.verify(byEmail, in.Password, MsgWrongEmailPassword)
	}

	return nil, &CredentialsError{Message: MsgUnknownCredentials}
}

func (s *userService) lookup(ctx context.Context, lookup func(context.Context, string) (*models.User, error), value string) (*models.User, error) {
	user, err := lookup(ctx, value)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

func (s *userService) verify(user *models.User, plain, message string) (*models.User, error) {
	ok, err := s.opts.Hasher.Verify(plain, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password of %s: %w", user.UserUUID, err)
	}
	if !ok {
		return nil, &CredentialsError{Message: message}
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, &NotFoundError{Message: MsgUsersNotFound}
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, userUUID string) (*models.User, error) {
	user, err := s.userRepo.GetByUUID(ctx, userUUID)
	if err != nil {
		return nil, notFound(err, MsgUserNotFound)
	}
	return user, nil
}

func (s *userService) UpdatePassword(ctx context.Context, userUUID, password string) error {
	if _, err := s.Get(ctx, userUUID); err != nil {
		return err
	}

	hash, err := s.opts.Hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return notFound(s.userRepo.UpdatePassword(ctx, userUUID, hash), MsgUserNotFound)
}

func (s *userService) Delete(ctx context.Context, userUUID string) error {
	return notFound(s.userRepo.Delete(ctx, userUUID), MsgUserNotFound)
}
