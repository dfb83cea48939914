package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/klokku/spendpace/internal/event_bus"
	"github.com/klokku/spendpace/pkg/period"
	log "github.com/sirupsen/logrus"
)

var ErrUserDataInvalid = errors.New("invalid user data")

type Service interface {
	GetCurrentUser(ctx context.Context) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	UpdateSettings(ctx context.Context, settings Settings) (User, error)
}

type UserServiceImpl struct {
	repo     Repo
	defaults period.Config
	eventBus *event_bus.EventBus
}

func NewUserService(repo Repo, defaults period.Config, eventBus *event_bus.EventBus) *UserServiceImpl {
	return &UserServiceImpl{repo: repo, defaults: defaults, eventBus: eventBus}
}

func (u *UserServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.repo.GetUser(ctx, userId)
}

func (u *UserServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.repo.GetUserByUid(ctx, uid)
}

// CreateUser assigns a fresh uid and fills missing settings from the configured defaults.
func (u *UserServiceImpl) CreateUser(ctx context.Context, user User) (User, error) {
	if strings.TrimSpace(user.Username) == "" {
		return User{}, fmt.Errorf("%w: username is required", ErrUserDataInvalid)
	}
	defaults := DefaultSettings(u.defaults)
	if user.Settings.Timezone == "" {
		user.Settings.Timezone = defaults.Timezone
	}
	// a zero MonthFirstDay means no calendar preferences were sent
	if user.Settings.MonthFirstDay == 0 {
		user.Settings.MonthFirstDay = defaults.MonthFirstDay
		user.Settings.WeekFirstDay = defaults.WeekFirstDay
	}
	if err := user.Settings.Validate(); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrUserDataInvalid, err)
	}
	user.Uid = uuid.NewString()

	id, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		return User{}, err
	}
	user.Id = id
	log.Infof("created user %s (%d)", user.Uid, user.Id)
	return user, nil
}

func (u *UserServiceImpl) UpdateSettings(ctx context.Context, settings Settings) (User, error) {
	current, err := u.GetCurrentUser(ctx)
	if err != nil {
		return User{}, err
	}
	if err := settings.Validate(); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrUserDataInvalid, err)
	}
	if err := u.repo.UpdateSettings(ctx, current.Id, settings); err != nil {
		return User{}, err
	}
	current.Settings = settings

	// period boundaries depend on the settings, so every memoized summary of the user is stale now
	err = u.eventBus.Publish(event_bus.NewEvent(
		WithUser(ctx, current),
		event_bus.UserSettingsUpdatedType,
		event_bus.UserSettingsUpdated{UserId: current.Id},
	))
	if err != nil {
		log.Errorf("failed to publish settings update event: %v", err)
	}
	return current, nil
}
