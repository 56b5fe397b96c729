package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/hostelhub/internal/app/models"
	appRepos "github.com/yigit/hostelhub/internal/app/repositories"
	appServices "github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
)

// AdminAccount describes the administrator created on first start
type AdminAccount struct {
	Username string
	Email    string
	Password string
}

// sampleRooms are created by the seed command and by the in-memory demo store
var sampleRooms = []appModels.Room{
	{RoomNumber: "A101", Capacity: 2, RoomType: "double", Floor: 1, AvailabilityStatus: appModels.RoomAvailable},
	{RoomNumber: "A102", Capacity: 2, RoomType: "double", Floor: 1, AvailabilityStatus: appModels.RoomAvailable},
	{RoomNumber: "A103", Capacity: 1, RoomType: "single", Floor: 1, AvailabilityStatus: appModels.RoomAvailable},
	{RoomNumber: "B201", Capacity: 3, RoomType: "triple", Floor: 2, AvailabilityStatus: appModels.RoomAvailable},
	{RoomNumber: "B202", Capacity: 4, RoomType: "dorm", Floor: 2, AvailabilityStatus: appModels.RoomMaintenance},
}

// EnsureDefaultAdmin creates the configured administrator unless that username already exists.
// It reports whether an account was created.
func EnsureDefaultAdmin(ctx context.Context, repos *appRepos.Repositories, admins appServices.AdminService, account AdminAccount, lgr zerolog.Logger) (bool, error) {
	if account.Username == "" || account.Password == "" {
		lgr.Warn().Msg("Default admin credentials not configured, skipping admin seed")
		return false, nil
	}

	_, err := repos.Admins.GetByUsername(ctx, account.Username)
	if err == nil {
		lgr.Debug().Str("username", account.Username).Msg("Default admin already exists")
		return false, nil
	}
	if !errors.Is(err, appRepos.ErrNotFound) {
		return false, fmt.Errorf("failed to look up default admin: %w", err)
	}

	if _, err := admins.CreateAdmin(ctx, account.Username, account.Email, account.Password); err != nil {
		if errors.Is(err, apperrors.ErrAdminAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create default admin: %w", err)
	}

	lgr.Info().Str("username", account.Username).Msg("Default admin created")
	return true, nil
}

// CreateSampleRooms adds the demo rooms, skipping any that already exist.
// It returns the number of rooms created.
func CreateSampleRooms(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) (int, error) {
	var finalErr error
	created := 0
	for _, room := range sampleRooms {
		room := room
		err := repos.Rooms.Create(ctx, &room)
		switch {
		case err == nil:
			created++
		case errors.Is(err, appRepos.ErrDuplicate):
		default:
			lgr.Error().Err(err).Str("roomNumber", room.RoomNumber).Msg("Error creating sample room")
			finalErr = errors.Join(finalErr, err)
		}
	}
	lgr.Info().Int("created", created).Msg("Sample rooms checked")
	return created, finalErr
}
