package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/klokku/spendpace/internal/rest"
	"github.com/klokku/spendpace/pkg/period"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Id          int         `json:"id"`
	Uid         string      `json:"uid"`
	Username    string      `json:"username"`
	DisplayName string      `json:"displayName"`
	Settings    SettingsDTO `json:"settings"`
}

type SettingsDTO struct {
	Timezone      string `json:"timezone"`
	WeekFirstDay  string `json:"weekFirstDay"`
	MonthFirstDay int    `json:"monthFirstDay"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// CurrentUser godoc
// @Summary Get the current user
// @Tags User
// @Produce json
// @Success 200 {object} UserDTO
// @Failure 403 {object} rest.ErrorResponse "User not found"
// @Router /api/user/current [get]
// @Security XUserId
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.GetCurrentUser(r.Context())
	if err != nil {
		writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, UserToDTO(current))
}

// UpdateSettings godoc
// @Summary Update the calendar settings of the current user
// @Tags User
// @Accept json
// @Produce json
// @Param settings body SettingsDTO true "Settings"
// @Success 200 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid settings"
// @Router /api/user/current/settings [put]
// @Security XUserId
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating user settings")
	var settingsDTO SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&settingsDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	settings, err := DTOToSettings(settingsDTO)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid settings", err.Error())
		return
	}
	updated, err := h.service.UpdateSettings(r.Context(), settings)
	if err != nil {
		writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, UserToDTO(updated))
}

// CreateUser godoc
// @Summary Create a user
// @Tags User
// @Accept json
// @Produce json
// @Param user body UserDTO true "User"
// @Success 201 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid user data"
// @Router /api/user [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new user")
	var userDTO UserDTO
	if err := json.NewDecoder(r.Body).Decode(&userDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	newUser := User{
		Username:    userDTO.Username,
		DisplayName: userDTO.DisplayName,
		Settings:    Settings{Timezone: userDTO.Settings.Timezone},
	}
	// calendar preferences are optional on creation
	if userDTO.Settings.WeekFirstDay != "" || userDTO.Settings.MonthFirstDay != 0 {
		settings, err := DTOToSettings(userDTO.Settings)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid settings", err.Error())
			return
		}
		newUser.Settings = settings
	}

	created, err := h.service.CreateUser(r.Context(), newUser)
	if err != nil {
		writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, UserToDTO(created))
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoUser), errors.Is(err, ErrUserNotFound):
		rest.WriteError(w, http.StatusForbidden, "User not found", "")
	case errors.Is(err, ErrUserDataInvalid):
		rest.WriteError(w, http.StatusBadRequest, "Invalid user data", err.Error())
	default:
		log.Errorf("user request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

func UserToDTO(u User) UserDTO {
	return UserDTO{
		Id:          u.Id,
		Uid:         u.Uid,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Settings: SettingsDTO{
			Timezone:      u.Settings.Timezone,
			WeekFirstDay:  strings.ToLower(u.Settings.WeekFirstDay.String()),
			MonthFirstDay: u.Settings.MonthFirstDay,
		},
	}
}

func DTOToSettings(dto SettingsDTO) (Settings, error) {
	weekday, err := period.ParseWeekday(dto.WeekFirstDay)
	if err != nil {
		return Settings{}, err
	}
	timezone := dto.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	return Settings{
		Timezone:      timezone,
		WeekFirstDay:  weekday,
		MonthFirstDay: dto.MonthFirstDay,
	}, nil
}
