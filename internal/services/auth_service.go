package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/dto"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/models"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	store    *store.Store
	devices  *DeviceRegistry
	clips    *ClipboardStore
	tokens   *TokenIssuer
	hashCost int
}

func NewAuthService(st *store.Store, devices *DeviceRegistry, clips *ClipboardStore, tokens *TokenIssuer) *AuthService {
	return &AuthService{
		store:    st,
		devices:  devices,
		clips:    clips,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.newUser(req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	count, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "username", user.Username)
	return &dto.RegisterResponse{
		Success:   true,
		Message:   "Registration successful",
		UserCount: count,
		Username:  user.Username,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.store.User(req.Username)
	if err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	current, err := s.devices.UpsertOnLogin(ctx, user.Username, *req.DeviceInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}
	devices, err := s.devices.List(user.Username)
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.IsCurrent(current.DeviceID) {
			current = d
			break
		}
	}
	clips, err := s.clips.List(user.Username)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(user.Username, current.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in", "username", user.Username, "device_id", current.DeviceID)
	return &dto.LoginResponse{
		Success:       true,
		Message:       "Login successful",
		Token:         token,
		DeviceID:      current.DeviceID,
		Devices:       devices,
		CurrentDevice: current,
		Clipboards:    clips,
	}, nil
}

func (s *AuthService) newUser(username, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	return models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}, nil
}
