package service

import (
	"context"
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/config"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/dto"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	// SetPIN stores a bcrypt PIN hash and clears any legacy plaintext PIN,
	// retiring one entry from the migration backlog.
	SetPIN(ctx context.Context, id uuid.UUID, pin string) error
	DeactivateUser(ctx context.Context, id uuid.UUID) error
	ReactivateUser(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	users repository.UserRepository
	cfg   *config.Config
}

func NewAuthService(users repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{users: users, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperr.New(apperr.Unauthorized, "Credenciales inválidas")
	}
	if user.IsLocked(time.Now()) {
		return nil, apperr.New(apperr.Unauthorized, "Cuenta bloqueada, contacte a un administrador")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.New(apperr.Unauthorized, "Credenciales inválidas")
	}
	return s.tokenPair(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.New(apperr.Unauthorized, "Refresh token inválido o expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.New(apperr.Unauthorized, "Token mal formado")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, apperr.New(apperr.Unauthorized, "Token mal formado")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, apperr.New(apperr.Unauthorized, "Token mal formado")
	}

	user, err := s.users.FindByID(ctx, uid)
	if err != nil || !user.Active {
		return nil, apperr.New(apperr.Unauthorized, "Usuario no encontrado o inactivo")
	}
	if user.IsLocked(time.Now()) {
		return nil, apperr.New(apperr.Unauthorized, "Cuenta bloqueada, contacte a un administrador")
	}
	return s.tokenPair(user)
}

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Fault, "No se pudo generar la credencial", err)
	}
	user := &model.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if req.PIN != nil {
		pinHash, err := bcrypt.GenerateFromPassword([]byte(*req.PIN), bcryptCost)
		if err != nil {
			return nil, apperr.Wrap(apperr.Fault, "No se pudo generar la credencial", err)
		}
		ph := string(pinHash)
		user.PINHash = &ph
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "Ya existe un usuario con ese nombre")
		}
		return nil, repository.Translate(err)
	}
	return userResponse(user), nil
}

func (s *authService) ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error) {
	var (
		users []model.User
		err   error
	)
	if includeInactive {
		users, err = s.users.ListAll(ctx)
	} else {
		users, err = s.users.List(ctx)
	}
	if err != nil {
		return nil, repository.Translate(err)
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = *userResponse(&users[i])
	}
	return resp, nil
}

// UpdateUser applies only the fields present in the request.
func (s *authService) UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, refineAccountErr(repository.Translate(err))
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, apperr.Wrap(apperr.Fault, "No se pudo generar la credencial", err)
		}
		user.PasswordHash = string(hash)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, repository.Translate(err)
	}
	return userResponse(user), nil
}

func (s *authService) SetPIN(ctx context.Context, id uuid.UUID, pin string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return refineAccountErr(repository.Translate(err))
	}
	pinHash, err := bcrypt.GenerateFromPassword([]byte(pin), bcryptCost)
	if err != nil {
		return apperr.Wrap(apperr.Fault, "No se pudo generar la credencial", err)
	}
	ph := string(pinHash)
	user.PINHash = &ph
	user.LegacyPIN = nil
	if err := s.users.Update(ctx, user); err != nil {
		return repository.Translate(err)
	}
	return nil
}

func (s *authService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	if err := s.users.SetActive(ctx, id, false); err != nil {
		return refineAccountErr(repository.Translate(err))
	}
	return nil
}

func (s *authService) ReactivateUser(ctx context.Context, id uuid.UUID) error {
	if err := s.users.SetActive(ctx, id, true); err != nil {
		return refineAccountErr(repository.Translate(err))
	}
	return nil
}

func (s *authService) tokenPair(user *model.User) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, apperr.Wrap(apperr.Fault, "No se pudo generar el token", err)
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, apperr.Wrap(apperr.Fault, "No se pudo generar el token", err)
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         *userResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.User, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func userResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		HasPIN:    u.PINHash != nil,
		LegacyPIN: u.LegacyPIN != nil,
	}
}
