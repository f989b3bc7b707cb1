package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/openlms/authoring-backend/internal/logger"
	pkgerrors "github.com/openlms/authoring-backend/internal/pkg/errors"
	"github.com/openlms/authoring-backend/internal/repos"
	"github.com/openlms/authoring-backend/internal/types"
)

// StaffClaims is the JWT payload for authoring-portal sessions.
type StaffClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, user *types.StaffUser) (*types.StaffUser, error)
	Login(ctx context.Context, email, password string) (string, *types.StaffUser, error)
	ParseToken(tokenString string) (*StaffClaims, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	staffRepo    repos.StaffUserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(db *gorm.DB, baseLog *logger.Logger, staffRepo repos.StaffUserRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	return &authService{
		db:           db,
		log:          baseLog.With("service", "AuthService"),
		staffRepo:    staffRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) Register(ctx context.Context, user *types.StaffUser) (*types.StaffUser, error) {
	if user.Email == "" || user.Password == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hashed)
	if user.Role == "" {
		user.Role = types.StaffRoleEditor
	}
	created, err := as.staffRepo.Create(ctx, nil, user)
	if err != nil {
		as.log.Error("staff registration failed", "email", user.Email, "error", err)
		return nil, err
	}
	return created, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (string, *types.StaffUser, error) {
	user, err := as.staffRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return "", nil, pkgerrors.ErrUnauthorized
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, pkgerrors.ErrUnauthorized
	}
	token, err := as.generateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return token, user, nil
}

func (as *authService) generateAccessToken(user *types.StaffUser) (string, error) {
	now := time.Now()
	claims := StaffClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) ParseToken(tokenString string) (*StaffClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &StaffClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*StaffClaims)
	if !ok || !parsed.Valid {
		return nil, pkgerrors.ErrUnauthorized
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("invalid subject in token: %w", err)
	}
	return claims, nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
