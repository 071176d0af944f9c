package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/solacehq/solace-backend/internal/apierr"
	"github.com/solacehq/solace-backend/internal/logger"
	"github.com/solacehq/solace-backend/internal/repos"
	"github.com/solacehq/solace-backend/internal/requestdata"
	"github.com/solacehq/solace-backend/internal/types"
)

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) error
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	avatarService AvatarService
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	avatarService AvatarService,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		avatarService: avatarService,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)

	if user.Email == "" || !strings.Contains(user.Email, "@") {
		return apierr.New(http.StatusBadRequest, "INVALID_EMAIL", errors.New("a valid email is required"))
	}
	if len(user.Password) < 8 {
		return apierr.New(http.StatusBadRequest, "WEAK_PASSWORD", errors.New("password must be at least 8 characters"))
	}
	if user.FirstName == "" || user.LastName == "" {
		return apierr.New(http.StatusBadRequest, "MISSING_NAME", errors.New("first and last name are required"))
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, user.Email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return apierr.New(http.StatusConflict, "EMAIL_EXISTS", errors.New("an account with this email already exists"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hashed)
	user.ID = uuid.New()

	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := as.userRepo.Create(ctx, tx, user); cErr != nil {
			return fmt.Errorf("create user: %w", cErr)
		}
		if as.avatarService != nil {
			if avErr := as.avatarService.CreateUserAvatar(ctx, user); avErr != nil {
				as.log.Warn("Could not generate user avatar, continuing without", "error", avErr)
			} else if uErr := as.userRepo.UpdateAvatar(ctx, tx, user.ID, user.AvatarMediaKey, user.AvatarURL); uErr != nil {
				as.log.Warn("Could not record avatar on user", "error", uErr)
			}
		}
		return nil
	})
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", apierr.New(http.StatusUnauthorized, "AUTH_FAILED", errors.New("invalid email or password"))
		}
		return "", "", fmt.Errorf("load user by email: %w", err)
	}
	if hErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); hErr != nil {
		return "", "", apierr.New(http.StatusUnauthorized, "AUTH_FAILED", errors.New("invalid email or password"))
	}

	var accessToken, refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// One active session per user: stale tokens are replaced on login.
		if dErr := as.userTokenRepo.DeleteByUserID(ctx, tx, user.ID); dErr != nil {
			return fmt.Errorf("clear prior tokens: %w", dErr)
		}
		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token: %w", genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, &userToken); cErr != nil {
			return fmt.Errorf("create user token: %w", cErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return "", "", apierr.New(http.StatusUnauthorized, "AUTH_REQUIRED", errors.New("no refresh token in request context"))
	}

	var accessToken, newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, gErr := as.userTokenRepo.GetByRefreshToken(ctx, tx, rd.RefreshToken)
		if gErr != nil {
			return fmt.Errorf("load refresh token: %w", gErr)
		}
		if existing == nil {
			return apierr.New(http.StatusUnauthorized, "AUTH_FAILED", errors.New("unknown refresh token"))
		}
		if existing.ExpiresAt.Before(time.Now()) {
			if dErr := as.userTokenRepo.DeleteByID(ctx, tx, existing.ID); dErr != nil {
				as.log.Warn("Could not delete expired token", "error", dErr)
			}
			return apierr.New(http.StatusUnauthorized, "AUTH_FAILED", errors.New("refresh token expired"))
		}
		user, uErr := as.userRepo.GetByID(ctx, tx, existing.UserID)
		if uErr != nil {
			return fmt.Errorf("load user for refresh: %w", uErr)
		}
		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token: %w", genErr)
		}
		accessToken = tok
		newRefreshToken = uuid.New().String()
		if dErr := as.userTokenRepo.DeleteByID(ctx, tx, existing.ID); dErr != nil {
			return fmt.Errorf("rotate token: %w", dErr)
		}
		userToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, &userToken); cErr != nil {
			return fmt.Errorf("create rotated token: %w", cErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.New(http.StatusUnauthorized, "AUTH_REQUIRED", errors.New("no caller identity in request context"))
	}
	return as.userTokenRepo.DeleteByUserID(ctx, nil, rd.UserID)
}

// SetContextFromToken validates the bearer token and attaches the caller
// identity to the context. The token must both verify as a JWT and still
// have a live row in user_token (logout revokes it).
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !parsed.Valid {
		return ctx, apierr.New(http.StatusUnauthorized, "AUTH_FAILED", errors.New("invalid access token"))
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, apierr.New(http.StatusUnauthorized, "AUTH_FAILED", errors.New("invalid token claims"))
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, apierr.New(http.StatusUnauthorized, "AUTH_FAILED", errors.New("invalid token subject"))
	}

	row, err := as.userTokenRepo.GetByAccessToken(ctx, nil, tokenString)
	if err != nil {
		return ctx, fmt.Errorf("load token row: %w", err)
	}
	if row == nil || row.UserID != userID {
		return ctx, apierr.New(http.StatusUnauthorized, "AUTH_FAILED", errors.New("token has been revoked"))
	}

	rd := &requestdata.RequestData{
		TokenString:  tokenString,
		RefreshToken: row.RefreshToken,
		UserID:       userID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(as.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}
