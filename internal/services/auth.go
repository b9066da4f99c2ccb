package services

import (
  "context"
  "errors"
  "time"
  "gorm.io/gorm"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/normalization"
  "github.com/anchorhealth/anchor-backend/internal/repos"
  "github.com/anchorhealth/anchor-backend/internal/requestdata"
  "github.com/anchorhealth/anchor-backend/internal/types"
  "github.com/anchorhealth/anchor-backend/internal/utils"
)

type JWTClaims struct {
  Role string `json:"role"`
  jwt.RegisteredClaims
}

type TokenPair struct {
  AccessToken  string `json:"access_token"`
  RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
  RegisterUser(ctx context.Context, user *types.User) error
  LoginUser(ctx context.Context, email, password string) (*TokenPair, error)
  RefreshUser(ctx context.Context, refreshToken string) (*TokenPair, error)
  LogoutUser(ctx context.Context) error
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
  GetAccessTTL() time.Duration
}

type authService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  userTokenRepo repos.UserTokenRepo
  jwtSecretKey  string
  accessTTL     time.Duration
  refreshTTL    time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  userTokenRepo repos.UserTokenRepo,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  return &authService{
    db:            db,
    log:           log.With("service", "AuthService"),
    userRepo:      userRepo,
    userTokenRepo: userTokenRepo,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
    refreshTTL:    refreshTTL,
  }
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
  user.Email = normalization.ParseInputString(user.Email)
  if err := utils.ValidateEmail(user.Email); err != nil {
    return err
  }
  if err := utils.ValidatePassword(user.Password); err != nil {
    return err
  }
  if user.FirstName == "" {
    return apierr.Validation("A first name is required to register")
  }
  exists, err := as.userRepo.EmailExists(ctx, nil, user.Email)
  if err != nil {
    return apierr.Internal(err)
  }
  if exists {
    return apierr.Conflict("Email is already in use")
  }
  hashed, err := utils.HashPassword(user.Password)
  if err != nil {
    return err
  }
  user.Password = hashed
  user.ID = uuid.New()
  if user.Role == "" {
    user.Role = types.RoleMember
  }
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
      return apierr.From(err)
    }
    return nil
  })
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (*TokenPair, error) {
  email = normalization.ParseInputString(email)
  if email == "" || password == "" {
    return nil, apierr.Validation("Email and password are required to login")
  }
  users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
  if err != nil {
    return nil, apierr.Internal(err)
  }
  if len(users) == 0 || !utils.CheckPassword(users[0].Password, password) {
    return nil, apierr.Auth("Invalid email or password")
  }
  user := users[0]

  var pair *TokenPair
  err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    // Expired tokens for this user are swept on login.
    if err := as.userTokenRepo.DeleteExpiredBefore(ctx, tx, time.Now()); err != nil {
      return err
    }
    p, err := as.issueTokens(ctx, tx, user)
    if err != nil {
      return err
    }
    pair = p
    return nil
  })
  if err != nil {
    return nil, apierr.From(err)
  }
  return pair, nil
}

func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (*TokenPair, error) {
  if refreshToken == "" {
    return nil, apierr.Auth("A refresh token is required")
  }
  var pair *TokenPair
  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    found, err := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{refreshToken})
    if err != nil {
      return err
    }
    if len(found) == 0 {
      return apierr.Auth("Unknown refresh token")
    }
    existing := found[0]
    if existing.ExpiresAt.Before(time.Now()) {
      if err := as.userTokenRepo.FullDeleteByTokens(ctx, tx, []*types.UserToken{existing}); err != nil {
        return err
      }
      return apierr.Auth("Refresh token expired")
    }
    users, err := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.UserID})
    if err != nil {
      return err
    }
    if len(users) == 0 {
      return apierr.Auth("No user found for the given refresh token")
    }
    p, err := as.issueTokens(ctx, tx, users[0])
    if err != nil {
      return err
    }
    if err := as.userTokenRepo.FullDeleteByTokens(ctx, tx, []*types.UserToken{existing}); err != nil {
      return err
    }
    pair = p
    return nil
  })
  if err != nil {
    return nil, apierr.From(err)
  }
  return pair, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.TokenString == "" {
    return apierr.Auth("No authenticated session found")
  }
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    found, err := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
    if err != nil {
      return apierr.From(err)
    }
    if len(found) == 0 {
      return nil
    }
    if err := as.userTokenRepo.FullDeleteByTokens(ctx, tx, found); err != nil {
      return apierr.From(err)
    }
    return nil
  })
}

func (as *authService) issueTokens(ctx context.Context, tx *gorm.DB, user *types.User) (*TokenPair, error) {
  accessToken, err := as.generateAccessToken(user)
  if err != nil {
    return nil, err
  }
  refreshToken := uuid.New().String()
  userToken := types.UserToken{
    ID:           uuid.New(),
    UserID:       user.ID,
    AccessToken:  accessToken,
    RefreshToken: refreshToken,
    ExpiresAt:    time.Now().Add(as.refreshTTL),
  }
  if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken}); err != nil {
    return nil, err
  }
  return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  claims := JWTClaims{
    Role: user.Role,
    RegisteredClaims: jwt.RegisteredClaims{
      // The jti keeps tokens minted in the same second distinct.
      ID:        uuid.New().String(),
      Subject:   user.ID.String(),
      ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
      IssuedAt:  jwt.NewNumericDate(time.Now()),
    },
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, apierr.Auth("Missing token")
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, errors.New("unexpected signing method")
    }
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return ctx, apierr.Auth("Invalid or expired token")
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, apierr.Auth("Invalid or expired token")
  }
  userID, err := uuid.Parse(claims.Subject)
  if err != nil {
    return ctx, apierr.Auth("Invalid user id in token")
  }
  rd := &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      userID,
    Role:        claims.Role,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}
