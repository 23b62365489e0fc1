package echoapi

import (
	"sort"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/lutechstack-bit/theforgeapp-sub003/core"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
)

var contextUserKey = "user"

// jwtConfig carries the token settings derived from app config.
type jwtConfig struct {
	appName      string
	signingKey   []byte
	expiration   time.Duration
	refreshDelta time.Duration
}

func newJWTConfig(conf *core.Config) jwtConfig {
	return jwtConfig{
		appName:      conf.AppName,
		signingKey:   []byte(conf.SecretKey),
		expiration:   conf.Server.JWTExpirationDelta,
		refreshDelta: conf.Server.JWTRefreshExpirationDelta,
	}
}

func (cfg jwtConfig) middlewareConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    cfg.signingKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	}
}

var jwtContextKey = "userToken"

// Claims represents the authorization claims transmitted via a JWT.
// SessionID keys the server-side override store: each login gets a fresh
// session, so simulation state never leaks across logins.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64    `json:"oriat,omitempty"`
	SessionID    string   `json:"sid,omitempty"`
	FullName     string   `json:"full_name,omitempty"`
	Email        string   `json:"email,omitempty"`
	IsAdmin      bool     `json:"is_admin,omitempty"`
	IsCrew       bool     `json:"is_crew,omitempty"`
	IsMember     bool     `json:"is_member,omitempty"`
	Roles        []string `json:"roles,omitempty"`
}

func (cfg jwtConfig) GetUserClaims(usr user.User, sessionID string, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    cfg.appName,
			Subject:   usr.ID,
			Audience:  "TheForge",
			ExpiresAt: now.Add(cfg.expiration).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		SessionID:    sessionID,
		FullName:     usr.FullName,
		Email:        usr.Email,
		IsAdmin:      usr.IsAdmin(),
		IsCrew:       usr.IsCrew(),
		IsMember:     usr.IsMember(),
		Roles:        usr.Roles,
	}
}

func (cfg jwtConfig) authenticate(ctx echo.Context, email, pwd string, svc user.Service) (*Claims, error) {
	usr, err := svc.GetByEmail(ctx.Request().Context(), email)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return nil, errAuthenticationFailed
	}
	if usr.IsActive != nil && !*usr.IsActive {
		return nil, errAccountDeactivated
	}
	usr.LastLogin = time.Now().UTC()
	usr, err = svc.SetLastLogin(ctx.Request().Context(), usr)
	if err != nil {
		return nil, errors.Wrap(err, "setting lastLogin")
	}
	return cfg.GetUserClaims(usr, uuid.New().String()), nil
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func (cfg jwtConfig) GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)

	ss, err := token.SignedString(cfg.signingKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

// GetUserClaims builds the authorization claims for usr under sessionID.
func GetUserClaims(conf *core.Config, usr user.User, sessionID string) *Claims {
	return newJWTConfig(conf).GetUserClaims(usr, sessionID)
}

// GenerateToken signs claims into a JWT token string.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	return newJWTConfig(conf).GenerateToken(claims)
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context, svc user.Service, clms ...Claims) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return user.User{}, errors.Wrap(err, "getting context claims")
		}
	}

	usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

func contextHasAnyRole(ctx echo.Context, roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	if claims, err := getContextClaims(ctx); err == nil {
		sort.Strings(claims.Roles)
		for _, role := range roles {
			if i := sort.SearchStrings(claims.Roles, role); i < len(claims.Roles) {
				if match := claims.Roles[i]; role == match {
					return true
				}
			}
		}
	}
	return false
}

func (cfg jwtConfig) refreshToken(ctx echo.Context, svc user.Service) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	usr, err := getContextUser(ctx, svc, claims)
	if err != nil {
		return "", errors.Wrap(err, "getting context user")
	}

	// check if user is still active
	if usr.IsActive != nil && !*usr.IsActive {
		return "", errAccountDeactivated
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(cfg.refreshDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	// the session survives a refresh; simulation state stays put
	newClaims := cfg.GetUserClaims(usr, claims.SessionID, claims.OrigIssuedAt)
	token, err := cfg.GenerateToken(newClaims)
	return token, errors.Wrap(err, "generating token")
}
