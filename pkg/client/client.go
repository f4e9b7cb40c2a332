package client

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

type ExtraClaims struct {
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// AuthUser is the authenticated principal carried on the request context
type AuthUser struct {
	UserId      string `json:"user_id,omitempty"`
	Subject     string `json:"sub,omitempty"`
	DisplayName string `json:"display_name,omitempty"` // Name of the user, not username
	// UserUuid is UserId parsed, uuid.Nil when UserId is not a UUID
	UserUuid    uuid.UUID   `json:"-"`
	ExtraClaims ExtraClaims `json:"extra_claims,omitempty"`
}

func (i AuthUser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user", i.UserId),
		slog.Any("extra_claims", i.ExtraClaims),
	)
}

// Name returns the principal name: the username claim, else the subject.
func (i *AuthUser) Name() string {
	if i.ExtraClaims.Username != "" {
		return i.ExtraClaims.Username
	}
	return i.Subject
}

func (i *AuthUser) HasAnyRole(roles ...string) bool {
	for _, held := range i.ExtraClaims.Roles {
		for _, wanted := range roles {
			if held == wanted {
				return true
			}
		}
	}
	return false
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "account context value " + k.name
}

const ACCESS_TOKEN_NAME = "access_token"

var (
	AuthUserKey = &contextKey{"AuthUser"}
)

// WithAuthUser returns a copy of ctx carrying user
func WithAuthUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, AuthUserKey, user)
}

// FromContext returns the authenticated user, if any
func FromContext(ctx context.Context) (*AuthUser, bool) {
	user, ok := ctx.Value(AuthUserKey).(*AuthUser)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// PrincipalName returns the name of the authenticated principal. ok is false
// when the context carries no principal or the principal has no name.
func PrincipalName(ctx context.Context) (string, bool) {
	user, ok := FromContext(ctx)
	if !ok {
		return "", false
	}
	name := user.Name()
	return name, name != ""
}

func LoadFromMap[T any](m map[string]interface{}, c *T) error {
	data, err := json.Marshal(m)
	if err == nil {
		err = json.Unmarshal(data, c)
	}
	return err
}

var errMissingUser = errors.New("missing user ID in token")

// authUserFromClaims maps verified JWT claims onto an AuthUser. The user ID
// falls back to the subject claim.
func authUserFromClaims(claims map[string]interface{}) (*AuthUser, error) {
	authUser := new(AuthUser)
	if err := LoadFromMap(claims, authUser); err != nil {
		return nil, err
	}
	if authUser.UserId == "" {
		authUser.UserId = authUser.Subject
	}
	if authUser.UserId == "" {
		return nil, errMissingUser
	}

	if userUUID, err := uuid.Parse(authUser.UserId); err == nil {
		authUser.UserUuid = userUUID
	} else {
		slog.Debug("user ID is not a UUID", "userId", authUser.UserId)
	}
	return authUser, nil
}

// AuthUserMiddleware requires a verified token and puts its AuthUser on the
// request context. Must be used after Verifier.
func AuthUserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || claims == nil {
			http.Error(w, "missing or invalid JWT", http.StatusUnauthorized)
			return
		}

		authUser, err := authUserFromClaims(claims)
		if err != nil {
			slog.Error("failed to parse token claims", "err", err)
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		slog.Debug("authenticated user", "userId", authUser.UserId, "roles", authUser.ExtraClaims.Roles)
		next.ServeHTTP(w, r.WithContext(WithAuthUser(r.Context(), authUser)))
	})
}

// OptionalAuthUserMiddleware attaches the AuthUser when a valid token is
// present and otherwise lets the request through anonymously.
func OptionalAuthUserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || claims == nil {
			next.ServeHTTP(w, r)
			return
		}

		authUser, err := authUserFromClaims(claims)
		if err != nil {
			slog.Warn("ignoring token with unusable claims", "err", err)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAuthUser(r.Context(), authUser)))
	})
}

// Verifier looks for a token in the Authorization header, then the access token cookie
func Verifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return jwtauth.Verify(ja, jwtauth.TokenFromHeader, TokenFromCookie)
}

func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(ACCESS_TOKEN_NAME)
	if err != nil {
		return ""
	}
	return cookie.Value
}
