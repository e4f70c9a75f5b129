package middleware

import (
	"net/http"
	"strings"
	"time"

	"bms/internal/access"
	"bms/internal/session"
	"bms/internal/token"
	"bms/pkg/response"

	"github.com/gin-gonic/gin"
)

// Context keys set by Authenticate.
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextClaims   = "claims"
)

const AccessTokenCookie = "access_token"

// Authenticator verifies access tokens and rejects those revoked by logout.
type Authenticator struct {
	issuer        *token.Issuer
	revoked       session.Store
	secureCookies bool
}

// NewAuthenticator builds an Authenticator. secureCookies switches the token cookie
// to SameSite=None; Secure for cross-origin deployments.
func NewAuthenticator(issuer *token.Issuer, revoked session.Store, secureCookies bool) *Authenticator {
	return &Authenticator{issuer: issuer, revoked: revoked, secureCookies: secureCookies}
}

func (a *Authenticator) cookieMode() (http.SameSite, bool) {
	if a.secureCookies {
		return http.SameSiteNoneMode, true
	}
	return http.SameSiteLaxMode, false
}

// SetTokenCookie stores the access token as an HttpOnly cookie.
func (a *Authenticator) SetTokenCookie(c *gin.Context, accessToken string, ttl time.Duration) {
	sameSite, secure := a.cookieMode()
	c.SetSameSite(sameSite)
	c.SetCookie(AccessTokenCookie, accessToken, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearTokenCookie removes the access token cookie.
func (a *Authenticator) ClearTokenCookie(c *gin.Context) {
	sameSite, secure := a.cookieMode()
	c.SetSameSite(sameSite)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
}

// bearerToken reads the token from the cookie first, then from the Authorization header.
func bearerToken(c *gin.Context) (string, string) {
	if raw, err := c.Cookie(AccessTokenCookie); err == nil && raw != "" {
		return raw, ""
	}
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", "Authorization is missing"
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "Invalid authorization format. Expected 'Bearer <token>'"
	}
	return parts[1], ""
}

// Verify parses raw and checks it against the revocation list.
func (a *Authenticator) Verify(c *gin.Context, raw string) (*token.Claims, int, string) {
	claims, err := a.issuer.Parse(raw)
	if err != nil {
		return nil, http.StatusUnauthorized, "Invalid or expired token"
	}
	if claims.ID != "" {
		revoked, err := a.revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			return nil, http.StatusInternalServerError, "Failed to verify token"
		}
		if revoked {
			return nil, http.StatusUnauthorized, "Token has been revoked"
		}
	}
	return claims, 0, ""
}

// Authenticate requires a valid, unrevoked access token and stores its claims in the context.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, problem := bearerToken(c)
		if problem != "" {
			response.Abort(c, http.StatusUnauthorized, problem)
			return
		}

		claims, status, msg := a.Verify(c, raw)
		if claims == nil {
			response.Abort(c, status, msg)
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUserRole, claims.EffectiveRole())
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// UserID returns the authenticated subject, or "".
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// Role returns the role claim of the authenticated user, or "".
func Role(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}

// Claims returns the verified token claims stored by Authenticate.
func Claims(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}

// ActionForMethod maps an HTTP method to the capability it needs.
func ActionForMethod(method string) (access.Action, bool) {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return access.ActionRead, true
	case http.MethodPost:
		return access.ActionCreate, true
	case http.MethodPut, http.MethodPatch:
		return access.ActionUpdate, true
	case http.MethodDelete:
		return access.ActionDelete, true
	}
	return "", false
}

func denied(c *gin.Context, action access.Action) {
	response.Abort(c, http.StatusForbidden, "Access denied: role "+Role(c)+" may not "+string(action))
}

// RequireAccess lets the request through only when the caller's role grants action.
// It must run after Authenticate.
func RequireAccess(action access.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !access.Resolve(Role(c)).Allows(action) {
			denied(c, action)
			return
		}
		c.Next()
	}
}

// RequireCapability derives the needed action from the request method.
func RequireCapability() gin.HandlerFunc {
	return func(c *gin.Context) {
		action, ok := ActionForMethod(c.Request.Method)
		if !ok {
			response.Abort(c, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		if !access.Resolve(Role(c)).Allows(action) {
			denied(c, action)
			return
		}
		c.Next()
	}
}

// RequireRole admits only the listed built-in roles.
func RequireRole(allowed ...access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := access.Normalize(Role(c))
		if ok {
			for _, r := range allowed {
				if r == role {
					c.Next()
					return
				}
			}
		}
		response.Abort(c, http.StatusForbidden, "Access denied: insufficient permissions")
	}
}
