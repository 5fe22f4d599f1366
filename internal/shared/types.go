package shared

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Roles known to the system. Tokens minted before roles existed carry an
// empty role; callers must treat that as RoleNormal.
const (
	RoleAdmin  = "admin"
	RoleNormal = "normal"
)

// Task type names handled by cmd/worker.
const (
	TypePurgeDeletedWorks = "work:purge_deleted"
	TypeRefreshHotFlags   = "work:refresh_hot"
)

// PageRenderCacheKey is the redis key of a rendered public page. The work
// service deletes it on every mutation; the page service fills it.
func PageRenderCacheKey(workID int64, uuid string) string {
	return fmt.Sprintf("page:render:%d:%s", workID, uuid)
}

// principalKey is the gin context key the auth middleware stores the
// Principal under.
const principalKey = "principal"

// Principal is the authenticated actor of a request.
type Principal struct {
	ID       uuid.UUID
	Username string
	Role     string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// SetPrincipal attaches the principal to the request context.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// GetPrincipal returns the principal attached by the auth middleware.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
