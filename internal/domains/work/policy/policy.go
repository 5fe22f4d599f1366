// Package policy is the enforcement gate in front of every
// ownership-sensitive work operation. A route declares what action it
// performs and where the target work id lives; the guard loads the work,
// asks the ability factory for a decision, and rejects the request before
// the handler runs.
//
// The work loaded here is only a snapshot for the authorization decision.
// The eventual mutation re-checks its own precondition in the conditional
// write, so the instance changing between the check and the act is safe.
package policy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pagecraft-backend/internal/domains/work/ability"
	"pagecraft-backend/internal/domains/work/model"
	"pagecraft-backend/internal/shared"
	"pagecraft-backend/internal/shared/response"
	"pagecraft-backend/pkg/logger"
)

// IDSource says where a route carries the target work id.
type IDSource string

const (
	FromBody  IDSource = "body"
	FromQuery IDSource = "query"
	FromParam IDSource = "param"
)

// WorkLoader is the slice of the repository the guard needs. It must apply
// the deleted-equals-absent rule.
type WorkLoader interface {
	GetByID(ctx context.Context, id int64) (*model.Work, error)
}

// Spec declares the policy of one route.
type Spec struct {
	Action ability.Action
	From   IDSource
	Key    string
	// DeniedErr is the error surfaced on an ability denial. Defaults to
	// ErrNoPermission; the detail route declares ErrNotPublic instead.
	DeniedErr error
}

// Guard builds the gin middleware for a route's policy spec.
func Guard(spec Spec, loader WorkLoader) gin.HandlerFunc {
	if spec.Key == "" {
		spec.Key = "id"
	}
	if spec.DeniedErr == nil {
		spec.DeniedErr = model.ErrNoPermission
	}

	return func(c *gin.Context) {
		p, ok := shared.GetPrincipal(c)
		if !ok {
			// The auth middleware normally catches this; the guard never
			// runs policy without an authenticated principal.
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		// Legacy tokens may omit the role; substitute the default here,
		// at the boundary, so no rule ever sees an empty role.
		if p.Role == "" {
			p.Role = shared.RoleNormal
			shared.SetPrincipal(c, p)
		}

		rawID, found := extractID(c, spec)
		if !found {
			// Malformed or missing id: skip authorization and let the
			// handler's own validation reject the input. Avoids
			// duplicating input-shape checks here.
			c.Next()
			return
		}

		w, err := loader.GetByID(c.Request.Context(), rawID)
		if err != nil {
			if errors.Is(err, model.ErrWorkNotFound) {
				response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeWorkNotFound, model.ErrWorkNotFound.Error())
			} else {
				logger.Error("policy: failed to load work", err)
				response.InternalServerError(c, "failed to load work")
			}
			c.Abort()
			return
		}

		// Normalize ownership to a plain string before rule evaluation so
		// the predicate never compares against a reference type.
		inst := ability.Instance{
			OwnerID:  w.UserID.String(),
			IsPublic: w.IsPublic,
		}

		if !ability.New(p).Can(spec.Action, inst) {
			response.ErrorResponse(c,
				model.GetHTTPStatusCode(spec.DeniedErr),
				model.ErrorCode(spec.DeniedErr),
				spec.DeniedErr.Error(),
			)
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractID pulls the target work id from the declared source. found is
// false whenever the value is absent or not a usable instance key.
func extractID(c *gin.Context, spec Spec) (int64, bool) {
	switch spec.From {
	case FromBody:
		return idFromBody(c, spec.Key)
	case FromQuery:
		return parseID(c.Query(spec.Key))
	case FromParam:
		return parseID(c.Param(spec.Key))
	default:
		return 0, false
	}
}

// idFromBody peeks at the JSON body without consuming it: the body is read
// fully and restored so the handler can still bind it.
func idFromBody(c *gin.Context, key string) (int64, bool) {
	if c.Request.Body == nil {
		return 0, false
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return 0, false
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return 0, false
	}

	field, ok := body[key]
	if !ok {
		return 0, false
	}

	var asNumber int64
	if err := json.Unmarshal(field, &asNumber); err == nil {
		return asNumber, asNumber > 0
	}

	var asString string
	if err := json.Unmarshal(field, &asString); err == nil {
		return parseID(asString)
	}

	return 0, false
}

func parseID(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
