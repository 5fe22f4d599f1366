package policy

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagecraft-backend/internal/domains/work/ability"
	"pagecraft-backend/internal/domains/work/model"
	"pagecraft-backend/internal/shared"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLoader struct {
	works map[int64]*model.Work
}

func (s *stubLoader) GetByID(_ context.Context, id int64) (*model.Work, error) {
	w, ok := s.works[id]
	if !ok {
		return nil, model.ErrWorkNotFound
	}
	return w, nil
}

// buildRouter wires a guarded probe route. principal == nil simulates a
// request that skipped authentication.
func buildRouter(spec Spec, loader WorkLoader, principal *shared.Principal) (*gin.Engine, *bool) {
	reached := new(bool)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if principal != nil {
			shared.SetPrincipal(c, *principal)
		}
	})
	handler := func(c *gin.Context) {
		*reached = true
		c.Status(http.StatusOK)
	}
	r.GET("/works/:id", Guard(spec, loader), handler)
	r.POST("/channels", Guard(spec, loader), handler)
	return r, reached
}

func TestGuardRequiresPrincipal(t *testing.T) {
	loader := &stubLoader{works: map[int64]*model.Work{}}
	r, reached := buildRouter(Spec{Action: ability.ActionRead, From: FromParam}, loader, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/works/1", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestGuardMissingWork(t *testing.T) {
	p := shared.Principal{ID: uuid.New(), Role: shared.RoleNormal}
	loader := &stubLoader{works: map[int64]*model.Work{}}
	r, reached := buildRouter(Spec{Action: ability.ActionRead, From: FromParam}, loader, &p)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/works/42", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, *reached)
}

func TestGuardDenialUsesDeclaredError(t *testing.T) {
	owner := uuid.New()
	stranger := shared.Principal{ID: uuid.New(), Role: shared.RoleNormal}
	loader := &stubLoader{works: map[int64]*model.Work{
		7: {ID: 7, UserID: owner, IsPublic: false, Status: model.StatusInitial},
	}}

	t.Run("read denial surfaces not-public", func(t *testing.T) {
		r, reached := buildRouter(Spec{
			Action:    ability.ActionRead,
			From:      FromParam,
			DeniedErr: model.ErrNotPublic,
		}, loader, &stranger)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/works/7", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), model.ErrCodeNotPublic)
		assert.False(t, *reached)
	})

	t.Run("default denial is no-permission", func(t *testing.T) {
		r, reached := buildRouter(Spec{
			Action: ability.ActionUpdate,
			From:   FromParam,
		}, loader, &stranger)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/works/7", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), model.ErrCodeNoPermission)
		assert.False(t, *reached)
	})
}

func TestGuardAllowsOwner(t *testing.T) {
	owner := shared.Principal{ID: uuid.New(), Role: shared.RoleNormal}
	loader := &stubLoader{works: map[int64]*model.Work{
		7: {ID: 7, UserID: owner.ID, Status: model.StatusInitial},
	}}
	r, reached := buildRouter(Spec{Action: ability.ActionUpdate, From: FromParam}, loader, &owner)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/works/7", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

func TestGuardMalformedIDPassesThrough(t *testing.T) {
	// An unparsable id skips authorization; handler-side validation owns
	// the rejection.
	p := shared.Principal{ID: uuid.New(), Role: shared.RoleNormal}
	loader := &stubLoader{works: map[int64]*model.Work{}}
	r, reached := buildRouter(Spec{Action: ability.ActionRead, From: FromParam}, loader, &p)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/works/abc", nil))

	assert.True(t, *reached)
}

func TestGuardEmptyRoleDefaultsToNormal(t *testing.T) {
	owner := shared.Principal{ID: uuid.New()} // legacy token, no role
	loader := &stubLoader{works: map[int64]*model.Work{
		7: {ID: 7, UserID: owner.ID, Status: model.StatusInitial},
	}}
	r, reached := buildRouter(Spec{Action: ability.ActionDelete, From: FromParam}, loader, &owner)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/works/7", nil))

	// Normal owners may delete; had the empty role been treated as admin
	// the delete would be denied.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

func TestGuardAdminCannotDelete(t *testing.T) {
	admin := shared.Principal{ID: uuid.New(), Role: shared.RoleAdmin}
	loader := &stubLoader{works: map[int64]*model.Work{
		7: {ID: 7, UserID: uuid.New(), Status: model.StatusInitial},
	}}
	r, reached := buildRouter(Spec{Action: ability.ActionDelete, From: FromParam}, loader, &admin)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/works/7", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, *reached)
}

func TestGuardIDFromBody(t *testing.T) {
	owner := shared.Principal{ID: uuid.New(), Role: shared.RoleNormal}
	loader := &stubLoader{works: map[int64]*model.Work{
		9: {ID: 9, UserID: owner.ID, Status: model.StatusInitial},
	}}
	spec := Spec{Action: ability.ActionManageChannels, From: FromBody, Key: "workId"}

	t.Run("numeric id", func(t *testing.T) {
		r, reached := buildRouter(spec, loader, &owner)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/channels", bytes.NewBufferString(`{"workId":9,"name":"wechat"}`))
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *reached)
	})

	t.Run("string id accepted too", func(t *testing.T) {
		r, reached := buildRouter(spec, loader, &owner)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/channels", bytes.NewBufferString(`{"workId":"9","name":"wechat"}`))
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *reached)
	})

	t.Run("missing field passes through", func(t *testing.T) {
		r, reached := buildRouter(spec, loader, &owner)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/channels", bytes.NewBufferString(`{"name":"wechat"}`))
		r.ServeHTTP(rec, req)

		assert.True(t, *reached)
	})

	t.Run("body restored for the handler", func(t *testing.T) {
		var seen string
		r := gin.New()
		r.Use(func(c *gin.Context) { shared.SetPrincipal(c, owner) })
		r.POST("/channels", Guard(spec, loader), func(c *gin.Context) {
			var payload struct {
				Name string `json:"name"`
			}
			require.NoError(t, c.ShouldBindJSON(&payload))
			seen = payload.Name
			c.Status(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/channels", bytes.NewBufferString(`{"workId":9,"name":"wechat"}`))
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "wechat", seen)
	})
}
