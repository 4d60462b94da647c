package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dom "github.com/Crapteep/automation-hub/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	users map[uuid.UUID]dom.User
	err   error
}

func (f *fakeLoader) GetByID(_ context.Context, id uuid.UUID) (dom.User, error) {
	if f.err != nil {
		return dom.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return dom.User{}, dom.ErrUserNotFound
	}
	return u, nil
}

func newTestRouter(tokens *TokenService, loader UserLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	protected := r.Group("/", RequireUser(tokens, loader))
	protected.GET("/whoami", func(c *gin.Context) {
		u, _ := UserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": u.ID.String()})
	})
	admin := protected.Group("", RequireSuperuser())
	admin.GET("/admin-only", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doGet(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUserHappyPath(t *testing.T) {
	tokens := NewTokenService(testSecret, time.Hour)
	user := dom.User{ID: uuid.New(), Username: "alice01", IsActive: true}
	r := newTestRouter(tokens, &fakeLoader{users: map[uuid.UUID]dom.User{user.ID: user}})

	raw, err := tokens.Issue(user.ID)
	require.NoError(t, err)

	w := doGet(r, "/whoami", "Bearer "+raw)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())
}

func TestRequireUserMissingHeader(t *testing.T) {
	tokens := NewTokenService(testSecret, time.Hour)
	r := newTestRouter(tokens, &fakeLoader{})

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/whoami", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/whoami", "Basic abc").Code)
}

func TestRequireUserExpiredToken(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt
	tokens := NewTokenService(testSecret, time.Minute).WithClock(func() time.Time { return clock })
	r := newTestRouter(tokens, &fakeLoader{})

	raw, err := tokens.Issue(uuid.New())
	require.NoError(t, err)

	clock = issuedAt.Add(2 * time.Minute)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/whoami", "Bearer "+raw).Code)
}

func TestRequireUserForgedToken(t *testing.T) {
	tokens := NewTokenService(testSecret, time.Hour)
	r := newTestRouter(tokens, &fakeLoader{})

	forged := signWithSubject(t, []byte("other-secret"), uuid.NewString(), time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusForbidden, doGet(r, "/whoami", "Bearer "+forged).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/whoami", "Bearer garbage").Code)
}

func TestRequireUserUnknownSubject(t *testing.T) {
	tokens := NewTokenService(testSecret, time.Hour)
	r := newTestRouter(tokens, &fakeLoader{})

	raw, err := tokens.Issue(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, doGet(r, "/whoami", "Bearer "+raw).Code)
}

func TestRequireUserInactive(t *testing.T) {
	tokens := NewTokenService(testSecret, time.Hour)
	user := dom.User{ID: uuid.New(), Username: "bob", IsActive: false}
	r := newTestRouter(tokens, &fakeLoader{users: map[uuid.UUID]dom.User{user.ID: user}})

	raw, err := tokens.Issue(user.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, doGet(r, "/whoami", "Bearer "+raw).Code)
}

func TestRequireSuperuser(t *testing.T) {
	tokens := NewTokenService(testSecret, time.Hour)
	member := dom.User{ID: uuid.New(), IsActive: true}
	admin := dom.User{ID: uuid.New(), IsActive: true, IsSuperuser: true}
	r := newTestRouter(tokens, &fakeLoader{users: map[uuid.UUID]dom.User{
		member.ID: member,
		admin.ID:  admin,
	}})

	memberToken, err := tokens.Issue(member.ID)
	require.NoError(t, err)
	adminToken, err := tokens.Issue(admin.ID)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin-only", "Bearer "+memberToken).Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/admin-only", "Bearer "+adminToken).Code)
}
