package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agriconnect/internal/auth"
	"agriconnect/internal/response"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounterFixedWindow(t *testing.T) {
	m := NewMemoryCounter()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := m.Incr(ctx, "k", 50*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// A fresh window restarts the count.
	time.Sleep(60 * time.Millisecond)
	got, err := m.Incr(ctx, "k", 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestMemoryCounterWindowDoesNotSlide(t *testing.T) {
	m := NewMemoryCounter()
	ctx := context.Background()
	window := 100 * time.Millisecond

	_, err := m.Incr(ctx, "k", window)
	require.NoError(t, err)

	// An increment past the halfway mark must not push the window end
	// forward; a steadily retrying client would otherwise never reset.
	time.Sleep(60 * time.Millisecond)
	got, err := m.Incr(ctx, "k", window)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)

	// The window still ends where the first increment anchored it.
	time.Sleep(60 * time.Millisecond)
	got, err = m.Incr(ctx, "k", window)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestRedisCounterWindowDoesNotSlide(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	counter := NewRedisCounter(rdb)
	ctx := context.Background()

	got, err := counter.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	// The second increment arrives mid-window and must not re-arm the
	// TTL set by the first.
	mr.FastForward(30 * time.Second)
	got, err = counter.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)

	// Just past the original window end the key has expired and the
	// count restarts.
	mr.FastForward(31 * time.Second)
	got, err = counter.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestMemoryCounterKeysAreIndependent(t *testing.T) {
	m := NewMemoryCounter()
	ctx := context.Background()

	_, _ = m.Incr(ctx, "a", time.Minute)
	_, _ = m.Incr(ctx, "a", time.Minute)
	got, err := m.Incr(ctx, "b", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func testTier(anonLimit, userLimit int) Tier {
	return Tier{
		Name:       "test",
		AnonLimit:  anonLimit,
		AnonWindow: time.Minute,
		UserLimit:  userLimit,
		UserWindow: time.Minute,
	}
}

func rateLimitedRouter(store CounterStore, tier Tier, claims *auth.Claims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if claims != nil {
		r.Use(func(c *gin.Context) {
			c.Set("user_id", claims.UserID)
			c.Set("claims", claims)
		})
	}
	r.GET("/ping", RateLimit(store, tier), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func doGet(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitBlocksAnonymousOverLimit(t *testing.T) {
	r := rateLimitedRouter(NewMemoryCounter(), testTier(2, 100), nil)

	assert.Equal(t, http.StatusOK, doGet(r).Code)
	assert.Equal(t, http.StatusOK, doGet(r).Code)

	w := doGet(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	var body response.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeRateLimited, body.ErrorCode)
	assert.NotEmpty(t, body.Help["solution"])
	assert.Equal(t, "2", body.Help["limit"])
}

func TestRateLimitUsesUserAllowanceWhenAuthenticated(t *testing.T) {
	claims := &auth.Claims{UserID: 10, Role: "FARMER"}
	r := rateLimitedRouter(NewMemoryCounter(), testTier(1, 3), claims)

	// The anonymous limit of 1 must not apply to an authenticated caller.
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doGet(r).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, doGet(r).Code)
}

func TestRateLimitKeysUsersSeparately(t *testing.T) {
	store := NewMemoryCounter()
	tier := testTier(1, 2)
	first := rateLimitedRouter(store, tier, &auth.Claims{UserID: 1, Role: "FARMER"})
	second := rateLimitedRouter(store, tier, &auth.Claims{UserID: 2, Role: "FARMER"})

	assert.Equal(t, http.StatusOK, doGet(first).Code)
	assert.Equal(t, http.StatusOK, doGet(first).Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(first).Code)

	// A different user still has a full allowance.
	assert.Equal(t, http.StatusOK, doGet(second).Code)
}

func TestRateLimitBypassesStaffAndAdmins(t *testing.T) {
	r := rateLimitedRouter(NewMemoryCounter(), testTier(1, 1), &auth.Claims{UserID: 1, Role: "ADMIN"})
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, doGet(r).Code)
	}

	r = rateLimitedRouter(NewMemoryCounter(), testTier(1, 1), &auth.Claims{UserID: 2, Role: "FARMER", IsStaff: true})
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, doGet(r).Code)
	}
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, context.DeadlineExceeded
}

func TestRateLimitFailsOpenOnCounterErrors(t *testing.T) {
	r := rateLimitedRouter(failingCounter{}, testTier(1, 1), nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doGet(r).Code)
	}
}
