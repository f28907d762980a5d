package listbot_test

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/listbot"
	"github.com/aretw0/listbot/pkg/adapters/memory"
	"github.com/aretw0/listbot/pkg/bot"
	"github.com/aretw0/listbot/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_RouterFeedsMetrics(t *testing.T) {
	app, err := listbot.New()
	require.NoError(t, err)
	defer app.Close()
	ctx := context.Background()

	_, err = app.Router().HandleCommand(ctx, "u1", "/sort")
	require.NoError(t, err)
	replies, err := app.Router().HandleText(ctx, "u1", "💎 Sword 30\n💎 Bow 4")
	require.NoError(t, err)
	assert.Equal(t, "4 30", replies[0].Text)

	assert.Equal(t, 1.0, testutil.ToFloat64(app.Metrics().ModeChanges.WithLabelValues("sort")))
	assert.Equal(t, 1.0, testutil.ToFloat64(app.Metrics().Transforms.WithLabelValues("sort", "found")))
}

func TestApp_Encryption(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	raw := memory.NewStore()
	app, err := listbot.New(listbot.WithStore(raw), listbot.WithEncryption(key))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = app.Router().HandleCommand(ctx, "u1", "/compare")
	require.NoError(t, err)
	_, err = app.Router().HandleText(ctx, "u1", "Sword 12345")
	require.NoError(t, err)

	stored, err := raw.Load(ctx, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Sealed)
	assert.Empty(t, stored.Pending)

	s, err := app.Sessions().Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sword 12345"}, s.Pending)

	_, err = listbot.New(listbot.WithEncryption([]byte("short")))
	assert.Error(t, err)
}

func TestApp_Transform(t *testing.T) {
	app, err := listbot.New(listbot.WithLimits(bot.Limits{MaxExpandedTokens: 3}))
	require.NoError(t, err)

	res, err := app.Transform("expand", "12345 (3x)")
	require.NoError(t, err)
	assert.Equal(t, "12345 12345 12345", res.Text)

	_, err = app.Transform("expand", "12345 (4x)")
	assert.ErrorContains(t, err, "limit is 3")

	_, err = app.Transform("shuffle", "x")
	assert.Error(t, err)
}

func TestApp_HTTPHandler(t *testing.T) {
	app, err := listbot.New()
	require.NoError(t, err)

	h, err := app.HTTPHandler()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "listbot_transforms_total") || strings.Contains(w.Body.String(), "go_goroutines"))
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("boom") }

func TestApp_CloseAndHooks(t *testing.T) {
	var modes []domain.Mode
	app, err := listbot.New(
		listbot.WithCloser(failingCloser{}),
		listbot.WithLifecycleHooks(domain.LifecycleHooks{
			OnModeChange: func(_ context.Context, e *domain.ModeEvent) { modes = append(modes, e.To) },
		}),
	)
	require.NoError(t, err)

	_, err = app.Router().HandleCallback(context.Background(), "u1", "mode_expand")
	require.NoError(t, err)
	assert.Equal(t, []domain.Mode{domain.ModeExpand}, modes)

	assert.EqualError(t, app.Close(), "boom")
}
