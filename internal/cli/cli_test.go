package cli

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/listbot/internal/config"
	"github.com/aretw0/listbot/internal/logging"
	"github.com/aretw0/listbot/pkg/listops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_Backends(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name  string
		setup func(cfg *config.Config)
	}{
		{"memory", func(cfg *config.Config) {}},
		{"file", func(cfg *config.Config) {
			cfg.Store.Backend = config.BackendFile
			cfg.Store.Path = filepath.Join(t.TempDir(), "sessions")
		}},
		{"sqlite", func(cfg *config.Config) {
			cfg.Store.Backend = config.BackendSQLite
			cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "sessions.db")
		}},
		{"redis", func(cfg *config.Config) {
			cfg.Store.Backend = config.BackendRedis
			cfg.Store.Redis.Addr = mr.Addr()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.setup(cfg)

			app, err := NewApp(cfg, logging.NewNop())
			require.NoError(t, err)
			defer app.Close()

			ctx := context.Background()
			_, err = app.Router().HandleCommand(ctx, "u1", "/compare")
			require.NoError(t, err)

			ids, err := app.Sessions().List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"u1"}, ids)
		})
	}
}

func TestNewApp_Encrypted(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Store.Backend = config.BackendFile
	cfg.Store.Path = t.TempDir()
	cfg.Store.EncryptionKey = hex.EncodeToString(key)

	app, err := NewApp(cfg, logging.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = app.Router().HandleCommand(ctx, "u1", "/compare")
	require.NoError(t, err)
	_, err = app.Router().HandleText(ctx, "u1", "Secret Sword 12345")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.Store.Path, "u1.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Secret Sword")
	assert.Contains(t, string(data), "sealed")
}

func TestNewApp_InvalidBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "etcd"
	_, err := NewApp(cfg, logging.NewNop())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRunTransform(t *testing.T) {
	app, err := NewApp(config.Default(), logging.NewNop())
	require.NoError(t, err)

	dir := t.TempDir()
	first := filepath.Join(dir, "a.txt")
	second := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(first, []byte("💎 Fire Sword 12345\n💎 Bow 22222\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("Sword 12345\n"), 0o644))

	t.Run("sort from stdin", func(t *testing.T) {
		var out bytes.Buffer
		err := RunTransform(app, TransformOptions{
			Op:  "sort",
			In:  strings.NewReader("💎 Sword 30\n💎 Bow 4\n"),
			Out: &out,
		})
		require.NoError(t, err)
		assert.Equal(t, "4 30\n", out.String())
	})

	t.Run("sentinel", func(t *testing.T) {
		var out bytes.Buffer
		err := RunTransform(app, TransformOptions{Op: "filter", In: strings.NewReader("Sword (1x)"), Out: &out})
		require.NoError(t, err)
		assert.Equal(t, listops.NoMultiUnitMessage+"\n", out.String())
	})

	t.Run("compare two files", func(t *testing.T) {
		var out bytes.Buffer
		err := RunTransform(app, TransformOptions{Op: "compare", Files: []string{first, second}, Out: &out})
		require.NoError(t, err)
		assert.Equal(t, listops.CommonItemsHeader+"\n💎 Fire Sword 12345\n", out.String())
	})

	t.Run("compare with stdin as second list", func(t *testing.T) {
		var out bytes.Buffer
		err := RunTransform(app, TransformOptions{
			Op:    "compare",
			Files: []string{first, "-"},
			In:    strings.NewReader("Bow 22222"),
			Out:   &out,
		})
		require.NoError(t, err)
		assert.Equal(t, listops.CommonItemsHeader+"\n💎 Bow 22222\n", out.String())
	})

	t.Run("compare needs two inputs", func(t *testing.T) {
		err := RunTransform(app, TransformOptions{Op: "compare", Files: []string{first}, Out: io.Discard})
		assert.ErrorIs(t, err, ErrMissingInput)
	})

	t.Run("unknown op", func(t *testing.T) {
		err := RunTransform(app, TransformOptions{Op: "shuffle", In: strings.NewReader(""), Out: io.Discard})
		assert.ErrorIs(t, err, listops.ErrUnknownOp)
	})

	t.Run("missing file", func(t *testing.T) {
		err := RunTransform(app, TransformOptions{Op: "sort", Files: []string{filepath.Join(dir, "nope")}, Out: io.Discard})
		assert.Error(t, err)
	})

	t.Run("input too large", func(t *testing.T) {
		err := RunTransform(app, TransformOptions{
			Op:           "sort",
			In:           strings.NewReader(strings.Repeat("1\n", 100)),
			Out:          io.Discard,
			MaxInputSize: 10,
		})
		assert.ErrorContains(t, err, "input 1 rejected")
	})
}

func TestRunChat_Plain(t *testing.T) {
	app, err := NewApp(config.Default(), logging.NewNop())
	require.NoError(t, err)

	in := strings.NewReader("/sort\n💎 Sword 30\n💎 Bow 4\n\n")
	var out bytes.Buffer
	err = RunChat(context.Background(), app, ChatOptions{Plain: true, In: in, Out: &out})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "4 30")
	assert.NotContains(t, out.String(), ">>> Bye!")
}

func TestRunChat_Banner(t *testing.T) {
	app, err := NewApp(config.Default(), logging.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	err = RunChat(context.Background(), app, ChatOptions{SessionID: "me", In: strings.NewReader("/filter\n"), Out: &out})
	require.NoError(t, err)

	assert.Contains(t, out.String(), ">>> Bye!")
	ids, err := app.Sessions().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"me"}, ids)
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.NoError(t, handleExecutionError(io.EOF))
	assert.Error(t, handleExecutionError(assert.AnError))
}

func TestNewLogger_JSON(t *testing.T) {
	cfg := config.Default()
	cfg.LogFormat = "json"
	cfg.LogLevel = "debug"

	var buf bytes.Buffer
	newLogger(&buf, cfg).Debug("hello", "error", "x")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"err":"x"`)
}

func TestRunServe_MissingToken(t *testing.T) {
	app, err := NewApp(config.Default(), logging.NewNop())
	require.NoError(t, err)

	err = RunServe(context.Background(), app, config.Default(), ServeOptions{Addr: "127.0.0.1:0", Telegram: true})
	assert.ErrorIs(t, err, ErrMissingToken)
}
