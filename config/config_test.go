package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoZeroFields(t *testing.T) {
	cfg := Default()

	for _, field := range visit(newVar(*cfg), "Config", false) {
		assert.Fail(t, "zero-value field", field)
	}
}

type variable struct {
	Type  reflect.Type
	Value reflect.Value
}

func newVar(a any) variable {
	return variable{reflect.TypeOf(a), reflect.ValueOf(a)}
}

func visit(a variable, name string, nullable bool) (fields []string) {
	if a.Type.Kind() == reflect.Struct {
		for field := range a.Value.NumField() {
			v1 := variable{a.Type.Field(field).Type, a.Value.Field(field)}
			fieldname := a.Type.Field(field).Name
			isNullable := a.Type.Field(field).Tag.Get("test") == "nullable"
			fields = append(fields, visit(v1, name+"."+fieldname, isNullable)...)
		}

		return fields
	}

	if a.Value.IsZero() && !nullable {
		return []string{name}
	}

	return nil
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "reqpool.yaml", `
pool:
  workers: 8
  queue_capacity: 64
request:
  max_headers: 10
net:
  read_timeout: 5s
log:
  color: false
metrics:
  addr: ":9090"
`)
		f, err := LoadFile(path)
		require.NoError(t, err)

		cfg := Default()
		require.NoError(t, f.Apply(cfg))
		require.Equal(t, 8, cfg.Pool.Workers)
		require.Equal(t, 64, cfg.Pool.QueueCapacity)
		require.Equal(t, Default().Pool.GrowthCeiling, cfg.Pool.GrowthCeiling)
		require.Equal(t, 10, cfg.Request.MaxHeaders)
		require.Equal(t, Default().Request.MaxPathLength, cfg.Request.MaxPathLength)
		require.Equal(t, 5*time.Second, cfg.NET.ReadTimeout)
		require.True(t, cfg.Log.Requests)
		require.False(t, cfg.Log.Color)
		require.Equal(t, ":9090", cfg.Metrics.Addr)
	})

	t.Run("json", func(t *testing.T) {
		path := writeFile(t, "reqpool.json", `{
			"pool": {"workers": 2},
			"body": {"max_size": 128},
			"net": {"write_retries": 7, "accept_loop_interrupt_period": "250ms"}
		}`)
		f, err := LoadFile(path)
		require.NoError(t, err)

		cfg := Default()
		require.NoError(t, f.Apply(cfg))
		require.Equal(t, 2, cfg.Pool.Workers)
		require.Equal(t, 128, cfg.Body.MaxSize)
		require.Equal(t, 7, cfg.NET.WriteRetries)
		require.Equal(t, 250*time.Millisecond, cfg.NET.AcceptLoopInterruptPeriod)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := LoadFile(writeFile(t, "reqpool.toml", "workers = 1"))
		require.ErrorContains(t, err, "unsupported config format")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := LoadFile(writeFile(t, "reqpool.yaml", "pool: [1, 2"))
		require.ErrorContains(t, err, "failed to parse YAML")
	})
}

func TestValidate(t *testing.T) {
	var f File
	require.NoError(t, f.Validate())

	f.Pool.Workers = -1
	f.Request.MaxHeaders = -3
	f.NET.ReadTimeout = "soon"
	f.NET.WriteTimeout = "-1s"

	err := f.Validate()
	require.ErrorContains(t, err, "pool.workers must be non-negative")
	require.ErrorContains(t, err, "request.max_headers must be non-negative")
	require.ErrorContains(t, err, "invalid net.read_timeout")
	require.ErrorContains(t, err, "invalid net.write_timeout")

	cfg := Default()
	require.Error(t, f.Apply(cfg))
	require.Equal(t, Default(), cfg)
}
