package translate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bnema/zerowrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/virtdock/internal/boundaries/out/mocks"
	"github.com/bnema/virtdock/internal/domain"
)

func testContext() context.Context {
	return zerowrap.WithCtx(context.Background(), zerowrap.Default())
}

func TestService_Translate_EmptyConfig(t *testing.T) {
	for _, input := range []string{`{}`, `{"Id": "abc", "Name": "/web"}`, `{"HostConfig": null, "Config": null}`} {
		t.Run(input, func(t *testing.T) {
			svc := NewService(nil)

			def, err := svc.TranslateString(testContext(), input)

			require.NoError(t, err)
			require.NotNil(t, def)
			assert.Equal(t, -1, def.ID)
			assert.Equal(t, uint64(65536), def.MemoryTotalKiB)
			assert.Equal(t, uint64(65536), def.CurrentBalloonKiB)
			assert.Equal(t, uint(0), def.Vcpus)
			assert.Equal(t, uint(0), def.MaxVcpus)
			assert.Empty(t, def.OS.Init)
			assert.Empty(t, def.OS.InitArgs)
			assert.Empty(t, def.OS.InitEnv)
			assert.Empty(t, def.Warnings)
		})
	}
}

func TestService_Translate_FixedPolicy(t *testing.T) {
	svc := NewService(nil)

	def, err := svc.TranslateString(testContext(), `{"Config": {"Cmd": ["/app"]}}`)

	require.NoError(t, err)
	assert.Equal(t, domain.ClockOffsetUTC, def.Clock.Offset)
	assert.Equal(t, domain.LifecycleRestart, def.OnReboot)
	assert.Equal(t, domain.LifecycleDestroy, def.OnCrash)
	assert.Equal(t, domain.LifecycleDestroy, def.OnPoweroff)
	assert.Equal(t, domain.VirtTypeLXC, def.VirtType)
	assert.Equal(t, domain.OSTypeExe, def.OS.Type)
}

func TestService_Translate_NanoCpus(t *testing.T) {
	tests := []struct {
		nano int64
		want uint
	}{
		{nano: 0, want: 0},
		{nano: 1, want: 0},
		{nano: 999_999_999, want: 0},
		{nano: 1_000_000_000, want: 1},
		{nano: 1_500_000_000, want: 1},
		{nano: 1_999_999_999, want: 1},
		{nano: 2_000_000_000, want: 2},
		{nano: -999_999_999, want: 0},
		{nano: 4096 * 1_000_000_000, want: 4096},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.nano), func(t *testing.T) {
			svc := NewService(nil)

			def, err := svc.TranslateString(testContext(), fmt.Sprintf(`{"HostConfig": {"NanoCpus": %d}}`, tt.nano))

			require.NoError(t, err)
			assert.Equal(t, tt.want, def.Vcpus)
			assert.Equal(t, tt.want, def.MaxVcpus)
		})
	}
}

func TestService_Translate_Memory(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  uint64
	}{
		{bytes: 0, want: 0},
		{bytes: 1023, want: 0},
		{bytes: 1024, want: 1},
		{bytes: 1025, want: 1},
		{bytes: 536870912, want: 524288},
		{bytes: 18446744073709551615, want: 18014398509481983},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.bytes), func(t *testing.T) {
			svc := NewService(nil)

			def, err := svc.TranslateString(testContext(), fmt.Sprintf(`{"HostConfig": {"Memory": %d}}`, tt.bytes))

			require.NoError(t, err)
			assert.Equal(t, tt.want, def.MemoryTotalKiB)
			assert.Equal(t, tt.want, def.CurrentBalloonKiB)
		})
	}
}

func TestService_Translate_HostConfigWithoutMemoryKeepsDefault(t *testing.T) {
	svc := NewService(nil)

	def, err := svc.TranslateString(testContext(), `{"HostConfig": {"NanoCpus": 2000000000, "Memory": null}}`)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMemoryKiB, def.MemoryTotalKiB)
	assert.Equal(t, uint(2), def.Vcpus)
}

func TestService_Translate_InitCommand(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		wantInit string
		wantArgs []string
	}{
		{
			name:     "entrypoint and cmd",
			config:   `{"Entrypoint": ["/bin/sh"], "Cmd": ["-c", "echo hi"]}`,
			wantInit: "/bin/sh",
			wantArgs: []string{"-c", "echo hi"},
		},
		{
			name:     "cmd only",
			config:   `{"Cmd": ["/app"]}`,
			wantInit: "/app",
			wantArgs: []string{},
		},
		{
			name:     "entrypoint null",
			config:   `{"Entrypoint": null, "Cmd": ["/app", "--port", "80"]}`,
			wantInit: "/app",
			wantArgs: []string{"--port", "80"},
		},
		{
			name:     "entrypoint only with args",
			config:   `{"Entrypoint": ["/docker-entrypoint.sh", "nginx", "-g", "daemon off;"]}`,
			wantInit: "/docker-entrypoint.sh",
			wantArgs: []string{"nginx", "-g", "daemon off;"},
		},
		{
			name:     "empty entrypoint array",
			config:   `{"Entrypoint": [], "Cmd": ["/app", "x"]}`,
			wantInit: "/app",
			wantArgs: []string{"x"},
		},
		{
			name:     "empty first element still sets init",
			config:   `{"Entrypoint": [""], "Cmd": ["/app"]}`,
			wantInit: "",
			wantArgs: []string{"/app"},
		},
		{
			name:     "neither array",
			config:   `{"WorkingDir": "/srv"}`,
			wantInit: "",
			wantArgs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(nil)

			def, err := svc.TranslateString(testContext(), `{"Config": `+tt.config+`}`)

			require.NoError(t, err)
			assert.Equal(t, tt.wantInit, def.OS.Init)
			assert.Equal(t, tt.wantArgs, def.OS.InitArgs)
		})
	}
}

func TestService_Translate_Env(t *testing.T) {
	svc := NewService(nil)

	def, err := svc.TranslateString(testContext(), `{"Config": {"Env": ["FOO=bar", "BAZ=qux=extra", "FOO=again", "=anon", "EMPTY="]}}`)

	require.NoError(t, err)
	assert.Equal(t, []domain.EnvVar{
		{Name: "FOO", Value: "bar"},
		{Name: "BAZ", Value: "qux=extra"},
		{Name: "FOO", Value: "again"},
		{Name: "", Value: "anon"},
		{Name: "EMPTY", Value: ""},
	}, def.OS.InitEnv)
	assert.Empty(t, def.Warnings)
}

func TestService_Translate_EnvWithoutEquals(t *testing.T) {
	svc := NewService(nil)

	def, err := svc.TranslateString(testContext(), `{"Config": {"Env": ["PATH=/usr/bin", "HOSTNAME"]}}`)

	require.NoError(t, err)
	assert.Equal(t, []domain.EnvVar{
		{Name: "PATH", Value: "/usr/bin"},
		{Name: "HOSTNAME", Value: ""},
	}, def.OS.InitEnv)
	require.Len(t, def.Warnings, 1)
	assert.Contains(t, def.Warnings[0], "Config.Env[1]")
}

func TestService_Translate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind error
		wantPath string
	}{
		{name: "truncated", input: `{"Config": {"Cmd": [`, wantKind: domain.ErrInvalidJSON},
		{name: "empty", input: ``, wantKind: domain.ErrInvalidJSON},
		{name: "array top level", input: `["Config"]`, wantKind: domain.ErrInvalidJSON},
		{name: "number top level", input: `42`, wantKind: domain.ErrInvalidJSON},
		{name: "nanocpus string", input: `{"HostConfig": {"NanoCpus": "2000000000"}}`, wantKind: domain.ErrMalformedField, wantPath: "HostConfig.NanoCpus"},
		{name: "nanocpus fraction", input: `{"HostConfig": {"NanoCpus": 1.5}}`, wantKind: domain.ErrMalformedField, wantPath: "HostConfig.NanoCpus"},
		{name: "memory string", input: `{"HostConfig": {"Memory": "512m"}}`, wantKind: domain.ErrMalformedField, wantPath: "HostConfig.Memory"},
		{name: "memory negative", input: `{"HostConfig": {"Memory": -1}}`, wantKind: domain.ErrMalformedField, wantPath: "HostConfig.Memory"},
		{name: "hostconfig not object", input: `{"HostConfig": []}`, wantKind: domain.ErrMalformedField, wantPath: "HostConfig"},
		{name: "config not object", input: `{"Config": "x"}`, wantKind: domain.ErrMalformedField, wantPath: "Config"},
		{name: "cmd not array", input: `{"Config": {"Cmd": "/app"}}`, wantKind: domain.ErrMalformedField, wantPath: "Config.Cmd"},
		{name: "cmd element not string", input: `{"Config": {"Cmd": ["/app", 8080]}}`, wantKind: domain.ErrMalformedField, wantPath: "Config.Cmd[1]"},
		{name: "entrypoint element null", input: `{"Config": {"Entrypoint": [null]}}`, wantKind: domain.ErrMalformedField, wantPath: "Config.Entrypoint[0]"},
		{name: "env element not string", input: `{"Config": {"Env": ["A=1", {"B": 2}]}}`, wantKind: domain.ErrMalformedField, wantPath: "Config.Env[1]"},
		{name: "env not array", input: `{"Config": {"Env": {"A": "1"}}}`, wantKind: domain.ErrMalformedField, wantPath: "Config.Env"},
		{name: "vcpus above limit", input: `{"HostConfig": {"NanoCpus": 4097000000000}}`, wantKind: domain.ErrConstraintViolation, wantPath: "HostConfig.NanoCpus"},
		{name: "vcpus negative", input: `{"HostConfig": {"NanoCpus": -1000000000}}`, wantKind: domain.ErrConstraintViolation, wantPath: "HostConfig.NanoCpus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(nil)

			def, err := svc.TranslateString(testContext(), tt.input)

			assert.Nil(t, def)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)

			var te *domain.TranslationError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.wantPath, te.Path)
		})
	}
}

func TestService_Translate_AbortsOnFirstFailure(t *testing.T) {
	svc := NewService(nil)

	// CPU fails before memory and the command builder would run.
	def, err := svc.TranslateString(testContext(), `{
		"HostConfig": {"NanoCpus": "bad", "Memory": "also bad"},
		"Config": {"Cmd": [1]}
	}`)

	assert.Nil(t, def)
	var te *domain.TranslationError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "HostConfig.NanoCpus", te.Path)
}

func TestService_Translate_FullInspect(t *testing.T) {
	svc := NewService(nil)

	def, err := svc.TranslateString(testContext(), `{
		"Id": "4f66ad9a0b2e",
		"Name": "/web",
		"HostConfig": {"NanoCpus": 2500000000, "Memory": 268435456, "CpuShares": 0},
		"Config": {
			"Hostname": "4f66ad9a0b2e",
			"Env": ["PATH=/usr/local/sbin:/usr/local/bin", "NGINX_VERSION=1.25.3"],
			"Cmd": ["nginx", "-g", "daemon off;"],
			"Entrypoint": ["/docker-entrypoint.sh"],
			"Labels": {"maintainer": "nginx"}
		}
	}`)

	require.NoError(t, err)
	assert.Equal(t, uint(2), def.Vcpus)
	assert.Equal(t, uint64(262144), def.MemoryTotalKiB)
	assert.Equal(t, "/docker-entrypoint.sh", def.OS.Init)
	assert.Equal(t, []string{"nginx", "-g", "daemon off;"}, def.OS.InitArgs)
	assert.Len(t, def.OS.InitEnv, 2)
	assert.Equal(t, "NGINX_VERSION", def.OS.InitEnv[1].Name)
}

func TestService_Translate_RecordsOutcome(t *testing.T) {
	recorder := &mocks.MockTranslationRecorder{}
	recorder.On("RecordTranslation", mock.Anything, mock.Anything, "").Once()
	recorder.On("RecordTranslation", mock.Anything, mock.Anything, "malformed_field").Once()
	svc := NewService(recorder)

	_, err := svc.TranslateString(testContext(), `{}`)
	require.NoError(t, err)
	_, err = svc.TranslateString(testContext(), `{"HostConfig": {"Memory": true}}`)
	require.Error(t, err)

	recorder.AssertExpectations(t)
}

func TestService_TranslateFrom(t *testing.T) {
	t.Run("fetches and translates", func(t *testing.T) {
		source := mocks.NewMockConfigSource(t)
		source.On("Name").Return("file")
		source.On("Fetch", mock.Anything, "web.json").Return([]byte(`{"Config": {"Cmd": ["/app"]}}`), nil)
		svc := NewService(nil)

		def, err := svc.TranslateFrom(testContext(), source, "web.json")

		require.NoError(t, err)
		assert.Equal(t, "/app", def.OS.Init)
	})

	t.Run("fetch failure", func(t *testing.T) {
		source := mocks.NewMockConfigSource(t)
		source.On("Name").Return("docker")
		source.On("Fetch", mock.Anything, "missing").Return(nil, domain.ErrContainerNotFound)
		svc := NewService(nil)

		def, err := svc.TranslateFrom(testContext(), source, "missing")

		assert.Nil(t, def)
		assert.Error(t, err)
	})
}

func TestService_Translate_Concurrent(t *testing.T) {
	svc := NewService(nil)
	ctx := testContext()

	var wg sync.WaitGroup
	errs := make([]error, 32)
	defs := make([]*domain.Definition, 32)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defs[i], errs[i] = svc.TranslateString(ctx, fmt.Sprintf(`{"HostConfig": {"NanoCpus": %d}, "Config": {"Cmd": ["/bin/%d"]}}`, (i%8)*1_000_000_000, i))
		}(i)
	}
	wg.Wait()

	for i := range errs {
		require.NoError(t, errs[i])
		assert.Equal(t, uint(i%8), defs[i].Vcpus)
		assert.Equal(t, fmt.Sprintf("/bin/%d", i), defs[i].OS.Init)
	}
}
