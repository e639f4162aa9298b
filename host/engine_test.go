package host

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/zendwasm/zendini/application/classes"
	"github.com/zendwasm/zendini/domain/entities"
	"github.com/zendwasm/zendini/domain/errors"
	infrawazero "github.com/zendwasm/zendini/infrastructure/wazero"
	"github.com/zendwasm/zendini/testing/zinitest"
)

var engineWasm = zinitest.GuestModule(zinitest.GuestOptions{
	Symbols: []zinitest.Symbol{{Name: "zend_ce_exception", Addr: 64}},
	Data:    []zinitest.Segment{{Offset: 64, Bytes: []byte{0x00, 0x30, 0x00, 0x00}}},
})

func loadEngine(t *testing.T, env *zinitest.Env, opts ...Option) *Instance {
	t.Helper()
	ctx := context.Background()

	opts = append([]Option{WithHostModule(env.Instantiate)}, opts...)
	engine, err := NewEngine(ctx, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close(ctx) })

	inst, err := engine.Load(ctx, engineWasm)
	require.NoError(t, err)
	env.Bind(inst.Module())
	return inst
}

func TestNewEngine(t *testing.T) {
	ctx := context.Background()

	engine, err := NewEngine(ctx)
	require.NoError(t, err)
	assert.NotNil(t, engine)
	assert.NoError(t, engine.Close(ctx))
}

func TestNewEngine_HostModuleError(t *testing.T) {
	cause := stdErrors.New("no shims")
	_, err := NewEngine(context.Background(), WithHostModule(func(context.Context, wazero.Runtime) error {
		return cause
	}))
	assert.ErrorIs(t, err, cause)
}

func TestEngine_LoadMissingImports(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, WithoutWASI())
	require.NoError(t, err)
	defer engine.Close(ctx)

	_, err = engine.Load(ctx, engineWasm)
	assert.ErrorContains(t, err, "failed to instantiate engine")

	_, err = engine.Load(ctx, []byte("not wasm"))
	assert.ErrorContains(t, err, "failed to compile engine")
}

func TestInstance_RegisterIni(t *testing.T) {
	env := zinitest.NewEnv(1024, 0)
	inst := loadEngine(t, env, WithModuleName("php"))
	assert.Equal(t, "php", inst.Module().Name())

	logLevel, err := entities.NewIniEntryDefString("log_level", "1", entities.PermPerDir)
	require.NoError(t, err)

	h, err := inst.RegisterIni(context.Background(), 7, logLevel)
	require.NoError(t, err)
	assert.Equal(t, 2, h.Count())

	calls := env.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []zinitest.RegisteredEntry{
		{Name: "log_level", Value: "1", Permission: entities.PermPerDir, ModuleNumber: 7},
	}, calls[0].Entries)
}

func TestInstance_RegisterManifest(t *testing.T) {
	env := zinitest.NewEnv(1024, 0)
	inst := loadEngine(t, env)
	ctx := context.Background()

	m := &entities.Manifest{
		Module:       "opcache",
		ModuleNumber: 12,
		Entries: []entities.EntrySpec{
			{Name: "opcache.enable", Default: "1", Permission: "all"},
			{Name: "opcache.memory", Default: "128", Permission: "system"},
		},
	}
	h, err := inst.RegisterManifest(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, 3, h.Count())
	assert.Equal(t, int32(12), env.Calls()[0].ModuleNumber)
	assert.Len(t, env.Calls()[0].Entries, 2)

	bad := &entities.Manifest{Entries: []entities.EntrySpec{{Name: "x", Permission: "global"}}}
	_, err = inst.RegisterManifest(ctx, bad)
	var me *errors.ManifestError
	require.True(t, stdErrors.As(err, &me))
	assert.Len(t, env.Calls(), 1, "an invalid manifest never reaches the engine")
}

func TestInstance_RegisterIni_Rejected(t *testing.T) {
	env := zinitest.NewEnv(1024, -1)
	inst := loadEngine(t, env)

	_, err := inst.RegisterIni(context.Background(), 1)
	var re *errors.RegistrationError
	require.True(t, stdErrors.As(err, &re))
	assert.Equal(t, int32(-1), re.Status)
}

func TestInstance_AdapterOptions(t *testing.T) {
	env := zinitest.NewEnv(1024, 0)
	inst := loadEngine(t, env, WithAdapterOptions(infrawazero.WithMaxAllocation(16)))

	big, err := entities.NewIniEntryDefString("a_name_longer_than_sixteen_bytes", "", entities.PermAll)
	require.NoError(t, err)

	_, err = inst.RegisterIni(context.Background(), 1, big)
	var ae *errors.AllocationError
	assert.True(t, stdErrors.As(err, &ae))
	assert.Empty(t, env.Calls())
}

func TestInstance_Classes(t *testing.T) {
	ctx := context.Background()
	inst := loadEngine(t, zinitest.NewEnv(1024, 0))

	assert.Equal(t, entities.ClassEntryPtr(0x3000), inst.Classes().Exception(ctx))

	_, err := inst.Classes().Lookup(ctx, classes.Stringable)
	var nf *errors.ClassNotFoundError
	assert.True(t, stdErrors.As(err, &nf))
}
