package resolver

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/anchor/binding"
	"github.com/ceyewan/anchor/conf"
	"github.com/ceyewan/anchor/configcenter"
	"github.com/ceyewan/anchor/endpoint"
	"github.com/ceyewan/anchor/xerrors"
)

type fakeRuntime struct{}

func (fakeRuntime) PID() int                { return 42 }
func (fakeRuntime) ProtocolVersion() string { return "1.0" }
func (fakeRuntime) Release() string         { return "0.4.0" }
func (fakeRuntime) Now() time.Time          { return time.UnixMilli(1700000000000) }
func (fakeRuntime) LocalHost() string       { return "10.0.0.5" }

type testFixture struct {
	store *conf.Store
	env   *configcenter.Environment
	mem   *configcenter.MemoryProvider
	// providerCalls 统计配置中心提供者被构造的次数
	providerCalls atomic.Int32
}

func newResolver(t *testing.T, fx *testFixture, opts ...Option) *Resolver {
	t.Helper()
	if fx.store == nil {
		fx.store = conf.NewStore()
	}
	if fx.env == nil {
		fx.env = configcenter.NewEnvironment()
	}
	if fx.mem == nil {
		fx.mem = configcenter.NewMemoryProvider()
	}

	bootstrap := configcenter.NewBootstrap(fx.env,
		configcenter.WithProviderFunc(func(_ context.Context, _ *endpoint.URL) (configcenter.Provider, error) {
			fx.providerCalls.Add(1)
			return fx.mem, nil
		}))

	opts = append([]Option{
		WithRuntime(fakeRuntime{}),
		WithBootstrap(bootstrap),
	}, opts...)

	r, err := New(fx.store, fx.env, opts...)
	require.NoError(t, err)
	return r
}

func serviceConfig() *conf.ServiceConfig {
	return &conf.ServiceConfig{
		Interface:   "demo.UserService",
		Application: &conf.ApplicationConfig{Name: "demo-app"},
	}
}

func TestResolveStandardizesRegistryURL(t *testing.T) {
	fx := &testFixture{}
	r := newResolver(t, fx)

	sc := serviceConfig()
	sc.Registries = []*conf.RegistryConfig{{Address: "nacos://10.1.1.1:8848"}}

	result, err := r.Resolve(context.Background(), sc)
	require.NoError(t, err)

	urls := result.RegistryURLs()
	require.Len(t, urls, 1)
	u := urls[0]
	assert.Equal(t, endpoint.RegistryScheme, u.Protocol())
	assert.Equal(t, "nacos", u.ParamOrDefault(endpoint.RegistryKey, ""))
	assert.Equal(t, "10.1.1.1", u.Host())
	assert.Equal(t, 8848, u.Port())
	assert.Equal(t, RegistryServicePath, u.Path())

	// 运行时参数注入
	assert.Equal(t, "42", u.ParamOrDefault("pid", ""))
	assert.Equal(t, "1.0", u.ParamOrDefault("protocol.version", ""))
	assert.Equal(t, "0.4.0", u.ParamOrDefault("release", ""))
	assert.Equal(t, "1700000000000", u.ParamOrDefault("timestamp", ""))

	// 应用参数合入
	assert.Equal(t, "demo-app", u.ParamOrDefault("application", ""))
}

func TestResolveSkipsUnavailableRegistry(t *testing.T) {
	fx := &testFixture{}
	r := newResolver(t, fx)

	sc := serviceConfig()
	sc.Registries = []*conf.RegistryConfig{
		{Address: "N/A"},
		{Address: "nacos://10.1.1.1:8848"},
	}

	result, err := r.Resolve(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, result.RegistryURLs(), 1)
	assert.Equal(t, "10.1.1.1", result.RegistryURLs()[0].Host())
}

func TestResolveFiltersBySide(t *testing.T) {
	f := false
	t.Run("provider drops register=false", func(t *testing.T) {
		fx := &testFixture{}
		r := newResolver(t, fx)

		sc := serviceConfig()
		sc.Registries = []*conf.RegistryConfig{
			{Address: "nacos://10.1.1.1:8848", Register: &f},
			{Address: "nacos://10.1.1.2:8848"},
		}

		result, err := r.Resolve(context.Background(), sc)
		require.NoError(t, err)
		require.Len(t, result.RegistryURLs(), 1)
		assert.Equal(t, "10.1.1.2", result.RegistryURLs()[0].Host())
	})

	t.Run("consumer drops subscribe=false", func(t *testing.T) {
		fx := &testFixture{}
		r := newResolver(t, fx, WithSide(SideConsumer))

		sc := serviceConfig()
		sc.Registries = []*conf.RegistryConfig{
			{Address: "nacos://10.1.1.1:8848", Subscribe: &f},
		}

		result, err := r.Resolve(context.Background(), sc)
		require.NoError(t, err)
		assert.Empty(t, result.RegistryURLs())
	})
}

func TestResolveLegacyAddressProperty(t *testing.T) {
	t.Setenv("ANCHOR_REGISTRY_ADDRESS", "nacos://10.1.1.1:8848 | nacos://10.1.1.2:8848")

	fx := &testFixture{}
	r := newResolver(t, fx)

	sc := serviceConfig()
	result, err := r.Resolve(context.Background(), sc)
	require.NoError(t, err)
	// 环境变量地址同时作为旧版输入与地址覆盖，两个条目取同一覆盖值，
	// 每个条目按竖线重新展开
	require.Len(t, sc.Registries, 2)
	assert.Len(t, result.RegistryURLs(), 4)
}

func TestResolveLegacyAddressPropertyRefreshesEntries(t *testing.T) {
	t.Setenv("ANCHOR_REGISTRY_ADDRESS", "10.1.1.1:2379")
	t.Setenv("ANCHOR_REGISTRY_PROTOCOL", "etcd")

	fx := &testFixture{}
	r := newResolver(t, fx)

	sc := serviceConfig()
	result, err := r.Resolve(context.Background(), sc)
	require.NoError(t, err)

	// 旧版条目同样经属性源补全，协议属性生效
	require.Len(t, sc.Registries, 1)
	assert.Equal(t, "etcd", sc.Registries[0].Protocol)

	// 补全出协调类协议后配置中心引导照常触发
	assert.Equal(t, int32(1), fx.providerCalls.Load())

	require.Len(t, result.RegistryURLs(), 1)
	assert.Equal(t, "etcd", result.RegistryURLs()[0].ParamOrDefault(endpoint.RegistryKey, ""))
}

func TestResolveDiscoversRegistryIDsFromEnvironment(t *testing.T) {
	fx := &testFixture{env: configcenter.NewEnvironment()}
	fx.env.SetExternalConfig(map[string]string{
		"anchor.registries.beijing.address":  "nacos://10.1.1.1:8848",
		"anchor.registries.shanghai.address": "nacos://10.1.1.2:8848",
	})
	r := newResolver(t, fx)

	sc := serviceConfig()
	result, err := r.Resolve(context.Background(), sc)
	require.NoError(t, err)

	require.Len(t, sc.Registries, 2)
	assert.Equal(t, "beijing", sc.Registries[0].ID)
	assert.Equal(t, "shanghai", sc.Registries[1].ID)
	assert.Len(t, result.RegistryURLs(), 2)

	// 条目进入共享仓库，可按 id 复用
	_, ok := fx.store.RegistryByID("beijing")
	assert.True(t, ok)
}

func TestResolveExplicitRegistryIDs(t *testing.T) {
	fx := &testFixture{store: conf.NewStore()}
	fx.store.AddRegistries(&conf.RegistryConfig{ID: "beijing", Address: "nacos://10.1.1.1:8848"})
	r := newResolver(t, fx)

	sc := serviceConfig()
	sc.RegistryIDs = "beijing"

	result, err := r.Resolve(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, sc.Registries, 1)
	assert.Equal(t, "beijing", sc.Registries[0].ID)
	assert.Len(t, result.RegistryURLs(), 1)
}

func TestResolveExplicitRegistryIDsMixedReuse(t *testing.T) {
	existing := &conf.RegistryConfig{ID: "beijing", Address: "nacos://10.1.1.1:8848"}
	fx := &testFixture{store: conf.NewStore(), env: configcenter.NewEnvironment()}
	fx.store.AddRegistries(existing)
	fx.env.SetExternalConfig(map[string]string{
		"anchor.registries.shanghai.address": "nacos://10.1.1.2:8848",
	})
	r := newResolver(t, fx)

	sc := serviceConfig()
	sc.RegistryIDs = "beijing,shanghai"

	result, err := r.Resolve(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, sc.Registries, 2)

	// 已注册 id 复用共享仓库中的原对象
	assert.Same(t, existing, sc.Registries[0])

	// 未注册 id 新建条目并按 id 作用域属性补全，随后进入共享仓库
	assert.Equal(t, "shanghai", sc.Registries[1].ID)
	assert.Equal(t, "nacos://10.1.1.2:8848", sc.Registries[1].Address)
	created, ok := fx.store.RegistryByID("shanghai")
	require.True(t, ok)
	assert.Same(t, created, sc.Registries[1])

	assert.Len(t, result.RegistryURLs(), 2)
}

func TestResolveTooManyRegistries(t *testing.T) {
	fx := &testFixture{}
	r := newResolver(t, fx)

	sc := serviceConfig()
	sc.RegistryIDs = "beijing"
	sc.Registries = []*conf.RegistryConfig{
		{ID: "beijing", Address: "nacos://10.1.1.1:8848"},
		{ID: "extra", Address: "nacos://10.1.1.2:8848"},
	}

	_, err := r.Resolve(context.Background(), sc)
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrTooManyRegistries))
}

func TestResolveFailsOnInvalidRegistry(t *testing.T) {
	fx := &testFixture{}
	r := newResolver(t, fx)

	sc := serviceConfig()
	sc.Registries = []*conf.RegistryConfig{{ID: "empty"}}

	_, err := r.Resolve(context.Background(), sc)
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrRegistryMissing))
}

func TestResolveRequiresApplication(t *testing.T) {
	fx := &testFixture{}
	r := newResolver(t, fx)

	sc := &conf.ServiceConfig{
		Interface:  "demo.UserService",
		Registries: []*conf.RegistryConfig{{Address: "nacos://10.1.1.1:8848"}},
	}

	_, err := r.Resolve(context.Background(), sc)
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrApplicationMissing))
}

func TestResolveBootstrapsConfigCenterFromRegistry(t *testing.T) {
	fx := &testFixture{mem: configcenter.NewMemoryProvider()}
	fx.mem.Put("anchor.properties", "anchor", "anchor.monitor.address=1.2.3.4:7070\n")
	r := newResolver(t, fx)

	sc := serviceConfig()
	sc.Registries = []*conf.RegistryConfig{{Address: "10.1.1.1:2379", Protocol: "etcd"}}

	result, err := r.Resolve(context.Background(), sc)
	require.NoError(t, err)

	// 注册中心被借用为配置中心，引导恰好一次
	assert.Equal(t, int32(1), fx.providerCalls.Load())
	cc := fx.store.ConfigCenter()
	require.NotNil(t, cc)
	assert.Equal(t, "etcd", cc.Protocol)
	assert.False(t, cc.IsHighestPriority())

	// 引导拉到的外部配置参与了后续解析
	require.NotNil(t, result.MonitorURL())
	assert.Equal(t, "1.2.3.4", result.MonitorURL().Host())

	// 再次解析不会重复引导
	sc2 := serviceConfig()
	sc2.Registries = []*conf.RegistryConfig{{Address: "10.1.1.1:2379", Protocol: "etcd"}}
	_, err = r.Resolve(context.Background(), sc2)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fx.providerCalls.Load())
}

func TestResolveSkipsRegistryBootstrapWhenDynamicPresent(t *testing.T) {
	fx := &testFixture{env: configcenter.NewEnvironment()}
	fx.env.SetDynamicIfAbsent(configcenter.NewMemoryProvider())
	r := newResolver(t, fx)

	sc := serviceConfig()
	sc.Registries = []*conf.RegistryConfig{{Address: "10.1.1.1:2379", Protocol: "etcd"}}

	_, err := r.Resolve(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, int32(0), fx.providerCalls.Load())
	assert.Nil(t, fx.store.ConfigCenter())
}

func TestResolveExplicitConfigCenter(t *testing.T) {
	fx := &testFixture{mem: configcenter.NewMemoryProvider()}
	fx.mem.Put("anchor.properties", "demo-app", "anchor.registry.address=nacos://10.9.9.9:8848\n")
	r := newResolver(t, fx)

	sc := serviceConfig()
	sc.ConfigCenter = &conf.ConfigCenterConfig{Protocol: "etcd", Address: "10.1.1.1:2379"}

	result, err := r.Resolve(context.Background(), sc)
	require.NoError(t, err)

	// 应用级外部配置提供了注册中心地址
	require.Len(t, result.RegistryURLs(), 1)
	assert.Equal(t, "10.9.9.9", result.RegistryURLs()[0].Host())
}

func TestResolveValidatesAgainstCatalog(t *testing.T) {
	catalog := binding.NewCatalog()
	catalog.RegisterInterface("demo.UserService", "GetUser")

	fx := &testFixture{}
	r := newResolver(t, fx, WithCatalog(catalog))

	sc := serviceConfig()
	sc.Registries = []*conf.RegistryConfig{{Address: "nacos://10.1.1.1:8848"}}
	sc.Methods = []*conf.MethodConfig{{Name: "Missing"}}

	_, err := r.Resolve(context.Background(), sc)
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, binding.ErrMethodNotFound))

	sc.Methods = nil
	sc.Mock = "return {malformed"
	_, err = r.Resolve(context.Background(), sc)
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, binding.ErrIllegalMockValue))

	sc.Mock = ""
	_, err = r.Resolve(context.Background(), sc)
	require.NoError(t, err)
}

func TestResultSnapshotIsolation(t *testing.T) {
	fx := &testFixture{}
	r := newResolver(t, fx)

	sc := serviceConfig()
	sc.Registries = []*conf.RegistryConfig{{Address: "nacos://10.1.1.1:8848"}}

	result, err := r.Resolve(context.Background(), sc)
	require.NoError(t, err)

	urls := result.RegistryURLs()
	urls[0] = nil
	require.NotNil(t, result.RegistryURLs()[0])

	assert.NotEmpty(t, result.ID())
	assert.Equal(t, "demo.UserService", result.Interface())
	assert.Equal(t, SideProvider, result.Side())
	assert.Equal(t, "demo-app", result.Application().Name)
	assert.Equal(t, time.UnixMilli(1700000000000), result.ResolvedAt())
}

func TestResolveShutdownWait(t *testing.T) {
	t.Setenv("ANCHOR_SERVICE_SHUTDOWN_WAIT", "5000")

	fx := &testFixture{}
	r := newResolver(t, fx)

	sc := serviceConfig()
	sc.Registries = []*conf.RegistryConfig{{Address: "nacos://10.1.1.1:8848"}}

	result, err := r.Resolve(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, result.ShutdownWait())
}
