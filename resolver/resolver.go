// Package resolver 实现服务接口配置的解析核心。
//
// 解析把一份服务接口配置变成一组可直接消费的端点 URL：
// 注册中心条目规整、外部化配置引导、描述符回填、接口与降级
// 配置校验，最终产出不可变的解析快照。
//
// 基本使用：
//
//	store := conf.NewStore()
//	env := configcenter.NewEnvironment()
//	res, err := resolver.New(store, env,
//	    resolver.WithLogger(logger),
//	    resolver.WithCatalog(catalog),
//	)
//	result, err := res.Resolve(ctx, serviceConfig)
//	for _, u := range result.RegistryURLs() {
//	    // 连接注册中心
//	}
package resolver

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ceyewan/anchor/binding"
	"github.com/ceyewan/anchor/clog"
	"github.com/ceyewan/anchor/conf"
	"github.com/ceyewan/anchor/configcenter"
	"github.com/ceyewan/anchor/endpoint"
	"github.com/ceyewan/anchor/metrics"
	"github.com/ceyewan/anchor/xerrors"
)

// Resolver 服务接口配置解析器
//
// 依赖全部显式注入，同一进程内可并发使用。
type Resolver struct {
	store     *conf.Store
	env       *configcenter.Environment
	bootstrap *configcenter.Bootstrap
	catalog   *binding.Catalog
	props     conf.PropertySource
	runtime   RuntimeInfo
	logger    clog.Logger
	meter     metrics.Meter
	side      Side

	resolutions metrics.Counter
	duration    metrics.Histogram
}

// Option 解析器选项
type Option func(*Resolver)

// WithLogger 设置日志记录器
func WithLogger(logger clog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger.WithNamespace("resolver")
	}
}

// WithMeter 设置指标收集器
func WithMeter(meter metrics.Meter) Option {
	return func(r *Resolver) {
		r.meter = meter
	}
}

// WithCatalog 设置能力目录，启用接口、mock、stub 校验
func WithCatalog(catalog *binding.Catalog) Option {
	return func(r *Resolver) {
		r.catalog = catalog
	}
}

// WithPropertySource 设置本地属性源（通常是 conf.Loader）
func WithPropertySource(ps conf.PropertySource) Option {
	return func(r *Resolver) {
		r.props = ps
	}
}

// WithRuntime 替换运行时信息来源（测试用）
func WithRuntime(rt RuntimeInfo) Option {
	return func(r *Resolver) {
		r.runtime = rt
	}
}

// WithBootstrap 替换配置中心引导器
func WithBootstrap(b *configcenter.Bootstrap) Option {
	return func(r *Resolver) {
		r.bootstrap = b
	}
}

// WithSide 设置解析视角，默认提供方
func WithSide(side Side) Option {
	return func(r *Resolver) {
		r.side = side
	}
}

// New 创建解析器
func New(store *conf.Store, env *configcenter.Environment, opts ...Option) (*Resolver, error) {
	if store == nil || env == nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "resolver: store and environment are required")
	}

	r := &Resolver{
		store:   store,
		env:     env,
		runtime: DefaultRuntime(),
		logger:  clog.Discard(),
		side:    SideProvider,
	}
	for _, o := range opts {
		o(r)
	}
	if r.bootstrap == nil {
		r.bootstrap = configcenter.NewBootstrap(env)
	}

	if r.meter != nil {
		var err error
		r.resolutions, err = r.meter.Counter(
			"anchor_resolutions_total",
			"Total number of service config resolutions",
		)
		if err != nil {
			return nil, xerrors.Wrapf(err, "create resolutions counter")
		}
		r.duration, err = r.meter.Histogram(
			"anchor_resolution_duration_seconds",
			"Service config resolution latency in seconds",
		)
		if err != nil {
			return nil, xerrors.Wrapf(err, "create resolution duration histogram")
		}
	}
	return r, nil
}

// Resolve 执行一次完整解析
//
// 步骤：应用描述符回填与校验、配置中心引导、注册中心规整、
// 接口与降级配置校验、URL 构建。任一致命错误都会中止解析。
func (r *Resolver) Resolve(ctx context.Context, sc *conf.ServiceConfig) (*Result, error) {
	if sc == nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "resolver: service config is required")
	}

	id := uuid.NewString()
	start := r.runtime.Now()
	logger := r.logger.With(
		clog.String("resolution_id", id),
		clog.String("interface", sc.Interface),
	)
	logger.InfoContext(ctx, "resolving service config", clog.String("side", r.side.String()))

	result, err := r.resolve(ctx, sc, id)
	r.record(ctx, start, err)
	if err != nil {
		logger.ErrorContext(ctx, "resolution failed", clog.Error(err))
		return nil, err
	}
	logger.InfoContext(ctx, "resolution complete",
		clog.Int("registries", len(result.registryURLs)),
		clog.Bool("monitor", result.monitorURL != nil))
	return result, nil
}

func (r *Resolver) resolve(ctx context.Context, sc *conf.ServiceConfig, id string) (*Result, error) {
	// 应用描述符
	app := sc.Application
	if app == nil {
		app = r.store.GetOrCreateApplication()
		sc.Application = app
	} else {
		r.store.SetApplication(app)
	}
	app.Refresh(r.propertyChain())
	if !app.IsValid() {
		return nil, xerrors.Wrap(ErrApplicationMissing, "application name is required")
	}

	// 显式配置中心优先引导
	cc := sc.ConfigCenter
	if cc != nil {
		cc = r.store.SetConfigCenterIfAbsent(cc)
	} else {
		cc = r.store.ConfigCenter()
	}
	if cc != nil {
		if err := r.bootstrap.Prepare(ctx, cc, app.Name); err != nil {
			return nil, err
		}
	}

	// 注册中心规整，含经注册中心的配置中心引导
	if err := r.resolveRegistries(ctx, sc, app); err != nil {
		return nil, err
	}

	// 能力目录校验
	if r.catalog != nil {
		if err := binding.CheckInterfaceAndMethods(r.catalog, sc.Interface, sc.Methods); err != nil {
			return nil, err
		}
		if err := binding.CheckMock(r.catalog, sc.Interface, sc.Mock); err != nil {
			return nil, err
		}
		if err := binding.CheckStubAndLocal(r.catalog, sc.Interface, sc.Local, sc.Stub); err != nil {
			return nil, err
		}
	}

	// URL 构建
	registryURLs, err := r.loadRegistryURLs(app, sc.Registries)
	if err != nil {
		return nil, err
	}

	var firstRegistry *endpoint.URL
	if len(registryURLs) > 0 {
		firstRegistry = registryURLs[0]
	}
	monitorURL, err := r.resolveMonitor(ctx, sc, app, firstRegistry)
	if err != nil {
		return nil, err
	}

	metadataURL, err := r.resolveMetadataReport(ctx, sc)
	if err != nil {
		return nil, err
	}

	return &Result{
		id:           id,
		iface:        sc.Interface,
		side:         r.side,
		application:  *app,
		registryURLs: registryURLs,
		monitorURL:   monitorURL,
		metadataURL:  metadataURL,
		shutdownWait: r.shutdownWait(),
		resolvedAt:   r.runtime.Now(),
	}, nil
}

// shutdownWait 读取优雅停机等待时长属性，支持毫秒数或 Go 时长格式
func (r *Resolver) shutdownWait() time.Duration {
	v := conf.Property(r.propertyChain(), conf.ShutdownWaitKey)
	if v == "" {
		return 0
	}
	if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return 0
}

// propertyChain 组装属性查找链
//
// 环境变量永远最高；外部化配置与本地配置的相对顺序
// 由配置中心的优先级标志决定。
func (r *Resolver) propertyChain() conf.PropertySource {
	sources := []conf.PropertySource{conf.EnvSource()}
	if r.env.ConfigCenterFirst() {
		sources = append(sources, r.env)
		if r.props != nil {
			sources = append(sources, r.props)
		}
	} else {
		if r.props != nil {
			sources = append(sources, r.props)
		}
		sources = append(sources, r.env)
	}
	return conf.Chain(sources...)
}

func (r *Resolver) record(ctx context.Context, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	if r.resolutions != nil {
		r.resolutions.Inc(ctx, metrics.L("outcome", outcome), metrics.L("side", r.side.String()))
	}
	if r.duration != nil {
		r.duration.Record(ctx, r.runtime.Now().Sub(start).Seconds(), metrics.L("outcome", outcome))
	}
}
