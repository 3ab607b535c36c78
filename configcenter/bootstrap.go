package configcenter

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/ceyewan/anchor/clog"
	"github.com/ceyewan/anchor/conf"
	"github.com/ceyewan/anchor/endpoint"
	"github.com/ceyewan/anchor/xerrors"
)

// Bootstrap 配置中心引导器
//
// 把配置中心描述符变成填充完毕的 Environment：
// 连接后端、拉取框架级与应用级 properties 文本、解析并存入容器。
// 同一描述符至多引导一次，并发调用只有一方真正执行。
type Bootstrap struct {
	env    *Environment
	logger clog.Logger

	// newProvider 可在测试中替换，默认走工厂注册表
	newProvider func(ctx context.Context, u *endpoint.URL) (Provider, error)
}

// BootstrapOption 引导器选项
type BootstrapOption func(*Bootstrap)

// WithLogger 设置日志记录器
func WithLogger(logger clog.Logger) BootstrapOption {
	return func(b *Bootstrap) {
		b.logger = logger.WithNamespace("configcenter")
	}
}

// WithProviderFunc 替换提供者构造函数（测试用）
func WithProviderFunc(f func(ctx context.Context, u *endpoint.URL) (Provider, error)) BootstrapOption {
	return func(b *Bootstrap) {
		b.newProvider = f
	}
}

// NewBootstrap 创建引导器
func NewBootstrap(env *Environment, opts ...BootstrapOption) *Bootstrap {
	b := &Bootstrap{
		env:         env,
		logger:      clog.Discard(),
		newProvider: NewProvider,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Prepare 执行一次配置中心引导
//
// 描述符无效时静默跳过；已引导过的描述符直接返回 nil。
// 远端配置解析失败是致命错误，调用方必须中止解析。
func (b *Bootstrap) Prepare(ctx context.Context, cc *conf.ConfigCenterConfig, appName string) error {
	if cc == nil || !cc.IsValid() {
		return nil
	}
	if !cc.CheckOrUpdateInited() {
		return nil
	}

	u, err := configCenterURL(cc)
	if err != nil {
		return err
	}

	provider, err := b.newProvider(ctx, u)
	if err != nil {
		return err
	}
	if !b.env.SetDynamicIfAbsent(provider) {
		provider.Close()
		provider = b.env.Dynamic()
	}

	// 框架级配置
	file := cc.ConfigFileOrDefault()
	group := cc.GroupOrDefault()
	blob, err := provider.FetchProperties(ctx, file, group)
	if err != nil {
		return err
	}
	if blob != "" {
		props, err := parseProperties(blob)
		if err != nil {
			return xerrors.Wrapf(ErrRemoteConfigParse, "file %s group %s: %v", file, group, err)
		}
		b.env.SetExternalConfig(props)
		b.logger.InfoContext(ctx, "loaded external configuration",
			clog.String("file", file),
			clog.String("group", group),
			clog.Int("keys", len(props)))
	}

	// 应用级配置，以应用名为分组
	if appName != "" {
		appFile := cc.AppConfigFile
		if appFile == "" {
			appFile = file
		}
		appBlob, err := provider.FetchProperties(ctx, appFile, appName)
		if err != nil {
			return err
		}
		if appBlob != "" {
			props, err := parseProperties(appBlob)
			if err != nil {
				return xerrors.Wrapf(ErrRemoteConfigParse, "file %s group %s: %v", appFile, appName, err)
			}
			b.env.SetAppExternalConfig(props)
			b.logger.InfoContext(ctx, "loaded app external configuration",
				clog.String("file", appFile),
				clog.String("group", appName),
				clog.Int("keys", len(props)))
		}
	}

	b.env.SetConfigCenterFirst(cc.IsHighestPriority())
	return nil
}

// configCenterURL 把配置中心描述符转成后端 URL
func configCenterURL(cc *conf.ConfigCenterConfig) (*endpoint.URL, error) {
	defaults := map[string]string{
		endpoint.ProtocolKey: cc.Protocol,
		"namespace":          cc.NamespaceOrDefault(),
	}
	if cc.Timeout > 0 {
		defaults["timeout"] = strconv.Itoa(cc.Timeout)
	}
	return endpoint.ParseURL(cc.Address, defaults)
}

// parseProperties 解析 properties 文本为扁平键值表
//
// 键统一按小写处理，Anchor 的属性键本身全部小写。
func parseProperties(blob string) (map[string]string, error) {
	v := viper.New()
	v.SetConfigType("properties")
	if err := v.ReadConfig(strings.NewReader(blob)); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for _, k := range v.AllKeys() {
		out[k] = v.GetString(k)
	}
	return out, nil
}
