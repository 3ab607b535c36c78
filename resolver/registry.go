package resolver

import (
	"context"
	"regexp"
	"strings"

	"github.com/ceyewan/anchor/clog"
	"github.com/ceyewan/anchor/conf"
	"github.com/ceyewan/anchor/endpoint"
	"github.com/ceyewan/anchor/xerrors"
)

// RegistryServicePath 注册中心 URL 的统一路径标记
const RegistryServicePath = "anchor.registry.RegistryService"

// 旧版地址属性按竖线分隔多个注册中心
var legacySplitPattern = regexp.MustCompile(`\s*[|]+\s*`)

// resolveRegistries 把服务配置上的注册中心输入规整为有效条目列表
//
// 输入来源按优先级：显式条目与 id 列表、外部配置中的 id 发现、
// 共享仓库的默认条目、旧版 anchor.registry.address 属性，
// 最后兜底合成一个空条目并用属性源回填。
func (r *Resolver) resolveRegistries(ctx context.Context, sc *conf.ServiceConfig, app *conf.ApplicationConfig) error {
	props := r.propertyChain()

	if sc.RegistryIDs == "" {
		if len(sc.Registries) == 0 {
			// 旧版单属性地址，竖线分隔多个注册中心
			if addr := conf.Property(props, conf.LegacyRegistryAddressKey); addr != "" && !strings.EqualFold(addr, conf.NoAvailable) {
				for _, part := range legacySplitPattern.Split(strings.TrimSpace(addr), -1) {
					if part != "" {
						rc := &conf.RegistryConfig{Address: part}
						rc.Refresh(props)
						sc.Registries = append(sc.Registries, rc)
					}
				}
			}
		}
		if len(sc.Registries) == 0 {
			// 外部配置中按 anchor.registries.<id>.* 发现的条目
			for _, id := range r.env.SubKeys(conf.RegistriesPrefix) {
				rc, ok := r.store.RegistryByID(id)
				if !ok {
					rc = &conf.RegistryConfig{ID: id}
					rc.Refresh(props)
					r.store.AddRegistries(rc)
				}
				sc.Registries = append(sc.Registries, rc)
			}
		}
		if len(sc.Registries) == 0 {
			if defaults := r.store.DefaultRegistries(); len(defaults) > 0 {
				sc.Registries = defaults
			} else {
				rc := &conf.RegistryConfig{}
				rc.Refresh(props)
				r.store.AddRegistries(rc)
				sc.Registries = []*conf.RegistryConfig{rc}
			}
		}
	} else {
		ids := splitIDs(sc.RegistryIDs)
		for _, id := range ids {
			if hasRegistryID(sc.Registries, id) {
				continue
			}
			rc, ok := r.store.RegistryByID(id)
			if !ok {
				rc = &conf.RegistryConfig{ID: id}
				rc.Refresh(props)
				r.store.AddRegistries(rc)
			}
			sc.Registries = append(sc.Registries, rc)
		}
		if len(sc.Registries) > len(ids) {
			return xerrors.Wrapf(ErrTooManyRegistries,
				"registry ids are %q but found %d registries", sc.RegistryIDs, len(sc.Registries))
		}
	}

	for _, rc := range sc.Registries {
		if !rc.IsValid() {
			return xerrors.Wrapf(ErrRegistryMissing, "registry %q has no address", rc.ID)
		}
	}

	return r.bootstrapFromRegistry(ctx, sc.Registries, app)
}

// bootstrapFromRegistry 在没有显式配置中心时，借用第一个协调类注册中心
// 作为配置中心完成引导
//
// 引导本身不会再触发注册中心解析，配置中心就绪后此路径直接短路，
// 不存在递归引导。
func (r *Resolver) bootstrapFromRegistry(ctx context.Context, registries []*conf.RegistryConfig, app *conf.ApplicationConfig) error {
	for _, rc := range registries {
		if !rc.IsCoordination() || rc.IsUnavailable() {
			continue
		}
		if r.env.Dynamic() != nil {
			return nil
		}

		f := false
		cc := r.store.SetConfigCenterIfAbsent(&conf.ConfigCenterConfig{
			Protocol:        rc.Protocol,
			Address:         rc.Address,
			HighestPriority: &f,
		})
		r.logger.InfoContext(ctx, "using registry as config center",
			clog.String("protocol", rc.Protocol),
			clog.String("address", rc.Address))

		appName := ""
		if app != nil {
			appName = app.Name
		}
		return r.bootstrap.Prepare(ctx, cc, appName)
	}
	return nil
}

// loadRegistryURLs 把有效注册中心条目展开为标准化的 registry:// URL 列表
//
// 每个条目合成参数表（应用参数、条目参数、路径标记、运行时参数），
// 解析地址，随后标准化：原始协议降为 registry 参数，URL 协议统一为
// registry。按解析视角过滤 register/subscribe 开关。
func (r *Resolver) loadRegistryURLs(app *conf.ApplicationConfig, registries []*conf.RegistryConfig) ([]*endpoint.URL, error) {
	var urls []*endpoint.URL
	for _, rc := range registries {
		if rc == nil || !rc.IsValid() || rc.IsUnavailable() {
			continue
		}

		address := rc.Address
		if address == "" {
			address = endpoint.AnyHost
		}
		// 环境变量地址覆盖优先于一切配置
		if override, ok := conf.EnvSource().Lookup(conf.LegacyRegistryAddressKey); ok && override != "" {
			address = override
		}

		params := make(map[string]string)
		mergeParams(params, app.Parameters())
		mergeParams(params, rc.Parameters())
		params[endpoint.PathKey] = RegistryServicePath
		appendRuntimeParameters(params, r.runtime)
		if params[endpoint.ProtocolKey] == "" {
			if rc.Protocol != "" {
				params[endpoint.ProtocolKey] = rc.Protocol
			} else {
				params[endpoint.ProtocolKey] = endpoint.DefaultProtocol
			}
		}

		parsed, err := endpoint.ParseURLs(address, params)
		if err != nil {
			return nil, xerrors.Wrapf(ErrInvalidAddress, "registry address %q: %v", address, err)
		}
		for _, u := range parsed {
			std := endpoint.From(u).
				SetParameter(endpoint.RegistryKey, u.Protocol()).
				SetProtocol(endpoint.RegistryScheme).
				Build()
			if r.keepForSide(std) {
				urls = append(urls, std)
			}
		}
	}
	return urls, nil
}

// keepForSide 按解析视角判定该注册中心是否参与
func (r *Resolver) keepForSide(u *endpoint.URL) bool {
	if r.side == SideConsumer {
		return u.BoolParam(endpoint.SubscribeKey, true)
	}
	return u.BoolParam(endpoint.RegisterKey, true)
}

func splitIDs(ids string) []string {
	var out []string
	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func hasRegistryID(registries []*conf.RegistryConfig, id string) bool {
	for _, rc := range registries {
		if rc != nil && rc.ID == id {
			return true
		}
	}
	return false
}

func mergeParams(dst, src map[string]string) {
	for k, v := range src {
		if v != "" {
			dst[k] = v
		}
	}
}
