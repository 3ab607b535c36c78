package resolver

import (
	"context"

	"github.com/ceyewan/anchor/clog"
	"github.com/ceyewan/anchor/conf"
	"github.com/ceyewan/anchor/endpoint"
	"github.com/ceyewan/anchor/xerrors"
)

// MonitorServicePath 监控中心 URL 的统一接口标记
const MonitorServicePath = "anchor.monitor.MonitorService"

// resolveMonitor 解析监控中心 URL
//
// 地址可直接给出，也可通过 protocol=registry 经注册中心间接寻址：
// 间接模式下返回以注册中心地址为载体的 URL，真实引用参数整体编码
// 进 refer 参数。未配置监控时返回 nil。
func (r *Resolver) resolveMonitor(ctx context.Context, sc *conf.ServiceConfig, app *conf.ApplicationConfig, registryURL *endpoint.URL) (*endpoint.URL, error) {
	monitor := sc.Monitor
	if monitor == nil {
		monitor = r.store.GetOrCreateMonitor()
	}

	props := r.propertyChain()
	monitor.Refresh(props)

	// 环境变量覆盖只作用于本次解析，不回写共享描述符
	address := monitor.Address
	protocol := monitor.Protocol
	if override, ok := conf.EnvSource().Lookup(conf.MonitorAddressKey); ok && override != "" {
		address = override
	}
	if override, ok := conf.EnvSource().Lookup("anchor.monitor.protocol"); ok && override != "" {
		protocol = override
	}

	if address == "" && protocol == "" {
		r.logger.DebugContext(ctx, "no monitor configured, skipping")
		return nil, nil
	}

	params := make(map[string]string)
	params[endpoint.InterfaceKey] = MonitorServicePath
	appendRuntimeParameters(params, r.runtime)

	registerHost, err := r.registerHost(props)
	if err != nil {
		return nil, err
	}
	params[endpoint.RegisterIPKey] = registerHost

	mergeParams(params, monitor.Parameters())
	mergeParams(params, app.Parameters())

	if address != "" {
		if params[endpoint.ProtocolKey] == "" {
			if protocol != "" && protocol != endpoint.RegistryScheme {
				params[endpoint.ProtocolKey] = protocol
			} else {
				params[endpoint.ProtocolKey] = endpoint.DefaultProtocol
			}
		}
		u, err := endpoint.ParseURL(address, params)
		if err != nil {
			return nil, xerrors.Wrapf(ErrInvalidAddress, "monitor address %q: %v", address, err)
		}
		return u, nil
	}

	if protocol == endpoint.RegistryScheme && registryURL != nil {
		refer := endpoint.EncodeQuery(params, nil)
		u := endpoint.From(registryURL).
			SetProtocol(endpoint.DefaultProtocol).
			SetParameter(endpoint.ProtocolKey, endpoint.RegistryScheme).
			SetParameterAndEncoded(endpoint.ReferKey, refer).
			Build()
		return u, nil
	}

	r.logger.WarnContext(ctx, "monitor config has protocol but no address, skipping",
		clog.String("protocol", protocol))
	return nil, nil
}

// registerHost 确定上报到注册中心的本机地址
//
// 显式覆盖必须是可用的对外地址，否则解析中止。
func (r *Resolver) registerHost(props conf.PropertySource) (string, error) {
	if host, ok := conf.EnvSource().Lookup(conf.HostToRegistryKey); ok && host != "" {
		if isInvalidLocalHost(host) {
			return "", xerrors.Wrapf(ErrInvalidRegisterHost,
				"host %q from property %s is not a usable address", host, conf.HostToRegistryKey)
		}
		return host, nil
	}
	if host := conf.Property(props, conf.HostToRegistryKey); host != "" {
		if isInvalidLocalHost(host) {
			return "", xerrors.Wrapf(ErrInvalidRegisterHost,
				"host %q from property %s is not a usable address", host, conf.HostToRegistryKey)
		}
		return host, nil
	}
	return r.runtime.LocalHost(), nil
}

// resolveMetadataReport 解析元数据中心 URL，未配置时返回 nil
func (r *Resolver) resolveMetadataReport(ctx context.Context, sc *conf.ServiceConfig) (*endpoint.URL, error) {
	md := sc.MetadataReport
	if md == nil {
		md = r.store.GetOrCreateMetadataReport()
	}
	md.Refresh(r.propertyChain())

	if !md.IsValid() {
		r.logger.DebugContext(ctx, "no metadata report configured, skipping")
		return nil, nil
	}

	params := md.Parameters()
	u, err := endpoint.ParseURL(md.Address, params)
	if err != nil {
		return nil, xerrors.Wrapf(ErrInvalidAddress, "metadata report address %q: %v", md.Address, err)
	}
	return u, nil
}
