// Package conf 定义 Anchor 配置解析核心的数据模型。
//
// 包含服务接口配置（ServiceConfig）及其引用的各类描述符
// （应用、注册中心、监控中心、配置中心、元数据中心、方法），
// 进程级共享的配置仓库 Store，以及分层属性源 PropertySource。
//
// 描述符由外部加载器（文件、环境变量）填充，本包的 Refresh 系列方法
// 只负责用属性源补全缺省值；字段校验通过各自的 IsValid 谓词完成。
package conf

import "strings"

// 环境属性键。缺省实现从进程环境变量读取，键名会被转换为
// 大写下划线形式（例如 anchor.registry.address -> ANCHOR_REGISTRY_ADDRESS）。
const (
	// LegacyRegistryAddressKey 旧版注册中心地址属性，竖线分隔多个地址
	LegacyRegistryAddressKey = "anchor.registry.address"

	// MonitorAddressKey 监控中心地址覆盖属性
	MonitorAddressKey = "anchor.monitor.address"

	// HostToRegistryKey 注册用本机地址覆盖属性
	HostToRegistryKey = "anchor.ip.to.registry"

	// RegistriesPrefix 外部配置中按 id 声明注册中心的键前缀
	RegistriesPrefix = "anchor.registries."

	// ShutdownWaitKey 优雅停机等待时长属性
	ShutdownWaitKey = "anchor.service.shutdown.wait"
)

// NoAvailable 注册中心地址的"不可用"哨兵值
// 地址等于该值的注册中心是显式退出，不产生 URL，也不视为配置错误
const NoAvailable = "N/A"

// AnyHost 通配主机标记，地址缺失时的替代值
const AnyHost = "0.0.0.0"

// RegistryProtocol 注册中心后端协议的封闭枚举
type RegistryProtocol string

const (
	// ProtocolAnchor Anchor 自有 RPC 协议
	ProtocolAnchor RegistryProtocol = "anchor"

	// ProtocolEtcd Etcd 集群协调后端
	ProtocolEtcd RegistryProtocol = "etcd"

	// ProtocolZookeeper ZooKeeper 集群协调后端
	ProtocolZookeeper RegistryProtocol = "zookeeper"

	// ProtocolNacos Nacos 注册后端
	ProtocolNacos RegistryProtocol = "nacos"

	// ProtocolRegistry 标准化后的统一注册协议标记
	ProtocolRegistry RegistryProtocol = "registry"
)

// ParseRegistryProtocol 解析协议名，未知协议返回 false
func ParseRegistryProtocol(s string) (RegistryProtocol, bool) {
	switch RegistryProtocol(strings.ToLower(s)) {
	case ProtocolAnchor:
		return ProtocolAnchor, true
	case ProtocolEtcd:
		return ProtocolEtcd, true
	case ProtocolZookeeper:
		return ProtocolZookeeper, true
	case ProtocolNacos:
		return ProtocolNacos, true
	case ProtocolRegistry:
		return ProtocolRegistry, true
	default:
		return "", false
	}
}

// IsCoordination 判断协议是否为集群协调类后端
// 协调类后端可以兼任配置中心（registry-as-config-center 引导）
func (p RegistryProtocol) IsCoordination() bool {
	return p == ProtocolEtcd || p == ProtocolZookeeper
}

// IsDefaultValue 判断标识符是否为"默认"标记
// 用于 local/stub/mock 等槽位：值为 true 或 default 时按约定推导实现类名
func IsDefaultValue(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "default"
}
