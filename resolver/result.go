package resolver

import (
	"time"

	"github.com/ceyewan/anchor/conf"
	"github.com/ceyewan/anchor/endpoint"
)

// Side 解析视角：提供方或消费方
//
// 视角决定注册中心 URL 的保留条件：提供方看 register 开关，
// 消费方看 subscribe 开关。
type Side int

const (
	// SideProvider 服务提供方
	SideProvider Side = iota

	// SideConsumer 服务消费方
	SideConsumer
)

// String 返回视角名
func (s Side) String() string {
	if s == SideConsumer {
		return "consumer"
	}
	return "provider"
}

// Result 一次解析的不可变快照
//
// 所有访问器返回副本或本身不可变的值，持有 Result 的组件
// 不会观察到后续解析造成的变化。
type Result struct {
	id           string
	iface        string
	side         Side
	application  conf.ApplicationConfig
	registryURLs []*endpoint.URL
	monitorURL   *endpoint.URL
	metadataURL  *endpoint.URL
	shutdownWait time.Duration
	resolvedAt   time.Time
}

// ID 本次解析的追踪标识
func (r *Result) ID() string { return r.id }

// Interface 被解析的服务接口名
func (r *Result) Interface() string { return r.iface }

// Side 解析视角
func (r *Result) Side() Side { return r.side }

// Application 解析时生效的应用描述符（值拷贝）
func (r *Result) Application() conf.ApplicationConfig { return r.application }

// ShutdownWait 优雅停机等待时长，未配置时为零
func (r *Result) ShutdownWait() time.Duration { return r.shutdownWait }

// RegistryURLs 标准化后的注册中心 URL 列表
func (r *Result) RegistryURLs() []*endpoint.URL {
	out := make([]*endpoint.URL, len(r.registryURLs))
	copy(out, r.registryURLs)
	return out
}

// MonitorURL 监控中心 URL，未配置时为 nil
func (r *Result) MonitorURL() *endpoint.URL { return r.monitorURL }

// MetadataReportURL 元数据中心 URL，未配置时为 nil
func (r *Result) MetadataReportURL() *endpoint.URL { return r.metadataURL }

// ResolvedAt 快照生成时间
func (r *Result) ResolvedAt() time.Time { return r.resolvedAt }
