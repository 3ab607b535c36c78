package conf

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// ============================================================================
// 应用描述符
// ============================================================================

// ApplicationConfig 应用描述符
type ApplicationConfig struct {
	// Name 应用名称，服务注册与应用级外部配置都以它为分组依据
	Name string `yaml:"name" mapstructure:"name"`

	// Version 应用版本号
	Version string `yaml:"version" mapstructure:"version"`

	// Owner 应用负责人
	Owner string `yaml:"owner" mapstructure:"owner"`

	// Organization 所属组织
	Organization string `yaml:"organization" mapstructure:"organization"`

	// Environment 部署环境标识 (develop/test/product)
	Environment string `yaml:"environment" mapstructure:"environment"`

	// Extra 附加参数，原样并入 URL 参数表
	Extra map[string]string `yaml:"extra" mapstructure:"extra"`
}

// IsValid 应用配置有效性谓词：必须有名称
func (c *ApplicationConfig) IsValid() bool {
	return c != nil && c.Name != ""
}

// Refresh 用属性源补全缺省字段
func (c *ApplicationConfig) Refresh(ps PropertySource) {
	if c.Name == "" {
		c.Name = Property(ps, "anchor.application.name")
	}
	if c.Version == "" {
		c.Version = Property(ps, "anchor.application.version")
	}
	if c.Owner == "" {
		c.Owner = Property(ps, "anchor.application.owner")
	}
}

// Parameters 导出 URL 参数表
func (c *ApplicationConfig) Parameters() map[string]string {
	if c == nil {
		return nil
	}
	m := make(map[string]string)
	putIfSet(m, "application", c.Name)
	putIfSet(m, "application.version", c.Version)
	putIfSet(m, "owner", c.Owner)
	putIfSet(m, "organization", c.Organization)
	putIfSet(m, "environment", c.Environment)
	for k, v := range c.Extra {
		putIfSet(m, k, v)
	}
	return m
}

// ============================================================================
// 注册中心描述符
// ============================================================================

// RegistryConfig 注册中心描述符（RegistryEndpoint）
type RegistryConfig struct {
	// ID 注册中心标识，可为空；多注册中心场景通过 id 区分
	ID string `yaml:"id" mapstructure:"id"`

	// Address 注册中心地址 (host:port)，通配地址或 N/A 哨兵
	Address string `yaml:"address" mapstructure:"address"`

	// Protocol 后端协议 (etcd/zookeeper/nacos)，为空时由默认 RPC 协议替代
	Protocol string `yaml:"protocol" mapstructure:"protocol"`

	// Username 认证用户名
	Username string `yaml:"username" mapstructure:"username"`

	// Password 认证密码
	Password string `yaml:"password" mapstructure:"password"`

	// Group 注册分组
	Group string `yaml:"group" mapstructure:"group"`

	// Timeout 注册中心请求超时（毫秒）
	Timeout int `yaml:"timeout" mapstructure:"timeout"`

	// IsDefault 是否为默认注册中心；nil 视为 true
	IsDefault *bool `yaml:"default" mapstructure:"default"`

	// Register 提供方是否向该注册中心注册；nil 视为 true
	Register *bool `yaml:"register" mapstructure:"register"`

	// Subscribe 消费方是否从该注册中心订阅；nil 视为 true
	Subscribe *bool `yaml:"subscribe" mapstructure:"subscribe"`

	// Extra 附加参数
	Extra map[string]string `yaml:"extra" mapstructure:"extra"`
}

// IsValid 注册中心有效性谓词：地址非空
// 地址为 N/A 哨兵的条目有效，但在构建 URL 时被跳过
func (c *RegistryConfig) IsValid() bool {
	return c != nil && c.Address != ""
}

// IsUnavailable 判断地址是否为显式"不可用"哨兵
func (c *RegistryConfig) IsUnavailable() bool {
	return strings.EqualFold(c.Address, NoAvailable)
}

// ProtocolEnum 返回协议的封闭枚举值
func (c *RegistryConfig) ProtocolEnum() (RegistryProtocol, bool) {
	return ParseRegistryProtocol(c.Protocol)
}

// IsCoordination 判断该注册中心是否使用集群协调类后端
func (c *RegistryConfig) IsCoordination() bool {
	p, ok := c.ProtocolEnum()
	return ok && p.IsCoordination()
}

// Refresh 用属性源补全缺省字段
//
// 带 id 的条目读取 anchor.registries.<id>.* 作用域，
// 无 id 的条目读取 anchor.registry.* 作用域。
func (c *RegistryConfig) Refresh(ps PropertySource) {
	prefix := "anchor.registry."
	if c.ID != "" {
		prefix = RegistriesPrefix + c.ID + "."
	}
	if c.Address == "" {
		c.Address = Property(ps, prefix+"address")
	}
	if c.Protocol == "" {
		c.Protocol = Property(ps, prefix+"protocol")
	}
	if c.Username == "" {
		c.Username = Property(ps, prefix+"username")
	}
	if c.Password == "" {
		c.Password = Property(ps, prefix+"password")
	}
	if c.Group == "" {
		c.Group = Property(ps, prefix+"group")
	}
}

// Parameters 导出 URL 参数表
func (c *RegistryConfig) Parameters() map[string]string {
	if c == nil {
		return nil
	}
	m := make(map[string]string)
	putIfSet(m, "username", c.Username)
	putIfSet(m, "password", c.Password)
	putIfSet(m, "group", c.Group)
	if c.Timeout > 0 {
		m["timeout"] = strconv.Itoa(c.Timeout)
	}
	if c.Register != nil {
		m["register"] = strconv.FormatBool(*c.Register)
	}
	if c.Subscribe != nil {
		m["subscribe"] = strconv.FormatBool(*c.Subscribe)
	}
	for k, v := range c.Extra {
		putIfSet(m, k, v)
	}
	return m
}

// ============================================================================
// 监控中心描述符
// ============================================================================

// MonitorConfig 监控中心描述符
type MonitorConfig struct {
	// Address 监控中心直连地址；为空时可经注册中心间接寻址
	Address string `yaml:"address" mapstructure:"address"`

	// Protocol 监控协议；等于 registry 时表示经注册中心发现监控服务
	Protocol string `yaml:"protocol" mapstructure:"protocol"`

	// Username 认证用户名
	Username string `yaml:"username" mapstructure:"username"`

	// Password 认证密码
	Password string `yaml:"password" mapstructure:"password"`

	// Group 监控分组
	Group string `yaml:"group" mapstructure:"group"`

	// Interval 统计上报间隔（毫秒）
	Interval int `yaml:"interval" mapstructure:"interval"`

	// Extra 附加参数
	Extra map[string]string `yaml:"extra" mapstructure:"extra"`
}

// IsValid 监控配置有效性谓词：地址或协议至少设置一项
// 监控无效不是致命错误，解析会继续但不产生监控 URL
func (c *MonitorConfig) IsValid() bool {
	return c != nil && (c.Address != "" || c.Protocol != "")
}

// Refresh 用属性源补全缺省字段
func (c *MonitorConfig) Refresh(ps PropertySource) {
	if c.Address == "" {
		c.Address = Property(ps, MonitorAddressKey)
	}
	if c.Protocol == "" {
		c.Protocol = Property(ps, "anchor.monitor.protocol")
	}
}

// Parameters 导出 URL 参数表
func (c *MonitorConfig) Parameters() map[string]string {
	if c == nil {
		return nil
	}
	m := make(map[string]string)
	putIfSet(m, "username", c.Username)
	putIfSet(m, "password", c.Password)
	putIfSet(m, "group", c.Group)
	if c.Interval > 0 {
		m["interval"] = strconv.Itoa(c.Interval)
	}
	for k, v := range c.Extra {
		putIfSet(m, k, v)
	}
	return m
}

// ============================================================================
// 配置中心描述符
// ============================================================================

// ConfigCenterConfig 配置中心描述符
type ConfigCenterConfig struct {
	// Protocol 配置中心后端协议（封闭枚举，通常为 etcd/zookeeper）
	Protocol string `yaml:"protocol" mapstructure:"protocol"`

	// Address 配置中心地址
	Address string `yaml:"address" mapstructure:"address"`

	// Namespace 配置键命名空间，默认 /anchor/config
	Namespace string `yaml:"namespace" mapstructure:"namespace"`

	// Group 框架级配置分组，默认 anchor
	Group string `yaml:"group" mapstructure:"group"`

	// ConfigFile 框架级配置文件名，默认 anchor.properties
	ConfigFile string `yaml:"config_file" mapstructure:"config_file"`

	// AppConfigFile 应用级配置文件名；为空时回退到 ConfigFile
	AppConfigFile string `yaml:"app_config_file" mapstructure:"app_config_file"`

	// Timeout 拉取超时（毫秒），默认 3000
	Timeout int `yaml:"timeout" mapstructure:"timeout"`

	// HighestPriority 外部配置是否优先于本地配置，默认 true
	// 由注册中心引导合成的配置中心会显式置为 false
	HighestPriority *bool `yaml:"highest_priority" mapstructure:"highest_priority"`

	// inited 引导一次性保护，原子地从 false 翻转到 true
	inited atomic.Bool
}

// IsValid 配置中心有效性谓词：地址非空
func (c *ConfigCenterConfig) IsValid() bool {
	return c != nil && c.Address != ""
}

// CheckOrUpdateInited 原子地标记"已引导"
// 第一次调用返回 true，此后（含并发竞争失败方）一律返回 false
func (c *ConfigCenterConfig) CheckOrUpdateInited() bool {
	return c.inited.CompareAndSwap(false, true)
}

// IsHighestPriority 返回优先级标志，nil 按默认 true 处理
func (c *ConfigCenterConfig) IsHighestPriority() bool {
	return c.HighestPriority == nil || *c.HighestPriority
}

// ConfigFileOrDefault 返回框架级配置文件名（带默认值）
func (c *ConfigCenterConfig) ConfigFileOrDefault() string {
	if c.ConfigFile != "" {
		return c.ConfigFile
	}
	return "anchor.properties"
}

// GroupOrDefault 返回框架级分组名（带默认值）
func (c *ConfigCenterConfig) GroupOrDefault() string {
	if c.Group != "" {
		return c.Group
	}
	return "anchor"
}

// NamespaceOrDefault 返回命名空间（带默认值）
func (c *ConfigCenterConfig) NamespaceOrDefault() string {
	if c.Namespace != "" {
		return c.Namespace
	}
	return "/anchor/config"
}

// Refresh 用属性源补全缺省字段
func (c *ConfigCenterConfig) Refresh(ps PropertySource) {
	if c.Address == "" {
		c.Address = Property(ps, "anchor.config-center.address")
	}
	if c.Protocol == "" {
		c.Protocol = Property(ps, "anchor.config-center.protocol")
	}
}

// ============================================================================
// 元数据中心描述符
// ============================================================================

// MetadataReportConfig 元数据上报描述符
type MetadataReportConfig struct {
	// Address 元数据中心地址
	Address string `yaml:"address" mapstructure:"address"`

	// Username 认证用户名
	Username string `yaml:"username" mapstructure:"username"`

	// Password 认证密码
	Password string `yaml:"password" mapstructure:"password"`

	// Timeout 上报超时（毫秒）
	Timeout int `yaml:"timeout" mapstructure:"timeout"`

	// Group 元数据分组
	Group string `yaml:"group" mapstructure:"group"`

	// RetryTimes 失败重试次数
	RetryTimes int `yaml:"retry_times" mapstructure:"retry_times"`

	// RetryPeriod 重试间隔（毫秒）
	RetryPeriod int `yaml:"retry_period" mapstructure:"retry_period"`

	// CycleReport 是否周期性全量上报
	CycleReport *bool `yaml:"cycle_report" mapstructure:"cycle_report"`
}

// IsValid 元数据配置有效性谓词：地址非空
// 无效不是致命错误，仅记录警告并跳过元数据 URL
func (c *MetadataReportConfig) IsValid() bool {
	return c != nil && c.Address != ""
}

// Refresh 用属性源补全缺省字段
func (c *MetadataReportConfig) Refresh(ps PropertySource) {
	if c.Address == "" {
		c.Address = Property(ps, "anchor.metadata-report.address")
	}
}

// Parameters 导出 URL 参数表
func (c *MetadataReportConfig) Parameters() map[string]string {
	if c == nil {
		return nil
	}
	m := make(map[string]string)
	putIfSet(m, "username", c.Username)
	putIfSet(m, "password", c.Password)
	putIfSet(m, "group", c.Group)
	if c.Timeout > 0 {
		m["timeout"] = strconv.Itoa(c.Timeout)
	}
	if c.RetryTimes > 0 {
		m["retry.times"] = strconv.Itoa(c.RetryTimes)
	}
	if c.RetryPeriod > 0 {
		m["retry.period"] = strconv.Itoa(c.RetryPeriod)
	}
	if c.CycleReport != nil {
		m["cycle.report"] = strconv.FormatBool(*c.CycleReport)
	}
	return m
}

// ============================================================================
// 方法与服务接口描述符
// ============================================================================

// MethodConfig 方法级配置
type MethodConfig struct {
	// Name 方法名，必填，且必须存在于接口描述符中
	Name string `yaml:"name" mapstructure:"name"`

	// Timeout 调用超时（毫秒）
	Timeout int `yaml:"timeout" mapstructure:"timeout"`

	// Retries 失败重试次数
	Retries int `yaml:"retries" mapstructure:"retries"`

	// LoadBalance 负载均衡策略
	LoadBalance string `yaml:"loadbalance" mapstructure:"loadbalance"`

	// Async 是否异步调用
	Async bool `yaml:"async" mapstructure:"async"`
}

// ServiceConfig 服务接口配置，是解析流程的主体输入
//
// 由调用方构造并持有；解析核心只读取并回填解析结果
// （注册中心列表、应用/监控/配置中心引用会同步到共享 Store）。
type ServiceConfig struct {
	// Interface 远程服务接口名
	Interface string `yaml:"interface" mapstructure:"interface"`

	// Methods 方法级配置列表
	Methods []*MethodConfig `yaml:"methods" mapstructure:"methods"`

	// Mock 服务降级指令 (return <literal> / throw <type> / 实现类名)
	Mock string `yaml:"mock" mapstructure:"mock"`

	// Local 本地实现类标识（旧版槽位，已由 Stub 取代）
	Local string `yaml:"local" mapstructure:"local"`

	// Stub 本地存根类标识
	Stub string `yaml:"stub" mapstructure:"stub"`

	// Filter 过滤器名列表，逗号分隔
	Filter string `yaml:"filter" mapstructure:"filter"`

	// Listener 监听器名列表，逗号分隔
	Listener string `yaml:"listener" mapstructure:"listener"`

	// Scope 服务作用域；local 表示仅在当前进程内查找
	Scope string `yaml:"scope" mapstructure:"scope"`

	// Tag 路由标签
	Tag string `yaml:"tag" mapstructure:"tag"`

	// Owner 服务负责人
	Owner string `yaml:"owner" mapstructure:"owner"`

	// Connections 连接数限制，0 表示共享连接
	Connections int `yaml:"connections" mapstructure:"connections"`

	// Callbacks 回调实例数限制
	Callbacks int `yaml:"callbacks" mapstructure:"callbacks"`

	// RegistryIDs 逗号分隔的注册中心 id 列表
	RegistryIDs string `yaml:"registry_ids" mapstructure:"registry_ids"`

	// Registries 注册中心条目（有序）；解析后保证非空且全部有效
	Registries []*RegistryConfig `yaml:"registries" mapstructure:"registries"`

	// Application 应用描述符引用
	Application *ApplicationConfig `yaml:"application" mapstructure:"application"`

	// Monitor 监控中心描述符引用
	Monitor *MonitorConfig `yaml:"monitor" mapstructure:"monitor"`

	// MetadataReport 元数据中心描述符引用
	MetadataReport *MetadataReportConfig `yaml:"metadata_report" mapstructure:"metadata_report"`

	// ConfigCenter 配置中心描述符引用
	ConfigCenter *ConfigCenterConfig `yaml:"config_center" mapstructure:"config_center"`
}

func putIfSet(m map[string]string, k, v string) {
	if v != "" {
		m[k] = v
	}
}
