package conf

import (
	"sync"
)

// Store 共享描述符仓库
//
// 同一进程内的多个服务接口配置共享应用、注册中心、监控中心等描述符。
// Store 以显式依赖注入的方式传给解析器，所有读写都在内部互斥锁下完成，
// get-or-create 操作对并发调用方保证只创建一次。
type Store struct {
	mu             sync.Mutex
	application    *ApplicationConfig
	monitor        *MonitorConfig
	metadataReport *MetadataReportConfig
	configCenter   *ConfigCenterConfig
	registries     []*RegistryConfig
	registryByID   map[string]*RegistryConfig
}

// NewStore 创建空仓库
func NewStore() *Store {
	return &Store{
		registryByID: make(map[string]*RegistryConfig),
	}
}

// GetOrCreateApplication 返回应用描述符，不存在时原子地创建空壳
func (s *Store) GetOrCreateApplication() *ApplicationConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.application == nil {
		s.application = &ApplicationConfig{}
	}
	return s.application
}

// SetApplication 覆盖应用描述符
func (s *Store) SetApplication(app *ApplicationConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.application = app
}

// Application 返回应用描述符，可能为 nil
func (s *Store) Application() *ApplicationConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.application
}

// GetOrCreateMonitor 返回监控描述符，不存在时原子地创建空壳
func (s *Store) GetOrCreateMonitor() *MonitorConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.monitor == nil {
		s.monitor = &MonitorConfig{}
	}
	return s.monitor
}

// SetMonitor 覆盖监控描述符
func (s *Store) SetMonitor(m *MonitorConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitor = m
}

// GetOrCreateMetadataReport 返回元数据描述符，不存在时原子地创建空壳
func (s *Store) GetOrCreateMetadataReport() *MetadataReportConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.metadataReport == nil {
		s.metadataReport = &MetadataReportConfig{}
	}
	return s.metadataReport
}

// ConfigCenter 返回配置中心描述符，可能为 nil
func (s *Store) ConfigCenter() *ConfigCenterConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configCenter
}

// SetConfigCenterIfAbsent 仅在尚无配置中心时写入，返回最终生效的描述符
//
// 注册中心引导路径与显式配置路径可能竞争，先到者胜。
func (s *Store) SetConfigCenterIfAbsent(cc *ConfigCenterConfig) *ConfigCenterConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.configCenter == nil {
		s.configCenter = cc
	}
	return s.configCenter
}

// AddRegistries 追加注册中心条目，按 id 去重，先注册的 id 优先
func (s *Store) AddRegistries(regs ...*RegistryConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range regs {
		if r == nil {
			continue
		}
		if r.ID != "" {
			if _, ok := s.registryByID[r.ID]; ok {
				continue
			}
			s.registryByID[r.ID] = r
		}
		s.registries = append(s.registries, r)
	}
}

// RegistryByID 按 id 查找注册中心条目
func (s *Store) RegistryByID(id string) (*RegistryConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.registryByID[id]
	return r, ok
}

// Registries 返回全部注册中心条目的快照
func (s *Store) Registries() []*RegistryConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*RegistryConfig, len(s.registries))
	copy(out, s.registries)
	return out
}

// DefaultRegistries 返回被标记为默认（或未显式标记）的注册中心条目
func (s *Store) DefaultRegistries() []*RegistryConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*RegistryConfig
	for _, r := range s.registries {
		if r.IsDefault == nil || *r.IsDefault {
			out = append(out, r)
		}
	}
	return out
}
