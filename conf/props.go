package conf

import (
	"os"
	"strings"
)

// PropertySource 只读属性源
//
// 解析过程中的环境属性（旧版注册中心地址、监控地址覆盖、注册 IP 覆盖）
// 和描述符缺省值补全都通过 PropertySource 读取，便于测试注入。
type PropertySource interface {
	// Lookup 查找属性值，返回值及其是否存在
	Lookup(key string) (string, bool)
}

// MapSource 基于内存映射的属性源，主要用于测试和外部配置层
type MapSource map[string]string

// Lookup 实现 PropertySource
func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// envSource 进程环境变量属性源
type envSource struct{}

// EnvSource 创建基于进程环境变量的属性源
//
// 点和横线会被转换为下划线，整体大写：
//
//	anchor.registry.address -> ANCHOR_REGISTRY_ADDRESS
func EnvSource() PropertySource {
	return envSource{}
}

func (envSource) Lookup(key string) (string, bool) {
	name := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	return os.LookupEnv(name)
}

// chainSource 按序查找的组合属性源
type chainSource []PropertySource

// Chain 组合多个属性源，前面的优先
func Chain(sources ...PropertySource) PropertySource {
	return chainSource(sources)
}

func (c chainSource) Lookup(key string) (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(key); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// Property 便捷方法：查找属性，缺失时返回空字符串
func Property(ps PropertySource, key string) string {
	if ps == nil {
		return ""
	}
	v, _ := ps.Lookup(key)
	return strings.TrimSpace(v)
}
