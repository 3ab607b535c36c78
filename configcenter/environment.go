// Package configcenter 为 Anchor 提供外部化配置的引导与存放。
//
// 解析器启动时可从配置中心（etcd 等协调后端）拉取两份属性集：
// 框架级配置与应用级配置。拉取结果存放在 Environment 中，
// 供后续的描述符回填与注册中心 id 发现使用。
//
// 引导至多执行一次，由描述符上的原子标志保护；
// 经注册中心地址引导配置中心的路径同样被防重入保护覆盖。
package configcenter

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ceyewan/anchor/conf"
)

// Environment 外部化配置容器
//
// external 存放框架级（全局分组）配置，appExternal 存放应用级分组配置。
// 两份配置都是引导完成后的只读快照，读路径无锁竞争压力。
type Environment struct {
	mu                sync.RWMutex
	external          map[string]string
	appExternal       map[string]string
	configCenterFirst bool

	// dynamic 持有已建立的配置中心提供者，一经设置不再更换。
	// 解析器据此判断配置中心是否已就绪，避免引导递归。
	dynamic atomic.Pointer[Provider]
}

// NewEnvironment 创建空容器；外部配置默认优先于本地配置
func NewEnvironment() *Environment {
	return &Environment{
		external:          make(map[string]string),
		appExternal:       make(map[string]string),
		configCenterFirst: true,
	}
}

// SetExternalConfig 写入框架级配置快照
func (e *Environment) SetExternalConfig(m map[string]string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.external = snapshot(m)
}

// SetAppExternalConfig 写入应用级配置快照
func (e *Environment) SetAppExternalConfig(m map[string]string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.appExternal = snapshot(m)
}

// Lookup 实现 conf.PropertySource，应用级配置优先于框架级
func (e *Environment) Lookup(key string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if v, ok := e.appExternal[key]; ok {
		return v, true
	}
	if v, ok := e.external[key]; ok {
		return v, true
	}
	return "", false
}

// SubKeys 收集两份配置中前缀之后的首个路径段，去重后按字典序返回
//
// 例如前缀 "anchor.registries." 下存在键
// anchor.registries.beijing.address 与 anchor.registries.shanghai.address，
// 返回 ["beijing", "shanghai"]。
func (e *Environment) SubKeys(prefix string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[string]struct{})
	collect := func(m map[string]string) {
		for k := range m {
			if !strings.HasPrefix(k, prefix) {
				continue
			}
			rest := k[len(prefix):]
			if i := strings.Index(rest, "."); i > 0 {
				seen[rest[:i]] = struct{}{}
			} else if rest != "" {
				seen[rest] = struct{}{}
			}
		}
	}
	collect(e.external)
	collect(e.appExternal)

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SetConfigCenterFirst 设置外部配置与本地配置的相对优先级
func (e *Environment) SetConfigCenterFirst(first bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.configCenterFirst = first
}

// ConfigCenterFirst 报告外部配置是否优先于本地配置
func (e *Environment) ConfigCenterFirst() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.configCenterFirst
}

// SetDynamicIfAbsent 原子地登记配置中心提供者，先到者胜
// 返回是否由本次调用完成登记
func (e *Environment) SetDynamicIfAbsent(p Provider) bool {
	if p == nil {
		return false
	}
	return e.dynamic.CompareAndSwap(nil, &p)
}

// Dynamic 返回已登记的配置中心提供者，未登记时为 nil
func (e *Environment) Dynamic() Provider {
	if p := e.dynamic.Load(); p != nil {
		return *p
	}
	return nil
}

func snapshot(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

var _ conf.PropertySource = (*Environment)(nil)
