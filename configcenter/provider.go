package configcenter

import (
	"context"
	"sync"

	"github.com/ceyewan/anchor/conf"
	"github.com/ceyewan/anchor/endpoint"
	"github.com/ceyewan/anchor/xerrors"
)

// Provider 配置中心提供者
//
// 按 (file, group) 定位一份 properties 文本并返回。
// 文件不存在不是错误，返回空串即可。
type Provider interface {
	// FetchProperties 拉取指定分组下的配置文件内容
	FetchProperties(ctx context.Context, file, group string) (string, error)

	// Close 释放底层连接
	Close() error
}

// Factory 按配置中心 URL 构造提供者
//
// URL 的 protocol 是封闭枚举内的后端协议，host:port 是后端地址，
// namespace 等附加信息在 URL 参数中。
type Factory func(ctx context.Context, u *endpoint.URL) (Provider, error)

var (
	factoryMu sync.RWMutex
	factories = make(map[conf.RegistryProtocol]Factory)
)

// RegisterFactory 登记某后端协议的提供者工厂，重复登记以后者为准
func RegisterFactory(p conf.RegistryProtocol, f Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factories[p] = f
}

// NewProvider 按 URL 的协议选择工厂并构造提供者
func NewProvider(ctx context.Context, u *endpoint.URL) (Provider, error) {
	p, ok := conf.ParseRegistryProtocol(u.Protocol())
	if !ok {
		return nil, xerrors.Wrapf(ErrUnsupportedBackend, "protocol %q", u.Protocol())
	}

	factoryMu.RLock()
	f, ok := factories[p]
	factoryMu.RUnlock()
	if !ok {
		return nil, xerrors.Wrapf(ErrUnsupportedBackend, "no provider factory for %q", p)
	}
	return f(ctx, u)
}

// MemoryProvider 进程内提供者，测试与本地开发用
type MemoryProvider struct {
	mu    sync.RWMutex
	blobs map[string]string
}

// NewMemoryProvider 创建空的进程内提供者
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{blobs: make(map[string]string)}
}

// Put 写入一份配置文件内容
func (m *MemoryProvider) Put(file, group, blob string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[group+"/"+file] = blob
}

// FetchProperties 返回已写入的内容，缺失时为空串
func (m *MemoryProvider) FetchProperties(_ context.Context, file, group string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.blobs[group+"/"+file], nil
}

// Close 无资源可释放
func (m *MemoryProvider) Close() error { return nil }
