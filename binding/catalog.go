// Package binding 维护服务接口与实现的能力目录，并提供配置校验。
//
// 目录采用显式注册：组件在启动时登记自己暴露的接口、方法集、
// 实现以及可抛出的错误类型，校验逻辑只查目录，不做运行时反射。
//
// 基本使用：
//
//	catalog := binding.NewCatalog()
//	catalog.RegisterInterface("demo.UserService", "GetUser", "ListUsers")
//	catalog.RegisterImplementation(&binding.Implementation{
//		Name:       "demo.UserServiceStub",
//		Implements: []string{"demo.UserService"},
//		Wrap:       func(target any) any { return newUserServiceStub(target) },
//	})
//
//	err := binding.CheckStubAndLocal(catalog, "demo.UserService", "", "true")
package binding

import (
	"sync"
)

// InterfaceDescriptor 已登记的服务接口
type InterfaceDescriptor struct {
	// Name 接口全名，如 demo.UserService
	Name string

	// Methods 接口方法名集合
	Methods []string
}

// HasMethod 判断接口是否包含指定方法
func (d *InterfaceDescriptor) HasMethod(name string) bool {
	for _, m := range d.Methods {
		if m == name {
			return true
		}
	}
	return false
}

// Implementation 已登记的实现
type Implementation struct {
	// Name 实现全名，如 demo.UserServiceStub
	Name string

	// Implements 实现的接口全名列表
	Implements []string

	// New 无参构造，mock 实现需要
	New func() any

	// Wrap 包装构造，接收被代理的目标实例，stub/local 实现需要
	Wrap func(target any) any
}

// implementsInterface 判断实现是否声明了指定接口
func (i *Implementation) implementsInterface(iface string) bool {
	for _, n := range i.Implements {
		if n == iface {
			return true
		}
	}
	return false
}

// ThrowableFactory 按消息构造错误实例，用于 throw 类型的 mock 指令
type ThrowableFactory func(msg string) error

// Catalog 能力目录
//
// 所有方法并发安全。注册通常发生在启动阶段，校验在解析阶段。
type Catalog struct {
	mu         sync.RWMutex
	interfaces map[string]*InterfaceDescriptor
	impls      map[string]*Implementation
	throwables map[string]ThrowableFactory
}

// NewCatalog 创建空目录
func NewCatalog() *Catalog {
	return &Catalog{
		interfaces: make(map[string]*InterfaceDescriptor),
		impls:      make(map[string]*Implementation),
		throwables: make(map[string]ThrowableFactory),
	}
}

// RegisterInterface 登记服务接口及其方法集，重复登记以后者为准
func (c *Catalog) RegisterInterface(name string, methods ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interfaces[name] = &InterfaceDescriptor{Name: name, Methods: methods}
}

// Interface 查找接口描述符
func (c *Catalog) Interface(name string) (*InterfaceDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.interfaces[name]
	return d, ok
}

// RegisterImplementation 登记实现，重复登记以后者为准
func (c *Catalog) RegisterImplementation(impl *Implementation) {
	if impl == nil || impl.Name == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.impls[impl.Name] = impl
}

// Implementation 查找实现
func (c *Catalog) Implementation(name string) (*Implementation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.impls[name]
	return i, ok
}

// RegisterThrowable 登记可抛出错误类型的构造工厂
func (c *Catalog) RegisterThrowable(name string, f ThrowableFactory) {
	if name == "" || f == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.throwables[name] = f
}

// Throwable 查找错误构造工厂
func (c *Catalog) Throwable(name string) (ThrowableFactory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.throwables[name]
	return f, ok
}
