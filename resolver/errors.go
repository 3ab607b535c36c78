package resolver

import "github.com/ceyewan/anchor/xerrors"

// 预定义错误，全部是致命错误，解析方应中止启动
var (
	// ErrApplicationMissing 缺少有效的应用描述符
	ErrApplicationMissing = xerrors.New("resolver: application config is required")

	// ErrRegistryMissing 缺少有效的注册中心配置
	ErrRegistryMissing = xerrors.New("resolver: no valid registry config found")

	// ErrTooManyRegistries 注册中心条目数超过了显式 id 列表
	ErrTooManyRegistries = xerrors.New("resolver: too many registries found")

	// ErrInvalidRegisterHost 显式指定的上报地址不是可用的本机地址
	ErrInvalidRegisterHost = xerrors.New("resolver: invalid register host")

	// ErrInvalidAddress 端点地址无法解析
	ErrInvalidAddress = xerrors.New("resolver: invalid address")
)
