package conf

import (
	"github.com/ceyewan/anchor/xerrors"
)

// 预定义错误
var (
	// ErrConfigNotFound 找不到配置文件
	ErrConfigNotFound = xerrors.New("conf: config file not found")

	// ErrValidationFailed 配置验证失败
	ErrValidationFailed = xerrors.New("conf: validation failed")

	// ErrUnknownProtocol 注册中心协议不在封闭枚举内
	ErrUnknownProtocol = xerrors.New("conf: unknown registry protocol")
)
