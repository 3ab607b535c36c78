package configcenter

import "github.com/ceyewan/anchor/xerrors"

// 预定义错误
var (
	// ErrUnsupportedBackend 配置中心协议没有对应的提供者工厂
	ErrUnsupportedBackend = xerrors.New("configcenter: unsupported backend")

	// ErrFetchFailed 从配置中心拉取内容失败
	ErrFetchFailed = xerrors.New("configcenter: fetch failed")

	// ErrRemoteConfigParse 远端配置内容不是合法的 properties 文本
	// 此错误是致命的，解析不得带着不完整的外部配置继续
	ErrRemoteConfigParse = xerrors.New("configcenter: failed to parse remote config")
)
