package resolver

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// 运行时参数键，注入到每个解析产出的 URL 中
const (
	protocolVersionKey = "protocol.version"
	releaseKey         = "release"
	timestampKey       = "timestamp"
	pidKey             = "pid"
)

const (
	// ProtocolVersion 当前线上协议版本
	ProtocolVersion = "1.0"

	// Release 框架版本号
	Release = "0.4.0"
)

// RuntimeInfo 提供解析需要的进程与环境信息
//
// 默认实现取真实进程信息；测试可注入固定值以获得确定性的 URL。
type RuntimeInfo interface {
	// PID 当前进程号
	PID() int

	// ProtocolVersion 线上协议版本
	ProtocolVersion() string

	// Release 框架版本号
	Release() string

	// Now 当前时间
	Now() time.Time

	// LocalHost 本机对外地址
	LocalHost() string
}

type stdRuntime struct{}

// DefaultRuntime 返回取真实进程信息的 RuntimeInfo
func DefaultRuntime() RuntimeInfo { return stdRuntime{} }

func (stdRuntime) PID() int                { return os.Getpid() }
func (stdRuntime) ProtocolVersion() string { return ProtocolVersion }
func (stdRuntime) Release() string         { return Release }
func (stdRuntime) Now() time.Time          { return time.Now() }

func (stdRuntime) LocalHost() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return "127.0.0.1"
}

// appendRuntimeParameters 写入进程维度的运行时参数
func appendRuntimeParameters(m map[string]string, rt RuntimeInfo) {
	m[protocolVersionKey] = rt.ProtocolVersion()
	m[releaseKey] = rt.Release()
	m[timestampKey] = strconv.FormatInt(rt.Now().UnixMilli(), 10)
	m[pidKey] = strconv.Itoa(rt.PID())
}

// isInvalidLocalHost 判断地址不适合上报到注册中心
func isInvalidLocalHost(host string) bool {
	return host == "" ||
		strings.EqualFold(host, "localhost") ||
		host == "0.0.0.0" ||
		strings.HasPrefix(host, "127.")
}
