// Package endpoint 提供 Anchor 运行时统一的端点描述符。
//
// URL 是不可变的规范化描述符，注册中心、监控中心、元数据中心的地址
// 都以 URL 的形式在各组件之间传递。URL 一旦构建就不再修改，
// 任何变更都通过 Builder 复制重建。
//
// 基本使用：
//
//	u := endpoint.NewBuilder().
//	    SetProtocol("etcd").
//	    SetHost("127.0.0.1").
//	    SetPort(2379).
//	    SetParameter("register", "true").
//	    Build()
//
//	standardized := endpoint.From(u).
//	    SetParameter(endpoint.RegistryKey, u.Protocol()).
//	    SetProtocol(endpoint.RegistryScheme).
//	    Build()
package endpoint

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

const (
	// DefaultProtocol Anchor 运行时的默认 RPC 传输协议
	DefaultProtocol = "anchor"

	// RegistryScheme 标准化后注册中心 URL 的统一协议名
	// 下游组件依据此协议统一分发，真实后端协议保存在 RegistryKey 参数中
	RegistryScheme = "registry"

	// AnyHost 通配主机，匹配任意本机地址
	AnyHost = "0.0.0.0"

	// RegistryKey 标准化时承载原始注册中心协议的参数名
	RegistryKey = "registry"

	// ProtocolKey 传输协议参数名
	ProtocolKey = "protocol"

	// BackupKey 备用地址参数名
	BackupKey = "backup"

	// ReferKey 监控中心间接寻址时承载引用参数的参数名
	ReferKey = "refer"

	// RegisterKey 提供方注册开关参数名，默认 true
	RegisterKey = "register"

	// SubscribeKey 消费方订阅开关参数名，默认 true
	SubscribeKey = "subscribe"

	// InterfaceKey 服务接口名参数名
	InterfaceKey = "interface"

	// RegisterIPKey 上报到注册中心的本机地址参数名
	RegisterIPKey = "register.ip"

	// PathKey 缺省参数表中承载 URL 路径的保留键
	PathKey = "path"
)

// URL 不可变的端点描述符
//
// 包含协议、主机、端口、路径和参数表。参数键唯一；
// 参数顺序不影响相等性判断，但在序列化时保持稳定。
type URL struct {
	protocol string
	username string
	password string
	host     string
	port     int
	path     string
	params   map[string]string
	keys     []string // 参数序列化顺序
}

// Protocol 返回协议名，保证非空
func (u *URL) Protocol() string { return u.protocol }

// Username 返回用户名
func (u *URL) Username() string { return u.username }

// Password 返回密码
func (u *URL) Password() string { return u.password }

// Host 返回主机
func (u *URL) Host() string { return u.host }

// Port 返回端口，0 表示未指定
func (u *URL) Port() int { return u.port }

// Path 返回路径（不含前导斜杠）
func (u *URL) Path() string { return u.path }

// Address 返回 host:port 形式的地址；端口未指定时仅返回 host
func (u *URL) Address() string {
	if u.port <= 0 {
		return u.host
	}
	return fmt.Sprintf("%s:%d", u.host, u.port)
}

// Param 返回参数值及其是否存在
func (u *URL) Param(key string) (string, bool) {
	v, ok := u.params[key]
	return v, ok
}

// ParamOrDefault 返回参数值，不存在时返回默认值
func (u *URL) ParamOrDefault(key, def string) string {
	if v, ok := u.params[key]; ok {
		return v
	}
	return def
}

// BoolParam 将参数按布尔值解释，不存在或为空时返回默认值
func (u *URL) BoolParam(key string, def bool) bool {
	v, ok := u.params[key]
	if !ok || v == "" {
		return def
	}
	return v == "true"
}

// Params 返回参数表的副本
func (u *URL) Params() map[string]string {
	out := make(map[string]string, len(u.params))
	for k, v := range u.params {
		out[k] = v
	}
	return out
}

// ParamKeys 返回参数键的序列化顺序副本
func (u *URL) ParamKeys() []string {
	return append([]string{}, u.keys...)
}

// HasParam 判断参数是否存在
func (u *URL) HasParam(key string) bool {
	_, ok := u.params[key]
	return ok
}

// Equal 判断两个 URL 是否相等，参数顺序不参与比较
func (u *URL) Equal(other *URL) bool {
	if u == nil || other == nil {
		return u == other
	}
	if u.protocol != other.protocol || u.username != other.username ||
		u.password != other.password || u.host != other.host ||
		u.port != other.port || u.path != other.path {
		return false
	}
	if len(u.params) != len(other.params) {
		return false
	}
	for k, v := range u.params {
		if ov, ok := other.params[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// ToQuery 将参数表编码为 query string 形式（按序列化顺序，值经过转义）
func (u *URL) ToQuery() string {
	return EncodeQuery(u.params, u.keys)
}

// String 返回完整的 URL 字符串表示
func (u *URL) String() string {
	var sb strings.Builder
	sb.WriteString(u.protocol)
	sb.WriteString("://")
	if u.username != "" {
		sb.WriteString(u.username)
		if u.password != "" {
			sb.WriteString(":")
			sb.WriteString(u.password)
		}
		sb.WriteString("@")
	}
	sb.WriteString(u.Address())
	if u.path != "" {
		sb.WriteString("/")
		sb.WriteString(u.path)
	}
	if len(u.params) > 0 {
		sb.WriteString("?")
		sb.WriteString(u.ToQuery())
	}
	return sb.String()
}

// EncodeQuery 将参数表编码为 k=v&k=v 形式
//
// keys 指定编码顺序；keys 中缺失的参数按字典序补在末尾。
func EncodeQuery(params map[string]string, keys []string) string {
	if len(params) == 0 {
		return ""
	}
	seen := make(map[string]bool, len(params))
	ordered := make([]string, 0, len(params))
	for _, k := range keys {
		if _, ok := params[k]; ok && !seen[k] {
			ordered = append(ordered, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range params {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	ordered = append(ordered, rest...)

	parts := make([]string, 0, len(ordered))
	for _, k := range ordered {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(params[k]))
	}
	return strings.Join(parts, "&")
}

// DecodeQuery 将 query string 解码为参数表
func DecodeQuery(query string) (map[string]string, error) {
	out := make(map[string]string)
	if query == "" {
		return out, nil
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return nil, err
	}
	for k, vs := range values {
		if len(vs) > 0 {
			out[k] = vs[len(vs)-1]
		}
	}
	return out, nil
}
