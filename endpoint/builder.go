package endpoint

import "net/url"

// Builder URL 构建器
//
// URL 不可变，所有构建与改写都经由 Builder 完成。
// From 复制一个既有 URL 的全部状态，Build 生成新的 URL，
// 原 URL 不受影响。
type Builder struct {
	protocol string
	username string
	password string
	host     string
	port     int
	path     string
	params   map[string]string
	keys     []string
}

// NewBuilder 创建空构建器
func NewBuilder() *Builder {
	return &Builder{params: make(map[string]string)}
}

// From 以既有 URL 为起点创建构建器（copy-with-overrides）
func From(u *URL) *Builder {
	b := &Builder{
		protocol: u.protocol,
		username: u.username,
		password: u.password,
		host:     u.host,
		port:     u.port,
		path:     u.path,
		params:   make(map[string]string, len(u.params)),
		keys:     append([]string{}, u.keys...),
	}
	for k, v := range u.params {
		b.params[k] = v
	}
	return b
}

// SetProtocol 设置协议
func (b *Builder) SetProtocol(protocol string) *Builder {
	b.protocol = protocol
	return b
}

// SetUsername 设置用户名
func (b *Builder) SetUsername(username string) *Builder {
	b.username = username
	return b
}

// SetPassword 设置密码
func (b *Builder) SetPassword(password string) *Builder {
	b.password = password
	return b
}

// SetHost 设置主机
func (b *Builder) SetHost(host string) *Builder {
	b.host = host
	return b
}

// SetPort 设置端口
func (b *Builder) SetPort(port int) *Builder {
	b.port = port
	return b
}

// SetPath 设置路径
func (b *Builder) SetPath(path string) *Builder {
	b.path = path
	return b
}

// SetParameter 设置参数，已存在时覆盖值但保持原有顺序
func (b *Builder) SetParameter(key, value string) *Builder {
	if _, ok := b.params[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.params[key] = value
	return b
}

// SetParameterIfAbsent 仅在参数不存在时设置
func (b *Builder) SetParameterIfAbsent(key, value string) *Builder {
	if _, ok := b.params[key]; !ok {
		b.SetParameter(key, value)
	}
	return b
}

// SetParameters 批量设置参数，按字典序合入以保证确定性
func (b *Builder) SetParameters(params map[string]string) *Builder {
	for _, k := range sortedKeys(params) {
		b.SetParameter(k, params[k])
	}
	return b
}

// SetParameterAndEncoded 设置经过百分号转义的参数值
//
// 用于把序列化后的参数表（例如监控中心的 refer）嵌入另一个 URL。
func (b *Builder) SetParameterAndEncoded(key, value string) *Builder {
	return b.SetParameter(key, url.QueryEscape(value))
}

// RemoveParameter 删除参数
func (b *Builder) RemoveParameter(key string) *Builder {
	if _, ok := b.params[key]; ok {
		delete(b.params, key)
		for i, k := range b.keys {
			if k == key {
				b.keys = append(b.keys[:i], b.keys[i+1:]...)
				break
			}
		}
	}
	return b
}

// Build 生成不可变 URL
//
// 协议为空时回填默认 RPC 协议，保证 URL 的协议永不为空。
func (b *Builder) Build() *URL {
	protocol := b.protocol
	if protocol == "" {
		protocol = DefaultProtocol
	}
	u := &URL{
		protocol: protocol,
		username: b.username,
		password: b.password,
		host:     b.host,
		port:     b.port,
		path:     b.path,
		params:   make(map[string]string, len(b.params)),
		keys:     append([]string{}, b.keys...),
	}
	for k, v := range b.params {
		u.params[k] = v
	}
	return u
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// 字典序保证批量合入的结果可复现
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
