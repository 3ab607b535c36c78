package endpoint

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/ceyewan/anchor/xerrors"
)

// 多注册中心地址分隔符：竖线或分号，允许两侧空白
var urlSplitPattern = regexp.MustCompile(`\s*[|;]+\s*`)

// 解析地址时被消费、不进入参数表的键
var reservedKeys = []string{ProtocolKey, "username", "password", "host", "port", PathKey}

// ParseURL 将地址字符串和默认参数表解析为一个 URL
//
// 地址支持三种形式：
//   - 完整形式：etcd://127.0.0.1:2379/path
//   - 裸地址：127.0.0.1:2379（协议取 defaults 中的 protocol，否则取默认 RPC 协议）
//   - 带备用地址：127.0.0.1:2379,127.0.0.2:2379（第一段为主地址，其余进入 backup 参数）
//
// defaults 中的 protocol/username/password/host/port/path 键用于补全对应
// 成分后被消费，其余键在 URL 自身参数缺失时合入。URL 自带的 query 参数优先。
func ParseURL(address string, defaults map[string]string) (*URL, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "address is empty")
	}

	segments := strings.Split(address, ",")
	main := strings.TrimSpace(segments[0])

	if !strings.Contains(main, "://") {
		proto := defaults[ProtocolKey]
		if proto == "" {
			proto = DefaultProtocol
		}
		main = proto + "://" + main
	}

	parsed, err := url.Parse(main)
	if err != nil {
		return nil, xerrors.Wrapf(err, "malformed address %q", address)
	}

	b := NewBuilder().
		SetProtocol(parsed.Scheme).
		SetHost(parsed.Hostname())

	// 地址中缺失的成分由默认参数表补全
	if p := strings.TrimPrefix(parsed.Path, "/"); p != "" {
		b.SetPath(p)
	} else {
		b.SetPath(defaults[PathKey])
	}
	if parsed.User != nil {
		b.SetUsername(parsed.User.Username())
		if pw, ok := parsed.User.Password(); ok {
			b.SetPassword(pw)
		}
	} else if uname := defaults["username"]; uname != "" {
		b.SetUsername(uname)
		b.SetPassword(defaults["password"])
	}
	if portStr := parsed.Port(); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, xerrors.Wrapf(err, "invalid port in address %q", address)
		}
		b.SetPort(port)
	} else if portStr := defaults["port"]; portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			b.SetPort(port)
		}
	}

	// 默认参数先合入，URL 自带的 query 参数后合入以取得优先权
	merged := make(map[string]string, len(defaults))
	for k, v := range defaults {
		merged[k] = v
	}
	for _, k := range reservedKeys {
		delete(merged, k)
	}
	b.SetParameters(merged)

	query, err := DecodeQuery(parsed.RawQuery)
	if err != nil {
		return nil, xerrors.Wrapf(err, "malformed query in address %q", address)
	}
	b.SetParameters(query)

	if len(segments) > 1 {
		backups := make([]string, 0, len(segments)-1)
		for _, s := range segments[1:] {
			if s = strings.TrimSpace(s); s != "" {
				backups = append(backups, s)
			}
		}
		if len(backups) > 0 {
			b.SetParameter(BackupKey, strings.Join(backups, ","))
		}
	}

	return b.Build(), nil
}

// ParseURLs 按竖线或分号拆分地址串，每段解析为一个 URL
func ParseURLs(address string, defaults map[string]string) ([]*URL, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "address is empty")
	}

	var urls []*URL
	for _, segment := range urlSplitPattern.Split(address, -1) {
		if segment == "" {
			continue
		}
		u, err := ParseURL(segment, defaults)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}
