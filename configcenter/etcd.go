package configcenter

import (
	"context"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/ceyewan/anchor/conf"
	"github.com/ceyewan/anchor/connector"
	"github.com/ceyewan/anchor/endpoint"
	"github.com/ceyewan/anchor/xerrors"
)

func init() {
	RegisterFactory(conf.ProtocolEtcd, newEtcdProvider)
}

// etcdProvider 基于 etcd 的配置中心提供者
//
// 配置文件按键 <namespace>/<group>/<file> 存放，值是 properties 文本。
type etcdProvider struct {
	conn      connector.EtcdConnector
	namespace string
	timeout   time.Duration
}

func newEtcdProvider(ctx context.Context, u *endpoint.URL) (Provider, error) {
	cfg := &connector.EtcdConfig{
		Name:      "configcenter",
		Endpoints: append([]string{u.Address()}, backups(u)...),
		Username:  u.Username(),
		Password:  u.Password(),
	}
	if ms, err := strconv.Atoi(u.ParamOrDefault("timeout", "")); err == nil && ms > 0 {
		cfg.DialTimeout = time.Duration(ms) * time.Millisecond
	}

	conn, err := connector.NewEtcd(cfg)
	if err != nil {
		return nil, err
	}
	if err := conn.Connect(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	ns := u.ParamOrDefault("namespace", "/anchor/config")
	timeout := 3 * time.Second
	if cfg.DialTimeout > 0 {
		timeout = cfg.DialTimeout
	}
	return &etcdProvider{conn: conn, namespace: ns, timeout: timeout}, nil
}

func backups(u *endpoint.URL) []string {
	if b := u.ParamOrDefault(endpoint.BackupKey, ""); b != "" {
		return splitComma(b)
	}
	return nil
}

func splitComma(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FetchProperties 读取键 <namespace>/<group>/<file>
func (p *etcdProvider) FetchProperties(ctx context.Context, file, group string) (string, error) {
	key := path.Join(p.namespace, group, file)

	getCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.conn.GetClient().Get(getCtx, key)
	if err != nil {
		return "", xerrors.Wrapf(ErrFetchFailed, "etcd get %s: %v", key, err)
	}
	if len(resp.Kvs) == 0 {
		return "", nil
	}
	return string(resp.Kvs[0].Value), nil
}

// Close 关闭底层连接
func (p *etcdProvider) Close() error {
	return p.conn.Close()
}
