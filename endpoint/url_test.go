package endpoint

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuilderBuild 测试构建器的基本行为
func TestBuilderBuild(t *testing.T) {
	u := NewBuilder().
		SetProtocol("etcd").
		SetHost("127.0.0.1").
		SetPort(2379).
		SetPath("anchor.registry.RegistryService").
		SetParameter("register", "true").
		Build()

	assert.Equal(t, "etcd", u.Protocol())
	assert.Equal(t, "127.0.0.1", u.Host())
	assert.Equal(t, 2379, u.Port())
	assert.Equal(t, "127.0.0.1:2379", u.Address())
	assert.Equal(t, "anchor.registry.RegistryService", u.Path())
	v, ok := u.Param("register")
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

// TestBuilderEmptyProtocol 测试空协议回填默认 RPC 协议
func TestBuilderEmptyProtocol(t *testing.T) {
	u := NewBuilder().SetHost("10.0.0.1").Build()
	assert.Equal(t, DefaultProtocol, u.Protocol())
}

// TestFromDoesNotMutateOriginal 测试 copy-with-overrides 不影响原 URL
func TestFromDoesNotMutateOriginal(t *testing.T) {
	original := NewBuilder().
		SetProtocol("zookeeper").
		SetHost("10.0.0.1").
		SetPort(2181).
		SetParameter("timeout", "3000").
		Build()

	rebuilt := From(original).
		SetParameter(RegistryKey, original.Protocol()).
		SetProtocol(RegistryScheme).
		Build()

	assert.Equal(t, "zookeeper", original.Protocol())
	assert.False(t, original.HasParam(RegistryKey))

	assert.Equal(t, RegistryScheme, rebuilt.Protocol())
	assert.Equal(t, "zookeeper", rebuilt.ParamOrDefault(RegistryKey, ""))
	assert.Equal(t, "3000", rebuilt.ParamOrDefault("timeout", ""))
}

// TestParamRoundTrip 测试参数表构建后再提取能还原
// （排除标准化注入的 registry 与协议标记键）
func TestParamRoundTrip(t *testing.T) {
	params := map[string]string{
		"application": "demo-app",
		"timeout":     "5000",
		"release":     "1.0.0",
		"register":    "false",
	}

	u := NewBuilder().
		SetProtocol("etcd").
		SetHost("127.0.0.1").
		SetPort(2379).
		SetParameters(params).
		Build()

	standardized := From(u).
		SetParameter(RegistryKey, u.Protocol()).
		SetProtocol(RegistryScheme).
		Build()

	extracted := standardized.Params()
	delete(extracted, RegistryKey)
	delete(extracted, ProtocolKey)
	assert.Equal(t, params, extracted)
}

// TestBoolParam 测试布尔参数默认值语义
func TestBoolParam(t *testing.T) {
	u := NewBuilder().
		SetHost("h").
		SetParameter("register", "false").
		Build()

	assert.False(t, u.BoolParam("register", true))
	assert.True(t, u.BoolParam("subscribe", true))
	assert.False(t, u.BoolParam("subscribe", false))
}

// TestEqualIgnoresParamOrder 测试相等性与参数顺序无关
func TestEqualIgnoresParamOrder(t *testing.T) {
	a := NewBuilder().SetHost("h").SetParameter("x", "1").SetParameter("y", "2").Build()
	b := NewBuilder().SetHost("h").SetParameter("y", "2").SetParameter("x", "1").Build()
	assert.True(t, a.Equal(b))

	c := NewBuilder().SetHost("h").SetParameter("x", "1").Build()
	assert.False(t, a.Equal(c))
}

// TestToQueryAndDecode 测试 query 编解码往返
func TestToQueryAndDecode(t *testing.T) {
	u := NewBuilder().
		SetHost("h").
		SetParameter("a", "1").
		SetParameter("b", "x y/z").
		Build()

	query := u.ToQuery()
	decoded, err := DecodeQuery(query)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "x y/z"}, decoded)
}

// TestParseURL 测试地址解析
func TestParseURL(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		defaults map[string]string
		wantErr  bool
		check    func(t *testing.T, u *URL)
	}{
		{
			name:    "full form",
			address: "etcd://127.0.0.1:2379/anchor",
			check: func(t *testing.T, u *URL) {
				assert.Equal(t, "etcd", u.Protocol())
				assert.Equal(t, "127.0.0.1", u.Host())
				assert.Equal(t, 2379, u.Port())
				assert.Equal(t, "anchor", u.Path())
			},
		},
		{
			name:     "bare address takes protocol from defaults",
			address:  "10.0.0.1:2181",
			defaults: map[string]string{ProtocolKey: "zookeeper"},
			check: func(t *testing.T, u *URL) {
				assert.Equal(t, "zookeeper", u.Protocol())
				assert.Equal(t, 2181, u.Port())
				// protocol 键被消费，不进入参数表
				assert.False(t, u.HasParam(ProtocolKey))
			},
		},
		{
			name:    "bare address falls back to default protocol",
			address: "10.0.0.1:20880",
			check: func(t *testing.T, u *URL) {
				assert.Equal(t, DefaultProtocol, u.Protocol())
			},
		},
		{
			name:    "backup addresses",
			address: "10.0.0.1:2379,10.0.0.2:2379,10.0.0.3:2379",
			check: func(t *testing.T, u *URL) {
				assert.Equal(t, "10.0.0.1", u.Host())
				assert.Equal(t, "10.0.0.2:2379,10.0.0.3:2379", u.ParamOrDefault(BackupKey, ""))
			},
		},
		{
			name:     "query params win over defaults",
			address:  "etcd://127.0.0.1:2379?timeout=9000",
			defaults: map[string]string{"timeout": "3000", "group": "g1"},
			check: func(t *testing.T, u *URL) {
				assert.Equal(t, "9000", u.ParamOrDefault("timeout", ""))
				assert.Equal(t, "g1", u.ParamOrDefault("group", ""))
			},
		},
		{
			name:    "empty address",
			address: "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseURL(tt.address, tt.defaults)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, u)
		})
	}
}

// TestParseURLs 测试多地址拆分
func TestParseURLs(t *testing.T) {
	urls, err := ParseURLs("etcd://10.0.0.1:2379 | zookeeper://10.0.0.2:2181;10.0.0.3:20880", nil)
	require.NoError(t, err)
	require.Len(t, urls, 3)
	assert.Equal(t, "etcd", urls[0].Protocol())
	assert.Equal(t, "zookeeper", urls[1].Protocol())
	assert.Equal(t, DefaultProtocol, urls[2].Protocol())
}

// TestSetParameterAndEncoded 测试转义参数嵌入
func TestSetParameterAndEncoded(t *testing.T) {
	refer := "application=demo&interface=anchor.monitor.MonitorService"
	u := NewBuilder().
		SetHost("h").
		SetParameterAndEncoded(ReferKey, refer).
		Build()

	encoded := u.ParamOrDefault(ReferKey, "")
	decoded, err := url.QueryUnescape(encoded)
	require.NoError(t, err)
	assert.Equal(t, refer, decoded)
}
