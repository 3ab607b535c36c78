package binding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/anchor/conf"
	"github.com/ceyewan/anchor/xerrors"
)

const ifaceName = "demo.UserService"

func newTestCatalog() *Catalog {
	c := NewCatalog()
	c.RegisterInterface(ifaceName, "GetUser", "ListUsers")
	return c
}

func TestNormalizeMock(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"  ", ""},
		{"return", "return null"},
		{"RETURN", "return null"},
		{"true", "default"},
		{"default", "default"},
		{"fail", "default"},
		{"force", "default"},
		{"fail:return 1", "return 1"},
		{"force:throw demo.BizError", "throw demo.BizError"},
		{"return `ok`", `return "ok"`},
		{"demo.UserServiceMock", "demo.UserServiceMock"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMock(tt.input))
		})
	}
}

func TestParseMockSpec(t *testing.T) {
	tests := []struct {
		input string
		kind  MockKind
		value string
	}{
		{"", MockNone, ""},
		{"true", MockDefault, ""},
		{"return null", MockReturn, "null"},
		{"return {\"a\":1}", MockReturn, "{\"a\":1}"},
		{"throw", MockThrow, ""},
		{"throw demo.BizError", MockThrow, "demo.BizError"},
		{"demo.UserServiceMock", MockImplementation, "demo.UserServiceMock"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			spec := ParseMockSpec(tt.input)
			assert.Equal(t, tt.kind, spec.Kind)
			assert.Equal(t, tt.value, spec.Value)
		})
	}
}

func TestParseMockValue(t *testing.T) {
	v, err := ParseMockValue("null")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = ParseMockValue("true")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = ParseMockValue(`"hello"`)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	v, err = ParseMockValue("3.14")
	require.NoError(t, err)
	assert.Equal(t, 3.14, v)

	v, err = ParseMockValue(`{"code":1}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"code": float64(1)}, v)

	v, err = ParseMockValue(`[1,2]`)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2)}, v)

	_, err = ParseMockValue("{malformed")
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrIllegalMockValue))

	_, err = ParseMockValue("")
	require.Error(t, err)
}

func TestCheckInterfaceAndMethods(t *testing.T) {
	c := newTestCatalog()

	require.NoError(t, CheckInterfaceAndMethods(c, ifaceName, nil))
	require.NoError(t, CheckInterfaceAndMethods(c, ifaceName, []*conf.MethodConfig{{Name: "GetUser"}}))

	err := CheckInterfaceAndMethods(c, "demo.Unknown", nil)
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrInterfaceNotFound))

	err = CheckInterfaceAndMethods(c, ifaceName, []*conf.MethodConfig{{Name: "Missing"}})
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrMethodNotFound))

	err = CheckInterfaceAndMethods(c, ifaceName, []*conf.MethodConfig{{}})
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrMethodNotFound))
}

func TestCheckMockReturn(t *testing.T) {
	c := newTestCatalog()

	require.NoError(t, CheckMock(c, ifaceName, ""))
	require.NoError(t, CheckMock(c, ifaceName, "return null"))
	require.NoError(t, CheckMock(c, ifaceName, "return"))
	require.NoError(t, CheckMock(c, ifaceName, `return {"a":1}`))

	err := CheckMock(c, ifaceName, "return {malformed")
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrIllegalMockValue))
	// 错误信息回显原始指令
	assert.Contains(t, err.Error(), "return {malformed")
}

func TestCheckMockThrow(t *testing.T) {
	c := newTestCatalog()
	c.RegisterThrowable("demo.BizError", func(msg string) error {
		return errors.New(msg)
	})

	require.NoError(t, CheckMock(c, ifaceName, "throw"))
	require.NoError(t, CheckMock(c, ifaceName, "throw demo.BizError"))

	err := CheckMock(c, ifaceName, "throw demo.Unregistered")
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrIllegalMockThrow))
	assert.Contains(t, err.Error(), "throw demo.Unregistered")
}

func TestCheckMockImplementation(t *testing.T) {
	c := newTestCatalog()
	c.RegisterImplementation(&Implementation{
		Name:       ifaceName + "Mock",
		Implements: []string{ifaceName},
		New:        func() any { return struct{}{} },
	})

	// "true" 规整为 default，按约定查 demo.UserServiceMock
	require.NoError(t, CheckMock(c, ifaceName, "true"))
	require.NoError(t, CheckMock(c, ifaceName, ifaceName+"Mock"))

	err := CheckMock(c, ifaceName, "demo.Nope")
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrImplementationNotFound))

	c.RegisterImplementation(&Implementation{
		Name:       "demo.WrongIface",
		Implements: []string{"demo.Other"},
		New:        func() any { return struct{}{} },
	})
	err = CheckMock(c, ifaceName, "demo.WrongIface")
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrNotImplements))

	c.RegisterImplementation(&Implementation{
		Name:       "demo.NoCtor",
		Implements: []string{ifaceName},
	})
	err = CheckMock(c, ifaceName, "demo.NoCtor")
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrNoConstructor))
}

func TestCheckStubAndLocal(t *testing.T) {
	c := newTestCatalog()
	c.RegisterImplementation(&Implementation{
		Name:       ifaceName + "Stub",
		Implements: []string{ifaceName},
		Wrap:       func(target any) any { return target },
	})

	// "true" 按约定补全为 demo.UserServiceStub
	require.NoError(t, CheckStubAndLocal(c, ifaceName, "", "true"))
	require.NoError(t, CheckStubAndLocal(c, ifaceName, "", ifaceName+"Stub"))
	require.NoError(t, CheckStubAndLocal(c, ifaceName, "", ""))

	// local 槽位要求 Local 后缀的实现
	err := CheckStubAndLocal(c, ifaceName, "default", "")
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrImplementationNotFound))
	assert.Contains(t, err.Error(), ifaceName+"Local")

	// 缺包装构造时错误信息给出期望的签名
	c.RegisterImplementation(&Implementation{
		Name:       "demo.PlainStub",
		Implements: []string{ifaceName},
	})
	err = CheckStubAndLocal(c, ifaceName, "", "demo.PlainStub")
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrNoConstructor))
	assert.Contains(t, err.Error(), "func("+ifaceName+") "+ifaceName)
}
