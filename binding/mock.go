package binding

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ceyewan/anchor/conf"
	"github.com/ceyewan/anchor/xerrors"
)

// MockKind mock 指令的封闭变体集
type MockKind int

const (
	// MockNone 未配置 mock
	MockNone MockKind = iota

	// MockDefault 使用约定命名的默认 mock 实现（接口名 + "Mock"）
	MockDefault

	// MockReturn 直接返回字面值
	MockReturn

	// MockThrow 抛出指定错误，Value 为空时抛默认错误
	MockThrow

	// MockImplementation 使用指定的 mock 实现
	MockImplementation
)

// MockSpec 解析后的 mock 指令
type MockSpec struct {
	Kind MockKind

	// Value 按变体取义：MockReturn 的字面值、MockThrow 的错误类型名、
	// MockImplementation 的实现名
	Value string
}

const (
	returnPrefix = "return "
	throwPrefix  = "throw"
	failPrefix   = "fail:"
	forcePrefix  = "force:"
)

// NormalizeMock 把 mock 指令规整为规范形式
//
// 兼容规则：
//   - "return" 等价于 "return null"
//   - "true" / "default" / "fail" / "force" 都规整为 "default"
//   - "fail:" / "force:" 前缀在规整后剥除
//   - return/throw 指令中的反引号替换为双引号，方便在 XML/YAML 属性里书写
func NormalizeMock(mock string) string {
	mock = strings.TrimSpace(mock)
	if mock == "" {
		return mock
	}
	if strings.EqualFold(mock, "return") {
		return returnPrefix + "null"
	}
	if conf.IsDefaultValue(mock) || strings.EqualFold(mock, "fail") || strings.EqualFold(mock, "force") {
		return "default"
	}
	if strings.HasPrefix(mock, failPrefix) {
		mock = strings.TrimSpace(mock[len(failPrefix):])
	}
	if strings.HasPrefix(mock, forcePrefix) {
		mock = strings.TrimSpace(mock[len(forcePrefix):])
	}
	if strings.HasPrefix(mock, returnPrefix) || strings.HasPrefix(mock, throwPrefix) {
		mock = strings.ReplaceAll(mock, "`", `"`)
	}
	return mock
}

// ParseMockSpec 把 mock 指令解析为带标签的变体
func ParseMockSpec(mock string) MockSpec {
	normalized := NormalizeMock(mock)
	switch {
	case normalized == "":
		return MockSpec{Kind: MockNone}
	case normalized == "default":
		return MockSpec{Kind: MockDefault}
	case strings.HasPrefix(normalized, returnPrefix):
		return MockSpec{
			Kind:  MockReturn,
			Value: strings.TrimSpace(normalized[len(returnPrefix):]),
		}
	case strings.HasPrefix(normalized, throwPrefix):
		return MockSpec{
			Kind:  MockThrow,
			Value: strings.TrimSpace(normalized[len(throwPrefix):]),
		}
	default:
		return MockSpec{Kind: MockImplementation, Value: normalized}
	}
}

// ParseMockValue 解析 return 指令的字面值
//
// 支持的形式：
//   - "empty" 空实例占位
//   - "null" 空值
//   - "true" / "false" 布尔
//   - 带引号的字符串
//   - 数字
//   - JSON 对象与数组
//
// 其余内容按原样字符串处理。
func ParseMockValue(value string) (any, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return nil, xerrors.Wrapf(ErrIllegalMockValue, "empty return value")
	case value == "empty":
		return struct{}{}, nil
	case value == "null":
		return nil, nil
	case value == "true":
		return true, nil
	case value == "false":
		return false, nil
	case len(value) >= 2 && (value[0] == '"' && value[len(value)-1] == '"' ||
		value[0] == '\'' && value[len(value)-1] == '\''):
		return value[1 : len(value)-1], nil
	case value[0] == '{':
		var m map[string]any
		if err := json.Unmarshal([]byte(value), &m); err != nil {
			return nil, xerrors.Wrapf(ErrIllegalMockValue, "malformed object %q: %v", value, err)
		}
		return m, nil
	case value[0] == '[':
		var a []any
		if err := json.Unmarshal([]byte(value), &a); err != nil {
			return nil, xerrors.Wrapf(ErrIllegalMockValue, "malformed array %q: %v", value, err)
		}
		return a, nil
	default:
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return n, nil
		}
		return value, nil
	}
}
