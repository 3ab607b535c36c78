package binding

import (
	"github.com/ceyewan/anchor/conf"
	"github.com/ceyewan/anchor/xerrors"
)

// 约定的默认实现名后缀
const (
	localSuffix = "Local"
	stubSuffix  = "Stub"
	mockSuffix  = "Mock"
)

// CheckInterfaceAndMethods 校验接口已登记且所有方法级配置都指向真实方法
func CheckInterfaceAndMethods(c *Catalog, ifaceName string, methods []*conf.MethodConfig) error {
	if ifaceName == "" {
		return xerrors.Wrapf(ErrInterfaceNotFound, "interface name is required")
	}
	desc, ok := c.Interface(ifaceName)
	if !ok {
		return xerrors.Wrapf(ErrInterfaceNotFound, "interface %s is not registered", ifaceName)
	}
	for _, m := range methods {
		if m == nil || m.Name == "" {
			return xerrors.Wrapf(ErrMethodNotFound, "method name is required on interface %s", ifaceName)
		}
		if !desc.HasMethod(m.Name) {
			return xerrors.Wrapf(ErrMethodNotFound,
				"interface %s has no method %s, please check interface registration", ifaceName, m.Name)
		}
	}
	return nil
}

// CheckMock 校验 mock 指令合法
//
// 错误信息回显完整的原始指令，方便在配置里定位。
func CheckMock(c *Catalog, ifaceName, mock string) error {
	spec := ParseMockSpec(mock)
	switch spec.Kind {
	case MockNone:
		return nil

	case MockReturn:
		if _, err := ParseMockValue(spec.Value); err != nil {
			return xerrors.Wrapf(ErrIllegalMockValue, "illegal mock return %q on interface %s: %v", mock, ifaceName, err)
		}
		return nil

	case MockThrow:
		if spec.Value == "" {
			return nil
		}
		if _, ok := c.Throwable(spec.Value); !ok {
			return xerrors.Wrapf(ErrIllegalMockThrow,
				"illegal mock throw %q on interface %s: throwable %s is not registered", mock, ifaceName, spec.Value)
		}
		return nil

	case MockDefault, MockImplementation:
		name := spec.Value
		if spec.Kind == MockDefault {
			name = ifaceName + mockSuffix
		}
		impl, ok := c.Implementation(name)
		if !ok {
			return xerrors.Wrapf(ErrImplementationNotFound,
				"mock implementation %s for interface %s is not registered", name, ifaceName)
		}
		if !impl.implementsInterface(ifaceName) {
			return xerrors.Wrapf(ErrNotImplements,
				"mock implementation %s does not implement interface %s", name, ifaceName)
		}
		if impl.New == nil {
			return xerrors.Wrapf(ErrNoConstructor,
				"mock implementation %s must register a no-arg constructor", name)
		}
		return nil
	}
	return nil
}

// CheckStubAndLocal 校验 local 与 stub 槽位
//
// 槽位值为 "true" 或 "default" 时按约定补全实现名：接口名加 Local/Stub 后缀。
// 实现必须已登记、声明实现该接口，并带有接收目标实例的包装构造。
func CheckStubAndLocal(c *Catalog, ifaceName, local, stub string) error {
	if local != "" {
		if err := checkWrapper(c, ifaceName, local, localSuffix); err != nil {
			return err
		}
	}
	if stub != "" {
		if err := checkWrapper(c, ifaceName, stub, stubSuffix); err != nil {
			return err
		}
	}
	return nil
}

func checkWrapper(c *Catalog, ifaceName, value, suffix string) error {
	name := value
	if conf.IsDefaultValue(value) {
		name = ifaceName + suffix
	}
	impl, ok := c.Implementation(name)
	if !ok {
		return xerrors.Wrapf(ErrImplementationNotFound,
			"%s implementation %s for interface %s is not registered", suffix, name, ifaceName)
	}
	if !impl.implementsInterface(ifaceName) {
		return xerrors.Wrapf(ErrNotImplements,
			"%s implementation %s does not implement interface %s", suffix, name, ifaceName)
	}
	if impl.Wrap == nil {
		return xerrors.Wrapf(ErrNoConstructor,
			"%s implementation %s must register a wrap constructor func(%s) %s", suffix, name, ifaceName, ifaceName)
	}
	return nil
}
