package binding

import "github.com/ceyewan/anchor/xerrors"

// 预定义错误
var (
	// ErrInterfaceNotFound 接口未登记
	ErrInterfaceNotFound = xerrors.New("binding: interface not found")

	// ErrMethodNotFound 方法不在接口的方法集中
	ErrMethodNotFound = xerrors.New("binding: method not found")

	// ErrImplementationNotFound 实现未登记
	ErrImplementationNotFound = xerrors.New("binding: implementation not found")

	// ErrNotImplements 实现未声明目标接口
	ErrNotImplements = xerrors.New("binding: implementation does not implement interface")

	// ErrNoConstructor 实现缺少要求的构造工厂
	ErrNoConstructor = xerrors.New("binding: missing constructor")

	// ErrIllegalMockValue return 指令的字面值非法
	ErrIllegalMockValue = xerrors.New("binding: illegal mock value")

	// ErrIllegalMockThrow throw 指令指向未登记的错误类型
	ErrIllegalMockThrow = xerrors.New("binding: illegal mock throw")
)
