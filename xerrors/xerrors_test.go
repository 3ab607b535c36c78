package xerrors

import (
	"errors"
	"testing"
)

// TestWrap 测试错误包装
func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	base := New("boom")
	wrapped := Wrap(base, "loading registry")
	if !Is(wrapped, base) {
		t.Error("wrapped error should match base via Is")
	}
	if got := wrapped.Error(); got != "loading registry: boom" {
		t.Errorf("unexpected message: %s", got)
	}
}

// TestWrapf 测试格式化包装
func TestWrapf(t *testing.T) {
	base := ErrNotFound
	err := Wrapf(base, "registry %q", "beijing")
	if !Is(err, ErrNotFound) {
		t.Error("Wrapf should preserve the error chain")
	}
	if got := err.Error(); got != `registry "beijing": not found` {
		t.Errorf("unexpected message: %s", got)
	}
}

// TestWithCode 测试错误码包装与提取
func TestWithCode(t *testing.T) {
	if WithCode(nil, "X") != nil {
		t.Error("WithCode(nil) should return nil")
	}

	err := WithCode(New("bad address"), "REGISTRY_INVALID")
	if GetCode(err) != "REGISTRY_INVALID" {
		t.Errorf("GetCode = %q, want REGISTRY_INVALID", GetCode(err))
	}

	// 错误码可以隔着多层包装提取
	deep := Wrap(err, "resolve")
	if GetCode(deep) != "REGISTRY_INVALID" {
		t.Errorf("GetCode through wrap = %q", GetCode(deep))
	}

	var coded *CodedError
	if !As(deep, &coded) {
		t.Error("As should find CodedError in chain")
	}
	if GetCode(errors.New("plain")) != "" {
		t.Error("GetCode on plain error should be empty")
	}
}
