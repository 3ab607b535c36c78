package clog

import (
	"testing"
)

// TestParseLevel 测试级别解析
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"warn", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"fatal", FatalLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestNew 测试 Logger 创建
func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "nil config (uses defaults)", config: nil, wantErr: false},
		{name: "json format", config: &Config{Level: "debug", Format: "json"}, wantErr: false},
		{name: "console format", config: &Config{Level: "info", Format: "console"}, wantErr: false},
		{name: "invalid level", config: &Config{Level: "verbose"}, wantErr: true},
		{name: "invalid format", config: &Config{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

// TestWithNamespace 测试命名空间层级拼接
func TestWithNamespace(t *testing.T) {
	logger, err := New(&Config{Level: "info", Format: "json"}, WithNamespace("anchor"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	child := logger.WithNamespace("resolver", "registry")
	impl, ok := child.(*loggerImpl)
	if !ok {
		t.Fatal("expected *loggerImpl")
	}
	if impl.namespace != "anchor.resolver.registry" {
		t.Errorf("namespace = %q, want anchor.resolver.registry", impl.namespace)
	}
}

// TestDiscard 测试静默 Logger
func TestDiscard(t *testing.T) {
	logger := Discard()
	// 所有方法都不应 panic
	logger.Info("ignored", String("k", "v"))
	logger.Error("ignored", Error(nil))
	if logger.With(String("a", "b")) != logger {
		t.Error("Discard().With should return itself")
	}
}
