package conf

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ceyewan/anchor/xerrors"
)

// LoaderOption 加载器选项
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	name      string
	paths     []string
	fileType  string
	envPrefix string
}

func defaultLoaderOptions() *loaderOptions {
	return &loaderOptions{
		name:      "anchor",
		paths:     []string{".", "./config"},
		fileType:  "yaml",
		envPrefix: "ANCHOR",
	}
}

// WithConfigName 设置配置文件名（不带扩展名）
func WithConfigName(name string) LoaderOption {
	return func(o *loaderOptions) { o.name = name }
}

// WithConfigPaths 设置配置文件搜索路径（覆盖默认值）
func WithConfigPaths(paths ...string) LoaderOption {
	return func(o *loaderOptions) { o.paths = paths }
}

// WithConfigType 设置配置文件类型 (yaml, json, properties)
func WithConfigType(typ string) LoaderOption {
	return func(o *loaderOptions) { o.fileType = typ }
}

// WithEnvPrefix 设置环境变量前缀
func WithEnvPrefix(prefix string) LoaderOption {
	return func(o *loaderOptions) { o.envPrefix = prefix }
}

// Loader 描述符文件加载器
//
// 基于 Viper 从本地文件、.env 与环境变量加载服务接口配置，
// 优先级：环境变量 > .env > 配置文件。同时可作为 PropertySource
// 供解析器回填缺省字段。
type Loader struct {
	v    *viper.Viper
	opts *loaderOptions
}

// NewLoader 创建加载器并完成加载
func NewLoader(ctx context.Context, opts ...LoaderOption) (*Loader, error) {
	options := defaultLoaderOptions()
	for _, o := range opts {
		o(options)
	}

	l := &Loader{v: viper.New(), opts: options}
	if err := l.load(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Loader) load(_ context.Context) error {
	l.v.SetConfigName(l.opts.name)
	l.v.SetConfigType(l.opts.fileType)
	for _, p := range l.opts.paths {
		l.v.AddConfigPath(p)
	}

	// 环境变量最高优先级，先行注册
	l.v.SetEnvPrefix(l.opts.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	l.v.AutomaticEnv()

	// .env 文件允许缺失
	l.loadDotEnv()

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return xerrors.Wrapf(err, "failed to read config file %s", l.opts.name)
		}
	}

	// 仅在真的读到了配置文件时才监听变更
	if l.v.ConfigFileUsed() != "" {
		l.v.OnConfigChange(func(_ fsnotify.Event) {
			l.loadDotEnv()
		})
		l.v.WatchConfig()
	}
	return nil
}

func (l *Loader) loadDotEnv() {
	_ = godotenv.Load()
	for _, p := range l.opts.paths {
		_ = godotenv.Load(filepath.Join(p, ".env"))
	}
}

// Service 反序列化服务接口配置
func (l *Loader) Service(key string) (*ServiceConfig, error) {
	var sc ServiceConfig
	if err := l.v.UnmarshalKey(key, &sc); err != nil {
		return nil, xerrors.Wrapf(err, "failed to unmarshal service config %q", key)
	}
	return &sc, nil
}

// Unmarshal 将整个配置反序列化到结构体
func (l *Loader) Unmarshal(v any) error {
	return l.v.Unmarshal(v)
}

// UnmarshalKey 将指定 key 的配置反序列化到结构体
func (l *Loader) UnmarshalKey(key string, v any) error {
	return l.v.UnmarshalKey(key, v)
}

// Lookup 实现 PropertySource，点分属性键直接透传给 Viper
func (l *Loader) Lookup(key string) (string, bool) {
	if !l.v.IsSet(key) {
		return "", false
	}
	return l.v.GetString(key), true
}

var _ PropertySource = (*Loader)(nil)
