package connector

import (
	"time"

	"github.com/ceyewan/anchor/xerrors"
)

// EtcdConfig Etcd 连接配置
type EtcdConfig struct {
	// 基础配置（可选，有默认值）
	Name            string        `mapstructure:"name"`              // 连接器名称 (默认: "default")
	MaxRetries      int           `mapstructure:"max_retries"`       // 最大重试次数 (默认: 3)
	RetryInterval   time.Duration `mapstructure:"retry_interval"`    // 重试间隔 (默认: 1s)
	HealthCheckFreq time.Duration `mapstructure:"health_check_freq"` // 健康检查频率 (默认: 30s)

	// 核心配置
	Endpoints []string `mapstructure:"endpoints"` // [必填] 连接地址列表
	Username  string   `mapstructure:"username"`  // [可选] 认证用户
	Password  string   `mapstructure:"password"`  // [可选] 认证密码

	// 高级配置（可选，有默认值）
	DialTimeout      time.Duration `mapstructure:"dial_timeout"`       // 连接超时 (默认: 5s)
	KeepAliveTime    time.Duration `mapstructure:"keep_alive_time"`    // 心跳间隔 (默认: 10s)
	KeepAliveTimeout time.Duration `mapstructure:"keep_alive_timeout"` // 心跳超时 (默认: 3s)
}

// setDefaults 设置默认值
func (c *EtcdConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryInterval == 0 {
		c.RetryInterval = time.Second
	}
	if c.HealthCheckFreq == 0 {
		c.HealthCheckFreq = 30 * time.Second
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.KeepAliveTime == 0 {
		c.KeepAliveTime = 10 * time.Second
	}
	if c.KeepAliveTimeout == 0 {
		c.KeepAliveTimeout = 3 * time.Second
	}
}

// validate 校验必填项并填充默认值
func (c *EtcdConfig) validate() error {
	c.setDefaults()
	if len(c.Endpoints) == 0 {
		return xerrors.Wrapf(ErrConfig, "etcd endpoints must not be empty")
	}
	return nil
}
