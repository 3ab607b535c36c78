// Package metrics 为 Anchor 提供统一的指标收集能力。
// 基于 OpenTelemetry 标准构建，提供简洁的 Counter、Histogram 指标接口。
//
// 快速开始：
//
//	meter, err := metrics.New(&metrics.Config{
//	    Enabled:     true,
//	    ServiceName: "anchor",
//	    Version:     "v1.0.0",
//	})
//	defer meter.Shutdown(ctx)
//
//	counter, _ := meter.Counter("resolutions_total", "配置解析总次数")
//	counter.Inc(ctx, metrics.L("outcome", "success"))
package metrics

import "context"

// Counter 计数器接口
// 用于记录只能增加的累计值，例如解析次数、错误次数等
type Counter interface {
	// Inc 将计数器增加 1
	Inc(ctx context.Context, labels ...Label)

	// Add 将计数器增加给定的值
	Add(ctx context.Context, val float64, labels ...Label)
}

// Histogram 直方图接口
// 用于记录值的分布情况，例如解析耗时
type Histogram interface {
	// Record 记录一个观测值
	Record(ctx context.Context, val float64, labels ...Label)
}

// Meter 指标工厂接口
type Meter interface {
	// Counter 创建计数器
	Counter(name string, desc string) (Counter, error)

	// Histogram 创建直方图
	Histogram(name string, desc string) (Histogram, error)

	// Shutdown 关闭 Meter，刷新所有指标
	Shutdown(ctx context.Context) error
}

// Label 指标标签结构体
// 用于为指标添加维度信息，实现指标的细粒度分组和筛选
type Label struct {
	// Key 标签键，建议使用小写字母、数字和下划线
	Key string

	// Value 标签值，避免高基数（大量唯一值）的标签
	Value string
}

// L 便捷构造函数，创建一个 Label 实例
//
// 使用示例：
//
//	counter.Inc(ctx, metrics.L("outcome", "error"))
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}
