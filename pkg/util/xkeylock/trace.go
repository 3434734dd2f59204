package xkeylock

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "xkeylock"

	// instrumentationVersion 随 span 与 meter 上报的插桩版本
	instrumentationVersion = "0.1.0"

	spanNameAcquire = "xkeylock.Acquire"
)

// Span 属性名称，metrics 复用同一前缀
const (
	attrKey     = "xkeylock.key"
	attrSeq     = "xkeylock.seq"
	attrOutcome = "xkeylock.outcome"
	attrReason  = "xkeylock.reason"
)

// getTracer 如果配置了 TracerProvider 则使用它，否则使用全局默认
func getTracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(tracerName, trace.WithInstrumentationVersion(instrumentationVersion))
}

// startSpan 为一次获取创建 span，span 在结果交付时结束。
func startSpan(ctx context.Context, tracer trace.Tracer, key string, seq uint64) (context.Context, trace.Span) {
	return tracer.Start(ctx, spanNameAcquire,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(attrKey, key),
			attribute.Int64(attrSeq, int64(seq)), //nolint:gosec // 序号不会超过 int64
		),
	)
}

// endSpan 记录错误并结束 span，span 为 nil 时忽略。
func endSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
