package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/openkcm/common-sdk/pkg/otlp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	slogctx "github.com/veqryn/slog-context"

	"github.com/shopfront/storefront-manager/internal/config"
)

func pingHandlerFunc(cfg *config.Config) func(http.ResponseWriter, *http.Request) {
	traceAttrs := otlp.CreateAttributesFrom(cfg.Application,
		attribute.String(commoncfg.AttrOperation, "ping"),
	)

	tracer := otel.Tracer("PingHandler", trace.WithInstrumentationAttributes(traceAttrs...))

	return func(w http.ResponseWriter, req *http.Request) {
		// Request Id will be propagated through all method calls of this HTTP handler
		ctx := slogctx.With(req.Context(),
			commoncfg.AttrRequestID, uuid.New().String(),
			commoncfg.AttrOperation, "ping",
		)

		parentCtx := otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(req.Header))

		ctx, span := tracer.Start(
			parentCtx,
			"ping-span",
			trace.WithAttributes(traceAttrs...),
		)
		defer span.End()

		requestStartTime := time.Now()

		defer func() {
			elapsedTime := time.Since(requestStartTime)

			attrs := metric.WithAttributes(
				otlp.CreateAttributesFrom(cfg.Application,
					attribute.String("userAgent", req.UserAgent()),
					attribute.String(commoncfg.AttrOperation, "ping"),
				)...,
			)

			if counter != nil {
				counter.Add(ctx, 1, attrs)
			}
			if hist != nil {
				hist.Record(ctx, elapsedTime.Milliseconds(), attrs)
			}
		}()

		slogctx.Info(ctx, "Starting ping request")

		w.Header().Set("Content-Type", "application/json")

		if _, err := w.Write([]byte(`{ "result": "ping" }`)); err != nil {
			return
		}

		slogctx.Info(ctx, "Finished ping request")
	}
}
