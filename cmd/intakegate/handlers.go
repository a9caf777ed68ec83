package main

import (
	"context"
	"io"
	"net/http"

	"github.com/dapr/go-sdk/service/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/wdm0006/intakegate/internal/json"
	"github.com/wdm0006/intakegate/pkg/gate"
	loglib "github.com/wdm0006/intakegate/pkg/log"
	"github.com/wdm0006/intakegate/pkg/trigger"
)

const maxEventBytes = 1 << 20

func newRouter(g *gate.Gate, logger loglib.Logger, metrics http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics)
	r.With(render.SetContentType(render.ContentTypeJSON)).Post("/v1/process", processHandler(g, logger))
	return r
}

// processHandler accepts the same notification bodies as the binding and
// answers with the gate payload and its status code.
func processHandler(g *gate.Gate, logger loglib.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		}
		ev, err := trigger.Parse(b)
		if err != nil {
			logger.Warn(err, "rejecting process request", loglib.Fields{"request_id": middleware.GetReqID(r.Context())})
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		}
		res := g.Process(r.Context(), ev.Location)
		p := res.Payload()
		render.Status(r, p.StatusCode)
		render.JSON(w, r, p)
	}
}

// bindingHandler processes object notifications delivered by a Dapr input
// binding. Failed files are returned as errors so the binding does not
// acknowledge them; notifications that name no object are acknowledged and
// logged.
func bindingHandler(g *gate.Gate, logger loglib.Logger) common.BindingInvocationHandler {
	return func(ctx context.Context, in *common.BindingEvent) ([]byte, error) {
		ev, err := trigger.Parse(in.Data)
		if err != nil {
			logger.Warn(err, "ignoring notification", loglib.Fields{"metadata": in.Metadata})
			return nil, nil
		}
		if ev.Records > 1 {
			logger.Warn(nil, "notification carries several records, only the first is processed", loglib.Fields{"records": ev.Records})
		}
		res := g.Process(ctx, ev.Location)
		out, err := json.Marshal(res.Payload())
		if err != nil {
			return nil, err
		}
		return out, res.Err()
	}
}
