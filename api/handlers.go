package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskbook-api/domain"
)

var (
	errInvalidID   = &domain.Error{Kind: domain.KindValidation, Message: "Identificador inválido."}
	errInvalidBody = &domain.Error{Kind: domain.KindValidation, Message: "Cuerpo de la solicitud inválido."}
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, svc Services, logger *log.Logger) {
	registerResource(e.Group("/tasks"), "tasks", svc.Tasks, svc.Deduper, logger)
	registerResource(e.Group("/notes"), "notes", svc.Notes, svc.Deduper, logger)
	e.GET("/status", getStatus(svc.Status, logger))
	e.GET("/healthz", healthz(svc.Health, logger))
}

func registerResource[In any](g *echo.Group, scope string, svc Resource[In], deduper Deduper, logger *log.Logger) {
	h := resourceHandlers[In]{scope: scope, svc: svc, deduper: deduper, logger: logger}
	g.GET("", h.list)
	g.GET("/search/:query", h.search)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

type resourceHandlers[In any] struct {
	scope   string
	svc     Resource[In]
	deduper Deduper
	logger  *log.Logger
}

func (h resourceHandlers[In]) list(c echo.Context) error {
	return h.run(c, func(ctx context.Context) (domain.Envelope, error) {
		return h.svc.List(ctx)
	})
}

func (h resourceHandlers[In]) search(c echo.Context) error {
	query := c.Param("query")
	return h.run(c, func(ctx context.Context) (domain.Envelope, error) {
		return h.svc.Search(ctx, query)
	})
}

func (h resourceHandlers[In]) get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, domain.Fail(errInvalidID))
	}
	return h.run(c, func(ctx context.Context) (domain.Envelope, error) {
		return h.svc.Get(ctx, id)
	})
}

func (h resourceHandlers[In]) create(c echo.Context) error {
	in, ok := decodeBody[In](c)
	if !ok {
		return c.JSON(http.StatusBadRequest, domain.Fail(errInvalidBody))
	}

	ctx := c.Request().Context()
	key := c.Request().Header.Get(headerIdempotencyKey)
	recorded := false
	if key != "" && h.deduper != nil {
		added, err := h.deduper.Add(ctx, h.scope, key)
		switch {
		case err != nil:
			h.logger.WithError(err).WithField("scope", h.scope).Warn("idempotency check failed; processing request")
		case !added:
			metricsFrom(c).SetErrorStage("duplicate")
			return c.JSON(http.StatusConflict, domain.Fail(domain.ErrDuplicateRequest))
		default:
			recorded = true
		}
	}

	return h.run(c, func(ctx context.Context) (domain.Envelope, error) {
		env, err := h.svc.Create(ctx, in)
		if recorded && (err != nil || !env.OK()) {
			if rerr := h.deduper.Remove(ctx, h.scope, key); rerr != nil {
				h.logger.WithError(rerr).WithField("scope", h.scope).Warn("failed to release idempotency key")
			}
		}
		return env, err
	})
}

func (h resourceHandlers[In]) update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, domain.Fail(errInvalidID))
	}
	in, ok := decodeBody[In](c)
	if !ok {
		return c.JSON(http.StatusBadRequest, domain.Fail(errInvalidBody))
	}
	return h.run(c, func(ctx context.Context) (domain.Envelope, error) {
		return h.svc.Update(ctx, id, in)
	})
}

func (h resourceHandlers[In]) delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, domain.Fail(errInvalidID))
	}
	return h.run(c, func(ctx context.Context) (domain.Envelope, error) {
		return h.svc.Delete(ctx, id)
	})
}

// run calls the service and writes the envelope. Store failures are logged
// and answered with a 500 envelope.
func (h resourceHandlers[In]) run(c echo.Context, call func(context.Context) (domain.Envelope, error)) error {
	return respond(c, h.logger, call)
}

func respond(c echo.Context, logger *log.Logger, call func(context.Context) (domain.Envelope, error)) error {
	metrics := metricsFrom(c)
	start := time.Now()
	env, err := call(c.Request().Context())
	metrics.ObserveStore(time.Since(start))
	if err != nil {
		metrics.SetErrorStage("store")
		metrics.SetCause(err)
		logger.WithError(err).WithField("route", c.Path()).Error("request failed")
		env = domain.Internal()
	}
	switch msg := env.Message.(type) {
	case []domain.Task:
		metrics.SetItemsReturned(len(msg))
	case []domain.Note:
		metrics.SetItemsReturned(len(msg))
	}
	return c.JSON(env.Code, env)
}

func getStatus(st StatusReporter, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		return respond(c, logger, st.Status)
	}
}

func healthz(p Pinger, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := p.Ping(c.Request().Context()); err != nil {
			logger.WithError(err).Warn("health check failed")
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	}
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeBody reads the JSON request body. An empty body decodes to the zero
// value so missing fields are reported by service validation.
func decodeBody[In any](c echo.Context) (In, bool) {
	var in In
	data, err := io.ReadAll(c.Request().Body)
	if err == nil && len(bytes.TrimSpace(data)) > 0 {
		err = sonic.Unmarshal(data, &in)
	}
	if err != nil {
		metricsFrom(c).SetErrorStage("decode")
		return in, false
	}
	return in, true
}
