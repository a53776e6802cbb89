package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/devi/internal/middleware"
	"github.com/deppfellow/devi/internal/server"
	"github.com/deppfellow/devi/internal/validation"
)

// Handler is the base handler type that holds shared application dependencies.
//
// Concrete handlers embed it to reach config and logger through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// logger returns the request-scoped logger, or the server logger on routes
// mounted without the context enhancer.
func (h Handler) logger(c echo.Context) *zerolog.Logger {
	if _, ok := c.Get(middleware.LoggerKey).(*zerolog.Logger); ok || h.server == nil || h.server.Logger == nil {
		return middleware.GetLogger(c)
	}
	return h.server.Logger
}

// HandlerFunc is a typed endpoint: it receives a bound, validated payload
// and returns the response body or an error.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is a typed endpoint that writes no response body.
type HandlerFuncNoContent[Req validation.Validatable] func(c echo.Context, req Req) error

// payload constrains Req to a pointer to its struct type T, so a fresh
// payload can be allocated for every request.
type payload[T any] interface {
	*T
	validation.Validatable
}

// ResponseHandler writes a successful result.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error

	// GetOperation names the response kind in logs.
	GetOperation() string
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

// NoContentResponseHandler writes responses with no body (typically 204).
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, _ any) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

// handleRequest is the shared pipeline for every typed endpoint: bind and
// validate, run the handler, log timings, write the response.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	base *zerolog.Logger,
	req Req,
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()

	logger := base.With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", c.Path()).
		Logger()

	logger.Debug().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		logger.Warn().
			Err(err).
			Dur("validation_duration", time.Since(validationStart)).
			Msg("request validation failed")
		return err
	}
	validationDuration := time.Since(validationStart)

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		// The global error handler logs the error itself with its status.
		logger.Debug().
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")
		return err
	}

	logger.Debug().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle wraps a typed handler into an echo.HandlerFunc that answers with
// status and the JSON result.
//
//	router.POST("/users", handler.Handle(h, h.CreateUser, http.StatusCreated))
func Handle[T any, Req payload[T], Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, h.logger(c), Req(new(T)), func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoContent is Handle for endpoints that return no body.
func HandleNoContent[T any, Req payload[T]](
	h Handler,
	handler HandlerFuncNoContent[Req],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, h.logger(c), Req(new(T)), func(c echo.Context, req Req) (any, error) {
			return nil, handler(c, req)
		}, NoContentResponseHandler{status: status})
	}
}
