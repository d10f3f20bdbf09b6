package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	intakex "github.com/estateplan/intake-agent/agent/agents/intake"
	contractx "github.com/estateplan/intake-agent/agent/contract"
)

type Config struct {
	Addr string `envconfig:"ADDR" split_words:"true" default:":8080"`
}

// Server exposes the intake agent over HTTP. Errors never surface as bare
// HTTP failures: callers always get a structured AgentResponse body.
type Server struct {
	echo  *echo.Echo
	agent *intakex.Agent
	addr  string
}

func NewServer(agent *intakex.Agent, cfg Config) (*Server, error) {
	if agent == nil {
		return nil, errors.New("intake agent is required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			log.Info().
				Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start)).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("http request")
			return err
		}
	})

	s := &Server{
		echo:  e,
		agent: agent,
		addr:  cfg.Addr,
	}

	e.GET("/healthz", s.handleHealth)
	e.POST("/invocations", s.handleInvoke)

	return s, nil
}

func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleInvoke(c echo.Context) error {
	var req contractx.InvokeRequest
	if err := c.Bind(&req); err != nil {
		log.Warn().Err(err).Msg("invalid invocation body")
		return c.JSON(http.StatusBadRequest, errorResponse("I could not read that request. Please try again."))
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	resp, err := s.agent.HandleMessage(c.Request().Context(), req)
	if err != nil {
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("intake turn failed")
		body := errorResponse("I apologize, but I encountered an error while processing your request. Please try again shortly.")
		body.Metadata = map[string]any{"session_id": req.SessionID}
		return c.JSON(statusFor(err), body)
	}

	return c.JSON(http.StatusOK, resp)
}

func errorResponse(message string) contractx.AgentResponse {
	return contractx.AgentResponse{
		Status:  contractx.StatusError,
		Message: message,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, intakex.ErrInvalidPrompt), errors.Is(err, intakex.ErrInvalidSession):
		return http.StatusBadRequest
	case errors.Is(err, contractx.ErrModelInvoke), errors.Is(err, contractx.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
