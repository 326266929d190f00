// Package api serves Rain programs over HTTP. Each request executes in its
// own machine; the service holds no state between requests.
package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"github.com/elpinal/rain-vm/version"
	"github.com/elpinal/rain-vm/vm"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ServerConfig struct {
	ListenerAddr string
	Logger       *zap.Logger
}

type Server struct {
	ServerConfig

	logger *zap.Logger
}

func NewServer(config ServerConfig) (*Server, error) {
	if config.Logger == nil {
		config.Logger, _ = zap.NewDevelopment()
	}
	s := &Server{
		ServerConfig: config,
		logger:       config.Logger.Named("api"),
	}

	return s, nil
}

func (s *Server) Start() error {
	s.logger.Info("api server starting",
		zap.String("addr", s.ListenerAddr))

	return s.echoServer().Start(s.ListenerAddr)
}

func (s *Server) echoServer() *echo.Echo {
	echoer := echo.New()
	echoer.HideBanner = true

	echoer.POST("/execute", s.handleExecute)
	echoer.GET("/versions", s.handleVersions)
	echoer.GET("/versions/:byte", s.handleVersion)

	return echoer
}

type executeRequest struct {
	// Base64-encoded program image: version byte plus instruction stream.
	Program string `json:"program"`
}

type executeResponse struct {
	Result uint32 `json:"result"`
}

func (s *Server) handleExecute(ectx echo.Context) error {
	var req executeRequest
	if err := ectx.Bind(&req); err != nil {
		return ectx.JSON(http.StatusBadRequest,
			map[string]any{
				"error": err.Error(),
			})
	}

	program, err := base64.StdEncoding.DecodeString(req.Program)
	if err != nil {
		return ectx.JSON(http.StatusBadRequest,
			map[string]any{
				"error": err.Error(),
			})
	}

	result, err := vm.Execute(program, vm.LoggerOpt(s.logger))
	if err != nil {
		s.logger.Debug("execution failed",
			zap.Error(err))
		return ectx.JSON(http.StatusUnprocessableEntity,
			map[string]any{
				"error": err.Error(),
				"kind":  errorKind(err),
			})
	}

	return ectx.JSON(http.StatusOK, executeResponse{Result: result})
}

func (s *Server) handleVersions(ectx echo.Context) error {
	out := make(map[string]string)
	for b, v := range version.Versions() {
		out[strconv.Itoa(int(b))] = v
	}
	return ectx.JSON(http.StatusOK, out)
}

func (s *Server) handleVersion(ectx echo.Context) error {
	val := ectx.Param("byte")

	n, err := strconv.Atoi(val)
	if err != nil || n < 0 || n > 255 {
		return ectx.JSON(http.StatusBadRequest,
			map[string]any{
				"error": "version must be a byte",
			})
	}

	v, ok := version.Lookup(byte(n))
	if !ok {
		return ectx.JSON(http.StatusNotFound,
			map[string]any{
				"error": "unsupported version: " + val,
			})
	}

	return ectx.JSON(http.StatusOK,
		map[string]any{
			"byte":    n,
			"version": v,
		})
}

// errorKind maps the machine's typed error kinds to stable strings for
// clients that switch on them rather than parsing messages.
func errorKind(err error) string {
	var (
		mismatch vm.VersionMismatchError
		noInst   vm.NoSuchInstructionError
		noReg    vm.NoSuchRegisterError
		noJump   vm.NowhereToJumpError
	)
	switch {
	case errors.Is(err, vm.ErrMissingVersion):
		return "missing-version"
	case errors.As(err, &mismatch):
		return "version-mismatch"
	case errors.Is(err, vm.ErrUnexpectedEndOfProgram):
		return "unexpected-end-of-program"
	case errors.Is(err, vm.ErrTruncatedWord):
		return "truncated-word"
	case errors.As(err, &noInst):
		return "no-such-instruction"
	case errors.As(err, &noReg):
		return "no-such-register"
	case errors.As(err, &noJump):
		return "nowhere-to-jump"
	case errors.Is(err, vm.ErrNoResult):
		return "no-result"
	}
	return "internal"
}
