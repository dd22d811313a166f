package statusapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/modkit/bootstrap"
	"github.com/kbukum/modkit/component"
	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/observability"
	"github.com/kbukum/modkit/version"
)

// HealthSource reports the health of every registered module.
// *runtime.Runtime implements it.
type HealthSource interface {
	Health(ctx context.Context) []component.Health
}

// RunSource exposes a bootstrap run. *bootstrap.Bootstrapper implements it.
type RunSource interface {
	State() bootstrap.State
	Result() bootstrap.Result
	Report() *bootstrap.Report
}

// ModulesResponse is the body of GET /modules.
type ModulesResponse struct {
	State  bootstrap.State   `json:"state"`
	Error  *errors.ErrorBody `json:"error,omitempty"`
	Report *bootstrap.Report `json:"report"`
}

func (s *Server) handleHealth(c *gin.Context) {
	sh := observability.NewServiceHealth(s.service, s.version)
	if s.health != nil {
		for _, h := range s.health.Health(c.Request.Context()) {
			sh.AddComponent(h)
		}
	}
	if s.run != nil {
		state := s.run.State()
		sh.State = state.String()
		if state == bootstrap.StateAbandoned {
			sh.MarkDown()
		}
	}

	status := http.StatusOK
	if sh.Status == observability.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, sh)
}

func (s *Server) handleModules(c *gin.Context) {
	if s.run == nil {
		c.JSON(http.StatusNotFound, errors.New(errors.ErrCodeInternal, "no bootstrap run attached").ToBody())
		return
	}

	res := s.run.Result()
	body := ModulesResponse{State: res.State, Report: s.run.Report()}
	if res.Err != nil {
		eb := errors.BodyOf(res.Err)
		body.Error = &eb
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
