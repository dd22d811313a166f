package bootstrap

import (
	"fmt"
	"io"
	"time"

	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/factory"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/module"
)

// Module statuses reported in ModuleStatus.Status.
const (
	StatusRegistered = "registered"
	StatusFailed     = "failed"
)

// ModuleStatus is the outcome of one declared module.
type ModuleStatus struct {
	ID       string            `json:"id"`
	Order    int               `json:"order"`
	Factory  string            `json:"factory"`
	Status   string            `json:"status"`
	Error    *errors.ErrorBody `json:"error,omitempty"`
	Duration time.Duration     `json:"duration"`
}

// Report describes a bootstrap run up to the end of registration.
type Report struct {
	RunID       string              `json:"run_id"`
	Namespace   string              `json:"namespace"`
	Disabled    bool                `json:"disabled"`
	Descriptors []module.Descriptor `json:"descriptors"`
	Ties        []int               `json:"ties,omitempty"`
	Modules     []ModuleStatus      `json:"modules"`
	StartedAt   time.Time           `json:"started_at"`
	Duration    time.Duration       `json:"duration"`
}

// track appends the status of a finished module build.
func (r *Report) track(out factory.Outcome) {
	ms := ModuleStatus{
		ID:       out.Descriptor.ID,
		Order:    out.Descriptor.Order,
		Factory:  out.Descriptor.FactoryRef,
		Status:   StatusRegistered,
		Duration: out.Duration,
	}
	if out.Err != nil {
		body := errors.BodyOf(out.Err)
		ms.Status = StatusFailed
		ms.Error = &body
	}
	r.Modules = append(r.Modules, ms)
}

// Registered returns the number of modules registered with the runtime.
func (r *Report) Registered() int {
	n := 0
	for _, m := range r.Modules {
		if m.Status == StatusRegistered {
			n++
		}
	}
	return n
}

// Failed returns the number of modules that could not be bootstrapped.
func (r *Report) Failed() int {
	return len(r.Modules) - r.Registered()
}

// LogSummary writes one info event with the run totals.
func (r *Report) LogSummary(log *logger.Logger) {
	log.Info("bootstrap summary", logger.MergeWithDuration(logger.Fields(
		logger.FieldRunID, r.RunID,
		"declared", len(r.Descriptors),
		"registered", r.Registered(),
		"failed", r.Failed(),
		"ties", len(r.Ties),
	), r.Duration))
}

// WriteSummary prints a human-readable tree of the run to w.
func (r *Report) WriteSummary(w io.Writer) {
	if r.Disabled {
		fmt.Fprintf(w, "⏸️  runtime disabled (%s)\n", r.Namespace)
		return
	}

	fmt.Fprintf(w, "\n📦 Modules (%s) resolved in %.2fs\n", r.Namespace, r.Duration.Seconds())
	for i, m := range r.Modules {
		prefix := "├──"
		if i == len(r.Modules)-1 {
			prefix = "└──"
		}
		fmt.Fprintf(w, "   %s %s %s [%d] %s", prefix, statusIcon(m.Status), m.ID, m.Order, m.Factory)
		if m.Error != nil {
			fmt.Fprintf(w, ": %s", m.Error.Code)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	for _, order := range r.Ties {
		fmt.Fprintf(w, "⚠️  order %d declared by more than one module\n", order)
	}

	total := len(r.Modules)
	if failed := r.Failed(); failed == 0 {
		fmt.Fprintf(w, "✅ All modules registered (%d/%d)\n", total, total)
	} else {
		fmt.Fprintf(w, "⚠️  Some modules failed (%d/%d registered)\n", total-failed, total)
	}
}

func statusIcon(status string) string {
	if status == StatusRegistered {
		return "✅"
	}
	return "❌"
}
