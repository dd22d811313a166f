package main

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/modkit/bootstrap"
	"github.com/kbukum/modkit/component"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/observability"
	"github.com/kbukum/modkit/runtime"
	"github.com/kbukum/modkit/statusapi"
	"github.com/kbukum/modkit/version"
)

func newRunCmd(a *app) *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bootstrap the declared modules and run until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			return a.run(cmd, wait)
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "exit once the runtime has started or was abandoned")
	return cmd
}

func (a *app) run(cmd *cobra.Command, wait bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	build := version.Get()
	shutdown, err := observability.Setup(ctx, a.cfg.Telemetry, a.cfg.Name, build.Version, a.cfg.Environment)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			a.log.Warn("telemetry shutdown failed", logger.MergeWithError(nil, err))
		}
	}()

	rt := runtime.New(a.cfg.Name).WithLogger(a.log.WithComponent("runtime"))
	b, err := bootstrap.New(a.view, processHost{name: a.cfg.Name}, rt,
		bootstrap.WithSettings(a.cfg.Runtime),
		bootstrap.WithLogger(a.log.WithComponent("bootstrap")),
	)
	if err != nil {
		return err
	}

	if a.cfg.Status.Enabled && !wait {
		status := statusapi.New(a.cfg.Status.Addr, rt,
			statusapi.WithRun(b),
			statusapi.WithService(a.cfg.Name, build.Short()),
			statusapi.WithLogger(a.log.WithComponent("status-api")),
		)
		if err := status.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = status.Stop(context.Background()) }()
	}

	report, err := b.Run(ctx)
	if err != nil {
		return err
	}
	report.WriteSummary(cmd.OutOrStdout())

	if wait {
		res, err := b.Wait(ctx)
		if err == nil {
			cmd.Printf("runtime %s\n", res.State)
			err = res.Err
		}
		return stderrors.Join(err, a.stopRuntime(rt))
	}

	<-ctx.Done()
	a.log.Info("shutting down")
	return a.stopRuntime(rt)
}

func (a *app) stopRuntime(rt *runtime.Runtime) error {
	ctx, cancel := context.WithTimeout(context.Background(), component.StopTimeout)
	defer cancel()
	return rt.Stop(ctx)
}
