package main

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/modkit/config"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/util"
)

const serviceName = "modkit"

// app holds the flags and the configuration loaded from them.
type app struct {
	configFile  string
	envFile     string
	modulesFile string
	namespace   string
	viewPrefix  string

	cfg  config.ServiceConfig
	view config.View
	log  *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Discover, build and start configured modules",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "service config file (default: search ./config.yml)")
	flags.StringVar(&a.envFile, "env-file", "", ".env file overlaid with MODKIT_ variables")
	flags.StringVarP(&a.modulesFile, "modules", "m", "", "flat key/value file modules are declared in")
	flags.StringVar(&a.namespace, "namespace", "", "module key namespace; resets the enabled key to <namespace>.enabled")
	flags.StringVar(&a.viewPrefix, "modules-env-prefix", "", "overlay PREFIX_A_B variables as module keys a.b")

	root.AddCommand(
		newRunCmd(a),
		newResolveCmd(a),
		newScopeCmd(a),
		newFactoriesCmd(),
		newVersionCmd(),
	)
	return root
}

// load reads the service configuration and the module view.
func (a *app) load(cmd *cobra.Command) error {
	opts := []config.LoaderOption{config.WithEnvPrefix("MODKIT")}
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	if a.envFile != "" {
		opts = append(opts, config.WithEnvFile(a.envFile))
	}
	if err := config.LoadConfig(serviceName, &a.cfg, opts...); err != nil {
		return err
	}

	a.cfg.Name = util.Coalesce(a.cfg.Name, serviceName)
	a.cfg.Logging.Output = util.Coalesce(a.cfg.Logging.Output, "stderr")
	if a.modulesFile != "" {
		a.cfg.Runtime.ModulesFile = a.modulesFile
	}
	if a.namespace != "" {
		a.cfg.Runtime.Namespace = a.namespace
		a.cfg.Runtime.EnabledKey = ""
	}
	a.cfg.ApplyDefaults()
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.log = logger.NewWithWriter(&a.cfg.Logging, a.cfg.Name, a.logWriter(cmd))
	logger.SetGlobalLogger(a.log)

	var viewOpts []config.LoaderOption
	if a.viewPrefix != "" {
		viewOpts = append(viewOpts, config.WithEnvPrefix(a.viewPrefix))
	}
	view, err := config.LoadView(a.cfg.Runtime.ModulesFile, viewOpts...)
	if err != nil {
		return err
	}
	a.view = view
	return nil
}

func (a *app) logWriter(cmd *cobra.Command) io.Writer {
	if a.cfg.Logging.Output == "stdout" {
		return cmd.OutOrStdout()
	}
	return cmd.ErrOrStderr()
}

// processHost is the host of a standalone runtime: the modkit process
// itself, which is usable as soon as it runs.
type processHost struct {
	name string
}

func (h processHost) Name() string { return h.name }

func (processHost) IsAvailable(context.Context, time.Duration) bool { return true }
