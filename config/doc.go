// Package config provides configuration for modkit hosts.
//
// Two kinds of configuration are handled here. ServiceConfig is the typed
// process configuration (name, logging, runtime settings), loaded with Viper
// from config.yml, a .env file and the environment. View is the flat
// string-keyed snapshot module discovery works on: every module declaration,
// every module-private setting and every global setting, as plain strings.
//
// # Usage
//
//	var cfg config.ServiceConfig
//	err := config.LoadConfig("graph-host", &cfg, config.WithEnvPrefix("MODKIT"))
//	cfg.ApplyDefaults()
//
//	view, err := config.LoadView(cfg.Runtime.ModulesFile)
//	enabled := view.Bool(cfg.Runtime.EnabledKey)
package config
