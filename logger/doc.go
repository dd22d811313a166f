// Package logger provides structured logging for modkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying the runtime's standard fields
// (run_id, module_id, order, factory).
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("bootstrap")
//	log.Info("bootstrapping module", logger.Fields(logger.FieldModuleID, "A"))
package logger
