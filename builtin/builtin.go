package builtin

import (
	"context"

	"github.com/kbukum/modkit/component"
	"github.com/kbukum/modkit/factory"
	"github.com/kbukum/modkit/module"
)

// Factory references.
const (
	NoopRef      = "modkit.noop"
	HeartbeatRef = "modkit.heartbeat"
)

func init() {
	Register(factory.Default)
}

// Register adds the built-in factories to reg. It panics if one of the
// references is already taken.
func Register(reg *factory.Registry) {
	reg.MustRegister(NoopRef, func() (factory.Factory, error) {
		return factory.Func(buildNoop), nil
	})
	reg.MustRegister(HeartbeatRef, func() (factory.Factory, error) {
		return factory.Func(buildHeartbeat), nil
	})
}

func buildNoop(_ context.Context, id string, _ module.Scoped, _ factory.Host) (component.Component, error) {
	c := component.NewFuncs(id, nil, nil)
	c.Description = &component.Description{Name: id, Type: "noop"}
	return c, nil
}
