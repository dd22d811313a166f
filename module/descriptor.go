package module

import "fmt"

// Descriptor names a module to build, its build order and its factory.
type Descriptor struct {
	ID         string `json:"id"`
	Order      int    `json:"order"`
	FactoryRef string `json:"factory"`
	// Key is the declaration key the descriptor was read from.
	Key string `json:"key"`
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s(order=%d, factory=%s)", d.ID, d.Order, d.FactoryRef)
}
