package factory

import "github.com/kbukum/modkit/validation"

// refPattern admits dotted, slashed or dashed references such as
// "modkit.heartbeat" or "acme/indexer-v2".
const refPattern = `^[A-Za-z0-9][A-Za-z0-9._/:-]*$`

func validateRef(ref string) error {
	v := validation.New().
		Required("factory", ref).
		NoWhitespace("factory", ref).
		MaxLength("factory", ref, 512).
		Pattern("factory", ref, refPattern)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
