// Package builtin registers the templates shipped with pnpgraph.
package builtin

import (
	"fmt"

	"github.com/kylerisse/pnpgraph/pkg/template"
	"github.com/kylerisse/pnpgraph/pkg/template/cpu"
	"github.com/kylerisse/pnpgraph/pkg/template/memory"
	"github.com/kylerisse/pnpgraph/pkg/template/netstat"
	"github.com/kylerisse/pnpgraph/pkg/template/sensors"
)

// Commands maps check commands to the built-in template that graphs them.
var Commands = map[string]template.Template{
	"check_sensors":     sensors.Template,
	"check_openmanage":  sensors.Template,
	"check_ipmi_sensor": sensors.Template,
	"check_cpu":         cpu.Template,
	"check_memory":      memory.Template,
	"stat_net":          netstat.Template,
}

// Register adds every built-in template to reg.
func Register(reg *template.Registry) error {
	for command, t := range Commands {
		if err := reg.Register(command, t); err != nil {
			return fmt.Errorf("registering built-in template %s: %w", t.Name(), err)
		}
	}
	return nil
}

// NewRegistry returns a registry holding the built-in templates.
func NewRegistry() *template.Registry {
	reg := template.NewRegistry()
	// Commands has unique keys, so registration into a fresh registry
	// cannot fail.
	_ = Register(reg)
	return reg
}
