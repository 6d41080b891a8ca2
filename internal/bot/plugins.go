package bot

import (
	"fmt"
	"log/slog"
)

// Plugin is one command module. Setup registers its handlers on the
// bot. Module is an optional info flag; when present its value is
// logged at load time (presence confirmation only, no other contract).
type Plugin struct {
	Name   string
	Module string
	Setup  func(*Bot) error
}

// loadPlugins runs every plugin's Setup strictly in list order. The
// first failure aborts startup; no ordering dependency exists between
// plugins beyond the list itself.
func (b *Bot) loadPlugins() error {
	for _, p := range b.plugins {
		if p.Setup == nil {
			return fmt.Errorf("plugin %q has no setup function", p.Name)
		}
		if err := p.Setup(b); err != nil {
			return fmt.Errorf("load plugin %q: %w", p.Name, err)
		}
		if p.Module != "" {
			slog.Debug("plugin module loaded", "plugin", p.Name, "module", p.Module)
		}
	}
	return nil
}
