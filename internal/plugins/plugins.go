// Package plugins enumerates the command plugins compiled into the
// bot. Load order is the list order; a broken plugin aborts startup.
package plugins

import (
	"github.com/nekoprojects/nekobot/internal/bot"
	"github.com/nekoprojects/nekobot/internal/plugins/pin"
	"github.com/nekoprojects/nekobot/internal/plugins/ping"
	"github.com/nekoprojects/nekobot/internal/plugins/staff"
	"github.com/nekoprojects/nekobot/internal/plugins/stats"
)

// All returns the plugins loaded at startup, in load order.
func All() []bot.Plugin {
	return []bot.Plugin{
		ping.Plugin(),
		stats.Plugin(),
		staff.Plugin(),
		pin.Plugin(),
	}
}
