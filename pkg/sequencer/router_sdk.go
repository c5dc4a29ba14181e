package sequencer

import (
	"github.com/yggdrasil-au/remake-operator/pkg/events"
	"github.com/yggdrasil-au/remake-operator/pkg/sdk"
)

// withRouter returns a copy of base whose Emit/Output sinks forward
// through router, so every event an operation raises is tagged with the
// current game/operation (spec §4.11 "Event routing") without disturbing
// base's policy, supervisor, or prompt hook.
func withRouter(base *sdk.SDK, router *events.Router) *sdk.SDK {
	return sdk.New(base.Policy, base.Supervisor, router.Emit, router.Output, base.Prompt)
}
