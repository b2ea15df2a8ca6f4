package replay

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

// HookPosAccess is a hook position that triggers after one address is
// simulated. The hook context carries the trace event as the item and the
// AccessResult as the detail.
var HookPosAccess = &HookPos{Name: "Access"}

// HookPosEvent is a hook position that triggers after all the accesses of
// one trace event complete. The hook context carries the trace event as the
// item and the slice of AccessResults as the detail.
var HookPosEvent = &HookPos{Name: "Event"}

// HookCtx is the context that holds all the information about the site that
// a hook is triggered.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable defines an object that accepts Hooks.
type Hookable interface {
	// AcceptHook registers a hook.
	AcceptHook(hook Hook)
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// A HookableBase provides some utility function for other types that
// implement the Hookable interface.
type HookableBase struct {
	Hooks []Hook
}

// NewHookableBase creates a HookableBase object.
func NewHookableBase() *HookableBase {
	h := new(HookableBase)
	h.Hooks = make([]Hook, 0)
	return h
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// InvokeHook triggers the registered Hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
