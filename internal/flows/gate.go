package flows

// GateDeps carries the redirect target and message for blocked actions.
type GateDeps struct {
	Warning  string
	Redirect string
}

// GateResult is the flow-local navigation decision.
type GateResult struct {
	Allowed  bool
	Warning  string
	Redirect string
}

// RunGate allows write navigation only for an authenticated session. The
// decision is advisory; the backend enforces authorization.
func RunGate(authenticated bool, deps GateDeps) GateResult {
	if authenticated {
		return GateResult{Allowed: true}
	}
	return GateResult{
		Warning:  deps.Warning,
		Redirect: deps.Redirect,
	}
}
