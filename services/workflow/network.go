package workflow

// Network identifies the execution network a workflow runs against.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkDevnet  Network = "devnet"
)

// ValidNetwork reports whether the given string names a known network.
func ValidNetwork(network string) bool {
	switch Network(network) {
	case NetworkMainnet, NetworkDevnet:
		return true
	}
	return false
}

// devnetAllowed lists the step types that can run on devnet. Swap routing
// and price oracles are only served on mainnet.
var devnetAllowed = map[string]bool{
	"timer_trigger":   true,
	"webhook_trigger": true,
	"wallet_transfer": true,
	"notification":    true,
	"http_request":    true,
	"branch":          true,
	"delay":           true,
	"wallet_balance":  true,
}

// IsCompatible reports whether a step type can execute on the given
// network. Every step type is compatible with mainnet; devnet is limited
// to a fixed allow-list.
func IsCompatible(stepType string, network Network) bool {
	if network == NetworkDevnet {
		return devnetAllowed[stepType]
	}
	return true
}

// IncompatibleTypes filters a batch of step types down to those that
// cannot run on the given network, preserving input order and dropping
// duplicates. Used to surface advisory warnings before a run.
func IncompatibleTypes(stepTypes []string, network Network) []string {
	var out []string
	seen := make(map[string]bool, len(stepTypes))
	for _, t := range stepTypes {
		if seen[t] {
			continue
		}
		seen[t] = true
		if !IsCompatible(t, network) {
			out = append(out, t)
		}
	}
	return out
}
