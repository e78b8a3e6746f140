package domain

// NetworkStatus is the reachability signal fed to the sync layer. It only
// decides whether a refresh asks for a remote fetch; the engine itself never
// probes the network.
type NetworkStatus int

const (
	NetworkStatusUnknown NetworkStatus = iota
	NetworkStatusConnected
	NetworkStatusDisconnected
)

func (s NetworkStatus) String() string {
	switch s {
	case NetworkStatusConnected:
		return "connected"
	case NetworkStatusDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}
