package services

import "github.com/whitebox/cryptomonitor/internal/core/domain"

// ConnectivitySvcFacade is the network-reachability feed consumed by the
// refresher and the HTTP layer to decide whether a fresh fetch is worth
// requesting.
type ConnectivitySvcFacade interface {
	// Status returns the most recently observed reachability state.
	Status() domain.NetworkStatus

	// Updates delivers a value on every status transition. The channel is
	// closed when the feed shuts down.
	Updates() <-chan domain.NetworkStatus
}
