package types

// TradingFormState is implemented by the per-form phase enumerations. A
// state is "active" when the form is doing work in it (running a call
// phase, determining a price, trading continuously).
type TradingFormState interface {
	String() string
	Active() bool
}

// AuctionState enumerates the phases of an auction trading form.
type AuctionState int

const (
	AuctionStateInactive AuctionState = iota
	AuctionStateCallRunning
	AuctionStateCallStopped
	AuctionStatePriceDeterminationRunning
	AuctionStatePriceDeterminationStopped
	AuctionStateOrderbookBalancingRunning
	AuctionStateOrderbookBalancingStopped
)

var auctionStateNames = map[AuctionState]string{
	AuctionStateInactive:                  "INACTIVE",
	AuctionStateCallRunning:               "CALL_RUNNING",
	AuctionStateCallStopped:               "CALL_STOPPED",
	AuctionStatePriceDeterminationRunning: "PRICE_DETERMINATION_RUNNING",
	AuctionStatePriceDeterminationStopped: "PRICE_DETERMINATION_STOPPED",
	AuctionStateOrderbookBalancingRunning: "ORDERBOOK_BALANCING_RUNNING",
	AuctionStateOrderbookBalancingStopped: "ORDERBOOK_BALANCING_STOPPED",
}

func (s AuctionState) String() string {
	return auctionStateNames[s]
}

// Active reports whether the auction is in one of its running phases.
func (s AuctionState) Active() bool {
	switch s {
	case AuctionStateCallRunning,
		AuctionStatePriceDeterminationRunning,
		AuctionStateOrderbookBalancingRunning:
		return true
	}
	return false
}

// ContinuousTradingState enumerates the phases of the continuous form.
type ContinuousTradingState int

const (
	ContinuousTradingStateStopped ContinuousTradingState = iota
	ContinuousTradingStateRunning
)

func (s ContinuousTradingState) String() string {
	if s == ContinuousTradingStateRunning {
		return "RUNNING"
	}
	return "STOPPED"
}

func (s ContinuousTradingState) Active() bool {
	return s == ContinuousTradingStateRunning
}

// TransitionTable maps a state to the set of states directly reachable from
// it. The table is total over every state that can become current; a state
// with no successors maps to an empty slice. Self-transitions are never
// listed, they are always permitted as no-ops.
type TransitionTable map[TradingFormState][]TradingFormState

// Allowed reports whether to is directly reachable from from.
func (t TransitionTable) Allowed(from, to TradingFormState) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Targets returns the successor set for from, nil when the state is
// terminal.
func (t TransitionTable) Targets(from TradingFormState) []TradingFormState {
	return t[from]
}
