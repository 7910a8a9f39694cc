package schedule

import (
	"github.com/pkg/errors"

	"github.com/halcyonmkt/halcyon/markets"
	"github.com/halcyonmkt/halcyon/types"
)

// ErrUnmappedTargetState signals a trigger whose target state resolves to
// no concrete trading-form operation. Such triggers are logged and
// dropped, never fatal.
var ErrUnmappedTargetState = errors.New("no operation mapped for target state")

// command is one state-changing operation bound for the event worker.
type command struct {
	trigger types.TradingPhaseTrigger
	run     func() error
}

// resolveCommand maps the abstract "move to state X with run-type Y" of a
// trigger onto the concrete operation of the market's trading forms.
func resolveCommand(m *markets.Market, trigger types.TradingPhaseTrigger) (command, error) {
	cmd := command{trigger: trigger}
	switch target := trigger.TargetState.(type) {
	case types.AuctionState:
		auction := m.Auction()
		switch target {
		case types.AuctionStateCallRunning:
			cmd.run = func() error {
				if trigger.RunType != types.RunTypeUnspecified {
					auction.SetRunType(trigger.RunType)
				}
				return auction.StartCallPhase()
			}
		case types.AuctionStateCallStopped:
			cmd.run = auction.StopCallPhase
		case types.AuctionStatePriceDeterminationRunning:
			cmd.run = func() error {
				_, err := auction.DeterminePrice()
				return err
			}
		case types.AuctionStateOrderbookBalancingRunning:
			cmd.run = func() error {
				_, err := auction.BalanceOrderbook()
				return err
			}
		case types.AuctionStateInactive:
			cmd.run = auction.Close
		default:
			return cmd, errors.Wrap(ErrUnmappedTargetState, target.String())
		}
	case types.ContinuousTradingState:
		switch target {
		case types.ContinuousTradingStateRunning:
			// the auction form leaves the floor first, two forms are never
			// active at once
			cmd.run = func() error {
				if err := m.Auction().Close(); err != nil {
					return err
				}
				if trigger.RunType != types.RunTypeUnspecified {
					m.Auction().SetRunType(trigger.RunType)
				}
				return m.Continuous().Start()
			}
		case types.ContinuousTradingStateStopped:
			cmd.run = m.Continuous().Stop
		default:
			return cmd, errors.Wrap(ErrUnmappedTargetState, target.String())
		}
	default:
		return cmd, errors.Wrap(ErrUnmappedTargetState, trigger.TargetState.String())
	}
	return cmd, nil
}
