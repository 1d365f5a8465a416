package refresh

import "fmt"

// State is the position of a controller in its refresh cycle.
//
// A controller moves Stop -> Trigger -> Loading -> Stop. Trigger is only
// reachable while the user is dragging; Loading lasts until StopToRefresh.
type State int

const (
	Stop State = iota
	Trigger
	Loading
)

func (s State) String() string {
	switch s {
	case Stop:
		return "stop"
	case Trigger:
		return "trigger"
	case Loading:
		return "loading"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
