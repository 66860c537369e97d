package bacnet

// Indicator is the visual affordance of the control that triggered an
// operation on a target.
type Indicator int

const (
	IndicatorIdle Indicator = iota
	IndicatorBusy
	IndicatorError
)

func (i Indicator) String() string {
	switch i {
	case IndicatorBusy:
		return "busy"
	case IndicatorError:
		return "error"
	default:
		return "idle"
	}
}

// Control mirrors the interactive state of one property control: its
// current affordance and, for toggles, the value armed for the next write.
type Control struct {
	Indicator Indicator
	Armed     string // next write value; empty until a write has converged
}
