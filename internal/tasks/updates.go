package tasks

// State is a node of the [AuthFlow] state machine.
type State int

const (
	AwaitingTrigger State = iota
	AwaitingFormInput
	Exchanging
)

func (s State) String() string {
	switch s {
	case AwaitingTrigger:
		return "awaiting_trigger"
	case AwaitingFormInput:
		return "awaiting_form_input"
	case Exchanging:
		return "exchanging"
	default:
		return ""
	}
}

// Update is published on every state transition of an [AuthFlow].
type Update struct {
	State   State
	Cycle   int    // acceptance cycle, starting at 1
	Message string // human-readable description
}

func awaitingTriggerUpdate(cycle int) Update {
	return Update{
		State:   AwaitingTrigger,
		Cycle:   cycle,
		Message: "Waiting for the authenticate button...",
	}
}

func awaitingFormUpdate(cycle int) Update {
	return Update{
		State:   AwaitingFormInput,
		Cycle:   cycle,
		Message: "Waiting for the authorization code...",
	}
}

func exchangingUpdate(cycle int) Update {
	return Update{
		State:   Exchanging,
		Cycle:   cycle,
		Message: "Exchanging the authorization code for tokens...",
	}
}

// sendUpdate publishes an update without blocking.
func sendUpdate(updates chan<- Update, update Update) {
	if updates == nil {
		return
	}
	select {
	case updates <- update:
	default:
	}
}
