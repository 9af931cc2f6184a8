package dialogue

import (
	"fmt"

	"github.com/lumivian/receptionist/backend/internal/model/appointment"
)

// Step is the position in the fixed appointment-intake script.
type Step int

const (
	Greeting Step = iota
	CollectName
	CollectAge
	CollectProblem
	CollectTime
	Closing
)

var stepNames = map[Step]string{
	Greeting:       "greeting",
	CollectName:    "collect_name",
	CollectAge:     "collect_age",
	CollectProblem: "collect_problem",
	CollectTime:    "collect_time",
	Closing:        "closing",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Valid reports whether s is one of the script's steps.
func (s Step) Valid() bool {
	return s >= Greeting && s <= Closing
}

// State is the whole mutable dialogue state of one conversation.
type State struct {
	Step        Step             `json:"step"`
	Appointment appointment.Data `json:"appointment"`
}
