package transcript

import "fmt"

// GroupSteps partitions events into steps. A step opens at step_start and
// closes after its step_finish; events seen while no step is open are
// dropped. Steps appear in start order and an unterminated last step is
// kept as is.
func GroupSteps(events []Event) []Step {
	steps := []Step{}
	current := -1

	for _, ev := range events {
		if ev.Type == TypeStepStart {
			start := ev.StepStart()
			id := start.ID
			if id == "" {
				id = fmt.Sprintf("step_%d", len(steps))
			}
			steps = append(steps, Step{
				ID:        id,
				Timestamp: ev.Timestamp,
				MessageID: start.MessageID,
			})
			current = len(steps) - 1
		}

		if current >= 0 {
			steps[current].Events = append(steps[current].Events, ev)
		}

		if ev.Type == TypeStepFinish {
			current = -1
		}
	}
	return steps
}
