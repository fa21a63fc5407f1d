// Package bloom blurs the bright attachment of the HDR target with a
// ping-pong pair and composites the result over the sharp scene color.
package bloom

// DefaultIterations is the number of directional blur passes per frame
const DefaultIterations = 10

// FromBright marks a step that samples the HDR bright attachment instead of a ping-pong target
const FromBright = -1

// Step is one directional blur pass
type Step struct {
	// Write is the ping-pong target drawn into
	Write int
	// Read is the ping-pong target sampled, or FromBright
	Read       int
	Horizontal bool
}

// Schedule plans n blur passes starting in the given direction.
// It returns the steps and the direction flag after the last one.
func Schedule(n int, startHorizontal bool) ([]Step, bool) {
	steps := make([]Step, 0, n)
	horizontal := startHorizontal
	for i := 0; i < n; i++ {
		s := Step{Write: index(horizontal), Read: index(!horizontal), Horizontal: horizontal}
		if i == 0 {
			s.Read = FromBright
		}
		steps = append(steps, s)
		horizontal = !horizontal
	}
	return steps, horizontal
}

// ResultIndex returns the ping-pong target holding the blurred image once the
// schedule ended with the given flag. It is the target the last step wrote.
func ResultIndex(finalHorizontal bool) int {
	return index(!finalHorizontal)
}

func index(horizontal bool) int {
	if horizontal {
		return 1
	}
	return 0
}
