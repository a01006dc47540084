package searchview

// Reveal is the number of list entries shown. It starts at the step size
// and only grows until the next Reset.
type Reveal struct {
	Step    int
	Visible int
}

// NewReveal returns a Reveal showing step entries. A non-positive step
// uses DefaultRevealStep.
func NewReveal(step int) Reveal {
	if step <= 0 {
		step = DefaultRevealStep
	}
	return Reveal{Step: step, Visible: step}
}

// Reset shows the first Step entries again.
func (r *Reveal) Reset() {
	r.Visible = r.Step
}

// More shows Step more entries, capped at total.
func (r *Reveal) More(total int) {
	if !r.HasMore(total) {
		return
	}
	r.Visible = min(r.Visible+r.Step, total)
}

// Count returns how many of total entries are shown.
func (r Reveal) Count(total int) int {
	return min(r.Visible, total)
}

// HasMore reports whether entries beyond the visible ones exist.
func (r Reveal) HasMore(total int) bool {
	return r.Visible < total
}
