package engine

// Stats are derived counts over the current collections; nothing here is
// persisted.
type Stats struct {
	Today              int
	Todo               int
	Done               int
	CompletedToday     int
	CompletedThisMonth int
}

// Stats computes section totals and completion counts. A done task counts
// as completed today / this month by its creation date, matching how the
// board is used day to day.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	s := Stats{
		Today: len(e.root.Tasks.Today),
		Todo:  len(e.root.Tasks.Todo),
		Done:  len(e.root.Tasks.Done),
	}
	for _, t := range e.root.Tasks.Done {
		if t.CreatedAt.Year() == now.Year() && t.CreatedAt.Month() == now.Month() {
			s.CompletedThisMonth++
			if t.CreatedAt.Day() == now.Day() {
				s.CompletedToday++
			}
		}
	}
	return s
}
