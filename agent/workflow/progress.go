package workflow

// Status tracks how far one questionnaire section has come.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ProgressRecord maps every section name to its status.
type ProgressRecord map[string]Status

// NewProgressRecord returns a record with every section not_started.
func NewProgressRecord() ProgressRecord {
	p := make(ProgressRecord, len(sections))
	for _, s := range sections {
		p[s.Name] = StatusNotStarted
	}
	return p
}

// MarkInProgress moves a section to in_progress unless it already completed.
func (p ProgressRecord) MarkInProgress(name string) {
	if p == nil {
		return
	}
	if p[name] == StatusCompleted {
		return
	}
	p[name] = StatusInProgress
}

// MarkCompleted marks a section completed. Idempotent.
func (p ProgressRecord) MarkCompleted(name string) {
	if p == nil {
		return
	}
	p[name] = StatusCompleted
}

// CompletedSections returns the completed section names in progression order.
func (p ProgressRecord) CompletedSections() []string {
	done := make([]string, 0, len(sections))
	for _, s := range sections {
		if p[s.Name] == StatusCompleted {
			done = append(done, s.Name)
		}
	}
	return done
}

// PercentComplete reports questionnaire progress. The terminal review section
// is excluded from the denominator: it is never completed by keyword, so the
// figure reaches exactly 100 once every other section completed.
func (p ProgressRecord) PercentComplete() float64 {
	if len(sections) <= 1 {
		return 0
	}
	completed := 0
	for _, s := range sections {
		if p[s.Name] == StatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(sections)-1) * 100
}

// Clone copies the record.
func (p ProgressRecord) Clone() ProgressRecord {
	if p == nil {
		return nil
	}
	out := make(ProgressRecord, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
