package broadcast

// Record is the persisted snapshot of one pipeline run. Every field defaults
// to empty so a loaded record is always fully initialized, never partially
// constructed.
type Record struct {
	RunID        string   `json:"run_id"`
	CreatedAt    string   `json:"created_at"`
	Events       []string `json:"events"`
	ScriptPrompt string   `json:"script_prompt"`
	Script       string   `json:"script"`
	AudioFile    string   `json:"audio_file"`
	Error        string   `json:"error"`
}

// NewRecord returns a fresh default record.
func NewRecord() *Record {
	return &Record{Events: []string{}}
}

// AppendEvents adds events in order; it never reorders existing entries.
func (r *Record) AppendEvents(events ...string) {
	r.Events = append(r.Events, events...)
}
