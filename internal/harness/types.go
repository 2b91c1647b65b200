package harness

// TraceEvent records one executed scenario step.
type TraceEvent struct {
	Step  int            `json:"step"` // 1-based step index
	Op    string         `json:"op"`
	Args  map[string]any `json:"args,omitempty"`
	Keys  []string       `json:"keys,omitempty"`  // generated or assigned keys
	Item  string         `json:"item,omitempty"`  // item ID for list operations
	Error string         `json:"error,omitempty"` // error code if the step failed
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step expectation and assertion holds.
	Pass bool `json:"pass"`

	// Trace contains every executed step in order.
	// Used for trace assertions and golden comparison.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step to the trace.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
