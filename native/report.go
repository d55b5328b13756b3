package native

import (
	"fmt"
	"strings"
)

// Severity of a recorded issue.
type Severity int

const (
	SeverityWarning Severity = iota + 1
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Issue is a non-fatal condition found while processing an entity.
type Issue struct {
	Severity Severity
	Kind     Kind
	EntityID int64
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s #%d: %s", i.Severity, i.Kind, i.EntityID, i.Message)
}

// Report accumulates the issues of one run in the order they were found.
type Report struct {
	issues []Issue
}

func (r *Report) add(i Issue) {
	r.issues = append(r.issues, i)
}

// Issues returns every recorded issue.
func (r *Report) Issues() []Issue {
	return append([]Issue(nil), r.issues...)
}

// Warnings returns the issues with warning severity.
func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

// Errors returns the issues with error severity.
func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// HasErrors reports whether any error was recorded.
func (r *Report) HasErrors() bool {
	return len(r.Errors()) > 0
}

func (r *Report) filter(s Severity) []Issue {
	var ret []Issue
	for _, i := range r.issues {
		if i.Severity == s {
			ret = append(ret, i)
		}
	}
	return ret
}

// String renders one line per issue.
func (r *Report) String() string {
	var b strings.Builder
	for _, i := range r.issues {
		b.WriteString(i.String())
		b.WriteByte('\n')
	}
	return b.String()
}
