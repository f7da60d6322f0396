package model

// DiagnosticType classifies a parse problem
type DiagnosticType string

const (
	// Errors: any of these means the parse failed
	ErrorMissingID      DiagnosticType = "missing_id"      // No kind-appropriate identifier
	ErrorMissingSection DiagnosticType = "missing_section" // Required header or relation absent
	ErrorParseFailure   DiagnosticType = "parse_failure"   // Internal fault recovered at the boundary

	// Warnings: informational, never block success
	WarningMissingOptionalSection DiagnosticType = "missing_optional_section" // Recommended section or sub-field absent
	WarningMalformedSection       DiagnosticType = "malformed_section"        // Known section kept in generic form
)

// Diagnostic is one error or warning attached to a parse result
type Diagnostic struct {
	Type    DiagnosticType `json:"type"`
	Message string         `json:"message"`
	Section string         `json:"section,omitempty"`
}

// ParsedFile is the result of parsing one document. Data is set iff Success.
type ParsedFile[T any] struct {
	Success  bool         `json:"success"`
	Data     *T           `json:"data,omitempty"`
	Errors   []Diagnostic `json:"errors,omitempty"`
	Warnings []Diagnostic `json:"warnings,omitempty"`
}

// Failed builds an unsuccessful result carrying a single error
func Failed[T any](kind DiagnosticType, message, section string, warnings []Diagnostic) ParsedFile[T] {
	return ParsedFile[T]{
		Success:  false,
		Errors:   []Diagnostic{{Type: kind, Message: message, Section: section}},
		Warnings: warnings,
	}
}

// Succeeded builds a successful result
func Succeeded[T any](data T, warnings []Diagnostic) ParsedFile[T] {
	return ParsedFile[T]{
		Success:  true,
		Data:     &data,
		Warnings: warnings,
	}
}

// HasError reports whether the result carries an error of the given type
func (p ParsedFile[T]) HasError(kind DiagnosticType) bool {
	for _, d := range p.Errors {
		if d.Type == kind {
			return true
		}
	}
	return false
}

// Erase converts a typed result into one carrying the Entity interface
func Erase[T Entity](p ParsedFile[T]) ParsedFile[Entity] {
	out := ParsedFile[Entity]{
		Success:  p.Success,
		Errors:   p.Errors,
		Warnings: p.Warnings,
	}
	if p.Data != nil {
		var e Entity = *p.Data
		out.Data = &e
	}
	return out
}
