package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeBrowserInit represents failures acquiring the browser session
	ErrorTypeBrowserInit ErrorType = "browser_init"
	// ErrorTypeNavigation represents failures loading the portal page
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeFormFill represents failures filling the date search form
	ErrorTypeFormFill ErrorType = "form_fill"
	// ErrorTypeSearchTrigger represents a missing or unclickable search control
	ErrorTypeSearchTrigger ErrorType = "search_trigger"
	// ErrorTypeRowSkip represents a result row that could not be turned into a record
	ErrorTypeRowSkip ErrorType = "row_skip"
	// ErrorTypeExtraction represents failures enumerating the result rows
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeClassification represents failures of the outbound classification services
	ErrorTypeClassification ErrorType = "classification"
	// ErrorTypeStorage represents persistence errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeBusy represents a scrape refused because another one holds the session
	ErrorTypeBusy ErrorType = "busy"
)

// Outcome tells a call site how to react to an error.
type Outcome int

const (
	// OutcomeFatal aborts the invocation.
	OutcomeFatal Outcome = iota
	// OutcomeWarnContinue is logged and the invocation carries on.
	OutcomeWarnContinue
	// OutcomeSkipItem drops the current item and the loop carries on.
	OutcomeSkipItem
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWarnContinue:
		return "warn_continue"
	case OutcomeSkipItem:
		return "skip_item"
	default:
		return "fatal"
	}
}

// ScrapeError represents an error raised by one phase of the pipeline
type ScrapeError struct {
	Type    ErrorType
	Phase   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Phase, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Phase, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// Outcome returns the reaction the error calls for
func (e *ScrapeError) Outcome() Outcome {
	switch e.Type {
	case ErrorTypeSearchTrigger:
		return OutcomeWarnContinue
	case ErrorTypeRowSkip:
		return OutcomeSkipItem
	default:
		return OutcomeFatal
	}
}

// OutcomeOf returns the outcome tagged on err. Untyped errors are fatal.
func OutcomeOf(err error) Outcome {
	var se *ScrapeError
	if stderrors.As(err, &se) {
		return se.Outcome()
	}
	return OutcomeFatal
}

// TypeOf returns the ErrorType of err, or "" if err is not a ScrapeError
func TypeOf(err error) ErrorType {
	var se *ScrapeError
	if stderrors.As(err, &se) {
		return se.Type
	}
	return ""
}

// Is reports whether err is a ScrapeError of the given type
func Is(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}

// New creates a new ScrapeError
func New(errType ErrorType, phase, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Phase:   phase,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewBrowserInit creates a new browser init error
func NewBrowserInit(phase, message string, err error) *ScrapeError {
	return New(ErrorTypeBrowserInit, phase, message, err)
}

// NewNavigation creates a new navigation error
func NewNavigation(url string, err error) *ScrapeError {
	return New(ErrorTypeNavigation, "navigate", fmt.Sprintf("failed to load %s", url), err)
}

// NewFormFill creates a new form fill error for the named field
func NewFormFill(field, message string, err error) *ScrapeError {
	return New(ErrorTypeFormFill, field, message, err)
}

// NewSearchTrigger creates a new search trigger warning
func NewSearchTrigger(message string, err error) *ScrapeError {
	return New(ErrorTypeSearchTrigger, "search", message, err)
}

// NewRowSkip creates a new per-row skip
func NewRowSkip(row int, message string, err error) *ScrapeError {
	return New(ErrorTypeRowSkip, fmt.Sprintf("row %d", row), message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(message string, err error) *ScrapeError {
	return New(ErrorTypeExtraction, "extract", message, err)
}

// NewClassification creates a new classification error
func NewClassification(service, message string, err error) *ScrapeError {
	return New(ErrorTypeClassification, service, message, err)
}

// NewStorage creates a new storage error
func NewStorage(message string, err error) *ScrapeError {
	return New(ErrorTypeStorage, "store", message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, "publish", message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "config", message, err)
}

// NewBusy creates a new busy error
func NewBusy(message string) *ScrapeError {
	return New(ErrorTypeBusy, "worker", message, nil)
}
