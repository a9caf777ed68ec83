package gate

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/wdm0006/intakegate/pkg/profile"
	"github.com/wdm0006/intakegate/pkg/store"
	"github.com/wdm0006/intakegate/pkg/transform/validate"
)

// State is a step of the per-file state machine.
type State string

const (
	StateReceived  State = "RECEIVED"
	StateValidated State = "VALIDATED"
	StateRejected  State = "REJECTED"
	StateSuccess   State = "SUCCESS"
	StateFailure   State = "FAILURE"
)

var (
	ErrLoad  = errors.New("loading source object")
	ErrWrite = errors.New("writing cleaned object")
)

// FailureKind classifies why a file was not written.
type FailureKind string

const (
	FailureValidation FailureKind = "validation"
	FailureImputation FailureKind = "imputation"
	FailureTransform  FailureKind = "transform"
	FailureLoad       FailureKind = "load"
	FailureWrite      FailureKind = "write"
)

// Summary describes a successfully processed file.
type Summary struct {
	Source          store.Location
	Destination     store.Location
	RowsIn          int
	RowsOut         int
	ColumnsDropped  []string
	Imputed         map[string]int
	MandatoryFields []string
	// Profile is set when the gate was built WithProfile.
	Profile *profile.Report
}

// Failure is the terminal error of a file that did not reach SUCCESS.
type Failure struct {
	Kind   FailureKind
	Source store.Location
	// Missing and InvalidTypes are set for validation failures.
	Missing      []string
	InvalidTypes []validate.Violation
	Err          error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failure processing %s: %v", f.Kind, f.Source, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Result is the outcome of Gate.Process. Exactly one of Summary and Failure
// is set.
type Result struct {
	InvocationID string
	State        State
	Summary      *Summary
	Failure      *Failure
}

// Err returns the failure as an error, or nil on success.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// Payload is the response handed back to whoever triggered the run.
type Payload struct {
	StatusCode int `json:"statusCode"`
	Body       any `json:"body"`
}

type successBody struct {
	Message                  string   `json:"message"`
	SourceFile               string   `json:"source_file"`
	DestinationFile          string   `json:"destination_file"`
	RowsProcessed            int      `json:"rows_processed"`
	MandatoryFieldsValidated []string `json:"mandatory_fields_validated"`
}

type validationBody struct {
	Error         string   `json:"error"`
	MissingFields []string `json:"missing_fields"`
	InvalidTypes  []string `json:"invalid_types"`
}

type errorBody struct {
	Error      string `json:"error"`
	SourceFile string `json:"source_file"`
}

const (
	messageProcessed     = "File processed successfully"
	messageInvalidFormat = "Invalid data format"
)

// Payload renders the result the way callers receive it.
func (r Result) Payload() Payload {
	if r.Summary != nil {
		return Payload{StatusCode: http.StatusOK, Body: successBody{
			Message:                  messageProcessed,
			SourceFile:               r.Summary.Source.Key,
			DestinationFile:          r.Summary.Destination.Key,
			RowsProcessed:            r.Summary.RowsOut,
			MandatoryFieldsValidated: r.Summary.MandatoryFields,
		}}
	}
	f := r.Failure
	if f == nil {
		return Payload{StatusCode: http.StatusInternalServerError, Body: errorBody{Error: "no result"}}
	}
	if f.Kind == FailureValidation {
		reasons := make([]string, len(f.InvalidTypes))
		for i, v := range f.InvalidTypes {
			reasons[i] = v.String()
		}
		missing := f.Missing
		if missing == nil {
			missing = []string{}
		}
		return Payload{StatusCode: http.StatusBadRequest, Body: validationBody{
			Error:         messageInvalidFormat,
			MissingFields: missing,
			InvalidTypes:  reasons,
		}}
	}
	return Payload{StatusCode: http.StatusInternalServerError, Body: errorBody{
		Error:      f.Err.Error(),
		SourceFile: f.Source.Key,
	}}
}
