package status

import "fmt"

// Native result codes of a display change request (Windows DISP_CHANGE_*).
// Other backends translate their own results into this space.
const (
	CodeSuccess     int32 = 0
	CodeRestart     int32 = 1
	CodeFailed      int32 = -1
	CodeBadMode     int32 = -2
	CodeNotUpdated  int32 = -3
	CodeBadFlags    int32 = -4
	CodeBadParam    int32 = -5
	CodeBadDualView int32 = -6
)

// Kind is the domain outcome of a native result code
type Kind int

const (
	// Success means the request was accepted
	Success Kind = iota
	// RestartRequired means the change only takes effect after a restart
	RestartRequired
	// GenericFailure means the driver rejected the request
	GenericFailure
	// InvalidGeometry means the requested mode or position is not valid
	InvalidGeometry
	// InvalidParameter means the request flags or parameters were rejected
	InvalidParameter
	// Unknown covers every other code
	Unknown
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "Success"
	case RestartRequired:
		return "RestartRequired"
	case GenericFailure:
		return "GenericFailure"
	case InvalidGeometry:
		return "InvalidGeometry"
	case InvalidParameter:
		return "InvalidParameter"
	default:
		return "UnknownCode"
	}
}

// Status pairs a Kind with the native code it was translated from
type Status struct {
	Kind Kind
	Code int32
}

// Translate maps a native result code to a Status. It has no side effects and
// is used the same way for staging codes and the commit code.
func Translate(code int32) Status {
	switch code {
	case CodeSuccess:
		return Status{Kind: Success, Code: code}
	case CodeRestart:
		return Status{Kind: RestartRequired, Code: code}
	case CodeFailed:
		return Status{Kind: GenericFailure, Code: code}
	case CodeBadMode:
		return Status{Kind: InvalidGeometry, Code: code}
	case CodeBadParam:
		return Status{Kind: InvalidParameter, Code: code}
	default:
		return Status{Kind: Unknown, Code: code}
	}
}

// String renders the status for the log stream, e.g. "BAD MODE (-2)"
func (s Status) String() string {
	switch s.Kind {
	case Success:
		return fmt.Sprintf("SUCCESS (%d)", s.Code)
	case RestartRequired:
		return fmt.Sprintf("RESTART REQUIRED (%d)", s.Code)
	case GenericFailure:
		return fmt.Sprintf("FAILED (%d)", s.Code)
	case InvalidGeometry:
		return fmt.Sprintf("BAD MODE (%d) - invalid coordinates?", s.Code)
	case InvalidParameter:
		return fmt.Sprintf("BAD PARAM (%d) - invalid flags?", s.Code)
	default:
		return fmt.Sprintf("error code %d", s.Code)
	}
}
