package errs

import "errors"

// Kind is the failure taxonomy every screen converts into a single message.
type Kind int

const (
	KindNone Kind = iota
	// KindTransport: no response was obtained.
	KindTransport
	// KindUnauthorized: response with 401/403.
	KindUnauthorized
	// KindValidation: structured field errors.
	KindValidation
	// KindShape: success status, missing data.
	KindShape
	// KindOther: any other non-success response.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindShape:
		return "shape"
	default:
		return "other"
	}
}

// KindOf classifies err.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrShape) {
		return KindShape
	}
	if errors.Is(err, ErrValidation) {
		return KindValidation
	}
	if errors.Is(err, ErrUnauthorized) {
		return KindUnauthorized
	}
	var re *RequestError
	if errors.As(err, &re) {
		if re.Status == 0 {
			return KindTransport
		}
		if re.Status == 400 {
			return KindValidation
		}
	}
	return KindOther
}
