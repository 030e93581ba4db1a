package chat

import (
	"errors"
	"net/http"

	"github.com/openai/openai-go"
)

// FailurePrefix marks a rendered failed exchange.
const FailurePrefix = "Error: "

// ErrEmptyReply is reported when the service answers without any choices.
var ErrEmptyReply = errors.New("empty completion choices")

// ErrorKind classifies a failed exchange.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindAuth
	KindPermission
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAuth:
		return "auth"
	case KindPermission:
		return "permission"
	default:
		return "other"
	}
}

// Result is the outcome of one exchange: either a reply or a classified error.
type Result struct {
	Reply string
	Err   error
	Kind  ErrorKind
}

// Reply wraps a successful reply.
func Reply(text string) Result {
	return Result{Reply: text}
}

// Failure wraps err as a failed result.
func Failure(err error) Result {
	if err == nil {
		err = errors.New("unknown failure")
	}
	return Result{Err: err, Kind: Classify(err)}
}

// OK reports whether the exchange produced a reply.
func (r Result) OK() bool { return r.Err == nil }

// String renders the reply, or the error behind FailurePrefix.
func (r Result) String() string {
	if r.OK() {
		return r.Reply
	}
	return FailurePrefix + r.Err.Error()
}

// Hint returns remediation lines for auth and permission failures.
func (r Result) Hint() []string {
	switch r.Kind {
	case KindAuth:
		return []string{
			"API key is invalid or expired",
			"API key doesn't have the right permissions",
			"Account billing/credits issue",
		}
	case KindPermission:
		return []string{"You may need to add credits to your Anthropic account"}
	default:
		return nil
	}
}

// Classify maps a remote failure to an ErrorKind.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return KindAuth
		case http.StatusPaymentRequired, http.StatusForbidden:
			return KindPermission
		}
	}
	return KindOther
}
