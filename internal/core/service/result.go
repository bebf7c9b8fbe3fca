package service

import "time"

// Reason explains why a token did not verify.
type Reason string

const (
	// ReasonMalformed: empty token or non-digit characters.
	ReasonMalformed Reason = "malformed"
	// ReasonRange: an index override is outside its pool's permutation range.
	ReasonRange Reason = "range"
	// ReasonUnderflow: the token is numerically smaller than a known component.
	ReasonUnderflow Reason = "underflow"
	// ReasonFrame: the remainder lacks the guard digit or has odd length.
	ReasonFrame Reason = "frame"
	// ReasonUnknownPair: a digit pair is not in the encryption map.
	ReasonUnknownPair Reason = "unknown_pair"
	// ReasonPayload: the decoded text is not data/expiry[/identity]/.
	ReasonPayload Reason = "payload"
	// ReasonExpired: the embedded expiry is before now.
	ReasonExpired Reason = "expired"
	// ReasonIdentity: the embedded identity is not the caller's.
	ReasonIdentity Reason = "identity"
)

// Result is the outcome of a decode. Data is set only when Valid.
type Result struct {
	Data      string
	Valid     bool
	Reason    Reason
	ExpiresAt time.Time
	// Bare is set by VerifyHandshake when the token carried no data of its
	// own, only the handshake marker.
	Bare bool
}

func invalid(r Reason) Result {
	return Result{Reason: r}
}
