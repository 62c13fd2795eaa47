package bridge

import (
	"fmt"
	"strings"
)

// QuoteProviderError is a non-2xx reply from the aggregator. The raw body is
// kept verbatim so callers can see exactly what the upstream said.
type QuoteProviderError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *QuoteProviderError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = strings.TrimSpace(e.Body)
	}
	if detail == "" {
		return fmt.Sprintf("aggregator returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("aggregator returned status %d: %s", e.StatusCode, detail)
}

// NoRouteAvailableError means the aggregator answered successfully but found
// no route for the requested transfer. It is a valid outcome, not a failure
// of the request itself.
type NoRouteAvailableError struct {
	SrcChain string
	DstChain string
}

func (e *NoRouteAvailableError) Error() string {
	if e.SrcChain == "" && e.DstChain == "" {
		return "no route available"
	}
	return fmt.Sprintf("no route available from %s to %s", e.SrcChain, e.DstChain)
}

// SwapPreparationError is a business error reported inside an otherwise
// successful swap-preparation response.
type SwapPreparationError struct {
	Provider   string
	StatusCode int
	Message    string
	Raw        string
}

func (e *SwapPreparationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(e.Raw)
	}
	var b strings.Builder
	b.WriteString("swap preparation failed")
	if e.Provider != "" {
		fmt.Fprintf(&b, " (provider %s)", e.Provider)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	return b.String()
}

// MalformedTransactionError means the provider reported success but its
// payload cannot be turned into a usable transaction: a mandatory field for
// the chain family is missing, or present but invalid (Reason set). The raw
// response is echoed for diagnosis; nothing is ever guessed or defaulted in
// its place.
type MalformedTransactionError struct {
	Provider     string
	MissingField string
	Reason       string
	Raw          string
}

func (e *MalformedTransactionError) Error() string {
	var msg string
	if e.Reason != "" {
		msg = fmt.Sprintf("provider %s returned an unusable transaction: %s", e.Provider, e.Reason)
	} else {
		msg = fmt.Sprintf("provider %s returned a transaction without '%s'", e.Provider, e.MissingField)
	}
	if e.Raw != "" {
		msg += fmt.Sprintf(": %s", e.Raw)
	}
	return msg
}
