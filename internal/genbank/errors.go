package genbank

import "fmt"

// APIError is a non-2xx response from E-utilities.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("efetch error: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("efetch error: status=%d", e.StatusCode)
}

// NotFoundError indicates the accession does not resolve to a record.
type NotFoundError struct {
	Accession string
	*APIError
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("accession %q not found", e.Accession)
}

func (e *NotFoundError) Unwrap() error {
	if e.APIError == nil {
		return nil
	}
	return e.APIError
}

// UnreachableError indicates the request never produced an HTTP response.
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e == nil {
		return "unreachable"
	}
	if e.Host != "" {
		return fmt.Sprintf("sequence service unreachable at %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("sequence service unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }
