// Package errs contains declarations of domain-level errors
// wrappers and methods to map them for client identification of the error.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAborted indicates that the user declined the confirmation prompt.
var ErrAborted = errors.New("aborted by user")

// ErrProjectNotFound indicates that the project requested for a
// scoped installation is not present in the organization.
type ErrProjectNotFound string

// Error returns the string representation of the error.
func (e ErrProjectNotFound) Error() string {
	return fmt.Sprintf("project %q not found", string(e))
}

// ErrAzureDevOpsAPI describes any non-success response from the Azure DevOps API.
type ErrAzureDevOpsAPI struct {
	Op             string
	ResponseStatus int
	Body           string
}

// Error returns the string representation of the error.
func (e ErrAzureDevOpsAPI) Error() string {
	return fmt.Sprintf("%s: azure devops API responded with status %d: %s",
		e.Op, e.ResponseStatus, e.Body)
}

// IsCredential reports whether the response indicates a rejected token
// rather than a regular failure. 203 is used for the login redirect.
func (e ErrAzureDevOpsAPI) IsCredential() bool {
	return e.ResponseStatus == http.StatusUnauthorized ||
		e.ResponseStatus == http.StatusForbidden ||
		e.ResponseStatus == http.StatusNonAuthoritativeInfo
}

// ErrDatadogAPI describes any non-success response from the Datadog API.
type ErrDatadogAPI struct {
	ResponseStatus int
	Body           string
}

// Error returns the string representation of the error.
func (e ErrDatadogAPI) Error() string {
	return fmt.Sprintf("datadog API responded with status %d: %s", e.ResponseStatus, e.Body)
}
