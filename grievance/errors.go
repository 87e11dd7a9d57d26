package grievance

import (
	"net/http"

	"github.com/programme-lv/grievance/srvcerror"
)

const ErrCodeValidationFailed = "validation_failed"

func newErrValidationFailed(fields FieldErrors) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeValidationFailed,
		"the grievance has invalid fields",
	).SetHttpStatusCode(http.StatusBadRequest).SetFields(fields)
}

const ErrCodeSubmissionFailed = "submission_failed"

func NewErrSubmissionFailed(cause error) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSubmissionFailed,
		failureNotification.Title+". "+failureNotification.Description,
	).SetHttpStatusCode(http.StatusBadGateway).SetDebug(cause)
}

const ErrCodeInvalidRequest = "invalid_request"

func NewErrInvalidRequest(cause error) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidRequest,
		"request body is not a valid grievance draft",
	).SetHttpStatusCode(http.StatusBadRequest).SetDebug(cause)
}
