package model

import (
	"fmt"
	"net/http"
)

const problemPrefix = "AUTH"

// Problem is an expected business failure. It travels through the error
// return and is rendered by the handler with its own status.
type Problem struct {
	Code   string
	Name   string
	Detail string
	Status int
}

func (p *Problem) Error() string {
	return fmt.Sprintf("%s %s: %s", p.Code, p.Name, p.Detail)
}

func newProblem(n int, name, detail string, status int) *Problem {
	return &Problem{
		Code:   fmt.Sprintf("%s-%05d", problemPrefix, n),
		Name:   name,
		Detail: detail,
		Status: status,
	}
}

var (
	ProblemReporteeOrgNoNotFound = newProblem(0, "Reportee_Orgno_NotFound",
		"Can't resolve the Organisation Number from the supplied party id", http.StatusBadRequest)
	ProblemRightsNotFoundOrNotDelegable = newProblem(1, "Rights_NotFound_Or_NotDelegable",
		"One or more rights were not found or could not be delegated", http.StatusBadRequest)
	ProblemRightsFailedToDelegate = newProblem(2, "Rights_FailedToDelegate",
		"The rights could not be delegated to the system user", http.StatusBadRequest)
	ProblemSystemUserFailedToCreate = newProblem(3, "SystemUser_FailedToCreate",
		"The system user could not be created", http.StatusBadRequest)
	ProblemSystemUserAlreadyExists = newProblem(4, "SystemUser_AlreadyExists",
		"A system user already exists for this system and party", http.StatusBadRequest)
	ProblemExternalRequestIDAlreadyAccepted = newProblem(6, "ExternalRequestIdAlreadyAccepted",
		"The combination of External Ids refer to an already Accepted SystemUser", http.StatusBadRequest)
	ProblemExternalRequestIDPending = newProblem(7, "ExternalRequestIdPending",
		"The combination of External Ids refer to a Pending Request, please reuse or delete", http.StatusBadRequest)
	ProblemExternalRequestIDDenied = newProblem(8, "ExternalRequestIdDenied",
		"The combination of External Ids refer to a Denied Request, please delete and renew the Request", http.StatusBadRequest)
	ProblemExternalRequestIDRejected = newProblem(9, "ExternalRequestIdRejected",
		"The combination of External Ids refer to a Rejected Request, please delete and renew the Request", http.StatusBadRequest)
	ProblemRequestNotFound = newProblem(10, "RequestNotFound",
		"The Id does not refer to a Request in our system", http.StatusNotFound)
	ProblemSystemIDNotFound = newProblem(11, "SystemIdNotFound",
		"The Id does not refer to a Registered System", http.StatusNotFound)
	ProblemRequestCouldNotBeStored = newProblem(12, "RequestCouldNotBeStored",
		"An error occurred when storing the Request", http.StatusNotFound)
	ProblemRequestStatusNotNew = newProblem(13, "Request_StatusNotNew",
		"The Request is no longer in status New", http.StatusBadRequest)
	ProblemRightsInvalid = newProblem(14, "Rights_Invalid",
		"The requested rights are not a subset of the Registered System's rights", http.StatusBadRequest)
	ProblemRedirectURLNotValid = newProblem(15, "RedirectUrl_NotValid",
		"The RedirectUrl is not allowed for the Registered System", http.StatusBadRequest)
	ProblemSystemUserNotFound = newProblem(16, "SystemUser_NotFound",
		"The Id does not refer to a SystemUser", http.StatusNotFound)
)

// ConflictProblem maps the status of an existing request with the same
// external id to the problem a new create gets.
func ConflictProblem(existing RequestStatus) *Problem {
	switch existing {
	case StatusAccepted:
		return ProblemExternalRequestIDAlreadyAccepted
	case StatusDenied:
		return ProblemExternalRequestIDDenied
	case StatusRejected:
		return ProblemExternalRequestIDRejected
	default:
		return ProblemExternalRequestIDPending
	}
}
