package model

type RequestStatus string

// Request statuses
const (
	StatusNew      RequestStatus = "New"
	StatusAccepted RequestStatus = "Accepted"
	StatusDenied   RequestStatus = "Denied"
	StatusRejected RequestStatus = "Rejected"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	StatusNew:      {StatusAccepted, StatusDenied, StatusRejected},
	StatusAccepted: {StatusNew}, // compensation after a failed grant only
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s RequestStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusDenied || s == StatusRejected
}

// DelegationStatusDelegable is the only check status that lets approval continue.
const DelegationStatusDelegable = "Delegable"

// Headers
const (
	HeaderVendorOrgNo = "x-vendor-orgno"
)

// Name languages on RegisteredSystem
const (
	LangBokmal  = "nb"
	LangNynorsk = "nn"
	LangEnglish = "en"
)
