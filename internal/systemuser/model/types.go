package model

import "time"

// ErrorResponse for consistent error handling
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *ErrorDetail) Error() string {
	return e.Code + ": " + e.Message
}

// AttributePair is a single (id, value) resource attribute, e.g. urn:altinn:resource=ske-krav-og-betalinger
type AttributePair struct {
	ID    string `json:"id" bson:"id" yaml:"id" validate:"required"`
	Value string `json:"value" bson:"value" yaml:"value" validate:"required"`
}

type Right struct {
	Resource []AttributePair `json:"resource" bson:"resource" yaml:"resource" validate:"dive"`
}

// ExternalRequestID is the vendor-facing identity of a request.
type ExternalRequestID struct {
	SystemID    string `json:"systemId" bson:"system_id"`
	PartyOrgNo  string `json:"partyOrgNo" bson:"party_org_no"`
	ExternalRef string `json:"externalRef" bson:"external_ref"`
}

// Request is the stored system user request. The external id fields are
// inlined so the partial unique index can cover them.
type Request struct {
	ID          string        `json:"id" bson:"_id"`
	SystemID    string        `json:"systemId" bson:"system_id"`
	PartyOrgNo  string        `json:"partyOrgNo" bson:"party_org_no"`
	ExternalRef string        `json:"externalRef" bson:"external_ref"`
	Rights      []Right       `json:"rights" bson:"rights"`
	Status      RequestStatus `json:"status" bson:"status"`
	RedirectURL string        `json:"redirectUrl,omitempty" bson:"redirect_url,omitempty"`

	IsDeleted bool       `json:"-" bson:"is_deleted"`
	CreatedAt time.Time  `json:"-" bson:"created_at"`
	UpdatedAt time.Time  `json:"-" bson:"updated_at"`
	DeletedAt *time.Time `json:"-" bson:"deleted_at,omitempty"`
}

func (r *Request) ExternalID() ExternalRequestID {
	return ExternalRequestID{SystemID: r.SystemID, PartyOrgNo: r.PartyOrgNo, ExternalRef: r.ExternalRef}
}

// RequestResponse is what the vendor and party endpoints return.
type RequestResponse struct {
	ID          string        `json:"id"`
	SystemID    string        `json:"systemId"`
	PartyOrgNo  string        `json:"partyOrgNo"`
	ExternalRef string        `json:"externalRef"`
	Rights      []Right       `json:"rights"`
	Status      RequestStatus `json:"status"`
	RedirectURL string        `json:"redirectUrl,omitempty"`
}

func NewRequestResponse(r *Request) *RequestResponse {
	return &RequestResponse{
		ID:          r.ID,
		SystemID:    r.SystemID,
		PartyOrgNo:  r.PartyOrgNo,
		ExternalRef: r.ExternalRef,
		Rights:      r.Rights,
		Status:      r.Status,
		RedirectURL: r.RedirectURL,
	}
}

// RegisteredSystem is the read-only descriptor kept by the system register.
type RegisteredSystem struct {
	SystemID              string            `json:"systemId" bson:"system_id" yaml:"system_id"`
	SystemInternalID      string            `json:"systemInternalId" bson:"system_internal_id" yaml:"system_internal_id"`
	SystemVendorOrgNumber string            `json:"systemVendorOrgNumber" bson:"system_vendor_org_number" yaml:"system_vendor_org_number"`
	Name                  map[string]string `json:"name" bson:"name" yaml:"name"`
	Rights                []Right           `json:"rights" bson:"rights" yaml:"rights"`
	AllowedRedirectURLs   []string          `json:"allowedRedirectUrls" bson:"allowed_redirect_urls" yaml:"allowed_redirect_urls"`
	IsDeleted             bool              `json:"isDeleted" bson:"is_deleted" yaml:"is_deleted"`
}

// DisplayName picks nb, then nn, then en.
func (s *RegisteredSystem) DisplayName() string {
	for _, lang := range []string{LangBokmal, LangNynorsk, LangEnglish} {
		if name, ok := s.Name[lang]; ok && name != "" {
			return name
		}
	}
	return ""
}

type SystemUser struct {
	ID               string     `json:"id" bson:"_id"`
	IntegrationTitle string     `json:"integrationTitle" bson:"integration_title"`
	SystemID         string     `json:"systemId" bson:"system_id"`
	SystemInternalID string     `json:"systemInternalId" bson:"system_internal_id"`
	PartyID          string     `json:"partyId" bson:"party_id"`
	ReporteeOrgNo    string     `json:"reporteeOrgNo" bson:"reportee_org_no"`
	ExternalRef      string     `json:"externalRef" bson:"external_ref"`
	SupplierOrgNo    string     `json:"supplierOrgNo" bson:"supplier_org_no"`
	Created          time.Time  `json:"created" bson:"created"`
	IsDeleted        bool       `json:"-" bson:"is_deleted"`
	DeletedAt        *time.Time `json:"-" bson:"deleted_at,omitempty"`
}

type Party struct {
	PartyID        int    `json:"partyId"`
	OrgNumber      string `json:"orgNumber"`
	Name           string `json:"name"`
	PartyTypeName  int    `json:"partyTypeName"`
	IsDeleted      bool   `json:"isDeleted"`
	OnlyHierarchy  bool   `json:"onlyHierarchyElementWithNoAccess"`
	UnitType       string `json:"unitType,omitempty"`
	SSN            string `json:"ssn,omitempty"`
	PersonFullName string `json:"personName,omitempty"`
}

// DelegationCheckRequest is the body sent to the access management delegation check.
type DelegationCheckRequest struct {
	Resource []AttributePair `json:"resource"`
}

type DelegationResponseData struct {
	RightKey      string          `json:"rightKey"`
	Resource      []AttributePair `json:"resource"`
	Action        string          `json:"action"`
	Status        string          `json:"status"`
	FaultyMessage string          `json:"faultyMessage,omitempty"`
}

// RightResponses pairs a checked right with the check outcome; the grant is issued from these.
type RightResponses struct {
	Right     Right                    `json:"right"`
	Responses []DelegationResponseData `json:"responses"`
}
