package model

import "strings"

type CreateRequestReq struct {
	SystemID    string  `json:"systemId" validate:"required,min=1,max=255"`
	PartyOrgNo  string  `json:"partyOrgNo" validate:"required,orgno"`
	ExternalRef string  `json:"externalRef" validate:"max=255"`
	Rights      []Right `json:"rights" validate:"dive"`
	RedirectURL string  `json:"redirectUrl" validate:"omitempty,url"`
}

func (r *CreateRequestReq) Validate() error {
	r.SystemID = strings.TrimSpace(r.SystemID)
	r.PartyOrgNo = strings.TrimSpace(r.PartyOrgNo)
	r.ExternalRef = strings.TrimSpace(r.ExternalRef)
	r.RedirectURL = strings.TrimSpace(r.RedirectURL)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// ExternalID applies the external ref default: an empty ref is the party org number.
func (r *CreateRequestReq) ExternalID() ExternalRequestID {
	ref := r.ExternalRef
	if ref == "" {
		ref = r.PartyOrgNo
	}
	return ExternalRequestID{SystemID: r.SystemID, PartyOrgNo: r.PartyOrgNo, ExternalRef: ref}
}
