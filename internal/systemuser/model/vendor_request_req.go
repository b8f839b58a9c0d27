package model

import "strings"

type GetRequestByExternalRefReq struct {
	SystemID    string `param:"systemId" validate:"required,max=255"`
	OrgNo       string `param:"orgNo" validate:"required,orgno"`
	ExternalRef string `param:"externalRef" validate:"required,max=255"`
}

func (r *GetRequestByExternalRefReq) Validate() error {
	r.SystemID = strings.TrimSpace(r.SystemID)
	r.OrgNo = strings.TrimSpace(r.OrgNo)
	r.ExternalRef = strings.TrimSpace(r.ExternalRef)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

func (r *GetRequestByExternalRefReq) ExternalID() ExternalRequestID {
	return ExternalRequestID{SystemID: r.SystemID, PartyOrgNo: r.OrgNo, ExternalRef: r.ExternalRef}
}

type VendorRequestReq struct {
	RequestID string `param:"requestId" validate:"required,uuid"`
}

func (r *VendorRequestReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}
