package model

// PartyRequestReq addresses a request from the customer side.
type PartyRequestReq struct {
	PartyID   int    `param:"partyId" validate:"required,gt=0"`
	RequestID string `param:"requestId" validate:"required,uuid"`
}

func (r *PartyRequestReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type PartySystemUserReq struct {
	PartyID      int    `param:"partyId" validate:"required,gt=0"`
	SystemUserID string `param:"systemUserId" validate:"required,uuid"`
}

func (r *PartySystemUserReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}
