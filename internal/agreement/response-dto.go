package agreement

type AgreementResponse struct {
	Agreement
	Status Status `json:"status"`
}

func NewAgreementResponse(a *Agreement) *AgreementResponse {
	return &AgreementResponse{Agreement: *a, Status: a.Status()}
}

type AgreementDetailResponse struct {
	AgreementResponse
	SectionKeys   []string `json:"section_keys"`
	TicketsIssued int      `json:"tickets_issued"`
}

func NewAgreementDetailResponse(ctr *Contract) *AgreementDetailResponse {
	return &AgreementDetailResponse{
		AgreementResponse: *NewAgreementResponse(&ctr.Agreement),
		SectionKeys:       ctr.SectionKeys(),
		TicketsIssued:     len(ctr.Tickets),
	}
}

type CreateNftResponse struct {
	CollectionID string `json:"collection_id"`
}

type SectionKeysResponse struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

type BalanceResponse struct {
	Balance int64 `json:"balance"`
}
