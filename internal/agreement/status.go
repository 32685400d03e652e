package agreement

type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusReadyToSign     Status = "READY_TO_SIGN"
	StatusPartiallySigned Status = "PARTIALLY_SIGNED"
	StatusFinalized       Status = "FINALIZED"
)
