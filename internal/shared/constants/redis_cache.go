package constants

import (
	"strconv"
	"time"
)

// Redis cache keys and TTLs for read-side caching.
// Pattern: nfticket:{module}:{operation}:{identifier}

const CACHE_PREFIX = "nfticket"

// Agreement state changes through negotiation and sales, so agreement-level
// entries stay short-lived. Issued tickets are immutable apart from the scan
// flag and can live longer.
const (
	TTL_AGREEMENT_DETAIL = 2 * time.Minute
	TTL_SECTION_KEYS     = 2 * time.Minute
	TTL_TICKET_DETAIL    = 10 * time.Minute
	TTL_LEDGER           = 1 * time.Minute
)

const (
	CACHE_KEY_AGREEMENT_DETAIL = CACHE_PREFIX + ":agreements:detail:uuid:"   // + agreement-id
	CACHE_KEY_SECTION_KEYS     = CACHE_PREFIX + ":agreements:sections:uuid:" // + agreement-id
	CACHE_KEY_TICKET_DETAIL    = CACHE_PREFIX + ":tickets:detail:uuid:"      // + agreement-id:serial:N
	CACHE_KEY_LEDGER           = CACHE_PREFIX + ":agreements:ledger:uuid:"   // + agreement-id
)

func BuildAgreementDetailKey(agreementID string) string {
	return CACHE_KEY_AGREEMENT_DETAIL + agreementID
}

func BuildSectionKeysKey(agreementID string) string {
	return CACHE_KEY_SECTION_KEYS + agreementID
}

func BuildTicketDetailKey(agreementID string, serial int64) string {
	return CACHE_KEY_TICKET_DETAIL + agreementID + ":serial:" + strconv.FormatInt(serial, 10)
}

func BuildLedgerKey(agreementID string) string {
	return CACHE_KEY_LEDGER + agreementID
}

// BuildAgreementInvalidationPattern matches every cached entry for one
// agreement, tickets included.
func BuildAgreementInvalidationPattern(agreementID string) string {
	return CACHE_PREFIX + ":*:uuid:" + agreementID + "*"
}
