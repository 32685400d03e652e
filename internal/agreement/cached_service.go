package agreement

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"nfticket/internal/minting"
	"nfticket/internal/shared/constants"
	"nfticket/pkg/cache"
	"nfticket/pkg/logger"
)

// cachedService decorates a Service with read-side caching. Reads go through
// the cache-aside helper; every mutation invalidates all cached entries of
// the touched agreement. Cache failures never fail the request.
type cachedService struct {
	Service
	cache cache.Service
	log   *logger.Logger
}

// NewCachedService wraps the given service with Redis caching.
func NewCachedService(svc Service, cacheService cache.Service, log *logger.Logger) Service {
	return &cachedService{Service: svc, cache: cacheService, log: log}
}

// invalidate drops every cached entry for one agreement.
func (s *cachedService) invalidate(ctx context.Context, id uuid.UUID) {
	pattern := constants.BuildAgreementInvalidationPattern(id.String())
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.log.Warn("cache invalidation failed",
			slog.String("agreement_id", id.String()),
			slog.Any("error", err),
		)
	}
}

func (s *cachedService) GetAgreement(ctx context.Context, id uuid.UUID) (*Contract, error) {
	var ctr Contract
	err := s.cache.GetOrSet(ctx,
		constants.BuildAgreementDetailKey(id.String()),
		constants.TTL_AGREEMENT_DETAIL,
		func() (interface{}, error) { return s.Service.GetAgreement(ctx, id) },
		&ctr,
	)
	if err != nil {
		return nil, err
	}
	return &ctr, nil
}

func (s *cachedService) ListSectionKeys(ctx context.Context, id uuid.UUID) ([]string, error) {
	var keys []string
	err := s.cache.GetOrSet(ctx,
		constants.BuildSectionKeysKey(id.String()),
		constants.TTL_SECTION_KEYS,
		func() (interface{}, error) { return s.Service.ListSectionKeys(ctx, id) },
		&keys,
	)
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *cachedService) GetTicket(ctx context.Context, id uuid.UUID, serial int64) (*Ticket, error) {
	var tkt Ticket
	err := s.cache.GetOrSet(ctx,
		constants.BuildTicketDetailKey(id.String(), serial),
		constants.TTL_TICKET_DETAIL,
		func() (interface{}, error) { return s.Service.GetTicket(ctx, id, serial) },
		&tkt,
	)
	if err != nil {
		return nil, err
	}
	return &tkt, nil
}

func (s *cachedService) ListLedger(ctx context.Context, id uuid.UUID) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	err := s.cache.GetOrSet(ctx,
		constants.BuildLedgerKey(id.String()),
		constants.TTL_LEDGER,
		func() (interface{}, error) { return s.Service.ListLedger(ctx, id) },
		&entries,
	)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *cachedService) SetEventDateTime(ctx context.Context, id, callerID uuid.UUID, ts int64) (*Agreement, error) {
	a, err := s.Service.SetEventDateTime(ctx, id, callerID, ts)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return a, err
}

func (s *cachedService) SetSalesStart(ctx context.Context, id, callerID uuid.UUID, ts int64) (*Agreement, error) {
	a, err := s.Service.SetSalesStart(ctx, id, callerID, ts)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return a, err
}

func (s *cachedService) SetSalesEnd(ctx context.Context, id, callerID uuid.UUID, ts int64) (*Agreement, error) {
	a, err := s.Service.SetSalesEnd(ctx, id, callerID, ts)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return a, err
}

func (s *cachedService) SetDefaultTicketPrice(ctx context.Context, id, callerID uuid.UUID, price int64) (*Agreement, error) {
	a, err := s.Service.SetDefaultTicketPrice(ctx, id, callerID, price)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return a, err
}

func (s *cachedService) SetVenueFeeBasisPoints(ctx context.Context, id, callerID uuid.UUID, bps int64) (*Agreement, error) {
	a, err := s.Service.SetVenueFeeBasisPoints(ctx, id, callerID, bps)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return a, err
}

func (s *cachedService) AddSection(ctx context.Context, id, callerID uuid.UUID, key string, capacity int64) (*Section, error) {
	sec, err := s.Service.AddSection(ctx, id, callerID, key, capacity)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return sec, err
}

func (s *cachedService) SetSectionTicketPrice(ctx context.Context, id, callerID uuid.UUID, key string, price int64) (*Section, error) {
	sec, err := s.Service.SetSectionTicketPrice(ctx, id, callerID, key, price)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return sec, err
}

func (s *cachedService) SetSectionCapacity(ctx context.Context, id, callerID uuid.UUID, key string, capacity int64) (*Section, error) {
	sec, err := s.Service.SetSectionCapacity(ctx, id, callerID, key, capacity)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return sec, err
}

func (s *cachedService) RemoveSection(ctx context.Context, id, callerID uuid.UUID, key string) error {
	err := s.Service.RemoveSection(ctx, id, callerID, key)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return err
}

func (s *cachedService) SignContract(ctx context.Context, id, callerID uuid.UUID) (*Agreement, error) {
	a, err := s.Service.SignContract(ctx, id, callerID)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return a, err
}

func (s *cachedService) CreateNft(ctx context.Context, id, callerID uuid.UUID, req *minting.CreateCollectionRequest) (string, error) {
	collectionID, err := s.Service.CreateNft(ctx, id, callerID, req)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return collectionID, err
}

func (s *cachedService) PurchaseTicket(ctx context.Context, id, callerID uuid.UUID, buyerAccount string, sectionKey, metadata string, tendered int64) (*Ticket, error) {
	tkt, err := s.Service.PurchaseTicket(ctx, id, callerID, buyerAccount, sectionKey, metadata, tendered)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return tkt, err
}

func (s *cachedService) ScanTicket(ctx context.Context, id, callerID uuid.UUID, serial int64) (*Ticket, error) {
	tkt, err := s.Service.ScanTicket(ctx, id, callerID, serial)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return tkt, err
}

func (s *cachedService) CollectPayout(ctx context.Context, id, callerID uuid.UUID) (*Payout, error) {
	payout, err := s.Service.CollectPayout(ctx, id, callerID)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return payout, err
}

func (s *cachedService) Deposit(ctx context.Context, id, callerID uuid.UUID, amount int64) (*Agreement, error) {
	a, err := s.Service.Deposit(ctx, id, callerID, amount)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return a, err
}
