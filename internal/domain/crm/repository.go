package crm

import (
	"context"

	"github.com/google/uuid"
)

// BuyerRepository persists buyers together with their detail rows
type BuyerRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Buyer, error)
	// FindAll returns one page of buyers matching every set filter field and the total match count
	FindAll(ctx context.Context, tenantID uuid.UUID, filter BuyerFilter) ([]Buyer, int64, error)
	// FindAllUnpaged returns every matching buyer, for exports
	FindAllUnpaged(ctx context.Context, tenantID uuid.UUID, filter BuyerFilter) ([]Buyer, error)
	NextSequence(ctx context.Context, tenantID uuid.UUID) (int64, error)
	// Save writes the buyer and replaces all its detail rows in one transaction
	Save(ctx context.Context, b *Buyer) error
	// Delete removes the buyer, its details and its file folder links in one transaction
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// SellerRepository persists sellers together with their detail rows
type SellerRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Seller, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter SellerFilter) ([]Seller, int64, error)
	FindAllUnpaged(ctx context.Context, tenantID uuid.UUID, filter SellerFilter) ([]Seller, error)
	NextSequence(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, s *Seller) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// PartnerRepository persists partners together with their detail rows
type PartnerRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Partner, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter PartnerFilter) ([]Partner, int64, error)
	FindAllUnpaged(ctx context.Context, tenantID uuid.UUID, filter PartnerFilter) ([]Partner, error)
	NextSequence(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, p *Partner) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
