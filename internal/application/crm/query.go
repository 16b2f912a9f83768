package crm

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ventureflow/backend/internal/domain/crm"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// queryParser reads typed index parameters and collects one message per
// malformed field
type queryParser struct {
	values url.Values
	errs   *shared.ValidationError
}

func newQueryParser(values url.Values) *queryParser {
	return &queryParser{values: values, errs: &shared.ValidationError{}}
}

func (p *queryParser) str(key string) string {
	return strings.TrimSpace(p.values.Get(key))
}

func (p *queryParser) id(key string) *uuid.UUID {
	raw := p.str(key)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		p.errs.Add(key, "Must be a valid UUID")
		return nil
	}
	return &id
}

// ids accepts both key[] and key, repeated or comma separated
func (p *queryParser) ids(key string) []uuid.UUID {
	var out []uuid.UUID
	for _, name := range []string{key + "[]", key} {
		for _, raw := range p.values[name] {
			for _, part := range strings.Split(raw, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				id, err := uuid.Parse(part)
				if err != nil {
					p.errs.Add(key, "Every value must be a valid UUID")
					return nil
				}
				out = append(out, id)
			}
		}
	}
	return out
}

func (p *queryParser) amount(key string) *decimal.Decimal {
	raw := p.str(key)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		p.errs.Add(key, "Must be a number")
		return nil
	}
	return &d
}

// amountRange reads key_min and key_max and rejects min > max
func (p *queryParser) amountRange(key string) (*decimal.Decimal, *decimal.Decimal) {
	lo, hi := p.amount(key+"_min"), p.amount(key+"_max")
	if lo != nil && hi != nil && lo.GreaterThan(*hi) {
		p.errs.Add(key+"_min", "Must not be greater than "+key+"_max")
	}
	return lo, hi
}

func (p *queryParser) date(key string) *time.Time {
	raw := p.str(key)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	p.errs.Add(key, "Must be a date (YYYY-MM-DD)")
	return nil
}

func (p *queryParser) boolean(key string) *bool {
	raw := p.str(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs.Add(key, "Must be true or false")
		return nil
	}
	return &b
}

func (p *queryParser) page() int {
	raw := p.str("page")
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.errs.Add("page", "Must be an integer")
		return 1
	}
	if n > shared.MaxPage {
		p.errs.Add("page", fmt.Sprintf("Must be at most %d", shared.MaxPage))
		return 1
	}
	return shared.NormalizePage(n)
}

func (p *queryParser) index() crm.IndexFilter {
	f := crm.IndexFilter{
		Search:          p.str("search"),
		CountryID:       p.id("country"),
		RegisteredAfter: p.date("registered_after"),
		Source:          strings.ToLower(p.str("source")),
		IndustryIDs:     p.ids("industry_ids"),
		PICID:           p.id("pic_id"),
		IsPinned:        p.boolean("is_pinned"),
		Sort:            p.str("sort"),
		Page:            p.page(),
	}
	if raw := p.str("status"); raw != "" {
		f.Status = crm.RecordStatus(strings.ToLower(raw))
		if !f.Status.IsValid() {
			p.errs.Add("status", "Must be one of: active, inactive, draft")
		}
	}
	return f
}

// ParseBuyerQuery reads the buyer index parameters
func ParseBuyerQuery(values url.Values) (crm.BuyerFilter, error) {
	p := newQueryParser(values)
	f := crm.BuyerFilter{
		IndexFilter:      p.index(),
		TargetCountryIDs: p.ids("target_country_ids"),
	}
	f.RevenueMin, f.RevenueMax = p.amountRange("revenue")
	f.EBITDAMin, f.EBITDAMax = p.amountRange("ebitda")
	f.BudgetMin, f.BudgetMax = p.amountRange("budget")
	return f, p.errs.OrNil()
}

// ParseSellerQuery reads the seller index parameters
func ParseSellerQuery(values url.Values) (crm.SellerFilter, error) {
	p := newQueryParser(values)
	f := crm.SellerFilter{IndexFilter: p.index()}
	if raw := p.str("sale_type"); raw != "" {
		f.SaleType = crm.SaleType(strings.ToLower(raw))
		if !f.SaleType.IsValid() {
			p.errs.Add("sale_type", "Must be one of: full_sale, majority, minority, merger, asset_sale")
		}
	}
	f.RevenueMin, f.RevenueMax = p.amountRange("revenue")
	f.EBITDAMin, f.EBITDAMax = p.amountRange("ebitda")
	f.ValuationMin, f.ValuationMax = p.amountRange("valuation")
	return f, p.errs.OrNil()
}

// ParsePartnerQuery reads the partner index parameters
func ParsePartnerQuery(values url.Values) (crm.PartnerFilter, error) {
	p := newQueryParser(values)
	f := crm.PartnerFilter{IndexFilter: p.index()}
	if raw := p.str("partnership_type"); raw != "" {
		f.PartnershipType = crm.PartnershipType(strings.ToLower(raw))
		if !f.PartnershipType.IsValid() {
			p.errs.Add("partnership_type", "Must be one of: referral, co_advisory, introducer, strategic")
		}
	}
	f.CommissionMin, f.CommissionMax = p.amountRange("commission")
	return f, p.errs.OrNil()
}
