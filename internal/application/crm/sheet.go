package crm

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ventureflow/backend/internal/domain/crm"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/spreadsheet"
	"go.uber.org/zap"
)

// Spreadsheet column headers. Imports match them case-insensitively.
const (
	colCode                = "Code"
	colCompanyName         = "Company Name"
	colLegalName           = "Legal Name"
	colStatus              = "Status"
	colSource              = "Source"
	colPinned              = "Pinned"
	colWebsite             = "Website"
	colEmail               = "Email"
	colPhone               = "Phone"
	colHQCountry           = "HQ Country"
	colHQAddress           = "HQ Address"
	colYearFounded         = "Year Founded"
	colEmployeeCount       = "Employee Count"
	colIndustries          = "Industries"
	colDescription         = "Business Description"
	colCurrency            = "Currency"
	colFiscalYear          = "Fiscal Year"
	colAnnualRevenue       = "Annual Revenue"
	colEBITDA              = "EBITDA"
	colNetProfit           = "Net Profit"
	colTotalAssets         = "Total Assets"
	colExpectedValuation   = "Expected Valuation"
	colBudgetMin           = "Investment Budget Min"
	colBudgetMax           = "Investment Budget Max"
	colTargetIndustries    = "Target Industries"
	colTargetCountries     = "Target Countries"
	colDealSizeMin         = "Deal Size Min"
	colDealSizeMax         = "Deal Size Max"
	colOwnership           = "Ownership Preference"
	colInvestmentCriteria  = "Investment Criteria"
	colSaleType            = "Sale Type"
	colSaleReason          = "Sale Reason"
	colPartnershipType     = "Partnership Type"
	colCommissionRate      = "Commission Rate"
	colMOUSigned           = "MOU Signed"
	colSpecializations     = "Specializations"
	colCreatedAt           = "Created At"
	listSeparator          = ";"
	exportTimestampLayout  = "2006-01-02 15:04"
	sheetNameBuyers        = "Buyers"
	sheetNameSellers       = "Sellers"
	sheetNamePartners      = "Partners"
	overviewColumnWidth    = 28
	defaultColumnWidth     = 16
	descriptionColumnWidth = 40
)

func columns(headers ...string) []spreadsheet.Column {
	out := make([]spreadsheet.Column, len(headers))
	for i, h := range headers {
		width := float64(defaultColumnWidth)
		switch h {
		case colCompanyName, colLegalName, colWebsite, colEmail, colIndustries, colTargetIndustries, colSpecializations:
			width = overviewColumnWidth
		case colDescription, colHQAddress, colInvestmentCriteria, colSaleReason:
			width = descriptionColumnWidth
		}
		out[i] = spreadsheet.Column{Header: h, Width: width}
	}
	return out
}

var (
	overviewHeaders = []string{
		colCompanyName, colLegalName, colStatus, colSource, colWebsite, colEmail, colPhone,
		colHQCountry, colHQAddress, colYearFounded, colEmployeeCount, colIndustries, colDescription,
	}
	financialHeaders = []string{
		colCurrency, colFiscalYear, colAnnualRevenue, colEBITDA, colNetProfit, colTotalAssets,
	}
)

func buyerHeaders() []string {
	h := append([]string{colCode}, overviewHeaders...)
	h = append(h, colPinned)
	h = append(h, financialHeaders...)
	return append(h, colBudgetMin, colBudgetMax, colTargetIndustries, colTargetCountries,
		colDealSizeMin, colDealSizeMax, colOwnership, colInvestmentCriteria, colCreatedAt)
}

func sellerHeaders() []string {
	h := append([]string{colCode}, overviewHeaders...)
	h = append(h, colPinned, colSaleType, colSaleReason)
	h = append(h, financialHeaders...)
	return append(h, colExpectedValuation, colCreatedAt)
}

func partnerHeaders() []string {
	h := append([]string{colCode}, overviewHeaders...)
	return append(h, colPinned, colPartnershipType, colCommissionRate, colSpecializations, colMOUSigned, colCreatedAt)
}

// =============================================================================
// Export
// =============================================================================

func amountCell(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.InexactFloat64()
}

func intCell(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func overviewCells(o crm.CompanyOverview, rec crm.Record, l *Lookup) []any {
	return []any{
		o.CompanyName, o.LegalName, string(rec.Status), rec.Source, o.Website, o.Email, o.Phone,
		l.CountryLabel(o.HQCountryID), o.HQAddress, intCell(o.YearFounded), intCell(o.EmployeeCount),
		l.IndustriesLabel(o.IndustryIDs), o.BusinessDescription,
	}
}

func financialCells(f *crm.FinancialDetails, l *Lookup) []any {
	if f == nil {
		return make([]any, len(financialHeaders))
	}
	return []any{
		l.CurrencyLabel(f.CurrencyID), intCell(f.FiscalYear), amountCell(f.AnnualRevenue),
		amountCell(f.EBITDA), amountCell(f.NetProfit), amountCell(f.TotalAssets),
	}
}

// Export writes every buyer matching filter as an .xlsx workbook
func (s *BuyerService) Export(ctx context.Context, tenantID uuid.UUID, filter crm.BuyerFilter, w io.Writer) error {
	buyers, err := s.repo.FindAllUnpaged(ctx, tenantID, filter)
	if err != nil {
		return err
	}
	l, err := s.refs.Lookup(ctx, tenantID)
	if err != nil {
		return err
	}
	rows := make([][]any, len(buyers))
	for i := range buyers {
		b := &buyers[i]
		row := append([]any{b.Code}, overviewCells(b.Overview, b.Record, l)...)
		row = append(row, yesNo(b.IsPinned))
		row = append(row, financialCells(b.Financials, l)...)
		if f := b.Financials; f != nil {
			row = append(row, amountCell(f.InvestmentBudgetMin), amountCell(f.InvestmentBudgetMax))
		} else {
			row = append(row, nil, nil)
		}
		if p := b.Preferences; p != nil {
			row = append(row, l.IndustriesLabel(p.IndustryIDs), l.CountriesLabel(p.CountryIDs),
				amountCell(p.DealSizeMin), amountCell(p.DealSizeMax), string(p.OwnershipPreference), p.InvestmentCriteria)
		} else {
			row = append(row, nil, nil, nil, nil, nil, nil)
		}
		rows[i] = append(row, b.CreatedAt.Format(exportTimestampLayout))
	}
	s.logger.Info("buyers exported", zap.String("tenant_id", tenantID.String()), zap.Int("rows", len(rows)))
	return spreadsheet.Write(w, sheetNameBuyers, columns(buyerHeaders()...), rows)
}

// Export writes every seller matching filter as an .xlsx workbook
func (s *SellerService) Export(ctx context.Context, tenantID uuid.UUID, filter crm.SellerFilter, w io.Writer) error {
	sellers, err := s.repo.FindAllUnpaged(ctx, tenantID, filter)
	if err != nil {
		return err
	}
	l, err := s.refs.Lookup(ctx, tenantID)
	if err != nil {
		return err
	}
	rows := make([][]any, len(sellers))
	for i := range sellers {
		sl := &sellers[i]
		row := append([]any{sl.Code}, overviewCells(sl.Overview, sl.Record, l)...)
		row = append(row, yesNo(sl.IsPinned), string(sl.SaleType), sl.SaleReason)
		row = append(row, financialCells(sl.Financials, l)...)
		if f := sl.Financials; f != nil {
			row = append(row, amountCell(f.ExpectedValuation))
		} else {
			row = append(row, nil)
		}
		rows[i] = append(row, sl.CreatedAt.Format(exportTimestampLayout))
	}
	s.logger.Info("sellers exported", zap.String("tenant_id", tenantID.String()), zap.Int("rows", len(rows)))
	return spreadsheet.Write(w, sheetNameSellers, columns(sellerHeaders()...), rows)
}

// Export writes every partner matching filter as an .xlsx workbook
func (s *PartnerService) Export(ctx context.Context, tenantID uuid.UUID, filter crm.PartnerFilter, w io.Writer) error {
	partners, err := s.repo.FindAllUnpaged(ctx, tenantID, filter)
	if err != nil {
		return err
	}
	l, err := s.refs.Lookup(ctx, tenantID)
	if err != nil {
		return err
	}
	rows := make([][]any, len(partners))
	for i := range partners {
		p := &partners[i]
		row := append([]any{p.Code}, overviewCells(p.Overview, p.Record, l)...)
		row = append(row, yesNo(p.IsPinned))
		if d := p.Partnership; d != nil {
			row = append(row, string(d.PartnershipType), amountCell(d.CommissionRate),
				l.IndustriesLabel(d.SpecializationIndustryIDs), yesNo(d.MOUSigned))
		} else {
			row = append(row, nil, nil, nil, nil)
		}
		rows[i] = append(row, p.CreatedAt.Format(exportTimestampLayout))
	}
	s.logger.Info("partners exported", zap.String("tenant_id", tenantID.String()), zap.Int("rows", len(rows)))
	return spreadsheet.Write(w, sheetNamePartners, columns(partnerHeaders()...), rows)
}

// =============================================================================
// Import
// =============================================================================

// rowReader converts the cells of one sheet row and keeps the first failure
type rowReader struct {
	row     spreadsheet.Row
	lookup  *Lookup
	column  string
	message string
}

func (r *rowReader) fail(column, message string) {
	if r.message == "" {
		r.column, r.message = column, message
	}
}

func (r *rowReader) failed() bool {
	return r.message != ""
}

func (r *rowReader) text(column string) string {
	return r.row.Get(column)
}

func (r *rowReader) integer(column string) *int {
	raw := r.row.Get(column)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(raw, ".0"))
	if err != nil {
		r.fail(column, "Must be a whole number")
		return nil
	}
	return &n
}

func (r *rowReader) amount(column string) *decimal.Decimal {
	raw := strings.ReplaceAll(r.row.Get(column), ",", "")
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		r.fail(column, "Must be a number")
		return nil
	}
	return &d
}

func (r *rowReader) country(column string) *uuid.UUID {
	raw := r.row.Get(column)
	if raw == "" {
		return nil
	}
	id, ok := r.lookup.CountryID(raw)
	if !ok {
		r.fail(column, "Unknown country "+strconv.Quote(raw))
		return nil
	}
	return &id
}

func (r *rowReader) currency(column string) *uuid.UUID {
	raw := r.row.Get(column)
	if raw == "" {
		return nil
	}
	id, ok := r.lookup.CurrencyID(raw)
	if !ok {
		r.fail(column, "Unknown currency "+strconv.Quote(raw))
		return nil
	}
	return &id
}

func (r *rowReader) list(column string, resolve func(string) (uuid.UUID, bool), kind string) []uuid.UUID {
	var out []uuid.UUID
	for _, part := range strings.Split(r.row.Get(column), listSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, ok := resolve(part)
		if !ok {
			r.fail(column, "Unknown "+kind+" "+strconv.Quote(part))
			return nil
		}
		out = append(out, id)
	}
	return out
}

func (r *rowReader) record() crm.RecordInput {
	return crm.RecordInput{
		Status: crm.RecordStatus(strings.ToLower(r.text(colStatus))),
		Source: r.text(colSource),
	}
}

func (r *rowReader) overview() crm.CompanyOverview {
	return crm.CompanyOverview{
		CompanyName:         r.text(colCompanyName),
		LegalName:           r.text(colLegalName),
		Website:             r.text(colWebsite),
		Email:               r.text(colEmail),
		Phone:               r.text(colPhone),
		HQCountryID:         r.country(colHQCountry),
		HQAddress:           r.text(colHQAddress),
		YearFounded:         r.integer(colYearFounded),
		EmployeeCount:       r.integer(colEmployeeCount),
		BusinessDescription: r.text(colDescription),
		IndustryIDs:         r.list(colIndustries, r.lookup.IndustryID, "industry"),
	}
}

// financials returns nil when every financial column is blank
func (r *rowReader) financials() *crm.FinancialDetails {
	f := &crm.FinancialDetails{
		CurrencyID:          r.currency(colCurrency),
		FiscalYear:          r.integer(colFiscalYear),
		AnnualRevenue:       r.amount(colAnnualRevenue),
		EBITDA:              r.amount(colEBITDA),
		NetProfit:           r.amount(colNetProfit),
		TotalAssets:         r.amount(colTotalAssets),
		ExpectedValuation:   r.amount(colExpectedValuation),
		InvestmentBudgetMin: r.amount(colBudgetMin),
		InvestmentBudgetMax: r.amount(colBudgetMax),
	}
	if *f == (crm.FinancialDetails{}) {
		return nil
	}
	return f
}

func (r *rowReader) preferences() *crm.TargetPreferences {
	p := &crm.TargetPreferences{
		IndustryIDs:         r.list(colTargetIndustries, r.lookup.IndustryID, "industry"),
		CountryIDs:          r.list(colTargetCountries, r.lookup.CountryID, "country"),
		DealSizeMin:         r.amount(colDealSizeMin),
		DealSizeMax:         r.amount(colDealSizeMax),
		OwnershipPreference: crm.OwnershipPreference(strings.ToLower(r.text(colOwnership))),
		InvestmentCriteria:  r.text(colInvestmentCriteria),
	}
	if len(p.IndustryIDs) == 0 && len(p.CountryIDs) == 0 && p.DealSizeMin == nil && p.DealSizeMax == nil &&
		p.OwnershipPreference == "" && p.InvestmentCriteria == "" {
		return nil
	}
	return p
}

// importRows reads the workbook and calls create for each row, recording
// conversion and validation failures per row. Infrastructure errors abort.
func importRows(ctx context.Context, refs ReferenceData, tenantID uuid.UUID, r io.Reader, create func(*rowReader) error) (*spreadsheet.ImportResult, error) {
	table, err := spreadsheet.Read(r, colCompanyName)
	if err != nil {
		return nil, shared.NewValidationError("file", err.Error())
	}
	lookup, err := refs.Lookup(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	result := &spreadsheet.ImportResult{Total: len(table.Rows), Errors: []spreadsheet.RowError{}}
	for _, row := range table.Rows {
		rr := &rowReader{row: row, lookup: lookup}
		err := create(rr)
		if rr.failed() {
			result.Fail(row.Number, rr.column, rr.message)
			continue
		}
		if err != nil {
			var verr *shared.ValidationError
			var derr *shared.DomainError
			switch {
			case errors.As(err, &verr) && len(verr.Fields) > 0:
				result.Fail(row.Number, verr.Fields[0].Field, verr.Fields[0].Message)
				continue
			case errors.As(err, &derr):
				result.Fail(row.Number, "", derr.Message)
				continue
			}
			return result, err
		}
		result.Imported++
	}
	return result, nil
}

// Import creates one buyer per sheet row. Rows that fail are skipped and reported.
func (s *BuyerService) Import(ctx context.Context, tenantID, userID uuid.UUID, r io.Reader) (*spreadsheet.ImportResult, error) {
	result, err := importRows(ctx, s.refs, tenantID, r, func(rr *rowReader) error {
		in := crm.BuyerInput{
			RecordInput: rr.record(),
			Overview:    rr.overview(),
			Financials:  rr.financials(),
			Preferences: rr.preferences(),
		}
		if rr.failed() {
			return nil
		}
		_, err := s.create(ctx, tenantID, userID, in)
		return err
	})
	if err != nil {
		return result, err
	}
	s.logger.Info("buyers imported",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed))
	return result, nil
}

// Import creates one seller per sheet row. Rows that fail are skipped and reported.
func (s *SellerService) Import(ctx context.Context, tenantID, userID uuid.UUID, r io.Reader) (*spreadsheet.ImportResult, error) {
	result, err := importRows(ctx, s.refs, tenantID, r, func(rr *rowReader) error {
		in := crm.SellerInput{
			RecordInput: rr.record(),
			SaleType:    crm.SaleType(strings.ToLower(rr.text(colSaleType))),
			SaleReason:  rr.text(colSaleReason),
			Overview:    rr.overview(),
			Financials:  rr.financials(),
		}
		if rr.failed() {
			return nil
		}
		_, err := s.create(ctx, tenantID, userID, in)
		return err
	})
	if err != nil {
		return result, err
	}
	s.logger.Info("sellers imported",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed))
	return result, nil
}
