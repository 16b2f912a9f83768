package masterdata

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
	"golang.org/x/text/language"
)

var dialCodePattern = regexp.MustCompile(`^\+[0-9]{1,4}(-[0-9]{1,4})?$`)

// Country is a selectable HQ / target country
type Country struct {
	shared.TenantAggregateRoot
	Name     string
	ISOCode  string
	DialCode string
	IsActive bool
}

// NewCountry creates an active country; isoCode must be an ISO 3166-1 alpha-2 country
func NewCountry(tenantID uuid.UUID, name, isoCode, dialCode string) (*Country, error) {
	c := &Country{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IsActive:            true,
	}
	code, err := normalizeRegion(isoCode)
	if err != nil {
		return nil, err
	}
	c.ISOCode = code
	if err := c.apply(name, dialCode); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the name, dial code and active flag
func (c *Country) Update(name, dialCode string, active bool) error {
	if err := c.apply(name, dialCode); err != nil {
		return err
	}
	c.IsActive = active
	c.Touch()
	return nil
}

func (c *Country) apply(name, dialCode string) error {
	v := &shared.ValidationError{}
	name = strings.TrimSpace(name)
	if name == "" {
		v.Add("name", "This field is required")
	}
	dialCode = strings.TrimSpace(dialCode)
	if dialCode != "" && !dialCodePattern.MatchString(dialCode) {
		v.Add("dial_code", "Must look like +65 or +1-264")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	c.Name = name
	c.DialCode = dialCode
	return nil
}

func normalizeRegion(isoCode string) (string, error) {
	isoCode = strings.ToUpper(strings.TrimSpace(isoCode))
	if len(isoCode) != 2 {
		return "", shared.NewValidationError("iso_code", "Must be exactly 2 characters")
	}
	region, err := language.ParseRegion(isoCode)
	if err != nil || !region.IsCountry() {
		return "", shared.NewValidationError("iso_code", "Unknown ISO 3166-1 country code")
	}
	return region.String(), nil
}
