package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ventureflow/backend/internal/domain/masterdata"
)

// CurrencyModel is the persistence model for currencies
type CurrencyModel struct {
	TenantAggregateModel
	Code         string          `gorm:"type:varchar(3);not null;index"`
	Name         string          `gorm:"type:varchar(100);not null"`
	Symbol       string          `gorm:"type:varchar(10)"`
	ExchangeRate decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1"`
	IsActive     bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CurrencyModel) TableName() string {
	return "currencies"
}

// ToDomain converts the model to a domain Currency
func (m *CurrencyModel) ToDomain() *masterdata.Currency {
	return &masterdata.Currency{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Symbol:              m.Symbol,
		ExchangeRate:        m.ExchangeRate,
		IsActive:            m.IsActive,
	}
}

// CurrencyModelFromDomain creates a model from a domain Currency
func CurrencyModelFromDomain(c *masterdata.Currency) *CurrencyModel {
	m := &CurrencyModel{
		Code:         c.Code,
		Name:         c.Name,
		Symbol:       c.Symbol,
		ExchangeRate: c.ExchangeRate,
		IsActive:     c.IsActive,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// CountryModel is the persistence model for countries
type CountryModel struct {
	TenantAggregateModel
	Name     string `gorm:"type:varchar(100);not null"`
	ISOCode  string `gorm:"column:iso_code;type:varchar(2);not null;index"`
	DialCode string `gorm:"type:varchar(10)"`
	IsActive bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CountryModel) TableName() string {
	return "countries"
}

// ToDomain converts the model to a domain Country
func (m *CountryModel) ToDomain() *masterdata.Country {
	return &masterdata.Country{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		ISOCode:             m.ISOCode,
		DialCode:            m.DialCode,
		IsActive:            m.IsActive,
	}
}

// CountryModelFromDomain creates a model from a domain Country
func CountryModelFromDomain(c *masterdata.Country) *CountryModel {
	m := &CountryModel{
		Name:     c.Name,
		ISOCode:  c.ISOCode,
		DialCode: c.DialCode,
		IsActive: c.IsActive,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// IndustryModel is the persistence model for industries
type IndustryModel struct {
	TenantAggregateModel
	Name        string     `gorm:"type:varchar(150);not null;index"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	Description string     `gorm:"type:text"`
	IsActive    bool       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (IndustryModel) TableName() string {
	return "industries"
}

// ToDomain converts the model to a domain Industry
func (m *IndustryModel) ToDomain() *masterdata.Industry {
	return &masterdata.Industry{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		ParentID:            m.ParentID,
		Description:         m.Description,
		IsActive:            m.IsActive,
	}
}

// IndustryModelFromDomain creates a model from a domain Industry
func IndustryModelFromDomain(i *masterdata.Industry) *IndustryModel {
	m := &IndustryModel{
		Name:        i.Name,
		ParentID:    i.ParentID,
		Description: i.Description,
		IsActive:    i.IsActive,
	}
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	return m
}
