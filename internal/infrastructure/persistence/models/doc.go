// Package models contains the GORM persistence models. Domain entities stay
// free of ORM tags; each model converts to and from its entity with
// ToDomain and FromDomain.
//
// Files:
//   - base.go: shared columns and the AutoMigrate list
//   - identity.go: users
//   - masterdata.go: currencies, countries, industries
//   - organization.go: companies, branches, departments, teams, designations, employees
//   - crm.go: buyers, sellers, partners and their detail tables
//   - deal.go: deals and the stage history
//   - filefolder.go: folders, files and owner links
//   - notification.go: in-app notifications
package models
