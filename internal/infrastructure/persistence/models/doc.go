// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free of ORM concerns.
//
// Structure:
// - base.go: base persistence models (BaseModel, TenantModel)
// - ledger.go: accounts, installments, payments, allocations and reference entities
// - types.go: column types shared by the models
package models
