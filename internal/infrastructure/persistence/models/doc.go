// Package models contains GORM persistence models that map to database tables.
// They are kept separate from domain entities so the domain layer stays free
// of ORM tags.
//
// Each model provides ToDomain and FromDomain mappers used by the
// repositories in the parent package. Column types mirror migrations/000001.
package models
