// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model converts to and from its
// entity with ToDomain and FromDomain.
//
// Column types are chosen to work on PostgreSQL, MySQL and SQLite alike:
// identifiers are char(36) and amounts decimal(12,2).
package models
