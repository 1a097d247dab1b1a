// Package models contains the GORM persistence models and their
// conversions to and from the domain types. Persistence concerns such as
// column types, indexes and foreign keys live here so the domain stays
// free of GORM tags.
package models
