// Package types defines the entity types, store and collaborator interfaces,
// and standard error values for the taskbin lifecycle engine.
//
// Projects contain Lists and Lists contain Tasks. Every entity carries a
// TrashState; the lifecycle engine moves entities between the active and
// trashed states and purges them permanently. Entities reference each other
// by ID only (see EntityRef), never by pointer.
package types
