// Package repository handles all interactions with the database.
//
// It contains a generic store that persists any record type describing its
// own table (see model.Schema), plus the filters used to query it, keeping
// SQL away from the service layer.
package repository
