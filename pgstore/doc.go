// Package pgstore implements the credential store over PostgreSQL using pgx.
// Store covers the engine's UserStore contract; Repo is a small generic CRUD
// helper for the tables that sit next to users (profiles, audit rows) without
// a bespoke store each.
package pgstore
