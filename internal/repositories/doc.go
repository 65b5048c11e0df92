// Package repositories provides the sqlite persistence layer.
//
// Each repository implements [models.Repository] for one entity, with soft deletes and
// a per-table sequence used for stable ordering. Tables are created by
// shared.RunMigrations.
//
// The only entity today is [models.AuthEvent], the audit trail written by the
// authentication flow and read by `delegatify audit list`.
package repositories
