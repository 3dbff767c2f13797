/*
store.go - Persistence interface for artist records

PURPOSE:
  Defines the interface between the accounting logic and the database.
  The store is a keyed record store with point lookups and atomic
  single-record field updates. Different implementations can use SQLite,
  PostgreSQL, or in-memory storage.

SOFT-DELETE CONTRACT:
  Retired artists are invisible: FindActive, ListActive and UpdateFields
  all filter them out and report ErrArtistNotFound. Nothing is ever
  physically deleted.

FIELD-LEVEL UPDATES:
  UpdateFields applies a Mutation as a targeted update of exactly the named
  fields, atomic for the single record. No whole-record overwrites exist,
  so the ingestion path and the accounting path never clobber each other.
  Two racing updates on the SAME owned fields resolve last-writer-wins;
  callers needing more should layer a version token on the owned fields.

INGESTION:
  AddStreams is the external usage-ingestion write path. It bumps the
  stream counter only and is not part of the accounting Service.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - royalty/store: In-memory for testing

SEE ALSO:
  - service.go: The only consumer of this interface
  - store/sqlite/sqlite.go: Concrete implementation
*/
package royalty

import "context"

// Store handles persistence of artist records.
type Store interface {
	// FindActive returns the artist snapshot for id, or ErrArtistNotFound
	// if the id is unknown or the record is retired.
	FindActive(ctx context.Context, id ArtistID) (*Artist, error)

	// ListActive returns all non-retired artists.
	ListActive(ctx context.Context) ([]Artist, error)

	// Insert persists a new artist. Returns ErrNameTaken if the name
	// collides with another non-retired artist.
	Insert(ctx context.Context, a Artist) error

	// UpdateFields applies a field-level mutation to a single active
	// record. Returns ErrArtistNotFound if the record is missing or
	// retired, ErrNameTaken on a name collision.
	UpdateFields(ctx context.Context, id ArtistID, mut Mutation) error

	// AddStreams records externally ingested usage: streams += n.
	// Returns ErrArtistNotFound if the record is missing or retired.
	AddStreams(ctx context.Context, id ArtistID, n int64) error
}
