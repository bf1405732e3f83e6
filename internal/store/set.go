package store

import (
	"database/sql"

	"github.com/refcanon/refcanon/pkg/registry"
)

// Set bundles one store per registry entity type. The whole pipeline
// writes entities exclusively through these stores.
type Set struct {
	Regions             Store[registry.Region]
	Magistrates         Store[registry.Magistrate]
	HealthCareDistricts Store[registry.HealthCareDistrict]
	ElectoralDistricts  Store[registry.ElectoralDistrict]
	Municipalities      Store[registry.Municipality]
	PostalCodes         Store[registry.PostalCode]
	StreetAddresses     Store[registry.StreetAddress]
	BusinessIDs         Store[registry.BusinessID]
	CodeRegistries      Store[registry.CodeRegistry]
	CodeSchemes         Store[registry.CodeScheme]
	Codes               Store[registry.Code]

	db *sql.DB
}

// NewMemorySet creates a Set backed entirely by in-memory stores.
func NewMemorySet() *Set {
	return &Set{
		Regions:             NewMemory(registry.KindRegion.String(), (*registry.Region).Key),
		Magistrates:         NewMemory(registry.KindMagistrate.String(), (*registry.Magistrate).Key),
		HealthCareDistricts: NewMemory(registry.KindHealthCareDistrict.String(), (*registry.HealthCareDistrict).Key),
		ElectoralDistricts:  NewMemory(registry.KindElectoralDistrict.String(), (*registry.ElectoralDistrict).Key),
		Municipalities:      NewMemory(registry.KindMunicipality.String(), (*registry.Municipality).Key),
		PostalCodes:         NewMemory(registry.KindPostalCode.String(), (*registry.PostalCode).Key),
		StreetAddresses:     NewMemory(registry.KindStreetAddress.String(), (*registry.StreetAddress).Key),
		BusinessIDs:         NewMemory(registry.KindBusinessID.String(), (*registry.BusinessID).Key),
		CodeRegistries:      NewMemory(registry.KindCodeRegistry.String(), (*registry.CodeRegistry).Key),
		CodeSchemes:         NewMemory(registry.KindCodeScheme.String(), (*registry.CodeScheme).Key),
		Codes:               NewMemory(registry.KindCode.String(), (*registry.Code).Key),
	}
}

// OpenSet creates a Set backed by the SQLite database at path.
func OpenSet(path string) (*Set, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	return &Set{
		Regions:             NewSQLite(db, registry.KindRegion.String(), (*registry.Region).Key),
		Magistrates:         NewSQLite(db, registry.KindMagistrate.String(), (*registry.Magistrate).Key),
		HealthCareDistricts: NewSQLite(db, registry.KindHealthCareDistrict.String(), (*registry.HealthCareDistrict).Key),
		ElectoralDistricts:  NewSQLite(db, registry.KindElectoralDistrict.String(), (*registry.ElectoralDistrict).Key),
		Municipalities:      NewSQLite(db, registry.KindMunicipality.String(), (*registry.Municipality).Key),
		PostalCodes:         NewSQLite(db, registry.KindPostalCode.String(), (*registry.PostalCode).Key),
		StreetAddresses:     NewSQLite(db, registry.KindStreetAddress.String(), (*registry.StreetAddress).Key),
		BusinessIDs:         NewSQLite(db, registry.KindBusinessID.String(), (*registry.BusinessID).Key),
		CodeRegistries:      NewSQLite(db, registry.KindCodeRegistry.String(), (*registry.CodeRegistry).Key),
		CodeSchemes:         NewSQLite(db, registry.KindCodeScheme.String(), (*registry.CodeScheme).Key),
		Codes:               NewSQLite(db, registry.KindCode.String(), (*registry.Code).Key),
		db:                  db,
	}, nil
}

// DB exposes the underlying database so other persisted components,
// the run ledger in particular, can share the same file. Nil for
// in-memory sets.
func (s *Set) DB() *sql.DB {
	return s.db
}

// Close releases the underlying database, if any.
func (s *Set) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
