package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/triptales/internal/dbx"
	"github.com/dmitrijs2005/triptales/internal/server/repositories/itineraries"
	"github.com/dmitrijs2005/triptales/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/triptales/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Itineraries(db dbx.DBTX) itineraries.Repository
	Reviews(db dbx.DBTX) reviews.Repository
}
