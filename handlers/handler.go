package handlers

import (
	"github.com/uptrace/bun"

	"github.com/technova/compintel/pipeline"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db     *bun.DB
	runner *pipeline.Runner
	JWTKey []byte
}

// New creates a Handler with the given database connection, pipeline runner,
// and JWT signing key.
func New(db *bun.DB, runner *pipeline.Runner, jwtKey []byte) *Handler {
	return &Handler{db: db, runner: runner, JWTKey: jwtKey}
}
