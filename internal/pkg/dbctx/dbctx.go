package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction so
// repo methods take one argument instead of two.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Session resolves the handle a repo call should run on: the enclosing
// transaction when one is open, otherwise the repo's own fallback.
func (c Context) Session(fallback *gorm.DB) *gorm.DB {
	if c.Tx != nil {
		return c.Tx
	}
	return fallback
}
