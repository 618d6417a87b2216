// Package uow scopes one database transaction to one mutating request.
// Handlers never see the transaction directly: the middleware opens it,
// repositories resolve it from the request context via DB, and the middleware
// commits or rolls back based on how the request ended.
package uow

import (
	"context"

	"gorm.io/gorm"
)

type ctxKey struct{}

// With returns a context carrying an open transaction handle.
func With(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, ctxKey{}, tx)
}

// DB resolves the handle for the current request: the request's open
// transaction when one exists, the base connection otherwise. Read-only
// requests never carry a transaction.
func DB(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(ctxKey{}).(*gorm.DB); ok {
		return tx
	}
	return base
}
