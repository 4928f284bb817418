package users

import (
	"context"

	"userdir/internal/domain"
)

// Source defines read access to the remote user corpus.
type Source interface {
	FetchPage(ctx context.Context, page int) (domain.Page, error)
	FetchUserByID(ctx context.Context, id int) (domain.User, error)
}
