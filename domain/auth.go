package domain

import (
	"context"
)

type AuthCache interface {
	GetEmailByToken(ctx context.Context, token string) (string, error)
}
