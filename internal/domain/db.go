package domain

import "context"

// Database is the lifecycle surface of the store behind the repositories.
// The health endpoint pings it; main migrates and closes it.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
