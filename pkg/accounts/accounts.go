// Package accounts defines the contract to the platform's login-account
// provider. People records may link to an account; the upsert flow resolves
// and updates accounts through this interface only.
package accounts

import "context"

// Account is the slice of a login account the people service cares about.
type Account struct {
	ID      int64
	Email   string
	Website string
}

// Provider resolves and mutates login accounts. FindByID and FindByEmail
// return nil without error when no account matches.
type Provider interface {
	FindByID(ctx context.Context, id int64) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	// Update applies email/website changes and returns the account id.
	Update(ctx context.Context, id int64, fields map[string]string) (int64, error)
	// SetMeta stores a free-form key/value on the account. A returned error
	// redirects the field into the person's own storage instead of failing
	// the whole operation.
	SetMeta(ctx context.Context, id int64, key, value string) error
}

// NopProvider is a Provider for deployments without a login-account system.
// Every lookup misses and every mutation succeeds without effect.
type NopProvider struct{}

func (NopProvider) FindByID(ctx context.Context, id int64) (*Account, error) {
	return nil, nil
}

func (NopProvider) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return nil, nil
}

func (NopProvider) Update(ctx context.Context, id int64, fields map[string]string) (int64, error) {
	return id, nil
}

func (NopProvider) SetMeta(ctx context.Context, id int64, key, value string) error {
	return nil
}
