package memory

import (
	"fmt"
	"sort"

	"paystream/internal/domain"
	"paystream/internal/repository"
)

// AccountRepository keeps all client accounts in a plain map. All mutation
// happens from the single consumer goroutine, so there is no lock.
type AccountRepository struct {
	accounts map[uint16]*domain.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[uint16]*domain.Account),
	}
}

// GetOrCreate returns the account for client, creating an empty unlocked
// account on first reference. Accounts live for the rest of the process.
func (r *AccountRepository) GetOrCreate(client uint16) *domain.Account {
	account, exists := r.accounts[client]
	if !exists {
		account = domain.NewAccount(client)
		r.accounts[client] = account
	}
	return account
}

func (r *AccountRepository) Get(client uint16) (*domain.Account, error) {
	account, exists := r.accounts[client]
	if !exists {
		return nil, fmt.Errorf("%w: account %d", repository.ErrNotFound, client)
	}
	return account, nil
}

// Clients returns all known client ids in ascending order so that report
// output is deterministic for a given input.
func (r *AccountRepository) Clients() []uint16 {
	ids := make([]uint16, 0, len(r.accounts))
	for id := range r.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *AccountRepository) Len() int {
	return len(r.accounts)
}
