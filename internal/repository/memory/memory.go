package memory

import (
	"paystream/internal/repository"
)

var (
	_ repository.AccountRepository = (*AccountRepository)(nil)
	_ repository.HistoryRepository = (*HistoryRepository)(nil)
)
