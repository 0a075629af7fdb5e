package repo

import (
	"github.com/tiply/tiply/internal/pg"
	ledgerrepo "github.com/tiply/tiply/internal/repo/ledger-repo"
	limitsrepo "github.com/tiply/tiply/internal/repo/limits-repo"
	payoutrepo "github.com/tiply/tiply/internal/repo/payout-repo"
	transactionrepo "github.com/tiply/tiply/internal/repo/transaction-repo"
	userrepo "github.com/tiply/tiply/internal/repo/user-repo"
)

type Repositories struct {
	UserRepo        *userrepo.Repository
	TransactionRepo *transactionrepo.Repository
	PayoutRepo      *payoutrepo.Repository
	LedgerRepo      *ledgerrepo.Repository
	LimitsRepo      *limitsrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:        userrepo.New(conn),
		TransactionRepo: transactionrepo.New(conn, txManager),
		PayoutRepo:      payoutrepo.New(conn, txManager),
		LedgerRepo:      ledgerrepo.New(conn),
		LimitsRepo:      limitsrepo.New(conn),
	}
}
