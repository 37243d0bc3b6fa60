package ledger

import (
	"github.com/bankcore/ledger-service/internal/errors"
	"github.com/bankcore/ledger-service/internal/models"
)

// Admin is a privileged operator over a ledger. It holds its own credential,
// distinct from any account credential, and owns nothing: it acts on a
// ledger passed to it.
type Admin struct {
	name       string
	credential string
}

func NewAdmin(name, credential string) *Admin {
	return &Admin{name: name, credential: credential}
}

func (ad *Admin) Name() string {
	return ad.name
}

// CloseAccount removes and destroys an account after verifying the admin
// credential. The credential check comes first: a wrong credential never
// reveals whether the account exists.
func (ad *Admin) CloseAccount(l *Ledger, number, credential string) error {
	if credential != ad.credential {
		return errors.ErrAuthFailed
	}
	return l.close(number)
}

// ViewAccounts is a read-only delegate to the ledger's display.
func (ad *Admin) ViewAccounts(l *Ledger) []models.AccountResponse {
	return l.Accounts()
}
