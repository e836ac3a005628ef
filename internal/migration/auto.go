package migration

import (
	accountdomain "github.com/casekit/lexbill/internal/account/domain"
	leaddomain "github.com/casekit/lexbill/internal/leadscore/domain"
	ledesdomain "github.com/casekit/lexbill/internal/ledesconfig/domain"
	renewaldomain "github.com/casekit/lexbill/internal/renewal/domain"
	"gorm.io/gorm"
)

func autoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&accountdomain.BillingAccount{},
		&renewaldomain.RenewalQuote{},
		&ledesdomain.Configuration{},
		&leaddomain.Lead{},
	)
}
