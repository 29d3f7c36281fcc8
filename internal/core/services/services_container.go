package services

import (
	portsrepo "github.com/LogixPH/logix_ops_app/internal/core/ports/repositories"
	portssvc "github.com/LogixPH/logix_ops_app/internal/core/ports/services"
	"github.com/LogixPH/logix_ops_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Voucher = NewVoucherService(repos.VoucherRepo)
	container.Statement = NewStatementService(repos.VoucherRepo)
	container.Reporting = NewReportingService(repos.AccountRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.VoucherSvcFacade   = (*voucherService)(nil)
	_ portssvc.StatementSvcFacade = (*statementService)(nil)
	_ portssvc.ReportingSvcFacade = (*reportingService)(nil)
)
