package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type customerService struct {
	BaseService
	uow          portsrepo.UnitOfWork
	customerRepo portsrepo.CustomerReader
}

func NewCustomerService(uow portsrepo.UnitOfWork, customers portsrepo.CustomerReader, base BaseService) portssvc.CustomerSvcFacade {
	return &customerService{BaseService: base, uow: uow, customerRepo: customers}
}

var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, creatorUserID string) (*domain.Customer, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, validationError("name and email are required")
	}
	creditLimit := decimal.Zero
	if req.CreditLimit != nil {
		if req.CreditLimit.IsNegative() {
			return nil, validationError("credit limit must not be negative")
		}
		creditLimit = domain.RoundMoney(*req.CreditLimit)
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		CustomerID:    uuid.NewString(),
		Name:          req.Name,
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         req.Phone,
		Address:       req.Address,
		CreditLimit:   creditLimit,
		CustomerGroup: req.CustomerGroup,
		AuditFields:   domain.NewAuditFields(creatorUserID, now),
	}

	err := s.uow.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if err := repos.Customers.SaveCustomer(ctx, customer); err != nil {
			return err
		}
		return repos.ActivityLogs.AppendActivityLog(ctx, newActivityLog(creatorUserID, domain.ActionCustomerCreated, domain.EntityCustomer, customer.CustomerID, map[string]any{
			"name": customer.Name,
		}, now))
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create customer", slog.String("email", customer.Email))
		return nil, err
	}

	s.invalidateDashboard(ctx)
	s.LogInfo(ctx, "Customer created", slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	c, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find customer", slog.String("customer_id", customerID))
		}
		return nil, notFound(err, "customer", customerID)
	}
	return c, nil
}

func (s *customerService) ListCustomers(ctx context.Context, params dto.ListCustomersParams) ([]domain.Customer, error) {
	customers, err := s.customerRepo.ListCustomers(ctx, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list customers")
		return nil, err
	}
	return customers, nil
}
