// Package registry provides read-only lookups of payment instruments and
// beneficiaries. Both containers are partitioned by the owning account id,
// so every lookup is an in-partition point read.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerstack/ledgerstack/pkg/docstore"
	"github.com/ledgerstack/ledgerstack/pkg/domain"
)

const defaultTimeout = 5 * time.Second

// Service resolves instruments and beneficiaries scoped to an account.
type Service struct {
	methods       docstore.Container
	beneficiaries docstore.Container
	timeout       time.Duration
}

// Option customizes a Service.
type Option func(*Service)

// WithTimeout bounds each store call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// New builds a registry over the payment-method and beneficiary containers.
func New(client docstore.Client, opts ...Option) *Service {
	s := &Service{
		methods:       client.Container(docstore.ContainerPaymentMethods),
		beneficiaries: client.Container(docstore.ContainerBeneficiaries),
		timeout:       defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPaymentMethod returns the payment method owned by the account, or
// domain.ErrPaymentMethodNotFound.
func (s *Service) GetPaymentMethod(ctx context.Context, methodID, accountID string) (*domain.PaymentMethod, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	doc, err := s.methods.ReadItem(cctx, methodID, accountID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrPaymentMethodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read payment method %s: %w", methodID, err)
	}
	var pm domain.PaymentMethod
	if err := json.Unmarshal(doc.Body, &pm); err != nil {
		return nil, fmt.Errorf("decode payment method %s: %w", methodID, err)
	}
	return &pm, nil
}

// GetBeneficiary returns the beneficiary owned by the account, or
// domain.ErrBeneficiaryNotFound.
func (s *Service) GetBeneficiary(ctx context.Context, beneficiaryID, accountID string) (*domain.Beneficiary, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	doc, err := s.beneficiaries.ReadItem(cctx, beneficiaryID, accountID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrBeneficiaryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read beneficiary %s: %w", beneficiaryID, err)
	}
	var b domain.Beneficiary
	if err := json.Unmarshal(doc.Body, &b); err != nil {
		return nil, fmt.Errorf("decode beneficiary %s: %w", beneficiaryID, err)
	}
	return &b, nil
}
