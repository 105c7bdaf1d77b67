// Package proxy orchestrates every gateway operation: validate the
// session, make the single remote call, then normalize, degrade or
// classify. Handlers above it only translate results to HTTP.
package proxy

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jeuanimo/expensegate/internal/adapter/backend"
	"github.com/jeuanimo/expensegate/internal/core/domain"
	"github.com/jeuanimo/expensegate/internal/core/fallback"
	"github.com/jeuanimo/expensegate/internal/core/normalize"
	"github.com/jeuanimo/expensegate/internal/core/session"
)

// Demo credentials accepted only while the remote authentication
// service is unreachable. Part of the fallback contract, not config.
const (
	demoUsername = "demo"
	demoPassword = "demo123"
	demoOwnerID  = 1
)

// ReasonRemoteUnreachable labels every degraded result.
const ReasonRemoteUnreachable = "remote-unreachable"

// Backend is the remote record service as the proxy sees it. A non-nil
// error means transport failure; rejections arrive as responses.
type Backend interface {
	Login(ctx context.Context, creds domain.Credentials) (*backend.Response, error)
	Register(ctx context.Context, payload backend.RegistrationPayload) (*backend.Response, error)
	ListExpenses(ctx context.Context, ownerID int64) (*backend.Response, error)
	GetExpense(ctx context.Context, id int64) (*backend.Response, error)
	CreateExpense(ctx context.Context, payload backend.ExpensePayload) (*backend.Response, error)
	UpdateExpense(ctx context.Context, id int64, payload backend.ExpensePayload) (*backend.Response, error)
	DeleteExpense(ctx context.Context, id int64) (*backend.Response, error)
}

// ListResult is a canonical expense list plus its provenance. Degraded
// means the data is synthetic because the remote service was absent;
// real and synthetic records are never mixed.
type ListResult struct {
	Expenses []domain.Expense
	Degraded bool
	Reason   string
}

type Service struct {
	backend  Backend
	sessions *session.Manager
}

func NewService(b Backend, sessions *session.Manager) *Service {
	return &Service{backend: b, sessions: sessions}
}

// Login exchanges credentials for a session. Reachable rejection stays
// a rejection; only a transport failure unlocks the demo credentials.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	resp, err := s.backend.Login(ctx, creds)
	if err != nil {
		if creds.Username == demoUsername && creds.Password == demoPassword {
			return s.sessions.Create(demoOwnerID, demoUsername), nil
		}
		return domain.Session{}, domain.NewFault(domain.ServiceUnavailable,
			"unable to connect to authentication server")
	}

	if !resp.OK() {
		return domain.Session{}, domain.NewFault(domain.RemoteRejected,
			"invalid username or password")
	}

	ownerID, username, ok := decodeLogin(resp)
	if !ok {
		return domain.Session{}, domain.NewFault(domain.ProtocolMismatch,
			"login response missing user information")
	}

	return s.sessions.Create(ownerID, username), nil
}

type loginPayload struct {
	UserID   *int64 `json:"user_id"`
	Username string `json:"username"`
}

// decodeLogin accepts both payload shapes the backend has shipped:
// wrapped ({"data": {...}}) and flat.
func decodeLogin(resp *backend.Response) (int64, string, bool) {
	var body struct {
		Data *loginPayload `json:"data"`
		loginPayload
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return 0, "", false
	}
	if body.Data != nil && body.Data.UserID != nil && body.Data.Username != "" {
		return *body.Data.UserID, body.Data.Username, true
	}
	if body.UserID != nil && body.Username != "" {
		return *body.UserID, body.Username, true
	}
	return 0, "", false
}

// Register validates locally before any remote call; the remote service
// never sees a request that would fail those checks. There is no
// offline fallback — registration cannot be faked without a store.
func (s *Service) Register(ctx context.Context, reg domain.Registration) error {
	if reg.Username == "" || reg.Password == "" || reg.Email == "" ||
		reg.FirstName == "" || reg.LastName == "" {
		return domain.NewFault(domain.InvalidInput, "all required fields must be filled")
	}
	if reg.Password != reg.ConfirmPassword {
		return domain.NewFault(domain.InvalidInput, "passwords do not match")
	}

	payload := backend.RegistrationPayload{
		Username:  reg.Username,
		Password:  reg.Password,
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
	}
	// Optional income rides along only when it parses cleanly;
	// a bad value is dropped, not an error.
	if reg.MonthlyIncome != "" {
		if income, err := strconv.ParseFloat(reg.MonthlyIncome, 64); err == nil && income >= 0 {
			payload.MonthlyIncome = &income
		}
	}

	resp, err := s.backend.Register(ctx, payload)
	if err != nil {
		return domain.NewFault(domain.ServiceUnavailable,
			"unable to connect to registration server")
	}
	if resp.Status == 201 {
		return nil
	}

	message := "registration failed"
	var remote struct {
		Message string `json:"message"`
	}
	if decodeErr := resp.DecodeJSON(&remote); decodeErr == nil && remote.Message != "" {
		message = remote.Message
	}
	return domain.NewFault(domain.RemoteRejected, message)
}

// ListExpenses returns the caller's canonical expenses. Unreachable
// backend degrades to the synthetic sample list; a reachable backend
// returning an empty list is a valid, non-degraded result.
func (s *Service) ListExpenses(ctx context.Context, sess *domain.Session) (ListResult, error) {
	if err := s.sessions.Validate(sess); err != nil {
		return ListResult{}, err
	}

	resp, err := s.backend.ListExpenses(ctx, sess.OwnerID)
	if err != nil {
		return ListResult{
			Expenses: fallback.Expenses(*sess),
			Degraded: true,
			Reason:   ReasonRemoteUnreachable,
		}, nil
	}
	if !resp.OK() {
		return ListResult{}, domain.NewFault(domain.RemoteRejected,
			"error loading expenses from server")
	}

	raws, ok := decodeExpenseList(resp)
	if !ok {
		return ListResult{}, domain.NewFault(domain.ProtocolMismatch,
			"unexpected expense list format")
	}

	return ListResult{Expenses: normalize.Expenses(raws, *sess)}, nil
}

// decodeExpenseList accepts {"data": [...]} and a bare array.
func decodeExpenseList(resp *backend.Response) ([]domain.RawExpense, bool) {
	var wrapped struct {
		Data []domain.RawExpense `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, true
	}
	var list []domain.RawExpense
	if err := resp.DecodeJSON(&list); err != nil {
		return nil, false
	}
	return list, true
}

// GetExpense fetches one record for edit flows. No ownership filter is
// applied here: the remote service is the sole authority on whether
// the id belongs to the caller, for fetch exactly as for the mutation
// that follows.
func (s *Service) GetExpense(ctx context.Context, sess *domain.Session, id int64) (domain.Expense, error) {
	if err := s.sessions.Validate(sess); err != nil {
		return domain.Expense{}, err
	}

	resp, err := s.backend.GetExpense(ctx, id)
	if err != nil {
		return domain.Expense{}, domain.NewFault(domain.ServiceUnavailable,
			"unable to connect to server")
	}
	if !resp.OK() {
		return domain.Expense{}, domain.NewFault(domain.RemoteRejected, "expense not found")
	}

	var wrapped struct {
		Data domain.RawExpense `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapped); err == nil && wrapped.Data != nil {
		return normalize.One(wrapped.Data), nil
	}
	var raw domain.RawExpense
	if err := resp.DecodeJSON(&raw); err != nil {
		return domain.Expense{}, domain.NewFault(domain.ProtocolMismatch,
			"unexpected expense format")
	}
	return normalize.One(raw), nil
}

// CreateExpense forwards a new record stamped with the session's owner.
// Writes are never faked: a transport failure surfaces instead of
// pretending the record exists somewhere.
func (s *Service) CreateExpense(ctx context.Context, sess *domain.Session, input domain.ExpenseInput) error {
	if err := s.sessions.Validate(sess); err != nil {
		return err
	}
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return err
	}

	resp, callErr := s.backend.CreateExpense(ctx, backend.ExpensePayload{
		OwnerID:     sess.OwnerID,
		Description: input.Description,
		Amount:      amount,
		Category:    input.Category,
		Date:        input.Date,
	})
	if callErr != nil {
		return domain.NewFault(domain.ServiceUnavailable,
			"unable to connect to server to add expense")
	}
	if !resp.OK() {
		return domain.NewFault(domain.RemoteRejected, "failed to add expense")
	}
	return nil
}

// UpdateExpense replaces a record by id. The remote service decides
// whether the id belongs to the caller.
func (s *Service) UpdateExpense(ctx context.Context, sess *domain.Session, id int64, input domain.ExpenseInput) error {
	if err := s.sessions.Validate(sess); err != nil {
		return err
	}
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return err
	}

	resp, callErr := s.backend.UpdateExpense(ctx, id, backend.ExpensePayload{
		OwnerID:     sess.OwnerID,
		Description: input.Description,
		Amount:      amount,
		Category:    input.Category,
		Date:        input.Date,
	})
	if callErr != nil {
		return domain.NewFault(domain.ServiceUnavailable, "unable to connect to server")
	}
	if !resp.OK() {
		return domain.NewFault(domain.RemoteRejected, "failed to update expense")
	}
	return nil
}

// DeleteExpense removes a record by id, again with the remote service
// as the ownership authority.
func (s *Service) DeleteExpense(ctx context.Context, sess *domain.Session, id int64) error {
	if err := s.sessions.Validate(sess); err != nil {
		return err
	}

	resp, err := s.backend.DeleteExpense(ctx, id)
	if err != nil {
		return domain.NewFault(domain.ServiceUnavailable, "unable to connect to server")
	}
	if !resp.OK() {
		return domain.NewFault(domain.RemoteRejected, "failed to delete expense")
	}
	return nil
}

// parseAmount enforces the non-negative decimal rule for writes. Reads
// tolerate garbage amounts; writes do not.
func parseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil || amount.IsNegative() {
		return decimal.Decimal{}, domain.NewFault(domain.InvalidInput, "invalid amount entered")
	}
	return amount, nil
}
