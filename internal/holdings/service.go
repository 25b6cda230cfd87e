// Package holdings owns the in-memory record lists of a session. Every
// mutation is serialized and flushed to the store before it returns.
package holdings

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/taxonomy"
)

var (
	// ErrNotFound indicates that no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidAsset indicates an asset rejected at input validation.
	ErrInvalidAsset = errors.New("invalid asset")
	// ErrInvalidExpense indicates an expense rejected at input validation.
	ErrInvalidExpense = errors.New("invalid expense")
)

// Store persists the record lists.
type Store interface {
	LoadAssets(ctx context.Context) []domain.Asset
	SaveAssets(ctx context.Context, assets []domain.Asset)
	LoadExpenses(ctx context.Context) []domain.Expense
	SaveExpenses(ctx context.Context, expenses []domain.Expense)
}

// Service holds the asset and expense lists.
type Service struct {
	mu       sync.RWMutex
	store    Store
	taxonomy domain.TaxonomyVersion
	newID    func() string
	onChange func()

	assets   []domain.Asset
	expenses []domain.Expense
}

// NewService loads the stored records. def is the taxonomy new assets are
// tagged with when they carry no tag of their own.
func NewService(ctx context.Context, store Store, def domain.TaxonomyVersion) *Service {
	return &Service{
		store:    store,
		taxonomy: def,
		newID:    newID,
		assets:   store.LoadAssets(ctx),
		expenses: store.LoadExpenses(ctx),
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// OnChange registers fn to run after every mutation has been flushed to the
// store. fn runs with the service lock held and must not call back into it.
func (s *Service) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *Service) saveAssets(ctx context.Context) {
	s.store.SaveAssets(ctx, s.assets)
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Service) saveExpenses(ctx context.Context) {
	s.store.SaveExpenses(ctx, s.expenses)
	if s.onChange != nil {
		s.onChange()
	}
}

// Taxonomy returns the default taxonomy version.
func (s *Service) Taxonomy() domain.TaxonomyVersion {
	return s.taxonomy
}

// Assets returns a copy of the asset list in insertion order.
func (s *Service) Assets() []domain.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.assets)
}

// Expenses returns a copy of the expense list in insertion order.
func (s *Service) Expenses() []domain.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.expenses)
}

// Get returns the asset with the given id.
func (s *Service) Get(id string) (domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := lo.Find(s.assets, func(a domain.Asset) bool { return a.ID == id })
	if !ok {
		return domain.Asset{}, ErrNotFound
	}
	return a, nil
}

// Add validates a new asset, assigns it an id and appends it.
func (s *Service) Add(ctx context.Context, a domain.Asset) (domain.Asset, error) {
	a.ID = s.newID()
	if a.TaxonomyVersion == "" {
		a.TaxonomyVersion = s.taxonomy
	}
	if err := ValidateAsset(a, s.taxonomy); err != nil {
		return domain.Asset{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = append(s.assets, a)
	s.saveAssets(ctx)
	return a, nil
}

// Upsert replaces the asset with the same id, or appends it when the id is new.
func (s *Service) Upsert(ctx context.Context, a domain.Asset) (domain.Asset, error) {
	if a.ID == "" {
		return domain.Asset{}, fmt.Errorf("%w: id is required", ErrInvalidAsset)
	}
	if a.TaxonomyVersion == "" {
		a.TaxonomyVersion = s.taxonomy
	}
	if err := ValidateAsset(a, s.taxonomy); err != nil {
		return domain.Asset{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.IndexFunc(s.assets, func(x domain.Asset) bool { return x.ID == a.ID }); i >= 0 {
		s.assets[i] = a
	} else {
		s.assets = append(s.assets, a)
	}
	s.saveAssets(ctx)
	return a, nil
}

// Delete removes the asset with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.assets, func(a domain.Asset) bool { return a.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	s.assets = slices.Delete(s.assets, i, i+1)
	s.saveAssets(ctx)
	return nil
}

// Replace swaps the whole asset list, as done by an import. The records are
// stored as given: imports are filtered by the reader, not validated here.
func (s *Service) Replace(ctx context.Context, assets []domain.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = slices.Clone(assets)
	if s.assets == nil {
		s.assets = []domain.Asset{}
	}
	s.saveAssets(ctx)
}

// AddExpense validates a new expense, assigns it an id and appends it.
func (s *Service) AddExpense(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	e.ID = s.newID()
	if err := ValidateExpense(e); err != nil {
		return domain.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	s.saveExpenses(ctx)
	return e, nil
}

// DeleteExpense removes the expense with the given id.
func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.expenses, func(e domain.Expense) bool { return e.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	s.expenses = slices.Delete(s.expenses, i, i+1)
	s.saveExpenses(ctx)
	return nil
}

// ReplaceExpenses swaps the whole expense list.
func (s *Service) ReplaceExpenses(ctx context.Context, expenses []domain.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = slices.Clone(expenses)
	if s.expenses == nil {
		s.expenses = []domain.Expense{}
	}
	s.saveExpenses(ctx)
}

// ValidateAsset checks a record at the input boundary: a positive amount, a
// calendar date, a tax rate within 0..100 and a subcategory that belongs to the
// category under the record's taxonomy.
func ValidateAsset(a domain.Asset, def domain.TaxonomyVersion) error {
	if a.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAsset)
	}
	if _, ok := a.ParsedDate(); !ok {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidAsset, a.Date)
	}
	if a.TaxRate != nil && (*a.TaxRate < 0 || *a.TaxRate > 100) {
		return fmt.Errorf("%w: tax rate %v outside 0..100", ErrInvalidAsset, *a.TaxRate)
	}
	if v := taxonomy.Classify(a, def); v != taxonomy.Valid {
		return fmt.Errorf("%w: %s/%s is %s under the %s taxonomy",
			ErrInvalidAsset, a.Category, a.Subcategory, v, a.Version(def))
	}
	return nil
}

var expenseCategories = []domain.ExpenseCategory{
	domain.ExpenseFood,
	domain.ExpenseDining,
	domain.ExpenseTransport,
	domain.ExpenseUtilities,
	domain.ExpenseEntertainment,
	domain.ExpenseShopping,
	domain.ExpenseHealthcare,
	domain.ExpenseEducation,
	domain.ExpenseOther,
}

// ValidateExpense checks an expense at the input boundary.
func ValidateExpense(e domain.Expense) error {
	if e.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidExpense)
	}
	if _, err := time.Parse(domain.DateLayout, e.Date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidExpense, e.Date)
	}
	if !lo.Contains(expenseCategories, e.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidExpense, e.Category)
	}
	return nil
}
