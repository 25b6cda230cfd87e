package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/taxonomy"
)

// Storage keys.
const (
	AssetsKey   = "asset_checker_assets"
	ExpensesKey = "asset_checker_expenses"
)

// Gateway loads and saves the record lists. Loads never fail: a missing,
// unreadable or corrupt value reads as an empty list. Saves are best effort and
// only log failures.
type Gateway struct {
	kv KV
}

// NewGateway creates a Gateway over kv.
func NewGateway(kv KV) *Gateway {
	return &Gateway{kv: kv}
}

// LoadAssets returns the stored assets. Untagged records in legacy-only
// categories are tagged legacy.
func (g *Gateway) LoadAssets(ctx context.Context) []domain.Asset {
	return lo.Map(load[domain.Asset](ctx, g.kv, AssetsKey), func(a domain.Asset, _ int) domain.Asset {
		return taxonomy.TagLegacy(a)
	})
}

// SaveAssets replaces the stored assets.
func (g *Gateway) SaveAssets(ctx context.Context, assets []domain.Asset) {
	save(ctx, g.kv, AssetsKey, assets)
}

// LoadExpenses returns the stored expenses.
func (g *Gateway) LoadExpenses(ctx context.Context) []domain.Expense {
	return load[domain.Expense](ctx, g.kv, ExpensesKey)
}

// SaveExpenses replaces the stored expenses.
func (g *Gateway) SaveExpenses(ctx context.Context, expenses []domain.Expense) {
	save(ctx, g.kv, ExpensesKey, expenses)
}

// HasStoredData reports whether an asset list has ever been saved.
func (g *Gateway) HasStoredData(ctx context.Context) bool {
	_, ok, err := g.kv.Get(ctx, AssetsKey)
	if err != nil {
		slog.Error("checking stored data", "error", err)
		return false
	}
	return ok
}

// Clear removes all stored records.
func (g *Gateway) Clear(ctx context.Context) {
	for _, key := range []string{AssetsKey, ExpensesKey} {
		if err := g.kv.Delete(ctx, key); err != nil {
			slog.Error("clearing stored data", "key", key, "error", err)
		}
	}
}

// load decodes a JSON array element by element. Elements that do not decode
// are dropped so one bad record does not hide the rest.
func load[T any](ctx context.Context, kv KV, key string) []T {
	out := []T{}

	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		slog.Error("loading stored data", "key", key, "error", err)
		return out
	}
	if !ok {
		return out
	}
	switch strings.TrimSpace(string(raw)) {
	case "", "undefined", "null":
		return out
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		slog.Warn("stored data is not a JSON array, ignoring", "key", key, "error", err)
		return out
	}
	for i, e := range elems {
		var v T
		if err := json.Unmarshal(e, &v); err != nil {
			slog.Warn("skipping malformed stored record", "key", key, "index", i, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}

func save[T any](ctx context.Context, kv KV, key string, records []T) {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		slog.Error("encoding records", "key", key, "error", err)
		return
	}
	if err := kv.Set(ctx, key, data); err != nil {
		slog.Error("saving records", "key", key, "error", err)
	}
}
