// Package rules persists keyword rules in a document property store.
//
// Each rule lives under the key UPPER(keyword)|UPPER(direction) with a JSON
// value holding the category and type. Keys without a "|" belong to other
// features and are never touched here.
package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/Veraticus/budget-sheets/internal/service"
)

// payload is the persisted value of one rule.
type payload struct {
	Category string           `json:"category"`
	Type     model.BudgetType `json:"type"`
}

// Store reads and writes rules through an injected property store.
type Store struct {
	props  service.PropertyStore
	logger *slog.Logger
}

// NewStore creates a rule store backed by props.
func NewStore(props service.PropertyStore, logger *slog.Logger) *Store {
	return &Store{
		props:  props,
		logger: common.LoggerOrDefault(logger),
	}
}

// Save creates or overwrites the rule for keyword and direction.
// An empty direction is stored as "any".
func (s *Store) Save(ctx context.Context, keyword, category string, budgetType model.BudgetType, direction model.Direction) (model.Rule, error) {
	rule, value, err := encode(model.Rule{Keyword: keyword, Category: category, Type: budgetType, Direction: direction})
	if err != nil {
		return model.Rule{}, err
	}

	if err := s.props.Set(ctx, rule.Key(), value); err != nil {
		return model.Rule{}, fmt.Errorf("failed to save rule %s: %w", rule.Key(), err)
	}

	s.logger.Debug("saved rule", "key", rule.Key(), "category", rule.Category, "type", rule.Type)
	return rule, nil
}

// SaveAll stores every rule in one batch. Nothing is written when any rule
// is invalid. A later rule with the same key wins.
func (s *Store) SaveAll(ctx context.Context, rules []model.Rule) ([]model.Rule, error) {
	saved := make([]model.Rule, 0, len(rules))
	values := make(map[string]string, len(rules))
	for _, r := range rules {
		rule, value, err := encode(r)
		if err != nil {
			return nil, err
		}
		values[rule.Key()] = value
		saved = append(saved, rule)
	}
	if len(values) == 0 {
		return saved, nil
	}

	if err := s.props.SetMany(ctx, values); err != nil {
		return nil, fmt.Errorf("failed to save %d rules: %w", len(values), err)
	}

	s.logger.Info("saved rules", "count", len(values))
	return saved, nil
}

// encode normalizes a rule and renders its stored value.
func encode(r model.Rule) (model.Rule, string, error) {
	keyword := strings.TrimSpace(r.Keyword)
	if keyword == "" {
		return model.Rule{}, "", common.NewUserError("keyword required", common.ErrEmptyInput)
	}
	direction := r.Direction
	if direction == "" {
		direction = model.DirectionAny
	}

	rule := model.Rule{
		Keyword:   strings.ToUpper(keyword),
		Direction: model.ParseDirection(string(direction)),
		Category:  strings.TrimSpace(r.Category),
		Type:      r.Type,
	}

	value, err := json.Marshal(payload{Category: rule.Category, Type: rule.Type})
	if err != nil {
		return model.Rule{}, "", fmt.Errorf("failed to encode rule: %w", err)
	}
	return rule, string(value), nil
}

// GetAll returns every readable rule sorted by keyword, then direction.
// Entries whose value cannot be decoded are skipped.
func (s *Store) GetAll(ctx context.Context) ([]model.Rule, error) {
	all, err := s.props.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	out := make([]model.Rule, 0, len(all))
	for key, value := range all {
		rule, ok := s.decode(key, value)
		if !ok {
			continue
		}
		out = append(out, rule)
	}

	sort.Slice(out, func(i, j int) bool {
		ki, kj := strings.ToLower(out[i].Keyword), strings.ToLower(out[j].Keyword)
		if ki != kj {
			return ki < kj
		}
		return strings.ToLower(string(out[i].Direction)) < strings.ToLower(string(out[j].Direction))
	})

	return out, nil
}

// Lookup returns the rule stored for exactly this keyword and direction.
func (s *Store) Lookup(ctx context.Context, keyword string, direction model.Direction) (model.Rule, bool, error) {
	key := model.RuleKey(keyword, direction)
	value, ok, err := s.props.Get(ctx, key)
	if err != nil {
		return model.Rule{}, false, fmt.Errorf("failed to read rule %s: %w", key, err)
	}
	if !ok {
		return model.Rule{}, false, nil
	}
	rule, ok := s.decode(key, value)
	return rule, ok, nil
}

// DeleteSpecific removes the given composite keys and reports how many existed.
// Keys are matched case-insensitively; unknown keys are ignored.
func (s *Store) DeleteSpecific(ctx context.Context, keys []string) (int, error) {
	deleted := 0
	for _, raw := range keys {
		kw, dir, ok := model.SplitRuleKey(raw)
		if !ok {
			continue
		}
		key := model.RuleKey(kw, dir)

		_, exists, err := s.props.Get(ctx, key)
		if err != nil {
			return deleted, fmt.Errorf("failed to read rule %s: %w", key, err)
		}
		if !exists {
			continue
		}
		if err := s.props.Delete(ctx, key); err != nil {
			return deleted, fmt.Errorf("failed to delete rule %s: %w", key, err)
		}
		deleted++
	}
	return deleted, nil
}

// DeleteAll removes every rule and leaves other properties alone.
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	all, err := s.props.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list rules: %w", err)
	}

	deleted := 0
	for key := range all {
		if _, _, ok := model.SplitRuleKey(key); !ok {
			continue
		}
		if err := s.props.Delete(ctx, key); err != nil {
			return deleted, fmt.Errorf("failed to delete rule %s: %w", key, err)
		}
		deleted++
	}

	s.logger.Info("deleted all rules", "count", deleted)
	return deleted, nil
}

// RenameCategory points every rule for oldName at newName. A non-empty
// newType also replaces the rule type.
func (s *Store) RenameCategory(ctx context.Context, oldName, newName string, newType model.BudgetType) (int, error) {
	rules, err := s.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	target := model.CategoryKey(oldName)
	updated := 0
	for _, r := range rules {
		if model.CategoryKey(r.Category) != target {
			continue
		}
		typ := r.Type
		if newType != "" {
			typ = newType
		}
		if _, err := s.Save(ctx, r.Keyword, newName, typ, r.Direction); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

func (s *Store) decode(key, value string) (model.Rule, bool) {
	kw, dir, ok := model.SplitRuleKey(key)
	if !ok {
		return model.Rule{}, false
	}

	var p payload
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		s.logger.Warn("skipping unreadable rule", "key", key, "error", err)
		return model.Rule{}, false
	}

	return model.Rule{
		Keyword:   kw,
		Direction: dir,
		Category:  p.Category,
		Type:      p.Type,
	}, true
}
