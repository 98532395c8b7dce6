package rules

import (
	"context"
	"testing"

	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/Veraticus/budget-sheets/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(seed map[string]string) (*Store, *storage.MemoryStore) {
	props := storage.NewMemoryStore(seed)
	return NewStore(props, nil), props
}

func TestSave_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, props := newTestStore(nil)

	for i := 0; i < 2; i++ {
		_, err := store.Save(ctx, "Starbucks #123", "Coffee", model.TypeWant, model.DirectionOut)
		require.NoError(t, err)
	}

	all, err := props.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.JSONEq(t, `{"category":"Coffee","type":"Want"}`, all["STARBUCKS #123|OUT"])
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		wantErr   error
		name      string
		keyword   string
		direction model.Direction
		wantKey   string
	}{
		{name: "default direction", keyword: "uber", wantKey: "UBER|ANY"},
		{name: "trimmed", keyword: "  payroll ", direction: model.DirectionIn, wantKey: "PAYROLL|IN"},
		{name: "upper direction", keyword: "rent", direction: "OUT", wantKey: "RENT|OUT"},
		{name: "empty keyword", keyword: "   ", wantErr: common.ErrEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, props := newTestStore(nil)
			rule, err := store.Save(ctx, tt.keyword, "Cat", model.TypeNeed, tt.direction)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, rule.Key())
			_, ok, _ := props.Get(ctx, tt.wantKey)
			assert.True(t, ok)
		})
	}
}

func TestGetAll_SortedAndTolerant(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(map[string]string{
		"UBER|OUT":     `{"category":"Transportation","type":"Need"}`,
		"AMAZON|OUT":   `{"category":"Shopping","type":"Want"}`,
		"AMAZON|IN":    `{"category":"Refunds","type":"Income"}`,
		"AMAZON|ANY":   `{"category":"Shopping","type":"Want"}`,
		"BROKEN|ANY":   `{not json`,
		"IMPORT_PREFS": `{"delimiter":","}`,
	})

	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 4)

	var keys []string
	for _, r := range got {
		keys = append(keys, r.Key())
	}
	assert.Equal(t, []string{"AMAZON|ANY", "AMAZON|IN", "AMAZON|OUT", "UBER|OUT"}, keys)
	assert.Equal(t, model.TypeIncome, got[1].Type)
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(map[string]string{
		"NETFLIX|OUT": `{"category":"Streaming","type":"Want"}`,
		"BAD|OUT":     `[]`,
	})

	rule, ok, err := store.Lookup(ctx, "netflix", model.DirectionOut)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Streaming", rule.Category)

	_, ok, err = store.Lookup(ctx, "netflix", model.DirectionIn)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Lookup(ctx, "bad", model.DirectionOut)
	require.NoError(t, err)
	assert.False(t, ok, "corrupt entry reads as missing")
}

func TestDeleteSpecific(t *testing.T) {
	ctx := context.Background()
	store, props := newTestStore(map[string]string{
		"A|ANY": `{"category":"X","type":"Need"}`,
		"B|OUT": `{"category":"Y","type":"Want"}`,
	})

	n, err := store.DeleteSpecific(ctx, []string{"a|any", "MISSING|IN", "not-a-rule"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, _ := props.List(ctx)
	assert.Equal(t, map[string]string{"B|OUT": `{"category":"Y","type":"Want"}`}, all)
}

func TestDeleteAll_KeepsOtherProperties(t *testing.T) {
	ctx := context.Background()
	store, props := newTestStore(map[string]string{
		"A|ANY":        `{}`,
		"B|OUT":        `garbage`,
		"IMPORT_PREFS": `{}`,
	})

	n, err := store.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, _ := props.List(ctx)
	assert.Equal(t, map[string]string{"IMPORT_PREFS": `{}`}, all)
}

func TestRenameCategory(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(map[string]string{
		"SHELL|OUT":  `{"category":"Gas","type":"Need"}`,
		"ESSO|ANY":   `{"category":"gas ","type":"Need"}`,
		"SAFEWAY|IN": `{"category":"Groceries","type":"Need"}`,
	})

	n, err := store.RenameCategory(ctx, "GAS", "Fuel", "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rule, ok, _ := store.Lookup(ctx, "esso", model.DirectionAny)
	require.True(t, ok)
	assert.Equal(t, "Fuel", rule.Category)
	assert.Equal(t, model.TypeNeed, rule.Type)

	n, err = store.RenameCategory(ctx, "fuel", "Fuel", model.TypeWant)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	rule, _, _ = store.Lookup(ctx, "shell", model.DirectionOut)
	assert.Equal(t, model.TypeWant, rule.Type)
}

func TestSave_KeywordWithSeparator(t *testing.T) {
	ctx := context.Background()
	store, props := newTestStore(nil)

	_, err := store.Save(ctx, "AMZN|Mktp", "Shopping", model.TypeWant, model.DirectionOut)
	require.NoError(t, err)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "AMZN|MKTP", all[0].Keyword)
	assert.Equal(t, model.DirectionOut, all[0].Direction)

	rule, ok, err := store.Lookup(ctx, "amzn|mktp", model.DirectionOut)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Shopping", rule.Category)

	n, err := store.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	remaining, err := props.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestSaveAll(t *testing.T) {
	ctx := context.Background()
	store, props := newTestStore(map[string]string{"IMPORT_PREFS": `{}`})

	saved, err := store.SaveAll(ctx, []model.Rule{
		{Keyword: " uber ", Category: "Transportation", Type: model.TypeNeed, Direction: model.DirectionOut},
		{Keyword: "payroll", Category: "Salary", Type: model.TypeIncome},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "UBER|OUT", saved[0].Key())
	assert.Equal(t, "PAYROLL|ANY", saved[1].Key())

	all, err := props.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.JSONEq(t, `{"category":"Salary","type":"Income"}`, all["PAYROLL|ANY"])

	_, err = store.SaveAll(ctx, []model.Rule{
		{Keyword: "coffee", Category: "Dining", Type: model.TypeWant},
		{Keyword: "  "},
	})
	assert.ErrorIs(t, err, common.ErrEmptyInput)
	_, ok, err := store.Lookup(ctx, "COFFEE", model.DirectionAny)
	require.NoError(t, err)
	assert.False(t, ok)

	saved, err = store.SaveAll(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, saved)
}
