package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	err  error
	defs []model.CategoryDefinition
}

func (f *fakeSource) ReadCategoryDefinitions(_ context.Context) ([]model.CategoryDefinition, error) {
	return f.defs, f.err
}

type fakePublisher struct {
	published [][]string
}

func (f *fakePublisher) PublishCategoryList(_ context.Context, names []string) error {
	f.published = append(f.published, names)
	return nil
}

func def(name string, typ model.BudgetType, table string) model.CategoryDefinition {
	return model.CategoryDefinition{Name: name, Type: typ, Table: table}
}

func TestRebuild_Dedup(t *testing.T) {
	src := &fakeSource{defs: []model.CategoryDefinition{
		def("Salary", model.TypeIncome, TableIncome),
		def("", "", TableIncome),
		def("Rent", model.TypeNeed, TableResidence),
		def("  rent ", model.TypeWant, TableDailyLiving),
		def("Groceries", "", TableDailyLiving),
		def("RENT ", model.TypeDebt, TableDebt),
		def("   ", model.TypeNeed, TableDebt),
	}}
	pub := &fakePublisher{}

	got, err := New(src, pub, nil).Rebuild(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "Salary", got[0].Name)
	assert.Equal(t, "Rent", got[1].Name)
	assert.Equal(t, model.TypeNeed, got[1].Type, "first table's type wins")
	assert.Equal(t, TableResidence, got[1].Table)
	assert.Equal(t, model.TypeUnknown, got[2].Type, "blank type becomes Unknown")

	require.Len(t, pub.published, 1)
	assert.Equal(t, []string{"Salary", "Rent", "Groceries"}, pub.published[0])
}

func TestRebuild_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing source", func(t *testing.T) {
		_, err := New(nil, nil, nil).Rebuild(ctx)
		assert.ErrorIs(t, err, common.ErrMissingSource)
	})

	t.Run("source failure", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := New(&fakeSource{err: boom}, nil, nil).Rebuild(ctx)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty catalog is not published", func(t *testing.T) {
		pub := &fakePublisher{}
		_, err := New(&fakeSource{defs: []model.CategoryDefinition{def(" ", "", TableIncome)}}, pub, nil).Rebuild(ctx)
		assert.ErrorIs(t, err, common.ErrNoCategories)
		assert.Empty(t, pub.published)
	})
}

func TestBlocks(t *testing.T) {
	src := &fakeSource{defs: []model.CategoryDefinition{
		def("Salary", model.TypeIncome, TableIncome),
		def("Rent", model.TypeNeed, TableResidence),
		def("Internet", model.TypeNeed, TableResidence),
		def("", "", TableTransportation),
	}}

	blocks, err := New(src, nil, nil).Blocks(context.Background())
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, TableResidence, blocks[1].Table)
	assert.Len(t, blocks[1].Categories, 2)
}

func TestFind(t *testing.T) {
	defs := []model.CategoryDefinition{def("Gas & Fuel", model.TypeNeed, TableTransportation)}

	got, ok := Find(defs, " gas & fuel")
	require.True(t, ok)
	assert.Equal(t, "Gas & Fuel", got.Name)

	_, ok = Find(defs, "Fuel")
	assert.False(t, ok)
}

func TestDefaultTables(t *testing.T) {
	tables := DefaultTables()
	require.Len(t, tables, 9)
	assert.Equal(t, TableIncome, tables[0])
	assert.Equal(t, TableSavings, tables[8])
}

func TestFlatten_InnerWhitespace(t *testing.T) {
	got := Flatten([]model.CategoryDefinition{
		def("Dining Out", model.TypeWant, TableDailyLiving),
		def("Dining  Out", model.TypeWant, TableDailyLiving),
		def("dining out", model.TypeNeed, TableDebt),
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Dining Out", got[0].Name)

	found, ok := Find(got, "DINING   OUT")
	assert.True(t, ok)
	assert.Equal(t, "Dining Out", found.Name)
}
