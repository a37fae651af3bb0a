package receiving

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
)

func assertTotals(t *testing.T, l *ItemList) {
	t.Helper()
	for _, it := range l.Items() {
		want := it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity)))
		assert.True(t, want.Equal(it.TotalCost), "total %s != %d x %s", it.TotalCost, it.Quantity, it.UnitCost)
		if l.SerialsGenerated() {
			assert.Len(t, it.Serials, it.Quantity)
		}
	}
}

func TestItemListAdd(t *testing.T) {
	t.Run("new product starts at quantity one with cost price", func(t *testing.T) {
		l := NewItemList(&seqGenerator{})
		l.Add(product("P", 1000))

		items := l.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].Quantity)
		assert.True(t, items[0].TotalCost.Equal(decimal.NewFromInt(1000)))
		assert.Empty(t, items[0].Serials)
	})

	t.Run("missing cost falls back to selling price", func(t *testing.T) {
		l := NewItemList(&seqGenerator{})
		p := product("P", 0)
		p.SellingPrice = decimal.NewFromInt(4500)
		l.Add(p)

		assert.True(t, l.Items()[0].UnitCost.Equal(decimal.NewFromInt(4500)))
	})

	t.Run("same product bumps quantity", func(t *testing.T) {
		l := NewItemList(&seqGenerator{})
		l.Add(product("P", 250))
		l.Add(product("Q", 100))
		l.Add(product("P", 250))

		items := l.Items()
		require.Len(t, items, 2)
		assert.Equal(t, 2, items[0].Quantity)
		assert.True(t, items[0].TotalCost.Equal(decimal.NewFromInt(500)))
		assertTotals(t, l)
	})

	t.Run("adding after generation keeps serials in step", func(t *testing.T) {
		l := NewItemList(&seqGenerator{})
		l.Add(product("P", 10))
		l.GenerateSerials()
		l.Add(product("P", 10))
		l.Add(product("Q", 10))

		assertTotals(t, l)
		assert.Equal(t, 3, l.Units())
	})
}

func TestItemListQuantityLifecycle(t *testing.T) {
	l := NewItemList(&seqGenerator{})
	l.Add(product("P", 1000))

	require.NoError(t, l.UpdateQuantity(0, 3))
	assert.True(t, l.Items()[0].TotalCost.Equal(decimal.NewFromInt(3000)))

	l.GenerateSerials()
	assert.Len(t, l.Items()[0].Serials, 3)

	for _, qty := range []int{5, 1, 4, 2} {
		require.NoError(t, l.UpdateQuantity(0, qty))
		assertTotals(t, l)
	}

	require.NoError(t, l.UpdateQuantity(0, 0))
	assert.Equal(t, 0, l.Len())
}

func TestItemListNegativeQuantityRemoves(t *testing.T) {
	l := NewItemList(&seqGenerator{})
	l.Add(product("P", 1))
	l.Add(product("Q", 1))

	require.NoError(t, l.UpdateQuantity(0, -4))
	require.Equal(t, 1, l.Len())
	assert.Equal(t, "Q", l.Items()[0].ProductID)
}

func TestItemListUnitCost(t *testing.T) {
	l := NewItemList(&seqGenerator{})
	l.Add(product("P", 100))
	require.NoError(t, l.UpdateQuantity(0, 4))

	require.NoError(t, l.UpdateUnitCost(0, decimal.RequireFromString("12.50")))
	assert.True(t, l.Items()[0].TotalCost.Equal(decimal.NewFromInt(50)))
	assert.True(t, l.Subtotal().Equal(decimal.NewFromInt(50)))

	assert.ErrorIs(t, l.UpdateUnitCost(0, decimal.NewFromInt(-1)), ErrNegativeCost)
	assert.ErrorIs(t, l.UpdateUnitCost(3, decimal.NewFromInt(1)), ErrItemNotFound)
}

func TestItemListRemove(t *testing.T) {
	l := NewItemList(&seqGenerator{})
	l.Add(product("P", 1))
	l.Add(product("Q", 1))
	l.Add(product("R", 1))

	require.NoError(t, l.Remove(1))
	ids := []string{}
	for _, it := range l.Items() {
		ids = append(ids, it.ProductID)
	}
	assert.Equal(t, []string{"P", "R"}, ids)

	assert.ErrorIs(t, l.Remove(-1), ErrItemNotFound)
	assert.ErrorIs(t, l.Remove(2), ErrItemNotFound)
	assert.ErrorIs(t, l.UpdateQuantity(9, 1), ErrItemNotFound)
}

func TestItemListItemsIsACopy(t *testing.T) {
	l := NewItemList(&seqGenerator{})
	l.Add(models.Product{ID: "P", Code: "CP", IsActive: true, CostPrice: decimal.NewFromInt(1)})
	l.GenerateSerials()

	items := l.Items()
	items[0].Serials[0] = "tampered"
	items[0].Quantity = 99

	assert.Equal(t, 1, l.Items()[0].Quantity)
	assert.NotEqual(t, "tampered", l.Items()[0].Serials[0])
}
