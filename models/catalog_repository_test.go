package models

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func newTestInput(name string, price float64, tags ...string) ProductInput {
	return ProductInput{
		Name:  name,
		Price: decimal.NewFromFloat(price),
		Tags:  tags,
	}
}

func TestSplitTagNames(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "simple list",
			raw:      "kitchen,gift",
			expected: []string{"kitchen", "gift"},
		},
		{
			name:     "whitespace is trimmed",
			raw:      " kitchen , gift ",
			expected: []string{"kitchen", "gift"},
		},
		{
			name:     "duplicates keep first-seen order",
			raw:      "a, b, a",
			expected: []string{"a", "b"},
		},
		{
			name:     "empty entries are dropped",
			raw:      ",a,,b,",
			expected: []string{"a", "b"},
		},
		{
			name:     "empty input",
			raw:      "",
			expected: []string{},
		},
		{
			name:     "case is preserved, no normalization",
			raw:      "Gift,gift",
			expected: []string{"Gift", "gift"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SplitTagNames(tc.raw))
		})
	}
}

func TestCreateProduct(t *testing.T) {
	t.Run("assigns id and resolves tags", func(t *testing.T) {
		repo := NewCatalogRepository(setupTestDB(t))

		product, err := repo.CreateProduct(newTestInput("Mug", 9.99, "kitchen", "gift"))
		require.NoError(t, err)
		assert.NotZero(t, product.ID)
		assert.Equal(t, "Mug", product.Name)
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(9.99)))
		assert.Equal(t, []string{"kitchen", "gift"}, product.Tags)
	})

	t.Run("repeated tag names produce a single association", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewCatalogRepository(db)

		product, err := repo.CreateProduct(newTestInput("Mug", 9.99, SplitTagNames("a, b, a")...))
		require.NoError(t, err)

		var links []ProductTag
		require.NoError(t, db.Where("product_id = ?", product.ID).Order("position").Find(&links).Error)
		assert.Len(t, links, 2)

		tags, err := repo.ListTagNames()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, tags)
	})

	t.Run("reuses existing tags across products", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewCatalogRepository(db)

		_, err := repo.CreateProduct(newTestInput("First", 1.00, "shared"))
		require.NoError(t, err)
		_, err = repo.CreateProduct(newTestInput("Second", 2.00, "shared"))
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&Tag{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestListProducts(t *testing.T) {
	t.Run("round trip preserves tag order", func(t *testing.T) {
		repo := NewCatalogRepository(setupTestDB(t))

		_, err := repo.CreateProduct(newTestInput("Mug", 9.99, SplitTagNames("kitchen,gift")...))
		require.NoError(t, err)

		products, err := repo.ListProducts()
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Mug", products[0].Name)
		assert.True(t, products[0].Price.Equal(decimal.NewFromFloat(9.99)))
		assert.Equal(t, []string{"kitchen", "gift"}, products[0].Tags)
	})

	t.Run("tag order follows insertion, not tag id", func(t *testing.T) {
		repo := NewCatalogRepository(setupTestDB(t))

		// "z" gets the lower tag id; the second product references it last.
		_, err := repo.CreateProduct(newTestInput("First", 1.00, "z"))
		require.NoError(t, err)
		second, err := repo.CreateProduct(newTestInput("Second", 2.00, "b", "z"))
		require.NoError(t, err)

		got, err := repo.GetProduct(second.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "z"}, got.Tags)
	})

	t.Run("products ordered by id, empty tags as empty slice", func(t *testing.T) {
		repo := NewCatalogRepository(setupTestDB(t))

		_, err := repo.CreateProduct(newTestInput("A", 1.00))
		require.NoError(t, err)
		_, err = repo.CreateProduct(newTestInput("B", 2.00, "x"))
		require.NoError(t, err)

		products, err := repo.ListProducts()
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "A", products[0].Name)
		assert.NotNil(t, products[0].Tags)
		assert.Empty(t, products[0].Tags)
		assert.Equal(t, []string{"x"}, products[1].Tags)
	})
}

func TestUpdateProduct(t *testing.T) {
	t.Run("replaces tags and collects orphans", func(t *testing.T) {
		repo := NewCatalogRepository(setupTestDB(t))

		product, err := repo.CreateProduct(newTestInput("Mug", 9.99, "a", "b"))
		require.NoError(t, err)

		updated, err := repo.UpdateProduct(product.ID, newTestInput("Mug", 9.99, "b", "c"), false)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c"}, updated.Tags)

		tags, err := repo.ListTagNames()
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c"}, tags, "orphaned tag should be deleted")
	})

	t.Run("keeps tags referenced by other products", func(t *testing.T) {
		repo := NewCatalogRepository(setupTestDB(t))

		_, err := repo.CreateProduct(newTestInput("Other", 1.00, "a"))
		require.NoError(t, err)
		product, err := repo.CreateProduct(newTestInput("Mug", 9.99, "a", "b"))
		require.NoError(t, err)

		_, err = repo.UpdateProduct(product.ID, newTestInput("Mug", 9.99, "b"), false)
		require.NoError(t, err)

		tags, err := repo.ListTagNames()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, tags)
	})

	t.Run("retains image unless replacement is requested", func(t *testing.T) {
		repo := NewCatalogRepository(setupTestDB(t))

		product, err := repo.CreateProduct(ProductInput{
			Name:  "Mug",
			Price: decimal.NewFromFloat(9.99),
			Image: "uploads/mug_abc123.png",
		})
		require.NoError(t, err)

		updated, err := repo.UpdateProduct(product.ID, newTestInput("Mug v2", 10.99), false)
		require.NoError(t, err)
		assert.Equal(t, "uploads/mug_abc123.png", updated.Image)
		assert.Equal(t, "Mug v2", updated.Name)

		updated, err = repo.UpdateProduct(product.ID, ProductInput{
			Name:  "Mug v3",
			Price: decimal.NewFromFloat(10.99),
			Image: "uploads/mug_def456.png",
		}, true)
		require.NoError(t, err)
		assert.Equal(t, "uploads/mug_def456.png", updated.Image)

		got, err := repo.GetProduct(product.ID)
		require.NoError(t, err)
		assert.Equal(t, "uploads/mug_def456.png", got.Image)
	})

	t.Run("nonexistent id leaves the store unchanged", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewCatalogRepository(db)

		_, err := repo.CreateProduct(newTestInput("Mug", 9.99, "a"))
		require.NoError(t, err)

		_, err = repo.UpdateProduct(999, newTestInput("Ghost", 1.00, "ghost"), false)
		assert.ErrorIs(t, err, ErrProductNotFound)

		tags, err := repo.ListTagNames()
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, tags)

		var count int64
		require.NoError(t, db.Model(&Product{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestDeleteProduct(t *testing.T) {
	t.Run("removes associations and orphaned tags", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewCatalogRepository(db)

		keeper, err := repo.CreateProduct(newTestInput("Keeper", 1.00, "shared"))
		require.NoError(t, err)
		product, err := repo.CreateProduct(ProductInput{
			Name:  "Mug",
			Price: decimal.NewFromFloat(9.99),
			Image: "uploads/mug_abc123.png",
			Tags:  []string{"shared", "x"},
		})
		require.NoError(t, err)

		image, err := repo.DeleteProduct(product.ID)
		require.NoError(t, err)
		assert.Equal(t, "uploads/mug_abc123.png", image)

		_, err = repo.GetProduct(product.ID)
		assert.ErrorIs(t, err, ErrProductNotFound)

		tags, err := repo.ListTagNames()
		require.NoError(t, err)
		assert.Equal(t, []string{"shared"}, tags, "x was only referenced by the deleted product")

		var links int64
		require.NoError(t, db.Model(&ProductTag{}).Count(&links).Error)
		assert.Equal(t, int64(1), links)

		_, err = repo.GetProduct(keeper.ID)
		assert.NoError(t, err)
	})

	t.Run("nonexistent id", func(t *testing.T) {
		repo := NewCatalogRepository(setupTestDB(t))

		_, err := repo.DeleteProduct(999)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}
