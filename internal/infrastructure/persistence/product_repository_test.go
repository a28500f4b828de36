package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/garimpo/backend/internal/domain/catalog"
	"github.com/garimpo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB), mock, mockDB
}

func productRows(products ...*catalog.Product) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "external_id", "slug", "title", "price_text", "store_name", "origin_url", "affiliate_url", "is_active"})
	for _, p := range products {
		rows.AddRow(p.ID, p.ExternalID, p.Slug, p.Title, p.PriceText, p.StoreName, p.OriginURL, p.AffiliateURL, p.IsActive)
	}
	return rows
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		product := catalog.NewImportedProduct("27182818284", "Fone Bluetooth", "R$ 79,90", "TechStore", "https://shopee.com.br/p", "https://s.shopee.com.br/x")

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(product.ID, 1).
			WillReturnRows(productRows(product))

		found, err := repo.FindByID(context.Background(), product.ID)

		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, product.ID, found.ID)
		assert.Equal(t, "fone-bluetooth-27182818284", found.Slug)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		found, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, found)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindBySlug(t *testing.T) {
	t.Run("finds product by slug", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		product := catalog.NewImportedProduct("31415926535", "Caneca Termica", "R$ 35,00", "CasaBoa", "https://shopee.com.br/p", "https://s.shopee.com.br/y")

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE slug = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("caneca-termica-31415926535", 1).
			WillReturnRows(productRows(product))

		found, err := repo.FindBySlug(context.Background(), "caneca-termica-31415926535")

		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Caneca Termica", found.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindByExternalIDs(t *testing.T) {
	t.Run("queries all ids in one IN clause", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		p1 := catalog.NewImportedProduct("100", "Produto A", "R$ 10", "Loja", "https://shopee.com.br/a", "https://s.shopee.com.br/a")
		p2 := catalog.NewImportedProduct("200", "Produto B", "R$ 20", "Loja", "https://shopee.com.br/b", "https://s.shopee.com.br/b")

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE external_id IN \(\$1,\$2\)`).
			WithArgs("100", "200").
			WillReturnRows(productRows(p1, p2))

		products, err := repo.FindByExternalIDs(context.Background(), []string{"100", "200"})

		assert.NoError(t, err)
		assert.Len(t, products, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice without querying for empty input", func(t *testing.T) {
		repo, _, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		products, err := repo.FindByExternalIDs(context.Background(), nil)

		assert.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestGormProductRepository_FindActive(t *testing.T) {
	t.Run("filters on is_active", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		product := catalog.NewImportedProduct("300", "Produto C", "R$ 30", "Loja", "https://shopee.com.br/c", "https://s.shopee.com.br/c")
		product.Activate()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE is_active = \$1`).
			WithArgs(true).
			WillReturnRows(productRows(product))

		products, err := repo.FindActive(context.Background(), shared.Filter{})

		assert.NoError(t, err)
		assert.Len(t, products, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_UpdateImportFields(t *testing.T) {
	t.Run("touches only the re-importable columns", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		id := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET .*"price_text".* WHERE id = \$\d`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateImportFields(context.Background(), id, catalog.ImportFields{
			PriceText:    "R$ 59,90",
			OriginURL:    "https://shopee.com.br/novo",
			AffiliateURL: "https://s.shopee.com.br/novo",
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing matched", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateImportFields(context.Background(), uuid.New(), catalog.ImportFields{})

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_Delete(t *testing.T) {
	t.Run("deletes existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		id := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		id := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), id)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_Count(t *testing.T) {
	t.Run("counts products", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		count, err := repo.Count(context.Background(), shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(42), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates query errors", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.Count(context.Background(), shared.Filter{})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
