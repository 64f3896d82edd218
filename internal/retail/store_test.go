package retail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/pgElephant/RetailMCP/internal/database"
	"github.com/pgElephant/RetailMCP/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	bindPattern  = `set_config\('app\.current_rls_user_id'`
	storeManager = "2f6b8d44-5c2a-4f0e-9b1e-3d7a9c1e0f52"
)

type fakePool struct {
	conn     database.Conn
	err      error
	acquired atomic.Int32
	released atomic.Int32
}

func (p *fakePool) Acquire(context.Context) (*database.Lease, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.acquired.Add(1)
	return database.NewLease(p.conn, func() { p.released.Add(1) }), nil
}

func newMockStore(t *testing.T) (*Store, pgxmock.PgxConnIface, *fakePool) {
	t.Helper()
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close(context.Background()) })

	pool := &fakePool{conn: mock}
	return NewStore(pool, nil), mock, pool
}

func expectBind(mock pgxmock.PgxConnIface, userID string) {
	mock.ExpectExec(bindPattern).WithArgs(userID).WillReturnResult(pgxmock.NewResult("SELECT", 1))
}

func price(cents int64) pgtype.Numeric {
	return pgtype.Numeric{Int: big.NewInt(cents), Exp: -2, Valid: true}
}

func decodeEnvelope(t *testing.T, env *results.Envelope) map[string]any {
	t.Helper()
	text, err := env.JSON()
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	return out
}

func TestProductsByName(t *testing.T) {
	store, mock, pool := newMockStore(t)

	expectBind(mock, storeManager)
	mock.ExpectQuery(`ILIKE \$1`).
		WithArgs("%paint%", 100).
		WillReturnRows(pgxmock.NewRows([]string{"product_name", "type_name", "category_name", "price", "total_stock"}).
			AddRow("Interior Paint", "Paint", "Paint & Finishes", price(3999), int64(120)).
			AddRow("Paint Roller", "Tools", "Paint & Finishes", price(850), int64(40)))

	env, err := store.ProductsByName(context.Background(), "paint", 500, storeManager)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 2, env.RowCount)
	assert.Equal(t, []string{"product_name", "type_name", "category_name", "price", "total_stock"}, env.Columns)
	first := env.Results[0].(results.ProductRow)
	assert.Equal(t, "39.99", first.Price)
	assert.EqualValues(t, 120, first.TotalStock)
	assert.EqualValues(t, 1, pool.released.Load())
}

func TestProductsByNameIsCaseInsensitive(t *testing.T) {
	assert.Contains(t, productsByNameSQL, "p.product_name ILIKE $1 OR p.product_description ILIKE $1")

	for _, term := range []string{"PAINT", "paint"} {
		store, mock, _ := newMockStore(t)
		expectBind(mock, storeManager)
		mock.ExpectQuery(`ILIKE \$1`).
			WithArgs("%"+term+"%", 10).
			WillReturnRows(pgxmock.NewRows([]string{"product_name", "type_name", "category_name", "price", "total_stock"}).
				AddRow("Interior Paint", "Paint", "Paint & Finishes", price(3999), int64(120)))

		env, err := store.ProductsByName(context.Background(), term, 10, storeManager)
		require.NoError(t, err)
		assert.Equal(t, 1, env.RowCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestProductsByNameNoResults(t *testing.T) {
	store, mock, _ := newMockStore(t)

	expectBind(mock, database.DefaultRLSUserID)
	mock.ExpectQuery(`ILIKE \$1`).
		WithArgs("%unobtainium%", 1).
		WillReturnRows(pgxmock.NewRows([]string{"product_name", "type_name", "category_name", "price", "total_stock"}))

	env, err := store.ProductsByName(context.Background(), "unobtainium", 0, "")
	require.NoError(t, err)

	out := decodeEnvelope(t, env)
	assert.Equal(t, []any{}, out["results"])
	assert.Equal(t, []any{}, out["columns"])
	assert.Equal(t, "The query returned no results. Try a different question.", out["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductsByNameQueryFailure(t *testing.T) {
	store, mock, pool := newMockStore(t)

	expectBind(mock, storeManager)
	mock.ExpectQuery(`ILIKE \$1`).
		WithArgs("%paint%", 10).
		WillReturnError(&pgconn.PgError{Severity: "ERROR", Code: "57014", Message: "canceling statement due to statement timeout"})

	env, err := store.ProductsByName(context.Background(), "paint", 10, storeManager)
	require.NoError(t, err)
	assert.True(t, env.Failed())
	assert.Contains(t, env.Error, "PostgreSQL query failed: ")
	assert.Contains(t, env.Error, "statement timeout")
	assert.Empty(t, env.Results)
	assert.EqualValues(t, 1, pool.released.Load())
}

func TestSecurityBindFailureSkipsQuery(t *testing.T) {
	store, mock, pool := newMockStore(t)

	mock.ExpectExec(bindPattern).WithArgs(storeManager).WillReturnError(errors.New("conn closed"))

	env, err := store.ProductsByName(context.Background(), "paint", 10, storeManager)
	assert.Nil(t, env)
	var bindErr *database.SecurityBindError
	assert.ErrorAs(t, err, &bindErr)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.EqualValues(t, 1, pool.released.Load())
}

func TestPoolFailuresAreHard(t *testing.T) {
	tests := []struct {
		poolErr  error
		sentinel error
	}{
		{poolErr: database.ErrPoolUnavailable, sentinel: database.ErrPoolUnavailable},
		{poolErr: fmt.Errorf("%w: waited 10s", database.ErrPoolExhausted), sentinel: database.ErrPoolExhausted},
	}
	for _, tt := range tests {
		store := NewStore(&fakePool{err: tt.poolErr}, nil)

		env, err := store.ExecuteQuery(context.Background(), "SELECT 1", storeManager)
		assert.Nil(t, env)
		assert.ErrorIs(t, err, tt.sentinel)

		_, err = store.TableSchemas(context.Background(), []string{"retail.orders"}, storeManager)
		assert.ErrorIs(t, err, tt.sentinel)
	}
}

func TestProductsBySimilarity(t *testing.T) {
	store, mock, pool := newMockStore(t)
	embedding := []float32{0.25, -0.5, 1}

	expectBind(mock, storeManager)
	mock.ExpectQuery(`<=> \$1::vector`).
		WithArgs("[0.25,-0.5,1]", 100, database.DistanceThreshold(80)).
		WillReturnRows(pgxmock.NewRows([]string{
			"product_name", "product_description", "price", "sku", "category_name", "type_name", "total_stock", "similarity_distance",
		}).
			AddRow("Exterior Paint", "Weatherproof acrylic", price(4599), "EXT-01", "Paint & Finishes", "Paint", int64(33), 0.2).
			AddRow("Deck Stain", nil, price(2999), nil, "Paint & Finishes", "Stain", int64(8), 1.3))

	env, err := store.ProductsBySimilarity(context.Background(), embedding, 250, 80, storeManager)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Equal(t, 2, env.RowCount)
	assert.Equal(t, "similarity_percent", env.Columns[len(env.Columns)-1])
	first := env.Results[0].(results.SimilarityRow)
	assert.InDelta(t, 80.0, first.SimilarityPercent, 1e-9)
	second := env.Results[1].(results.SimilarityRow)
	assert.InDelta(t, 0.0, second.SimilarityPercent, 1e-9)
	assert.Nil(t, second.SKU)
	assert.EqualValues(t, 1, pool.released.Load())
}

func TestProductsBySimilarityNoMatches(t *testing.T) {
	store, mock, _ := newMockStore(t)

	expectBind(mock, storeManager)
	mock.ExpectQuery(`<=> \$1::vector`).
		WithArgs("[1]", 10, database.DistanceThreshold(95)).
		WillReturnRows(pgxmock.NewRows([]string{"product_name"}))

	env, err := store.ProductsBySimilarity(context.Background(), []float32{1}, 10, 95, storeManager)
	require.NoError(t, err)
	assert.Equal(t, "No products found with similarity threshold >= 95%. Try a lower threshold or different search query.", env.Message)
}

func TestProductsBySimilarityFailure(t *testing.T) {
	store, mock, _ := newMockStore(t)

	expectBind(mock, storeManager)
	mock.ExpectQuery(`<=> \$1::vector`).
		WithArgs("[1]", 10, database.DistanceThreshold(50)).
		WillReturnError(&pgconn.PgError{Severity: "ERROR", Code: "22000", Message: "different vector dimensions 1536 and 1"})

	env, err := store.ProductsBySimilarity(context.Background(), []float32{1}, 10, 50, storeManager)
	require.NoError(t, err)
	assert.Contains(t, env.Error, "PostgreSQL semantic search failed: ")
	assert.Zero(t, env.RowCount)
}

func TestExecuteQuery(t *testing.T) {
	store, mock, _ := newMockStore(t)
	sql := "SELECT store_name, SUM(total_amount) AS revenue FROM retail.orders GROUP BY store_name"

	expectBind(mock, storeManager)
	mock.ExpectQuery(`SELECT store_name`).
		WillReturnRows(pgxmock.NewRows([]string{"store_name", "revenue"}).
			AddRow("Zava Seattle", price(1250050)))

	env, err := store.ExecuteQuery(context.Background(), sql, storeManager)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	out := decodeEnvelope(t, env)
	assert.Equal(t, []any{"store_name", "revenue"}, out["columns"])
	assert.Equal(t, []any{map[string]any{"store_name": "Zava Seattle", "revenue": "12500.50"}}, out["results"])
}

func TestExecuteQuerySyntaxError(t *testing.T) {
	store, mock, pool := newMockStore(t)

	expectBind(mock, storeManager)
	mock.ExpectQuery(`SELEC`).
		WillReturnError(&pgconn.PgError{Severity: "ERROR", Code: "42601", Message: `syntax error at or near "SELEC"`})

	env, err := store.ExecuteQuery(context.Background(), "SELEC * FROM retail.orders", storeManager)
	require.NoError(t, err)

	out := decodeEnvelope(t, env)
	assert.Equal(t, []any{}, out["results"])
	assert.EqualValues(t, 0, out["row_count"])
	assert.Contains(t, out["error"], `syntax error at or near "SELEC"`)
	assert.EqualValues(t, 1, pool.released.Load())
}

// boundedPool hands out at most cap(tokens) leases, each on a fresh mock
// connection whose query fails.
type boundedPool struct {
	tokens chan struct{}
}

func (p *boundedPool) Acquire(ctx context.Context) (*database.Lease, error) {
	select {
	case <-p.tokens:
	case <-ctx.Done():
		return nil, database.ErrPoolExhausted
	}
	mock, err := pgxmock.NewConn()
	if err != nil {
		p.tokens <- struct{}{}
		return nil, err
	}
	expectBind(mock, storeManager)
	mock.ExpectQuery(`.*`).WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "retail.nope" does not exist`})
	return database.NewLease(mock, func() { p.tokens <- struct{}{} }), nil
}

func TestFailedQueriesReturnConnections(t *testing.T) {
	pool := &boundedPool{tokens: make(chan struct{}, 3)}
	for i := 0; i < cap(pool.tokens); i++ {
		pool.tokens <- struct{}{}
	}
	store := NewStore(pool, nil)

	var wg sync.WaitGroup
	var failed atomic.Int32
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env, err := store.ExecuteQuery(context.Background(), "SELECT * FROM retail.nope", storeManager)
			if err == nil && env.Failed() {
				failed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 12, failed.Load())
	assert.Len(t, pool.tokens, 3)
}
