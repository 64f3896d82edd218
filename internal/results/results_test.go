package results

import (
	"context"
	"encoding/json"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, env *Envelope) map[string]any {
	t.Helper()
	text, err := env.JSON()
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	return out
}

func TestSuccessEnvelope(t *testing.T) {
	rows := []ProductRow{
		{ProductName: "Interior Paint", TypeName: "Paint", CategoryName: "Paint & Finishes", Price: "39.99", TotalStock: 120},
		{ProductName: "Paint Roller", TypeName: "Tools", CategoryName: "Paint & Finishes", Price: "8.50", TotalStock: 40},
	}

	env := Success(rows, "no rows")
	assert.Equal(t, 2, env.RowCount)
	assert.Len(t, env.Results, env.RowCount)
	assert.Equal(t, []string{"product_name", "type_name", "category_name", "price", "total_stock"}, env.Columns)
	assert.Empty(t, env.Message)
	assert.False(t, env.Failed())

	out := decode(t, env)
	assert.NotContains(t, out, "message")
	assert.NotContains(t, out, "error")
	first := out["results"].([]any)[0].(map[string]any)
	assert.Equal(t, "39.99", first["price"])
	assert.EqualValues(t, 120, first["total_stock"])
}

func TestSuccessEnvelopeEmpty(t *testing.T) {
	env := Success([]ProductRow{}, "The query returned no results. Try a different question.")

	out := decode(t, env)
	assert.Equal(t, []any{}, out["results"])
	assert.Equal(t, []any{}, out["columns"])
	assert.EqualValues(t, 0, out["row_count"])
	assert.Equal(t, "The query returned no results. Try a different question.", out["message"])
}

func TestFailureEnvelope(t *testing.T) {
	env := Failure(`PostgreSQL query failed: ERROR: syntax error at or near "SELEC" (SQLSTATE 42601)`)

	assert.True(t, env.Failed())
	out := decode(t, env)
	assert.Equal(t, []any{}, out["results"])
	assert.Equal(t, []any{}, out["columns"])
	assert.EqualValues(t, 0, out["row_count"])
	assert.Contains(t, out["error"], "syntax error")
}

func TestRawRowKeepsColumnOrder(t *testing.T) {
	row := NewRawRow()
	row.Set("zeta", 1)
	row.Set("alpha", "a")
	row.Set("mid", nil)
	row.Set("zeta", 2)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, row.Columns())
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zeta":2,"alpha":"a","mid":null}`, string(data))
	assert.Equal(t, `{"zeta":2,"alpha":"a","mid":null}`, string(data))

	env := Success([]*RawRow{row}, "")
	assert.Equal(t, row.Columns(), env.Columns)
}

func TestNormalizeValue(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	id := uuid.MustParse("7c1e4c3a-1111-4a57-9a0c-2c5e1f9b0d11")

	tests := []struct {
		name string
		oid  uint32
		in   any
		want any
	}{
		{name: "nil", in: nil, want: nil},
		{name: "int", in: int32(7), want: int32(7)},
		{name: "timestamptz", oid: pgtype.TimestamptzOID, in: ts, want: "2025-03-14T09:26:53Z"},
		{name: "timestamp", oid: pgtype.TimestampOID, in: ts, want: "2025-03-14T09:26:53"},
		{name: "date", oid: pgtype.DateOID, in: ts, want: "2025-03-14"},
		{name: "numeric", in: pgtype.Numeric{Int: big.NewInt(1299), Exp: -2, Valid: true}, want: "12.99"},
		{name: "null numeric", in: pgtype.Numeric{}, want: nil},
		{name: "uuid", in: [16]byte(id), want: id.String()},
		{name: "nan", in: math.NaN(), want: "NaN"},
		{name: "array", in: []any{ts, int64(1)}, want: []any{"2025-03-14T09:26:53Z", int64(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeValue(tt.oid, tt.in))
		})
	}
}

func TestCollect(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(context.Background())

	rows := pgxmock.NewRowsWithColumnDefinition(
		pgconn.FieldDescription{Name: "order_date", DataTypeOID: pgtype.DateOID},
		pgconn.FieldDescription{Name: "revenue", DataTypeOID: pgtype.NumericOID},
		pgconn.FieldDescription{Name: "orders", DataTypeOID: pgtype.Int8OID},
	).
		AddRow(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), pgtype.Numeric{Int: big.NewInt(150025), Exp: -2, Valid: true}, int64(12)).
		AddRow(time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), pgtype.Numeric{Int: big.NewInt(99), Exp: 0, Valid: true}, int64(1))
	mock.ExpectQuery("SELECT order_date").WillReturnRows(rows)

	pgRows, err := mock.Query(context.Background(), "SELECT order_date, revenue, orders FROM retail.daily")
	require.NoError(t, err)

	collected, err := Collect(pgRows)
	require.NoError(t, err)
	require.Len(t, collected, 2)

	env := Success(collected, "")
	assert.Equal(t, []string{"order_date", "revenue", "orders"}, env.Columns)

	data, err := json.Marshal(collected[0])
	require.NoError(t, err)
	assert.Equal(t, `{"order_date":"2025-01-02","revenue":"1500.25","orders":12}`, string(data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewProductRow(t *testing.T) {
	raw := NewRawRow()
	raw.Set("product_name", "Interior Paint")
	raw.Set("type_name", "Paint")
	raw.Set("category_name", "Paint & Finishes")
	raw.Set("price", "39.99")
	raw.Set("total_stock", "240")

	row, err := NewProductRow(raw)
	require.NoError(t, err)
	assert.Equal(t, "39.99", row.Price)
	assert.EqualValues(t, 240, row.TotalStock)

	_, err = NewProductRow(NewRawRow())
	assert.ErrorContains(t, err, "product_name")
}

func TestNewSimilarityRow(t *testing.T) {
	raw := NewRawRow()
	raw.Set("product_name", "Drop Cloth")
	raw.Set("product_description", nil)
	raw.Set("price", "12.00")
	raw.Set("sku", "DC-100")
	raw.Set("category_name", "Paint & Finishes")
	raw.Set("type_name", "Accessories")
	raw.Set("total_stock", int64(15))
	raw.Set("similarity_distance", 0.25)

	row, err := NewSimilarityRow(raw, func(d float64) float64 { return (1 - d) * 100 })
	require.NoError(t, err)
	assert.Nil(t, row.ProductDescription)
	require.NotNil(t, row.SKU)
	assert.Equal(t, "DC-100", *row.SKU)
	assert.InDelta(t, 75.0, row.SimilarityPercent, 1e-9)

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"similarity_percent":75`)
	assert.Contains(t, string(data), `"product_description":null`)
}
