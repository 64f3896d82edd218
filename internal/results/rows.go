package results

import (
	"bytes"
	"encoding/json"
)

var (
	productColumns = []string{"product_name", "type_name", "category_name", "price", "total_stock"}

	similarityColumns = []string{
		"product_name", "product_description", "price", "sku", "category_name",
		"type_name", "total_stock", "similarity_distance", "similarity_percent",
	}
)

// RawRow holds the columns of an arbitrary statement in the order the server
// returned them. A repeated column name keeps its first position and its last value.
type RawRow struct {
	columns []string
	values  map[string]any
}

// NewRawRow creates an empty row
func NewRawRow() *RawRow {
	return &RawRow{values: make(map[string]any)}
}

// Set stores value under name
func (r *RawRow) Set(name string, value any) {
	if _, exists := r.values[name]; !exists {
		r.columns = append(r.columns, name)
	}
	r.values[name] = value
}

// Get returns the value stored under name
func (r *RawRow) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r *RawRow) Columns() []string {
	return r.columns
}

// MarshalJSON writes the row as an object with keys in column order.
func (r *RawRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ProductRow is one product from a name search.
type ProductRow struct {
	ProductName  string `json:"product_name"`
	TypeName     string `json:"type_name"`
	CategoryName string `json:"category_name"`
	Price        string `json:"price"`
	TotalStock   int64  `json:"total_stock"`
}

func (ProductRow) Columns() []string {
	return productColumns
}

// NewProductRow reads a name-search row
func NewProductRow(raw *RawRow) (ProductRow, error) {
	var (
		row ProductRow
		err error
	)
	if row.ProductName, err = stringColumn(raw, "product_name"); err != nil {
		return row, err
	}
	if row.TypeName, err = stringColumn(raw, "type_name"); err != nil {
		return row, err
	}
	if row.CategoryName, err = stringColumn(raw, "category_name"); err != nil {
		return row, err
	}
	if row.Price, err = decimalColumn(raw, "price"); err != nil {
		return row, err
	}
	if row.TotalStock, err = int64Column(raw, "total_stock"); err != nil {
		return row, err
	}
	return row, nil
}

// SimilarityRow is one product from a vector similarity search, closest first.
type SimilarityRow struct {
	ProductName        string  `json:"product_name"`
	ProductDescription *string `json:"product_description"`
	Price              string  `json:"price"`
	SKU                *string `json:"sku"`
	CategoryName       string  `json:"category_name"`
	TypeName           string  `json:"type_name"`
	TotalStock         int64   `json:"total_stock"`
	SimilarityDistance float64 `json:"similarity_distance"`
	SimilarityPercent  float64 `json:"similarity_percent"`
}

func (SimilarityRow) Columns() []string {
	return similarityColumns
}

// NewSimilarityRow reads a similarity-search row. percent converts the
// reported distance into similarity_percent.
func NewSimilarityRow(raw *RawRow, percent func(distance float64) float64) (SimilarityRow, error) {
	var (
		row SimilarityRow
		err error
	)
	if row.ProductName, err = stringColumn(raw, "product_name"); err != nil {
		return row, err
	}
	if row.ProductDescription, err = nullableStringColumn(raw, "product_description"); err != nil {
		return row, err
	}
	if row.Price, err = decimalColumn(raw, "price"); err != nil {
		return row, err
	}
	if row.SKU, err = nullableStringColumn(raw, "sku"); err != nil {
		return row, err
	}
	if row.CategoryName, err = stringColumn(raw, "category_name"); err != nil {
		return row, err
	}
	if row.TypeName, err = stringColumn(raw, "type_name"); err != nil {
		return row, err
	}
	if row.TotalStock, err = int64Column(raw, "total_stock"); err != nil {
		return row, err
	}
	if row.SimilarityDistance, err = float64Column(raw, "similarity_distance"); err != nil {
		return row, err
	}
	row.SimilarityPercent = percent(row.SimilarityDistance)
	return row, nil
}
