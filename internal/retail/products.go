package retail

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pgElephant/RetailMCP/internal/database"
	"github.com/pgElephant/RetailMCP/internal/results"
)

const productsByNameSQL = `
	SELECT p.product_name, pt.type_name, c.category_name, p.base_price AS price, SUM(i.stock_level) AS total_stock
	FROM retail.products p
	JOIN retail.product_types pt ON p.type_id = pt.type_id
	JOIN retail.categories c ON p.category_id = c.category_id
	JOIN retail.inventory i ON p.product_id = i.product_id
	WHERE p.product_name ILIKE $1 OR p.product_description ILIKE $1
	GROUP BY p.product_name, pt.type_name, c.category_name, p.base_price
	ORDER BY p.product_name
	LIMIT $2`

const productsBySimilaritySQL = `
	SELECT
		p.product_name,
		p.product_description,
		p.base_price AS price,
		p.sku,
		c.category_name,
		pt.type_name,
		SUM(i.stock_level) AS total_stock,
		(pde.description_embedding <=> $1::vector) AS similarity_distance
	FROM retail.product_description_embeddings pde
	JOIN retail.products p ON pde.product_id = p.product_id
	JOIN retail.categories c ON p.category_id = c.category_id
	JOIN retail.product_types pt ON p.type_id = pt.type_id
	JOIN retail.inventory i ON p.product_id = i.product_id
	WHERE (pde.description_embedding <=> $1::vector) <= $3
	GROUP BY p.product_name, p.product_description, p.base_price, p.sku, c.category_name, pt.type_name, pde.description_embedding
	ORDER BY pde.description_embedding <=> $1::vector
	LIMIT $2`

// ProductsByName finds products whose name or description contains term,
// case-insensitively, one row per product ordered by name.
func (s *Store) ProductsByName(ctx context.Context, term string, maxRows int, rlsUserID string) (*results.Envelope, error) {
	var products []results.ProductRow
	err := s.withConn(ctx, rlsUserID, func(conn database.Conn) error {
		raw, err := collect(ctx, conn, productsByNameSQL, "%"+term+"%", database.ClampLimit(maxRows))
		if err != nil {
			return err
		}
		products = make([]results.ProductRow, 0, len(raw))
		for _, r := range raw {
			row, err := results.NewProductRow(r)
			if err != nil {
				return database.NewQueryError(err)
			}
			products = append(products, row)
		}
		return nil
	})

	return s.envelope("product name search", err, "PostgreSQL query failed: ", func() *results.Envelope {
		return results.Success(products, noResultsMessage)
	})
}

// ProductsBySimilarity returns the products whose description embedding lies
// within the distance implied by threshold (a 0-100 similarity percentage),
// closest first.
func (s *Store) ProductsBySimilarity(ctx context.Context, embedding []float32, maxRows int, threshold float64, rlsUserID string) (*results.Envelope, error) {
	var products []results.SimilarityRow
	err := s.withConn(ctx, rlsUserID, func(conn database.Conn) error {
		raw, err := collect(ctx, conn, productsBySimilaritySQL,
			database.VectorLiteral(embedding), database.ClampLimit(maxRows), database.DistanceThreshold(threshold))
		if err != nil {
			return err
		}
		products = make([]results.SimilarityRow, 0, len(raw))
		for _, r := range raw {
			row, err := results.NewSimilarityRow(r, database.SimilarityPercent)
			if err != nil {
				return database.NewQueryError(err)
			}
			products = append(products, row)
		}
		return nil
	})

	return s.envelope("semantic product search", err, "PostgreSQL semantic search failed: ", func() *results.Envelope {
		return results.Success(products, fmt.Sprintf(
			"No products found with similarity threshold >= %s%%. Try a lower threshold or different search query.",
			strconv.FormatFloat(threshold, 'f', -1, 64)))
	})
}
