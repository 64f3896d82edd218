package retail

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pgElephant/RetailMCP/internal/database"
)

// AllowedTables lists the tables schema introspection will describe.
var AllowedTables = []string{
	"retail.customers",
	"retail.stores",
	"retail.categories",
	"retail.product_types",
	"retail.products",
	"retail.orders",
	"retail.order_items",
	"retail.inventory",
}

const tableColumnsSQL = `
	SELECT
		c.column_name::text,
		c.data_type::text,
		c.is_nullable = 'YES' AS nullable,
		COALESCE(c.column_default::text, '') AS column_default,
		EXISTS (
			SELECT 1
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON kcu.constraint_schema = tc.constraint_schema AND kcu.constraint_name = tc.constraint_name
			WHERE tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_schema = c.table_schema
				AND tc.table_name = c.table_name
				AND kcu.column_name = c.column_name
		) AS primary_key,
		COALESCE((
			SELECT ccu.table_schema || '.' || ccu.table_name || '(' || ccu.column_name || ')'
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON kcu.constraint_schema = tc.constraint_schema AND kcu.constraint_name = tc.constraint_name
			JOIN information_schema.constraint_column_usage ccu
				ON ccu.constraint_schema = tc.constraint_schema AND ccu.constraint_name = tc.constraint_name
			WHERE tc.constraint_type = 'FOREIGN KEY'
				AND tc.table_schema = c.table_schema
				AND tc.table_name = c.table_name
				AND kcu.column_name = c.column_name
			LIMIT 1
		), '') AS foreign_key
	FROM information_schema.columns c
	WHERE c.table_schema = $1 AND c.table_name = $2
	ORDER BY c.ordinal_position`

// ValidationError rejects a request before it reaches the database.
type ValidationError struct {
	Message string
	Invalid []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateTableNames accepts names only when every one is allow-listed.
// The error names each rejected entry.
func ValidateTableNames(names []string) error {
	if len(names) == 0 {
		return &ValidationError{Message: "table_names parameter is required and cannot be empty"}
	}

	allowed := make(map[string]bool, len(AllowedTables))
	for _, t := range AllowedTables {
		allowed[t] = true
	}

	var invalid []string
	for _, name := range names {
		if !allowed[name] {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) == 0 {
		return nil
	}

	valid := append([]string(nil), AllowedTables...)
	sort.Strings(valid)
	return &ValidationError{
		Message: fmt.Sprintf("Invalid table names: %q. Valid tables are: %q", invalid, valid),
		Invalid: invalid,
	}
}

type columnInfo struct {
	name       string
	dataType   string
	nullable   bool
	defaultVal string
	primaryKey bool
	foreignKey string
}

// TableSchemas describes each requested table, in request order, as one text
// block. Nothing is fetched unless every name is valid.
func (s *Store) TableSchemas(ctx context.Context, names []string, rlsUserID string) (string, error) {
	if err := ValidateTableNames(names); err != nil {
		return "", err
	}

	blocks := make([]string, 0, len(names))
	err := s.withConn(ctx, rlsUserID, func(conn database.Conn) error {
		for _, name := range names {
			columns, err := tableColumns(ctx, conn, name)
			if err != nil {
				return err
			}
			blocks = append(blocks, formatTable(name, columns))
		}
		return nil
	})
	if err != nil {
		s.logger.Warn(fmt.Sprintf("schema introspection failed: %v", err), map[string]interface{}{
			"tables": names,
		})
		return "", err
	}
	return strings.Join(blocks, "\n\n"), nil
}

func tableColumns(ctx context.Context, conn database.Conn, qualified string) ([]columnInfo, error) {
	schema, table, _ := strings.Cut(qualified, ".")
	rows, err := conn.Query(ctx, tableColumnsSQL, schema, table)
	if err != nil {
		return nil, database.NewQueryError(err)
	}
	defer rows.Close()

	var columns []columnInfo
	for rows.Next() {
		var c columnInfo
		if err := rows.Scan(&c.name, &c.dataType, &c.nullable, &c.defaultVal, &c.primaryKey, &c.foreignKey); err != nil {
			return nil, database.NewQueryError(err)
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, database.NewQueryError(err)
	}
	return columns, nil
}

func formatTable(name string, columns []columnInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Table: %s\n", name)
	if len(columns) == 0 {
		b.WriteString("  (no columns visible)")
		return b.String()
	}

	b.WriteString("Columns:")
	var keys []string
	for _, c := range columns {
		fmt.Fprintf(&b, "\n  %s %s", c.name, c.dataType)
		if !c.nullable {
			b.WriteString(" NOT NULL")
		}
		if c.defaultVal != "" {
			fmt.Fprintf(&b, " DEFAULT %s", c.defaultVal)
		}
		if c.foreignKey != "" {
			fmt.Fprintf(&b, " REFERENCES %s", c.foreignKey)
		}
		if c.primaryKey {
			keys = append(keys, c.name)
		}
	}
	if len(keys) > 0 {
		fmt.Fprintf(&b, "\nPrimary key: (%s)", strings.Join(keys, ", "))
	}
	return b.String()
}
