package ports

import (
	"context"

	"powerplants/domain/table"
)

// TableReader supplies raw tables by sheet name. Implementations return the
// sheet's header row as column names and every following row as data, with
// blank cells as missing values and everything else as strings.
type TableReader interface {
	ReadTable(ctx context.Context, sheet string) (*table.Table, error)
}
