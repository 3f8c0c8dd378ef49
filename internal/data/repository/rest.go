package repository

import (
	"context"
	"strconv"

	"github.com/supabase-community/postgrest-go"
)

// Table is where a REST repository starts its queries. *database.Gateway implements it.
type Table interface {
	From(ctx context.Context, table string) *postgrest.QueryBuilder
}

const (
	dreamsTable  = "dreams"
	reviewsTable = "reviews"

	// rows per request when paging ids through the sampler
	samplePageSize = 1000
)

var (
	newestFirst = &postgrest.OrderOpts{Ascending: false}
	byID        = &postgrest.OrderOpts{Ascending: true}
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatIDs(ids []int64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = formatID(id)
	}
	return out
}
