package explorer

import (
	"context"
	"iter"

	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
)

// PageFunc fetches one page of a listing.
type PageFunc func(ctx context.Context, offset, limit int) (*Page, error)

// ByAddress returns a PageFunc over unspent boxes guarded by address.
func ByAddress(g Gateway, address string) PageFunc {
	return func(ctx context.Context, offset, limit int) (*Page, error) {
		return g.GetUnspentByAddress(ctx, address, offset, limit)
	}
}

// ByTokenID returns a PageFunc over unspent boxes holding tokenID.
func ByTokenID(g Gateway, tokenID string) PageFunc {
	return func(ctx context.Context, offset, limit int) (*Page, error) {
		return g.GetUnspentByTokenID(ctx, tokenID, offset, limit)
	}
}

// Paginate walks a listing lazily: a page is fetched only when the consumer
// has drained the previous one. A fetch error is yielded once and ends the
// sequence. Every call starts again from offset zero.
func Paginate(ctx context.Context, fetch PageFunc, pageSize int) iter.Seq2[boxes.RawRecord, error] {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return func(yield func(boxes.RawRecord, error) bool) {
		offset := 0
		for {
			if err := ctx.Err(); err != nil {
				yield(boxes.RawRecord{}, err)
				return
			}

			page, err := fetch(ctx, offset, pageSize)
			if err != nil {
				yield(boxes.RawRecord{}, err)
				return
			}
			if page == nil || len(page.Items) == 0 {
				return
			}

			for _, rec := range page.Items {
				if !yield(rec, nil) {
					return
				}
			}

			offset += len(page.Items)
			if len(page.Items) < pageSize || (page.Total > 0 && offset >= page.Total) {
				return
			}
		}
	}
}
