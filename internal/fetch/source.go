package fetch

import (
	"context"
	"time"
)

// Item is a normalized candidate article from one external source. A zero
// Published means the source gave no usable date; such items are skipped
// at persistence time.
type Item struct {
	Title     string
	URL       string
	ImageURL  string
	Published time.Time
	Source    string
}

// Source fetches candidate items for one keyword from one external
// provider. since is the lookback cutoff; sources without a reliable
// server-side date filter ignore it.
type Source interface {
	Name() string
	Fetch(ctx context.Context, keyword string, since time.Time) ([]Item, error)
}

// dateOf reduces a timestamp to a local calendar date (midnight).
func dateOf(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
