// Package output renders aggregate simulation summaries to bytes
// behind a shared Formatter interface, one implementation per output
// format.
package output

import "github.com/rpgo/rsim/internal/domain"

// Formatter renders a slice of per-strategy summaries.
type Formatter interface {
	Name() string
	Format(summaries []domain.Summary) ([]byte, error)
}
