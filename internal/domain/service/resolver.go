package service

import "context"

// SourceResolver fetches a web page and returns its main article text
type SourceResolver interface {
	Resolve(ctx context.Context, rawURL string) (string, error)
}
