package models

import "context"

type DownloadContext struct {
	Context           context.Context
	MatchedContentID  string
	MatchedContentURL string
	MatchedGroups     map[string]string
	Extractor         *Extractor
}

// Ctx returns the request context, never nil.
func (ctx *DownloadContext) Ctx() context.Context {
	if ctx.Context == nil {
		return context.Background()
	}
	return ctx.Context
}
