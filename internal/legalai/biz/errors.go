package biz

import "errors"

// ErrNoRelevantDocuments is returned by the non-streaming query path when
// retrieval produces no fragments.
var ErrNoRelevantDocuments = errors.New("no relevant legal documents found")
