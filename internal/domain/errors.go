package domain

import "errors"

var (
	// ErrInvalidQuery signals an empty or unusable query; no provider call was made.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnknownSession signals a session outside the catalog's fixed enumeration.
	ErrUnknownSession = errors.New("unknown parliament session")
	// ErrRetrievalUnavailable signals an embedding or vector-search provider failure.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrSummarizationFailed signals an LLM failure or schema-non-conformant output.
	ErrSummarizationFailed = errors.New("summarization failed")
	// ErrCatalogUnavailable signals that the reference-data store could not be read.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
