package retrieval

import (
	"context"
	"log"
	"sync"
)

// Indexer owns the current VectorSpace for the corpus. The space is built
// lazily on first use and rebuilt wholesale on Reinitialize; the corpus is
// small enough that incremental updates are not worth the bookkeeping.
//
// A read-write lock guards the space reference so a concurrent rank call
// never observes a half-rebuilt space. A failed rebuild leaves the previous
// space in place.
type Indexer struct {
	source DocumentSource

	mu    sync.RWMutex
	space *VectorSpace
}

// NewIndexer creates an indexer over the given document source. No build
// happens until the first Space or Reinitialize call.
func NewIndexer(source DocumentSource) *Indexer {
	return &Indexer{source: source}
}

// Space returns the current vector space, building it first if no build has
// happened yet. Only this build path touches the document source; ranking
// itself does no I/O.
func (ix *Indexer) Space(ctx context.Context) (*VectorSpace, error) {
	ix.mu.RLock()
	space := ix.space
	ix.mu.RUnlock()
	if space != nil {
		return space, nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	// Another caller may have built while we waited for the lock.
	if ix.space != nil {
		return ix.space, nil
	}

	space, err := ix.build(ctx)
	if err != nil {
		return nil, err
	}
	ix.space = space
	return space, nil
}

// Reinitialize rebuilds the vector space from a fresh corpus snapshot.
// Callers invoke it after the corpus changes; the indexer does not watch
// the source. On failure the previous space stays in effect and the error
// is returned for the caller to decide about retrying.
func (ix *Indexer) Reinitialize(ctx context.Context) error {
	space, err := ix.build(ctx)
	if err != nil {
		return err
	}

	ix.mu.Lock()
	ix.space = space
	ix.mu.Unlock()
	return nil
}

// Reset drops the current space so the next Space call rebuilds lazily.
func (ix *Indexer) Reset() {
	ix.mu.Lock()
	ix.space = nil
	ix.mu.Unlock()
}

func (ix *Indexer) build(ctx context.Context) (*VectorSpace, error) {
	docs, err := ix.source.ListDocuments(ctx)
	if err != nil {
		return nil, wrapError("build", err)
	}

	space, err := BuildSpace(docs)
	if err != nil {
		return nil, err
	}

	if space.Len() == 0 {
		log.Printf("[Retrieval] Built empty vector space: no policy documents available")
	} else {
		log.Printf("[Retrieval] Vector space built: %d documents, %d features",
			space.Len(), space.model.Dimensions())
	}
	return space, nil
}
