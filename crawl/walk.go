package crawl

import (
	"context"

	"github.com/fwojciec/siteaudit"
	"golang.org/x/sync/errgroup"
)

// walkItem is a link dispatched to a worker. seq is its dispatch order.
type walkItem struct {
	seq  int
	link siteaudit.DiscoveredLink
}

// walkResult is the outcome of processing one walkItem.
type walkResult struct {
	seq        int
	link       siteaudit.DiscoveredLink
	result     *siteaudit.LinkResult
	discovered []siteaudit.DiscoveredLink
	page       bool
	err        error
}

// walkProcessor processes a link on a worker goroutine.
type walkProcessor func(ctx context.Context, item walkItem) walkResult

// walkResultHandler handles a completed walkResult on the coordinator
// goroutine. It is the only place the caller's state is mutated and
// where discovered links are pushed back into the frontier.
type walkResultHandler func(result *walkResult)

// walkFrontier drains the frontier with a pool of concurrency workers.
// Links are dispatched in frontier order with increasing seq numbers
// starting at firstSeq; at most maxURLs links are dispatched in total.
//
// Returns the number of links dispatched, and the context error if the
// walk was canceled.
func walkFrontier(
	ctx context.Context,
	frontier *Frontier,
	concurrency int,
	maxURLs int,
	firstSeq int,
	process walkProcessor,
	handle walkResultHandler,
) (int, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	workCh := make(chan walkItem, concurrency)
	resultCh := make(chan walkResult)

	g, gctx := errgroup.WithContext(ctx)
	for range concurrency {
		g.Go(func() error {
			for item := range workCh {
				res := process(gctx, item)
				select {
				case resultCh <- res:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(resultCh)
	}()

	dispatched := 0
	pending := 0
	var next *siteaudit.DiscoveredLink

	pop := func() {
		if next == nil && dispatched < maxURLs {
			if link, ok := frontier.Pop(); ok {
				next = &link
			}
		}
	}
	pop()

loop:
	for {
		if pending == 0 && next == nil {
			break
		}
		if ctx.Err() != nil {
			break
		}

		if next != nil {
			select {
			case <-ctx.Done():
				break loop
			case workCh <- walkItem{seq: firstSeq + dispatched, link: *next}:
				dispatched++
				pending++
				next = nil
			case res := <-resultCh:
				pending--
				handle(&res)
			}
		} else {
			select {
			case <-ctx.Done():
				break loop
			case res, ok := <-resultCh:
				if !ok {
					break loop
				}
				pending--
				handle(&res)
			}
		}

		pop()
	}

	close(workCh)

	// Workers exit once workCh is closed or the context is done; results
	// arriving after cancellation are discarded.
	canceled := ctx.Err() != nil
	for res := range resultCh {
		if !canceled {
			handle(&res)
		}
	}

	return dispatched, ctx.Err()
}
