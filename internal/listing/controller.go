package listing

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/jonathan/jobhunter/internal/types"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the delay between the last keystroke and the search it triggers.
const DefaultDebounce = 500 * time.Millisecond

// DefaultScrollThreshold is the fraction of the list that must be visible before the next page loads.
const DefaultScrollThreshold = 0.8

// Fetcher loads one page of a job list.
type Fetcher interface {
	FetchPage(ctx context.Context, role types.Role, query types.ListQuery, page int) (*types.ListPage, error)
}

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	Debounce        time.Duration
	ScrollThreshold float64
	Logger          logrus.FieldLogger
}

// Controller owns the observable state of one paginated job list.
// All methods are safe for concurrent use; fetches run on their own goroutines.
type Controller struct {
	fetcher         Fetcher
	debounce        time.Duration
	scrollThreshold float64
	logger          logrus.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       State
	loaded      int // last successfully loaded page, 0 when none
	generation  uint64
	cancelFetch context.CancelFunc
	textTimer   *time.Timer
	textSeq     uint64
	closed      bool
	subscribers map[int]chan State
	nextSubID   int

	pending sync.WaitGroup
}

// New creates an idle controller for query. Nothing is fetched until Activate,
// a query change or Refresh.
func New(fetcher Fetcher, query types.ListQuery, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.ScrollThreshold <= 0 || opts.ScrollThreshold > 1 {
		opts.ScrollThreshold = DefaultScrollThreshold
	}
	if opts.Logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		opts.Logger = discard
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		fetcher:         fetcher,
		debounce:        opts.Debounce,
		scrollThreshold: opts.ScrollThreshold,
		logger:          opts.Logger,
		ctx:             ctx,
		cancel:          cancel,
		state: State{
			Phase: PhaseIdle,
			Items: []types.JobSummary{},
			Page:  1,
			Query: query.Clone(),
		},
		subscribers: make(map[int]chan State),
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Activate loads the first page. It only acts in the idle phase and reports whether a fetch started.
func (c *Controller) Activate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state.Phase != PhaseIdle {
		return false
	}
	c.startFirstPageLocked(false)
	return true
}

// Refresh reloads page 1 from any phase. On success the items are replaced, never appended to.
// Any in-flight fetch is superseded.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.startFirstPageLocked(true)
}

// LoadMore requests the page after the last loaded one. It is a no-op unless the controller is
// ready, so it never runs while another fetch is in flight or after the list is exhausted.
func (c *Controller) LoadMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state.Phase != PhaseReady {
		return false
	}

	next := c.loaded + 1
	c.state.Phase = PhaseLoadingNextPage
	c.state.Loading = true
	c.state.Page = next
	c.state.Err = nil
	c.startFetchLocked(next)
	c.notifyLocked()
	return true
}

// OnScroll reports scroll progress: visibleEnd items of total are on screen or above it.
// Reaching the scroll threshold triggers LoadMore.
func (c *Controller) OnScroll(visibleEnd, total int) bool {
	if total <= 0 {
		return false
	}
	if float64(visibleEnd)/float64(total) < c.scrollThreshold {
		return false
	}
	return c.LoadMore()
}

// SetQuery replaces the whole query immediately. Structured filter changes go through here.
// An equal query is a no-op and leaves a pending search-text debounce armed; otherwise
// pagination restarts at page 1 and the pending search text is dropped.
func (c *Controller) SetQuery(query types.ListQuery) error {
	if err := query.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || query.Equal(c.state.Query) {
		return nil
	}
	c.stopTextTimerLocked()
	c.applyQueryLocked(query)
	return nil
}

// SetSearchText records a keystroke in the search box. The search runs once no further
// keystroke has arrived for the debounce interval.
func (c *Controller) SetSearchText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.stopTextTimerLocked()
	c.textSeq++
	seq := c.textSeq
	c.pending.Add(1)
	c.textTimer = time.AfterFunc(c.debounce, func() {
		defer c.pending.Done()
		c.fireSearchText(seq, text)
	})
}

// Subscribe returns a channel that receives a snapshot after every state change. The channel
// holds only the latest snapshot; a slow reader skips intermediate states. Call the returned
// function to unsubscribe.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan State, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
		})
	}
}

// Wait blocks until no fetch or debounce timer is pending.
func (c *Controller) Wait() {
	c.pending.Wait()
}

// Close detaches the controller. Pending fetches are cancelled and their results ignored,
// and subscriber channels are closed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.generation++
	c.stopTextTimerLocked()
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	c.cancel()
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
}

func (c *Controller) fireSearchText(seq uint64, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || seq != c.textSeq {
		return
	}
	c.textTimer = nil
	c.applyQueryLocked(c.state.Query.WithText(text))
}

func (c *Controller) applyQueryLocked(query types.ListQuery) {
	if query.Equal(c.state.Query) {
		return
	}
	c.logger.WithFields(logrus.Fields{
		"from": c.state.Query.String(),
		"to":   query.String(),
	}).Debug("query changed, restarting pagination")

	c.state.Query = query.Clone()
	c.loaded = 0
	c.startFirstPageLocked(false)
}

func (c *Controller) startFirstPageLocked(refreshing bool) {
	c.generation++
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}

	c.state.Phase = PhaseLoadingFirstPage
	c.state.Loading = true
	c.state.Refreshing = refreshing
	c.state.Exhausted = false
	c.state.Page = 1
	c.state.Err = nil
	c.startFetchLocked(1)
	c.notifyLocked()
}

func (c *Controller) startFetchLocked(page int) {
	t := ticket{generation: c.generation, query: c.state.Query.Clone(), page: page}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelFetch = cancel

	c.logger.WithFields(logrus.Fields{
		"generation": t.generation,
		"page":       page,
		"role":       t.query.Role,
	}).Debug("fetching page")

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		defer cancel()
		result, err := c.fetcher.FetchPage(ctx, t.query.Role, t.query, t.page)
		c.complete(t, result, err)
	}()
}

// complete applies a fetch result if its ticket is still current.
func (c *Controller) complete(t ticket, result *types.ListPage, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := c.logger.WithFields(logrus.Fields{"generation": t.generation, "page": t.page})

	if c.closed || t.generation != c.generation || !t.query.Equal(c.state.Query) ||
		(t.page > 1 && t.page != c.loaded+1) {
		c.state.Discarded++
		log.Debug("discarding stale response")
		return
	}
	c.cancelFetch = nil
	c.state.Loading = false
	c.state.Refreshing = false

	if err != nil {
		log.WithError(err).Warn("page fetch failed")
		c.state.Err = err
		if t.page == 1 {
			c.state.Phase = PhaseIdle
			c.state.Page = max(c.loaded, 1)
		} else {
			c.state.Phase = PhaseReady
			c.state.Page = c.loaded
		}
		c.notifyLocked()
		return
	}

	if result == nil {
		result = &types.ListPage{Page: t.page}
	}
	if t.page == 1 {
		c.state.Items = slices.Clone(result.Items)
	} else {
		c.state.Items = append(c.state.Items, result.Items...)
	}
	if c.state.Items == nil {
		c.state.Items = []types.JobSummary{}
	}
	c.loaded = t.page
	c.state.Page = t.page
	c.state.Err = nil
	c.state.Exhausted = !result.HasNext
	if c.state.Exhausted {
		c.state.Phase = PhaseExhausted
	} else {
		c.state.Phase = PhaseReady
	}

	log.WithFields(logrus.Fields{
		"items":     len(c.state.Items),
		"exhausted": c.state.Exhausted,
	}).Debug("page applied")
	c.notifyLocked()
}

func (c *Controller) stopTextTimerLocked() {
	if c.textTimer == nil {
		return
	}
	if c.textTimer.Stop() {
		c.pending.Done()
	}
	c.textTimer = nil
	c.textSeq++
}

// notifyLocked publishes the current state to subscribers, replacing any unread snapshot.
func (c *Controller) notifyLocked() {
	if len(c.subscribers) == 0 {
		return
	}
	snapshot := c.state.clone()
	for _, ch := range c.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}
