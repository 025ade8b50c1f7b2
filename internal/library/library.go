package library

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gearrack/internal/catalog"
	"gearrack/internal/fetch"
	"gearrack/internal/gearcache"
	"gearrack/internal/logging"
)

// settleDelay postpones schema fetches briefly so bulk library loading can
// finish before per-slot restoration traffic starts.
const settleDelay = 50 * time.Millisecond

// Library resolves unit templates by id, filling the cache on first fetch.
type Library struct {
	baseURL string
	fetcher fetch.Fetcher
	cache   *gearcache.Manager
	index   *catalog.Index // optional
	logger  *slog.Logger

	delay time.Duration

	mu    sync.Mutex
	items map[string]*Item
}

// Options configures a Library.
type Options struct {
	BaseURL string
	Fetcher fetch.Fetcher
	Cache   *gearcache.Manager
	Index   *catalog.Index
	Logger  *slog.Logger

	// SettleDelay overrides the pre-fetch delay; tests set it to zero.
	SettleDelay time.Duration
}

// New builds an empty library. Cached unit definitions are picked up lazily
// on lookup; call Refresh to pull the remote index.
func New(opts Options) *Library {
	delay := opts.SettleDelay
	if delay <= 0 {
		delay = settleDelay
	}
	return &Library{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		fetcher: opts.Fetcher,
		cache:   opts.Cache,
		index:   opts.Index,
		logger:  logging.NewComponentLogger(opts.Logger, "library"),
		delay:   delay,
		items:   make(map[string]*Item),
	}
}

type indexDoc struct {
	Units []Item `json:"units"`
}

// Refresh pulls the remote library index and merges its unit summaries.
// Already-resolved templates keep their loaded schemas.
func (l *Library) Refresh(ctx context.Context) bool {
	content, ok := l.fetcher.FetchJSON(ctx, l.baseURL+"/index.json")
	if !ok {
		l.logger.Warn("library index fetch failed",
			logging.String(logging.FieldURL, l.baseURL+"/index.json"),
			logging.String(logging.FieldErrorHint, "cached units remain available"))
		return false
	}
	var doc indexDoc
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		l.logger.Warn("library index is malformed", logging.Error(err))
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range doc.Units {
		summary := doc.Units[i]
		if summary.UnitID == "" {
			continue
		}
		if existing, ok := l.items[summary.UnitID]; ok && existing.HasSchema() {
			continue
		}
		copied := summary
		l.items[summary.UnitID] = &copied
	}
	return true
}

// ItemByUnitID returns the template for id, consulting memory first and then
// the cache. A miss returns nil.
func (l *Library) ItemByUnitID(id string) *Item {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	l.mu.Lock()
	if item, ok := l.items[id]; ok {
		l.mu.Unlock()
		return item
	}
	l.mu.Unlock()

	doc, ok := l.cache.LoadUnit(id)
	if !ok {
		return nil
	}
	item, err := ParseItem(doc)
	if err != nil {
		l.logger.Warn("cached unit definition is corrupt",
			logging.String(logging.FieldUnitID, id), logging.Error(err))
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.items[id]; ok {
		return existing
	}
	l.items[id] = item
	return item
}

// EnsureUnit resolves a full unit definition, loading from cache on a hit
// and fetching + caching on a miss. The cached copy is authoritative: a hit
// is never re-fetched.
func (l *Library) EnsureUnit(ctx context.Context, id string) *Item {
	if strings.TrimSpace(id) == "" {
		return nil
	}

	doc, cached := l.cache.LoadUnit(id)
	if !cached {
		fetched, ok := l.fetcher.FetchJSON(ctx, l.unitURL(id))
		if !ok {
			return nil
		}
		doc = fetched
		if !l.cache.SaveUnit(id, doc) {
			l.logger.Warn("unit fetched but not cached",
				logging.String(logging.FieldUnitID, id),
				logging.String(logging.FieldErrorHint, "will re-fetch next time"))
		}
	}

	item, err := ParseItem(doc)
	if err != nil {
		l.logger.Warn("unit definition is corrupt",
			logging.String(logging.FieldUnitID, id), logging.Error(err))
		return nil
	}

	l.mu.Lock()
	l.items[id] = item
	l.mu.Unlock()

	l.indexUnit(ctx, item)
	return item
}

// FetchSchema resolves the template's control schema and control images
// asynchronously, then invokes done with the outcome. The callback runs on a
// separate goroutine at an arbitrary later time; per-unit fetches are
// unordered relative to each other.
func (l *Library) FetchSchema(ctx context.Context, id string, done func(ok bool)) {
	go func() {
		timer := time.NewTimer(l.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			if done != nil {
				done(false)
			}
			return
		case <-timer.C:
		}

		item := l.EnsureUnit(ctx, id)
		if item == nil {
			if done != nil {
				done(false)
			}
			return
		}
		l.cacheControlImages(ctx, item)
		if done != nil {
			done(item.HasSchema())
		}
	}()
}

// cacheControlImages pulls faceplate, thumbnail, and control strips through
// the cache. Individual image failures are tolerated; controls still work
// without their artwork.
func (l *Library) cacheControlImages(ctx context.Context, item *Item) {
	if item.FaceplateImage != "" && !l.cache.IsFaceplateCached(item.FaceplateImage) {
		if raw, ok := l.fetcher.FetchBinary(ctx, l.assetURL("faceplates/"+item.FaceplateImage)); ok {
			l.cache.SaveFaceplate(item.FaceplateImage, raw)
		}
	}
	if item.ThumbnailImage != "" && !l.cache.IsThumbnailCached(item.ThumbnailImage) {
		if raw, ok := l.fetcher.FetchBinary(ctx, l.assetURL("thumbnails/"+item.ThumbnailImage)); ok {
			l.cache.SaveThumbnail(item.ThumbnailImage, raw)
		}
	}
	for _, control := range item.Controls {
		if control.AssetPath == "" || l.cache.IsControlAssetCached(control.AssetPath) {
			continue
		}
		raw, ok := l.fetcher.FetchBinary(ctx, l.assetURL("controls/"+strings.TrimPrefix(control.AssetPath, "controls/")))
		if !ok {
			continue
		}
		l.cache.SaveControlAsset(control.AssetPath, raw)
	}
}

func (l *Library) indexUnit(ctx context.Context, item *Item) {
	if l.index == nil {
		return
	}
	err := l.index.Upsert(ctx, catalog.Entry{
		UnitID:   item.UnitID,
		Name:     item.Name,
		Category: item.Category,
		Version:  item.Version,
		CachedAt: time.Now().UTC(),
	})
	if err != nil {
		l.logger.Warn("catalog upsert failed",
			logging.String(logging.FieldUnitID, item.UnitID), logging.Error(err))
	}
}

func (l *Library) unitURL(id string) string {
	return l.baseURL + "/units/" + id + ".json"
}

func (l *Library) assetURL(rel string) string {
	return l.baseURL + "/assets/" + rel
}
