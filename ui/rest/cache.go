package rest

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"

	"github.com/wanderly/concierge/concierge/cache"
	"github.com/wanderly/concierge/pkg/utils"
)

// EntryCounter reports live/expired row counts per logical table. Only the
// relational store implements it; list-backed stores report no counts.
type EntryCounter interface {
	CountByTable(ctx context.Context, table string) (live int64, expired int64, err error)
}

// CacheSource pairs a cache service with its table name for the admin surface.
type CacheSource struct {
	Table   string
	Service *cache.Service
}

type Cache struct {
	Sources []CacheSource
	Counter EntryCounter // nil when the backend has no row counts
}

func InitRestCache(app fiber.Router, sources []CacheSource, counter EntryCounter) Cache {
	rest := Cache{Sources: sources, Counter: counter}
	app.Get("/cache/stats", rest.GetStats)
	app.Post("/cache/cleanup", rest.Cleanup)
	return rest
}

type cacheTableStats struct {
	Table      string `json:"table"`
	TTL        string `json:"ttl"`
	Live       int64  `json:"live"`
	Expired    int64  `json:"expired"`
	LiveHuman  string `json:"live_human,omitempty"`
	LastSynced string `json:"last_synced,omitempty"`
}

func (handler *Cache) GetStats(c *fiber.Ctx) error {
	stats := make([]cacheTableStats, 0, len(handler.Sources))
	for _, src := range handler.Sources {
		entry := cacheTableStats{
			Table: src.Table,
			TTL:   src.Service.TTL().String(),
		}
		if handler.Counter != nil {
			live, expired, err := handler.Counter.CountByTable(c.UserContext(), src.Table)
			utils.PanicIfNeeded(err)
			entry.Live = live
			entry.Expired = expired
			entry.LiveHuman = humanize.Comma(live)
		}
		stats = append(stats, entry)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache stats retrieved",
		Results: fiber.Map{
			"tables":       stats,
			"generated_at": humanize.Time(time.Now()),
		},
	})
}

func (handler *Cache) Cleanup(c *fiber.Ctx) error {
	for _, src := range handler.Sources {
		err := src.Service.Cleanup(c.UserContext())
		utils.PanicIfNeeded(err)
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Expired cache entries removed",
	})
}
