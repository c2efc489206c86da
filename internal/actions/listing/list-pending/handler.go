// internal/actions/listing/list-pending/handler.go
package listpending

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"market-admin/internal/common/logger"
	"market-admin/internal/common/metrics"
	"market-admin/internal/models"

	"github.com/sourcegraph/conc"
)

const ActionName = "list-pending"

type Store interface {
	Get(ctx context.Context, path string, out interface{}) (bool, error)
}

type Handler struct {
	config *Config
	store  Store
	logger logger.Logger
}

func NewHandler(config *Config, store Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"action": ActionName}),
	}
}

// Execute returns pending markets followed by pending delete requests. A
// source that cannot be read contributes no items and adds a warning.
func (h *Handler) Execute(ctx context.Context) (*Output, error) {
	start := time.Now()

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	// Markets and submissions are independent reads.
	var (
		wg                       conc.WaitGroup
		markets, deletes         []models.PendingItem
		marketSkips, deleteSkips int
		marketErr, deleteErr     error
	)
	wg.Go(func() { markets, marketSkips, marketErr = h.loadMarkets(ctx) })
	wg.Go(func() { deletes, deleteSkips, deleteErr = h.loadDeleteRequests(ctx) })
	wg.Wait()

	output := &Output{Items: make([]models.PendingItem, 0, len(markets)+len(deletes))}
	if marketErr != nil {
		output.Warnings = append(output.Warnings, h.degrade(SourceMarkets, marketErr))
	}
	if marketSkips > 0 {
		output.Warnings = append(output.Warnings, skippedWarning(SourceMarkets, marketSkips))
	}
	if deleteErr != nil {
		output.Warnings = append(output.Warnings, h.degrade(SourceSubmissions, deleteErr))
	}
	if deleteSkips > 0 {
		output.Warnings = append(output.Warnings, skippedWarning(SourceSubmissions, deleteSkips))
	}
	output.Items = append(output.Items, markets...)
	output.Items = append(output.Items, deletes...)

	outcome := metrics.OutcomeSuccess
	if len(output.Warnings) > 0 {
		outcome = metrics.OutcomeFailure
	}
	metrics.AdminActionsTotal.WithLabelValues(ActionName, outcome).Inc()
	metrics.AdminActionDuration.WithLabelValues(ActionName).Observe(time.Since(start).Seconds())

	h.logger.Debug("pending items loaded", map[string]interface{}{
		"markets":  len(markets),
		"deletes":  len(deletes),
		"warnings": len(output.Warnings),
	})

	return output, nil
}

func (h *Handler) loadMarkets(ctx context.Context) ([]models.PendingItem, int, error) {
	markets, skipped, err := loadRecords[models.Market](ctx, h, SourceMarkets)
	if err != nil {
		return nil, 0, err
	}

	items := []models.PendingItem{}
	for _, key := range sortedKeys(markets) {
		m := markets[key]
		if m.Status != models.StatusPending {
			continue
		}
		items = append(items, models.PendingItem{
			ID:              key,
			Name:            m.Name,
			IsDeleteRequest: false,
			Status:          m.Status,
			SubmittedBy:     m.SubmittedBy,
			SubmittedByName: m.SubmittedByName,
			SubmittedAt:     m.SubmittedAt,
			Description:     m.Description,
			PhotoURL:        m.PhotoURL,
			Address:         m.Address,
			Type:            m.Type,
			OpeningHours:    m.OpeningHours,
		})
	}
	return items, skipped, nil
}

func (h *Handler) loadDeleteRequests(ctx context.Context) ([]models.PendingItem, int, error) {
	submissions, skipped, err := loadRecords[models.Submission](ctx, h, SourceSubmissions)
	if err != nil {
		return nil, 0, err
	}

	items := []models.PendingItem{}
	for _, key := range sortedKeys(submissions) {
		s := submissions[key]
		if !s.IsPendingDelete() {
			continue
		}
		photoURL, description := ParseChangeDetails(s.ChangeDetails)
		items = append(items, models.PendingItem{
			ID:              key,
			Name:            models.DeleteNamePrefix + s.MarketName,
			IsDeleteRequest: true,
			Status:          s.Status,
			SubmittedBy:     s.SubmittedBy,
			SubmittedByName: s.SubmittedByName,
			SubmittedAt:     s.SubmittedAt,
			Description:     description,
			PhotoURL:        photoURL,
			MarketID:        s.MarketID,
		})
	}
	return items, skipped, nil
}

// loadRecords reads a collection and decodes each child on its own, so one
// malformed record is skipped instead of hiding the whole source.
func loadRecords[T any](ctx context.Context, h *Handler, source string) (map[string]T, int, error) {
	var raw map[string]json.RawMessage
	found, err := h.store.Get(ctx, source, &raw)
	if err != nil || !found {
		return nil, 0, err
	}

	records := make(map[string]T, len(raw))
	skipped := 0
	for key, body := range raw {
		var record T
		if err := json.Unmarshal(body, &record); err != nil {
			skipped++
			h.logger.Warn("skipping undecodable record", map[string]interface{}{
				"source": source,
				"key":    key,
				"error":  err,
			})
			continue
		}
		records[key] = record
	}
	return records, skipped, nil
}

func skippedWarning(source string, n int) string {
	return fmt.Sprintf("Skipped %d unreadable %s record(s)", n, source)
}

func (h *Handler) degrade(source string, err error) string {
	h.logger.Warn("pending source unavailable, showing no items from it", map[string]interface{}{
		"source": source,
		"error":  err,
	})
	return fmt.Sprintf("Could not load %s: %v", source, err)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
