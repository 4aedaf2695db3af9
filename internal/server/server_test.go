package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mnemo-app/mnemo/internal/card"
	"github.com/mnemo-app/mnemo/internal/review"
	"github.com/mnemo-app/mnemo/internal/scheduler"
)

// In-memory fakes for the repository interfaces. The handlers only need
// deterministic data and injectable errors, not a database.

type fakeItemRepository struct {
	items      map[string]scheduler.ReviewItem
	candidates []scheduler.QueueCandidate

	findCalls  int
	updates    []scheduler.ReviewItem
	updateErrs []error
}

func (f *fakeItemRepository) FindByID(_ context.Context, userID, id string) (*scheduler.ReviewItem, error) {
	f.findCalls++
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return nil, fmt.Errorf("%w: %s", review.ErrNotFound, id)
	}
	return &item, nil
}

func (f *fakeItemRepository) FindQueueCandidates(_ context.Context, _ string) ([]scheduler.QueueCandidate, error) {
	return f.candidates, nil
}

func (f *fakeItemRepository) UpdateScheduled(_ context.Context, item scheduler.ReviewItem, _ scheduler.State, _ time.Time) error {
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	f.updates = append(f.updates, item)
	f.items[item.ID] = item
	return nil
}

type fakeHistoryRepository struct {
	records        []review.HistoryRecord
	gradedNewToday int
	appendErr      error
}

func (f *fakeHistoryRepository) Append(_ context.Context, record *review.HistoryRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	record.ID = int64(len(f.records) + 1)
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeHistoryRepository) CountNewGradedSince(_ context.Context, _ string, _ time.Time) (int, error) {
	return f.gradedNewToday, nil
}

func (f *fakeHistoryRepository) FindAllByUser(_ context.Context, _ string) ([]review.HistoryRecord, error) {
	return f.records, nil
}

type fakeSettingsRepository struct {
	settings scheduler.Settings
	getErr   error
	putErr   error
	stored   *scheduler.Settings
}

func (f *fakeSettingsRepository) Get(_ context.Context, _ string) (scheduler.Settings, error) {
	if f.getErr != nil {
		return scheduler.Settings{}, f.getErr
	}
	return f.settings, nil
}

func (f *fakeSettingsRepository) Put(_ context.Context, _ string, settings scheduler.Settings) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.stored = &settings
	return nil
}

type fakeCardRepository struct {
	cards     map[string]card.Card
	createErr error
	renamed   int64
}

func (f *fakeCardRepository) Create(_ context.Context, c *card.Card) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = fmt.Sprintf("card-%d", len(f.cards)+1)
	c.CreatedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	c.UpdatedAt = c.CreatedAt
	if f.cards == nil {
		f.cards = map[string]card.Card{}
	}
	f.cards[c.ID] = *c
	return nil
}

func (f *fakeCardRepository) FindByID(_ context.Context, userID, id string) (*card.Card, error) {
	c, ok := f.cards[id]
	if !ok || c.UserID != userID {
		return nil, fmt.Errorf("%w: %s", card.ErrNotFound, id)
	}
	return &c, nil
}

func (f *fakeCardRepository) FindAllByUser(_ context.Context, userID string) ([]card.Card, error) {
	var all []card.Card
	for _, c := range f.cards {
		if c.UserID == userID {
			all = append(all, c)
		}
	}
	return all, nil
}

func (f *fakeCardRepository) Delete(_ context.Context, userID, id string) error {
	c, ok := f.cards[id]
	if !ok || c.UserID != userID {
		return fmt.Errorf("%w: %s", card.ErrNotFound, id)
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeCardRepository) RenameCategory(_ context.Context, _ string, _, _ string) (int64, error) {
	return f.renamed, nil
}
