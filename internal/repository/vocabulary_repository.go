package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"zungenrede-bot/internal/models"
	"zungenrede-bot/internal/utils"

	"github.com/sirupsen/logrus"
)

// ErrVersionConflict is returned by Save when the collection changed after
// the Load that produced the version.
var ErrVersionConflict = errors.New("vocabulary changed concurrently")

// maxUpdateAttempts bounds the read-modify-write retries on version
// conflicts.
const maxUpdateAttempts = 5

// VocabularyBackend persists the whole collection at once. Save must replace
// the previous collection atomically, and only while the stored collection
// is still at version; otherwise it returns ErrVersionConflict.
type VocabularyBackend interface {
	Load(ctx context.Context) (records []models.VocabularyRecord, version int64, err error)
	Save(ctx context.Context, records []models.VocabularyRecord, version int64) error
}

type vocabularyRepository struct {
	// mu orders writers inside one process; the backend version check
	// covers writers in other processes.
	mu      sync.Mutex
	logger  *logrus.Entry
	backend VocabularyBackend
}

func NewVocabularyRepository(logger *logrus.Entry, backend VocabularyBackend) utils.VocabularyRepository {
	return &vocabularyRepository{
		logger:  logger,
		backend: backend,
	}
}

func (r *vocabularyRepository) load(ctx context.Context) ([]models.VocabularyRecord, int64, error) {
	records, version, err := r.backend.Load(ctx)
	if err != nil {
		r.logger.WithError(err).Error("Failed to read vocabulary")
		return nil, 0, fmt.Errorf("%w: failed to read vocabulary: %w", models.ErrStorage, err)
	}
	return records, version, nil
}

// update runs one read-modify-write. mutate gets a fresh copy on every
// attempt and reports whether anything changed; unchanged collections are
// not written.
func (r *vocabularyRepository) update(ctx context.Context, mutate func([]models.VocabularyRecord) ([]models.VocabularyRecord, bool)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 1; ; attempt++ {
		records, version, err := r.load(ctx)
		if err != nil {
			return err
		}

		updated, changed := mutate(records)
		if !changed {
			return nil
		}

		err = r.backend.Save(ctx, normalize(updated), version)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrVersionConflict) && attempt < maxUpdateAttempts {
			r.logger.WithField("attempt", attempt).Warn("Vocabulary changed concurrently, retrying")
			continue
		}
		r.logger.WithError(err).Error("Failed to write vocabulary")
		return fmt.Errorf("%w: failed to write vocabulary: %w", models.ErrStorage, err)
	}
}

// normalize keeps the stored shape: sequences are arrays, never null.
func normalize(records []models.VocabularyRecord) []models.VocabularyRecord {
	if records == nil {
		return []models.VocabularyRecord{}
	}
	for i := range records {
		if records[i].GrammarForms == nil {
			records[i].GrammarForms = []string{}
		}
		if records[i].Examples == nil {
			records[i].Examples = []models.Example{}
		}
	}
	return records
}

func trim(record models.VocabularyRecord) models.VocabularyRecord {
	record.Original = strings.TrimSpace(record.Original)
	record.Translation = strings.TrimSpace(record.Translation)
	return record
}

func (r *vocabularyRepository) ReadAll(ctx context.Context) ([]models.VocabularyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, _, err := r.load(ctx)
	return records, err
}

func (r *vocabularyRepository) Upsert(ctx context.Context, record models.VocabularyRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	record = trim(record)

	var replaced int
	err := r.update(ctx, func(records []models.VocabularyRecord) ([]models.VocabularyRecord, bool) {
		kept := records[:0]
		for _, existing := range records {
			if existing.Matches(record.Original) || existing.Matches(record.Translation) {
				continue
			}
			kept = append(kept, existing)
		}
		replaced = len(records) - len(kept)
		return append(kept, record), true
	})
	if err != nil {
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"original": record.Original,
		"replaced": replaced,
	}).Info("Successfully saved vocabulary record")
	return nil
}

func (r *vocabularyRepository) Find(ctx context.Context, key string) (models.VocabularyRecord, bool, error) {
	records, err := r.ReadAll(ctx)
	if err != nil {
		return models.VocabularyRecord{}, false, err
	}
	i := indexOf(records, key)
	if i < 0 {
		return models.VocabularyRecord{}, false, nil
	}
	return records[i], true, nil
}

func (r *vocabularyRepository) UpdateStats(ctx context.Context, key string, wasCorrect bool) error {
	return r.update(ctx, func(records []models.VocabularyRecord) ([]models.VocabularyRecord, bool) {
		i := indexOf(records, key)
		if i < 0 {
			r.logger.WithField("key", key).Debug("No vocabulary record to update stats for")
			return records, false
		}
		if wasCorrect {
			records[i].CorrectAnswers++
		} else {
			records[i].WrongAnswers++
		}
		return records, true
	})
}

func (r *vocabularyRepository) Delete(ctx context.Context, key string) (bool, error) {
	var removed int
	err := r.update(ctx, func(records []models.VocabularyRecord) ([]models.VocabularyRecord, bool) {
		kept := records[:0]
		for _, existing := range records {
			if !existing.Matches(key) {
				kept = append(kept, existing)
			}
		}
		removed = len(records) - len(kept)
		return kept, removed > 0
	})
	if err != nil {
		return false, err
	}
	if removed == 0 {
		return false, nil
	}

	r.logger.WithFields(logrus.Fields{
		"key":     key,
		"removed": removed,
	}).Info("Deleted vocabulary records")
	return true, nil
}

// Import replaces the whole collection with payload, a JSON array of
// records. Nothing is written unless every record is valid.
func (r *vocabularyRepository) Import(ctx context.Context, payload []byte) (int, error) {
	var records []models.VocabularyRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return 0, fmt.Errorf("%w: failed to parse import payload: %v", models.ErrValidation, err)
	}
	for i, record := range records {
		if err := record.Validate(); err != nil {
			return 0, fmt.Errorf("record %d: %w", i+1, err)
		}
		records[i] = trim(record)
	}

	err := r.update(ctx, func([]models.VocabularyRecord) ([]models.VocabularyRecord, bool) {
		return append([]models.VocabularyRecord(nil), records...), true
	})
	if err != nil {
		return 0, err
	}

	r.logger.WithField("count", len(records)).Info("Imported vocabulary")
	return len(records), nil
}

func (r *vocabularyRepository) Export(ctx context.Context) ([]byte, error) {
	records, err := r.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.VocabularyRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vocabulary: %w", err)
	}
	return data, nil
}

func (r *vocabularyRepository) Clear(ctx context.Context) error {
	err := r.update(ctx, func([]models.VocabularyRecord) ([]models.VocabularyRecord, bool) {
		return nil, true
	})
	if err != nil {
		return err
	}
	r.logger.Info("Cleared vocabulary")
	return nil
}

// Hardest returns up to n records that were answered wrong at least once,
// highest error rate first.
func (r *vocabularyRepository) Hardest(ctx context.Context, n int) ([]models.VocabularyRecord, error) {
	records, err := r.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []models.VocabularyRecord
	for _, record := range records {
		if record.WrongAnswers > 0 {
			candidates = append(candidates, record)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].ErrorRate() != candidates[j].ErrorRate() {
			return candidates[i].ErrorRate() > candidates[j].ErrorRate()
		}
		return candidates[i].WrongAnswers > candidates[j].WrongAnswers
	})

	if n >= 0 && len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates, nil
}

func indexOf(records []models.VocabularyRecord, key string) int {
	for i, record := range records {
		if record.Matches(key) {
			return i
		}
	}
	return -1
}
