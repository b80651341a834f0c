package store

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/revisionlog/internal/db"
	"github.com/revisionlog/internal/revision"
	"gorm.io/gorm"
)

// ContentStore persists one aggregate document per content id and
// serializes every load-mutate-store cycle against the same id. Different
// content ids share nothing and may proceed concurrently.
type ContentStore struct {
	db   *gorm.DB
	mu   sync.Mutex
	keys map[string]*sync.Mutex
}

// NewContentStore creates a ContentStore instance.
func NewContentStore(gdb *gorm.DB) *ContentStore {
	return &ContentStore{
		db:   gdb,
		keys: make(map[string]*sync.Mutex),
	}
}

func (cs *ContentStore) keyLock(contentID string) *sync.Mutex {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	lock, ok := cs.keys[contentID]
	if !ok {
		lock = &sync.Mutex{}
		cs.keys[contentID] = lock
	}
	return lock
}

// Load returns the stored aggregate for a content id, or a fresh empty one
// when nothing has been persisted yet.
func (cs *ContentStore) Load(contentID string) (*revision.ContentState, error) {
	var row db.ContentDocument
	if err := cs.db.Where("content_id = ?", contentID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return revision.NewContentState(), nil
		}
		return nil, err
	}

	state := revision.NewContentState()
	if err := json.Unmarshal([]byte(row.Document), state); err != nil {
		return nil, err
	}
	if state.Tags == nil {
		state.Tags = make(map[string]*revision.Tag)
	}
	return state, nil
}

// Save upserts the serialized aggregate for a content id.
func (cs *ContentStore) Save(contentID string, state *revision.ContentState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}

	var row db.ContentDocument
	err = cs.db.Where("content_id = ?", contentID).First(&row).Error
	switch {
	case err == nil:
		return cs.db.Model(&row).Update("document", string(payload)).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return cs.db.Create(&db.ContentDocument{
			ContentID: contentID,
			Document:  string(payload),
		}).Error
	default:
		return err
	}
}

// Update runs one load-mutate-store cycle under the content id's writer
// lock. When fn returns an error nothing is persisted and the stored state
// is left untouched.
func (cs *ContentStore) Update(contentID string, fn func(*revision.ContentState) error) error {
	lock := cs.keyLock(contentID)
	lock.Lock()
	defer lock.Unlock()

	state, err := cs.Load(contentID)
	if err != nil {
		return err
	}
	if err := fn(state); err != nil {
		return err
	}
	return cs.Save(contentID, state)
}

// View runs a read-only operation against the loaded aggregate under the
// same per-key lock, without writing anything back.
func (cs *ContentStore) View(contentID string, fn func(*revision.ContentState) error) error {
	lock := cs.keyLock(contentID)
	lock.Lock()
	defer lock.Unlock()

	state, err := cs.Load(contentID)
	if err != nil {
		return err
	}
	return fn(state)
}
