package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/slumber/internal/models"
)

// Load reads the stored app state. A missing or unreadable blob yields the
// empty default state; the problem is logged, never returned.
func (s *Store) Load() *models.AppState {
	var blob models.Blob
	err := s.db.Where(&models.Blob{Key: s.key}).First(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewAppState()
	}
	if err != nil {
		log.Warn().Err(err).Msg("failed to read stored state, starting empty")
		return models.NewAppState()
	}

	state, err := Decode([]byte(blob.Value))
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("stored state is corrupt, starting empty")
		return models.NewAppState()
	}
	return state
}

// Save writes the whole app state under the storage key
func (s *Store) Save(state *models.AppState) error {
	data, err := Encode(state, false)
	if err != nil {
		return err
	}

	blob := models.Blob{Key: s.key, Value: string(data), UpdatedAt: time.Now()}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob).Error
	if err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// Encode serializes the state. indent produces the two-space layout used
// for export files.
func Encode(state *models.AppState, indent bool) ([]byte, error) {
	if state == nil {
		state = models.NewAppState()
	}
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(state, "", "  ")
	} else {
		data, err = json.Marshal(state)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// Decode parses a stored or exported state and fills in fields that older
// data may lack
func Decode(data []byte) (*models.AppState, error) {
	var state models.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	normalize(&state)
	return &state, nil
}

func normalize(state *models.AppState) {
	sessions := make([]*models.Session, 0, len(state.Sessions))
	for _, s := range state.Sessions {
		if s == nil {
			continue
		}
		normalizeSession(s)
		sessions = append(sessions, s)
	}
	state.Sessions = sessions
	if state.CurrentSession != nil {
		normalizeSession(state.CurrentSession)
	}
}

func normalizeSession(s *models.Session) {
	if s.Cycles == nil {
		s.Cycles = []models.SleepCycle{}
	}
	if s.ToiletTrips == nil {
		s.ToiletTrips = []time.Time{}
	}
}
