package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
	productdomain "github.com/ghuser/pantry/services/product/domain"
	"github.com/ghuser/pantry/services/product/domain/events"
)

// MaxShortNameLength bounds MeasureShortName, in characters.
const MaxShortNameLength = 6

// MeasureFullName is the spelled-out unit name, e.g. "Kilogram".
type MeasureFullName string

// NewMeasureFullName rejects empty and all-whitespace input.
func NewMeasureFullName(raw string) (MeasureFullName, error) {
	if strings.TrimSpace(raw) == "" {
		return "", kernel.ValueInvalid("fullName")
	}
	return MeasureFullName(raw), nil
}

func (n MeasureFullName) String() string { return string(n) }

// MeasureShortName is the abbreviation, e.g. "kg". At most MaxShortNameLength characters.
type MeasureShortName string

// NewMeasureShortName rejects empty, all-whitespace and over-long input.
func NewMeasureShortName(raw string) (MeasureShortName, error) {
	if strings.TrimSpace(raw) == "" {
		return "", kernel.ValueInvalid("shortName")
	}
	if utf8.RuneCountInString(raw) > MaxShortNameLength {
		return "", kernel.ValueTooLong("shortName", MaxShortNameLength)
	}
	return MeasureShortName(raw), nil
}

func (n MeasureShortName) String() string { return string(n) }

// Measure is a unit of measure (kilogram, litre) for one measure type.
type Measure struct {
	kernel.EventRecorder

	id          uuid.UUID
	fullName    MeasureFullName
	shortName   MeasureShortName
	measureType kernel.MeasureType
	archive     kernel.ArchiveState
	createdAt   time.Time
}

// NewMeasure validates its inputs in order (full name, short name, measure
// type) and records MeasureCreatedEvent.
func NewMeasure(fullName, shortName string, mt kernel.MeasureType) (*Measure, error) {
	full, err := NewMeasureFullName(fullName)
	if err != nil {
		return nil, err
	}
	short, err := NewMeasureShortName(shortName)
	if err != nil {
		return nil, err
	}
	if mt.IsZero() {
		return nil, kernel.ValueRequired("measureType")
	}

	m := &Measure{
		id:          uuid.New(),
		fullName:    full,
		shortName:   short,
		measureType: mt,
		createdAt:   time.Now().UTC(),
	}
	m.Record(&events.MeasureCreatedEvent{
		EventMeta:     kernel.NewEventMeta(events.Version),
		MeasureID:     m.id,
		FullName:      full.String(),
		ShortName:     short.String(),
		MeasureTypeID: mt.ID(),
		MeasureType:   mt.Name(),
	})
	return m, nil
}

// RestoreMeasure rebuilds a persisted Measure. Only repositories should call it.
func RestoreMeasure(id uuid.UUID, fullName MeasureFullName, shortName MeasureShortName, mt kernel.MeasureType, archived bool, createdAt time.Time) *Measure {
	return &Measure{
		id:          id,
		fullName:    fullName,
		shortName:   shortName,
		measureType: mt,
		archive:     kernel.RestoreArchiveState(archived),
		createdAt:   createdAt,
	}
}

func (m *Measure) ID() uuid.UUID                   { return m.id }
func (m *Measure) FullName() MeasureFullName       { return m.fullName }
func (m *Measure) ShortName() MeasureShortName     { return m.shortName }
func (m *Measure) MeasureType() kernel.MeasureType { return m.measureType }
func (m *Measure) IsArchive() bool                 { return m.archive.IsArchived() }
func (m *Measure) CreatedAt() time.Time            { return m.createdAt }

// Entry keys duplicate detection on the full name.
func (m *Measure) Entry() kernel.Entry {
	return kernel.Entry{Name: kernel.Name(m.fullName), MeasureType: m.measureType}
}

func (m *Measure) Archive() error {
	if err := m.archive.Archive(m.id, productdomain.MeasureKind); err != nil {
		return err
	}
	m.recordArchiveChange()
	return nil
}

func (m *Measure) Unarchive() error {
	if err := m.archive.Unarchive(m.id, productdomain.MeasureKind); err != nil {
		return err
	}
	m.recordArchiveChange()
	return nil
}

func (m *Measure) recordArchiveChange() {
	m.Record(&events.MeasureArchiveChangedEvent{
		EventMeta: kernel.NewEventMeta(events.Version),
		MeasureID: m.id,
		IsArchive: m.archive.IsArchived(),
	})
}
