package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// VacancyID is the opaque identifier of a stored vacancy.
type VacancyID uuid.UUID

func NewVacancyID() VacancyID { return VacancyID(uuid.New()) }

func ParseVacancyID(raw string) (VacancyID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return VacancyID{}, fmt.Errorf("parse vacancy id %q: %w", raw, err)
	}
	return VacancyID(id), nil
}

func (id VacancyID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id VacancyID) String() string  { return uuid.UUID(id).String() }
func (id VacancyID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }

// CandidateID is the messenger user id of a candidate.
type CandidateID int64

func ParseCandidateID(raw string) (CandidateID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse candidate id %q: %w", raw, err)
	}
	return CandidateID(v), nil
}

func (id CandidateID) String() string { return strconv.FormatInt(int64(id), 10) }

// MirrorRef points to the archived copy of a posting.
type MirrorRef struct {
	Channel   string
	MessageID string
}

func (r MirrorRef) IsZero() bool {
	return r.Channel == "" && r.MessageID == ""
}

func (r MirrorRef) String() string {
	return r.Channel + "/" + r.MessageID
}
