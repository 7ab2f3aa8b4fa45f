package broker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/job-monitor/internal/domain"
	"github.com/spigell/job-monitor/internal/notify"
	"github.com/spigell/job-monitor/internal/pipeline"
)

func TestNormalizeChat(t *testing.T) {
	tests := map[string]string{
		"https://t.me/golang_jobs": "@golang_jobs",
		"t.me/golang_jobs/":        "@golang_jobs",
		"golang_jobs":              "@golang_jobs",
		" @golang_jobs ":           "@golang_jobs",
		"-1001234567890":           "-1001234567890",
		"123456":                   "123456",
		"":                         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeChat(in), "input %q", in)
	}
}

func TestAllowList(t *testing.T) {
	list := newAllowList([]string{"t.me/Golang_Jobs", "-1001"})

	assert.True(t, list.allows("@golang_jobs"))
	assert.True(t, list.allows("-1001"))
	assert.False(t, list.allows("@python_jobs"))
	assert.True(t, newAllowList(nil).allows("@anything"))
}

func TestDecodeMessage(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	msg, err := decodeMessage(`{"chat": "golang_jobs", "message_id": " 42 ", "text": "Go developer"}`, now)
	require.NoError(t, err)
	assert.Equal(t, pipeline.Message{Chat: "@golang_jobs", MessageID: "42", Text: "Go developer", ReceivedAt: now}, msg)

	_, err = decodeMessage(`{"chat": "golang_jobs"}`, now)
	assert.Error(t, err)

	_, err = decodeMessage(`not json`, now)
	assert.Error(t, err)
}

func TestPayloadValues(t *testing.T) {
	id := domain.NewVacancyID()
	values := deliveryValues(notify.Delivery{
		CandidateID: 77,
		VacancyID:   id,
		Mirror:      domain.MirrorRef{Channel: "job-monitor:mirror", MessageID: "1-0"},
	})
	assert.Equal(t, "77", values["candidate_id"])
	assert.Equal(t, id.String(), values["vacancy_id"])
	assert.Equal(t, "1-0", values["mirror_message_id"])

	mirrored := mirrorValues(pipeline.Message{Chat: "@c", MessageID: "1", Text: "t", ReceivedAt: time.Unix(0, 0)})
	assert.Equal(t, "1970-01-01T00:00:00Z", mirrored["received_at"])
}
