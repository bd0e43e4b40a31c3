package api

import (
	"bytes"
	"encoding/json"

	"github.com/shaiso/Mergington/internal/domain"
)

// ActivitiesResponse — ответ GET /activities: объект имя → детали.
// Ключи пишутся в порядке хранилища, а не в алфавитном, как у map.
type ActivitiesResponse []domain.Activity

// MarshalJSON реализует json.Marshaler.
func (a ActivitiesResponse) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, activity := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(activity.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(activity.Details())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ActivityResponse — ответ GET /activities/{name}.
type ActivityResponse struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
	FreeSpots       int      `json:"free_spots"`
}

// ActivityFromDomain конвертирует domain.Activity в ActivityResponse.
func ActivityFromDomain(a domain.Activity) ActivityResponse {
	d := a.Details()
	return ActivityResponse{
		Name:            a.Name,
		Description:     d.Description,
		Schedule:        d.Schedule,
		MaxParticipants: d.MaxParticipants,
		Participants:    d.Participants,
		FreeSpots:       a.FreeSpots(),
	}
}
