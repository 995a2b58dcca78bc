package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// MinAttendees is the quorum for recording a deliberation.
const MinAttendees = 3

// Deliberation is the minutes (PV) of a meeting.
type Deliberation struct {
	ID           int            `db:"id" json:"id"`
	Number       string         `db:"number" json:"number"`
	DateTime     time.Time      `db:"date_time" json:"dateTime"`
	Attendees    pq.StringArray `db:"attendees" json:"attendees"`
	DocumentName *string        `db:"document_name" json:"documentName"`
	DocumentPath *string        `db:"document_path" json:"-"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

type DeliberationInput struct {
	Number    string     `json:"number"`
	DateTime  *time.Time `json:"dateTime"`
	Attendees []string   `json:"attendees"`
}

// Validate trims attendee names and drops blanks before counting them.
func (d *DeliberationInput) Validate() error {
	d.Number = strings.TrimSpace(d.Number)
	if d.Number == "" {
		return fieldErr("number", "رقم المداولة مطلوب")
	}
	if d.DateTime == nil {
		return fieldErr("dateTime", "تاريخ ووقت المداولة مطلوب")
	}
	var names []string
	for _, a := range d.Attendees {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}
	d.Attendees = names
	if len(d.Attendees) < MinAttendees {
		return fieldErr("attendees", "مطلوب على الأقل 3 حضور")
	}
	return nil
}
