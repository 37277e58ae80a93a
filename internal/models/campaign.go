package models

import (
	"fmt"
	"time"
)

type CampaignStatus string

const (
	CampaignStatusNew        CampaignStatus = "new"
	CampaignStatusInProgress CampaignStatus = "in-progress"
	CampaignStatusConcluded  CampaignStatus = "concluded"
)

// CampaignStatuses lists the accepted statuses in display order.
var CampaignStatuses = []CampaignStatus{
	CampaignStatusNew,
	CampaignStatusInProgress,
	CampaignStatusConcluded,
}

// Label returns the human-readable status, or "" when unset.
func (s CampaignStatus) Label() string {
	switch s {
	case CampaignStatusNew:
		return "New"
	case CampaignStatusInProgress:
		return "In progress"
	case CampaignStatusConcluded:
		return "Concluded"
	}
	return ""
}

type Campaign struct {
	ID          string         `json:"id" validate:"required"`
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description"`
	Master      string         `json:"master" validate:"required"`
	CreatedAt   string         `json:"createdAt" validate:"required"` // ISO-8601
	UpdatedAt   string         `json:"updatedAt" validate:"required"` // ISO-8601
	Status      CampaignStatus `json:"status,omitempty" validate:"omitempty,oneof=new in-progress concluded"`
}

// NewCampaign returns a campaign stamped with a fresh id and timestamps.
func NewCampaign(name, master string, now time.Time) Campaign {
	ts := FormatTimestamp(now)
	return Campaign{
		ID:        NewID(CampaignPrefix, now),
		Name:      name,
		Master:    master,
		CreatedAt: ts,
		UpdatedAt: ts,
		Status:    CampaignStatusNew,
	}
}

// Touch sets the last-modified timestamp.
func (c *Campaign) Touch(now time.Time) {
	c.UpdatedAt = FormatTimestamp(now)
}

// Validate checks the fields a campaign form requires.
func (c Campaign) Validate() error {
	if err := validate(c); err != nil {
		return err
	}
	return checkTimestamps(c.CreatedAt, c.UpdatedAt)
}

func checkTimestamps(createdAt, updatedAt string) error {
	created, err := ParseTimestamp(createdAt)
	if err != nil {
		return ValidationErrors{{Field: "createdAt", Message: fmt.Sprintf("is not a valid timestamp: %v", err)}}
	}
	updated, err := ParseTimestamp(updatedAt)
	if err != nil {
		return ValidationErrors{{Field: "updatedAt", Message: fmt.Sprintf("is not a valid timestamp: %v", err)}}
	}
	if updated.Before(created) {
		return ValidationErrors{{Field: "updatedAt", Message: "must not be earlier than createdAt"}}
	}
	return nil
}
