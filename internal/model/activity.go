package model

import "time"

// Activity maps a row of the activities table.
type Activity struct {
	ID           string
	Title        string
	Subtitle     string
	Description  string
	CoverImage   string
	Poster       string
	ClickCount   int
	StartDate    time.Time
	EndDate      time.Time
	Status       string
	Type         string
	Participants int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ActivityItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Description  string `json:"description"`
	CoverImage   string `json:"coverImage"`
	Poster       string `json:"poster"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Status       string `json:"status"`
	Type         string `json:"type"`
	Participants int    `json:"participants"`
	ClickCount   int    `json:"clickCount"`
}

func (a *Activity) Item() ActivityItem {
	return ActivityItem{
		ID:           a.ID,
		Title:        a.Title,
		Subtitle:     a.Subtitle,
		Description:  a.Description,
		CoverImage:   a.CoverImage,
		Poster:       a.Poster,
		StartDate:    a.StartDate.Format("2006-01-02"),
		EndDate:      a.EndDate.Format("2006-01-02"),
		Status:       a.Status,
		Type:         a.Type,
		Participants: a.Participants,
		ClickCount:   a.ClickCount,
	}
}

type CreateActivityRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	CoverImage  string `json:"coverImage"`
	Poster      string `json:"poster"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Status      string `json:"status"`
	Type        string `json:"type"`
}

type UpdateActivityRequest struct {
	Title       *string `json:"title"`
	Subtitle    *string `json:"subtitle"`
	Description *string `json:"description"`
	CoverImage  *string `json:"coverImage"`
	Poster      *string `json:"poster"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Status      *string `json:"status"`
	Type        *string `json:"type"`
}
