package models

import "time"

// Notification is a lightweight dashboard message. Derived from recent
// application activity at read time, not stored.
type Notification struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Type    string    `json:"type"`
	Date    time.Time `json:"date"`
	Read    bool      `json:"read"`
}

type TenantStats struct {
	TotalApplications   int `json:"totalApplications"`
	PendingApplications int `json:"pendingApplications"`
	SavedProperties     int `json:"savedProperties"`
}

type TenantDashboard struct {
	RecentApplications []*Application  `json:"recentApplications"`
	SavedProperties    []*Property     `json:"savedProperties"`
	Notifications      []*Notification `json:"notifications"`
	Stats              TenantStats     `json:"stats"`
	Profile            *PublicUser     `json:"profile"`
}

type HomeownerStats struct {
	TotalProperties     int `json:"totalProperties"`
	OccupiedProperties  int `json:"occupiedProperties"`
	VacantProperties    int `json:"vacantProperties"`
	PendingApplications int `json:"pendingApplications"`
}

type HomeownerDashboard struct {
	Properties         []*Property     `json:"properties"`
	TenantApplications []*Application  `json:"tenantApplications"`
	Notifications      []*Notification `json:"notifications"`
	Stats              HomeownerStats  `json:"stats"`
	Profile            *PublicUser     `json:"profile"`
}
