package models

import "time"

type TestDriveStatus string

const (
	TestDrivePending   TestDriveStatus = "pending"
	TestDriveConfirmed TestDriveStatus = "confirmed"
	TestDriveCompleted TestDriveStatus = "completed"
	TestDriveCancelled TestDriveStatus = "cancelled"
)

var TestDriveStatuses = []string{
	string(TestDrivePending),
	string(TestDriveConfirmed),
	string(TestDriveCompleted),
	string(TestDriveCancelled),
}

type TestDrive struct {
	ID          string          `json:"id"`
	Car         CarRef          `json:"car"`
	User        UserRef         `json:"user"`
	ScheduledAt time.Time       `json:"scheduledAt"`
	Status      TestDriveStatus `json:"status"`
}

type UpdateTestDriveStatusRequest struct {
	Status TestDriveStatus `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}
