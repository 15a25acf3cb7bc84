package domain

// Technician availability statuses.
const (
	TechnicianAvailable = "available"
	TechnicianBusy      = "busy"
	TechnicianOffDuty   = "off_duty"
)

// Maintenance job statuses.
const (
	JobScheduled  = "scheduled"
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
	JobCancelled  = "cancelled"
)

// ValidJobStatus reports whether s is a known job status.
func ValidJobStatus(s string) bool {
	switch s {
	case JobScheduled, JobInProgress, JobCompleted, JobCancelled:
		return true
	}
	return false
}

// Technician is a maintenance worker document, partitioned by its own id.
type Technician struct {
	TechnicianID    string   `json:"technician_id"`
	Name            string   `json:"name"`
	Specialization  []string `json:"specialization"`
	SkillLevel      string   `json:"skill_level"`
	Status          string   `json:"status"`
	CurrentLocation string   `json:"current_location"`
	ContactPhone    string   `json:"contact_phone"`
}

// ScheduleSlot is a bookable window in a technician's calendar,
// partitioned by TechnicianID.
type ScheduleSlot struct {
	SlotID       string `json:"slot_id"`
	TechnicianID string `json:"technician_id"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Available    bool   `json:"available"`
	Location     string `json:"location,omitempty"`
}

// JobBookingRequest asks the maintenance service to book a job into a
// technician's schedule slot.
type JobBookingRequest struct {
	TechnicianID string `json:"technician_id" validate:"required"`
	SlotID       string `json:"slot_id" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Priority     string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Location     string `json:"location,omitempty"`
}

// MaintenanceJob is a booked job document, partitioned by its own id.
type MaintenanceJob struct {
	JobID        string `json:"job_id"`
	TechnicianID string `json:"technician_id"`
	SlotID       string `json:"slot_id"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	Status       string `json:"status"`
	Location     string `json:"location,omitempty"`
	ScheduledFor string `json:"scheduled_for,omitempty"`
	CreatedAt    string `json:"created_at"`
}
