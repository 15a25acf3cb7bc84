// Package maintenance manages technicians, their schedules and booked
// jobs. Booking a job claims a schedule slot with an etag-conditioned
// replace so two bookings cannot take the same slot.
package maintenance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerstack/ledgerstack/pkg/docstore"
	"github.com/ledgerstack/ledgerstack/pkg/domain"
)

const defaultTimeout = 5 * time.Second

// Service provides maintenance scheduling operations.
type Service struct {
	technicians docstore.Container
	slots       docstore.Container
	jobs        docstore.Container
	logger      *slog.Logger
	timeout     time.Duration
	now         func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithTimeout bounds each store call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New builds a maintenance service.
func New(client docstore.Client, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		technicians: client.Container(docstore.ContainerTechnicians),
		slots:       client.Container(docstore.ContainerScheduleSlots),
		jobs:        client.Container(docstore.ContainerJobs),
		logger:      logger,
		timeout:     defaultTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListTechnicians returns every technician.
func (s *Service) ListTechnicians(ctx context.Context) ([]domain.Technician, error) {
	return s.scanTechnicians(ctx, docstore.Query{})
}

// ListAvailableTechnicians returns technicians whose status is available.
func (s *Service) ListAvailableTechnicians(ctx context.Context) ([]domain.Technician, error) {
	return s.scanTechnicians(ctx, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("status", domain.TechnicianAvailable)},
	})
}

// GetTechnician returns one technician by id.
func (s *Service) GetTechnician(ctx context.Context, technicianID string) (*domain.Technician, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	doc, err := s.technicians.ReadItem(cctx, technicianID, technicianID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrTechnicianNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read technician %s: %w", technicianID, err)
	}
	var t domain.Technician
	if err := json.Unmarshal(doc.Body, &t); err != nil {
		return nil, fmt.Errorf("decode technician %s: %w", technicianID, err)
	}
	return &t, nil
}

// NextAvailableSlot returns the earliest open slot across all technicians,
// or docstore.ErrNotFound when the calendar is fully booked.
func (s *Service) NextAvailableSlot(ctx context.Context) (*domain.ScheduleSlot, error) {
	slots, err := s.scanSlots(ctx, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("available", "true")},
	}, false)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, docstore.ErrNotFound
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].StartTime < slots[j].StartTime
	})
	return &slots[0], nil
}

// TechnicianSchedule returns a technician's slots ordered by date.
func (s *Service) TechnicianSchedule(ctx context.Context, technicianID string) ([]domain.ScheduleSlot, error) {
	return s.scanSlots(ctx, docstore.Query{
		PartitionKey: technicianID,
		OrderBy:      "date",
	}, true)
}

// BookJob books a maintenance job into a technician's slot: the slot is
// claimed via conditional replace, then the job document is created.
func (s *Service) BookJob(ctx context.Context, req domain.JobBookingRequest) (*domain.MaintenanceJob, error) {
	if req.TechnicianID == "" || req.SlotID == "" || req.Description == "" {
		return nil, fmt.Errorf("%w: technician_id, slot_id and description are required", domain.ErrInvalidRequest)
	}
	technician, err := s.GetTechnician(ctx, req.TechnicianID)
	if err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	slotDoc, err := s.slots.ReadItem(cctx, req.SlotID, req.TechnicianID)
	cancel()
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrSlotUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", req.SlotID, err)
	}
	var slot domain.ScheduleSlot
	if err := json.Unmarshal(slotDoc.Body, &slot); err != nil {
		return nil, fmt.Errorf("decode slot %s: %w", req.SlotID, err)
	}
	if !slot.Available {
		return nil, domain.ErrSlotUnavailable
	}

	slot.Available = false
	body, err := json.Marshal(slot)
	if err != nil {
		return nil, err
	}
	slotDoc.Body = body
	cctx, cancel = context.WithTimeout(ctx, s.timeout)
	_, err = s.slots.Replace(cctx, slotDoc, slotDoc.ETag)
	cancel()
	if errors.Is(err, docstore.ErrPreconditionFailed) {
		// Another booking claimed the slot first.
		return nil, domain.ErrSlotUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("claim slot %s: %w", req.SlotID, err)
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	location := req.Location
	if location == "" {
		location = slot.Location
	}
	job := domain.MaintenanceJob{
		JobID:        "JOB-" + uuid.NewString(),
		TechnicianID: technician.TechnicianID,
		SlotID:       slot.SlotID,
		Description:  req.Description,
		Priority:     priority,
		Status:       domain.JobScheduled,
		Location:     location,
		ScheduledFor: slot.Date + "T" + slot.StartTime,
		CreatedAt:    domain.FormatTimestamp(s.now()),
	}
	jobBody, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}
	cctx, cancel = context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.jobs.Upsert(cctx, &docstore.Doc{
		ID:           job.JobID,
		PartitionKey: job.JobID,
		Body:         jobBody,
	}); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}
	s.logger.Info("maintenance job booked",
		"job_id", job.JobID,
		"technician_id", job.TechnicianID,
		"slot_id", job.SlotID)
	return &job, nil
}

// ListJobs returns every job, newest first.
func (s *Service) ListJobs(ctx context.Context) ([]domain.MaintenanceJob, error) {
	return s.scanJobs(ctx, docstore.Query{OrderBy: "created_at", Desc: true})
}

// ListJobsByStatus returns jobs in the given status, newest first.
func (s *Service) ListJobsByStatus(ctx context.Context, status string) ([]domain.MaintenanceJob, error) {
	if !domain.ValidJobStatus(status) {
		return nil, fmt.Errorf("%w: unknown job status %q", domain.ErrInvalidRequest, status)
	}
	return s.scanJobs(ctx, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("status", status)},
		OrderBy: "created_at",
		Desc:    true,
	})
}

// GetJob returns one job by id.
func (s *Service) GetJob(ctx context.Context, jobID string) (*domain.MaintenanceJob, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	doc, err := s.jobs.ReadItem(cctx, jobID, jobID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read job %s: %w", jobID, err)
	}
	var job domain.MaintenanceJob
	if err := json.Unmarshal(doc.Body, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", jobID, err)
	}
	return &job, nil
}

// UpdateJobStatus moves a job to a new status.
func (s *Service) UpdateJobStatus(ctx context.Context, jobID, status string) (*domain.MaintenanceJob, error) {
	if !domain.ValidJobStatus(status) {
		return nil, fmt.Errorf("%w: unknown job status %q", domain.ErrInvalidRequest, status)
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	doc, err := s.jobs.ReadItem(cctx, jobID, jobID)
	cancel()
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read job %s: %w", jobID, err)
	}
	var job domain.MaintenanceJob
	if err := json.Unmarshal(doc.Body, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", jobID, err)
	}
	job.Status = status
	body, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}
	doc.Body = body
	cctx, cancel = context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.jobs.Replace(cctx, doc, doc.ETag); err != nil {
		return nil, fmt.Errorf("update job %s: %w", jobID, err)
	}
	return &job, nil
}

func (s *Service) scanTechnicians(ctx context.Context, q docstore.Query) ([]domain.Technician, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	docs, err := s.technicians.QueryAll(cctx, q)
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	out := make([]domain.Technician, 0, len(docs))
	for _, doc := range docs {
		var t domain.Technician
		if err := json.Unmarshal(doc.Body, &t); err != nil {
			return nil, fmt.Errorf("decode technician %s: %w", doc.ID, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Service) scanSlots(ctx context.Context, q docstore.Query, inPartition bool) ([]domain.ScheduleSlot, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	var docs []*docstore.Doc
	var err error
	if inPartition {
		docs, err = s.slots.Query(cctx, q)
	} else {
		docs, err = s.slots.QueryAll(cctx, q)
	}
	if err != nil {
		return nil, fmt.Errorf("list schedule slots: %w", err)
	}
	out := make([]domain.ScheduleSlot, 0, len(docs))
	for _, doc := range docs {
		var slot domain.ScheduleSlot
		if err := json.Unmarshal(doc.Body, &slot); err != nil {
			return nil, fmt.Errorf("decode slot %s: %w", doc.ID, err)
		}
		out = append(out, slot)
	}
	return out, nil
}

func (s *Service) scanJobs(ctx context.Context, q docstore.Query) ([]domain.MaintenanceJob, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	docs, err := s.jobs.QueryAll(cctx, q)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	out := make([]domain.MaintenanceJob, 0, len(docs))
	for _, doc := range docs {
		var job domain.MaintenanceJob
		if err := json.Unmarshal(doc.Body, &job); err != nil {
			return nil, fmt.Errorf("decode job %s: %w", doc.ID, err)
		}
		out = append(out, job)
	}
	return out, nil
}
