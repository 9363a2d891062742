package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskTranscribeTestimonial = "testimonials.transcribe"

const TaskWeeklyDigest = "digest.weekly"

const TaskContactReminders = "contacts.reminders"

const TaskMaintenanceCleanup = "maintenance.cleanup"

type TranscribeTestimonialPayload struct {
	OrganizationID string `json:"organizationId"`
	TestimonialID  string `json:"testimonialId"`
}

func NewTranscribeTestimonialTask(payload TranscribeTestimonialPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTranscribeTestimonial, data), nil
}

func ParseTranscribeTestimonialPayload(task *asynq.Task) (TranscribeTestimonialPayload, error) {
	var payload TranscribeTestimonialPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return TranscribeTestimonialPayload{}, err
	}
	return payload, nil
}

// NewPeriodicTask builds a payload-less task for the cron jobs.
func NewPeriodicTask(taskType string) *asynq.Task {
	return asynq.NewTask(taskType, nil)
}
