package domain

import "time"

// Post statuses. A record is written once per publish attempt and
// never mutated afterwards.
const (
	StatusPending   = "pending"
	StatusSuccess   = "success"
	StatusScheduled = "scheduled"
	StatusFailed    = "failed"
)

// PostRecord is one outcome of a publish attempt.
type PostRecord struct {
	ID       string    `bson:"-" json:"id"`
	Content  string    `bson:"content,omitempty" json:"content"`
	PostedAt time.Time `bson:"posted_at" json:"posted_at"`
	Status   string    `bson:"status" json:"status"`
	Response []byte    `bson:"response,omitempty" json:"-"`
	Error    string    `bson:"error,omitempty" json:"-"`
	JobID    string    `bson:"job_id,omitempty" json:"-"`
	PostTime time.Time `bson:"post_time,omitempty" json:"-"`
}

// ScheduleRecord describes one (re-)activation of the recurring job.
// Records are appended, never deleted; the live job handle is held in
// process memory by the scheduler.
type ScheduleRecord struct {
	JobID     string    `bson:"job_id" json:"job_id"`
	Content   string    `bson:"content,omitempty" json:"content,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	NextRun   time.Time `bson:"next_run" json:"next_run"`
	Posted    bool      `bson:"posted" json:"posted"`
}

// DefaultContent is published when no pending scheduled content exists.
const DefaultContent = "Default LinkedIn post content"
