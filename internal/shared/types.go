package shared

// Task types xử lý bởi cmd/worker
const (
	TypeDeleteCoverPhoto  = "post:delete_cover"
	TypeSweepOrphanCovers = "post:sweep_orphans"
)

// Queue names
const (
	QueueCleanup     = "cleanup"
	QueueMaintenance = "maintenance"
)

// DeleteCoverPayload - blob cần xóa sau khi record đã đổi hoặc bị xóa
type DeleteCoverPayload struct {
	Path   string `json:"path"`
	PostID string `json:"post_id,omitempty"`
}

// SweepOrphansPayload - tham số cho lần quét blob mồ côi
type SweepOrphansPayload struct {
	Prefix        string `json:"prefix"`
	MinAgeSeconds int64  `json:"min_age_seconds"`
}
