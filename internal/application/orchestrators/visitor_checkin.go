package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"yople/internal/domain/attendance"
	"yople/internal/domain/visitor"
)

// MsgVisitorRecorded is shown after an anonymous visitor check-in.
const MsgVisitorRecorded = "방문자로 등록되었습니다."

var ErrVisitorFailed = errors.New("방문자 등록에 실패했습니다.")

// VisitorInserter records anonymous visitors.
type VisitorInserter interface {
	Insert(ctx context.Context, v visitor.Visitor) error
}

// VisitorCheckInDeps holds dependencies for VisitorCheckIn.
type VisitorCheckInDeps struct {
	VisitorStore VisitorInserter
	Location     *time.Location
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteVisitorCheckIn records one anonymous visitor for today.
// POST: exactly one visitor row was inserted, or ErrVisitorFailed
func ExecuteVisitorCheckIn(ctx context.Context, deps VisitorCheckInDeps) (visitor.Visitor, error) {
	now := nowFrom(deps.Now)
	v := visitor.Visitor{
		ID:        newID(deps.GenerateID),
		Date:      attendance.Today(now, deps.Location),
		CreatedAt: now,
	}
	if err := deps.VisitorStore.Insert(ctx, v); err != nil {
		slog.Error("checkin_event", "event", "visitor_failed", "error", err)
		return visitor.Visitor{}, ErrVisitorFailed
	}
	slog.Info("checkin_event", "event", "visitor_checked_in", "date", v.Date)
	return v, nil
}
