package membership

import (
	"context"

	"sgsync/core/scheduler"

	"go.uber.org/zap"
)

// HeartbeatTaskName is the scheduler name of the heartbeat task.
const HeartbeatTaskName = "membership_heartbeat"

// HeartbeatTask re-registers the local member on every run so that TTL-based
// backends keep it listed. It does nothing once the process is stopping.
type HeartbeatTask struct {
	registrar Registrar
	member    Member
	logger    *zap.Logger
}

// NewHeartbeatTask returns the heartbeat for member.
func NewHeartbeatTask(registrar Registrar, member Member, logger *zap.Logger) *HeartbeatTask {
	return &HeartbeatTask{registrar: registrar, member: member, logger: logger}
}

// Name implements scheduler.Task.
func (h *HeartbeatTask) Name() string {
	return HeartbeatTaskName
}

// Execute implements scheduler.Task.
func (h *HeartbeatTask) Execute(ctx context.Context, state scheduler.RunState) error {
	if state == scheduler.Stopping {
		return nil
	}
	if err := h.registrar.Register(ctx, h.member); err != nil {
		return err
	}
	h.logger.Debug("Member heartbeat", zap.String("instance_id", h.member.InstanceID))
	return nil
}
