// Package enroll applies a chosen schedule through an external actuator.
package enroll

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/smartreg/core/logger"
	coremqtt "github.com/kilianp07/smartreg/core/mqtt"
)

// Actuator performs one enrollment. A false result with a nil error means
// the portal refused the section.
type Actuator interface {
	Enroll(ctx context.Context, sectionID string) (bool, error)
}

// DryRun accepts every section without side effects.
type DryRun struct {
	Log logger.Logger
}

// Enroll logs the section and reports success.
func (d DryRun) Enroll(ctx context.Context, sectionID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	logger.OrNop(d.Log).Infof("dry run: would enroll %s", sectionID)
	return true, nil
}

// CommandActuator enrolls by sending a command and waiting for its ack.
type CommandActuator struct {
	Client     coremqtt.Client
	AckTimeout time.Duration
}

// Enroll sends the command and blocks for at most AckTimeout.
func (c CommandActuator) Enroll(ctx context.Context, sectionID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	id, err := c.Client.SendEnroll(sectionID)
	if err != nil {
		return false, fmt.Errorf("send enroll %s: %w", sectionID, err)
	}
	ok, err := c.Client.WaitForAck(id, c.AckTimeout)
	if err != nil {
		return false, fmt.Errorf("enroll %s: %w", sectionID, err)
	}
	return ok, nil
}
