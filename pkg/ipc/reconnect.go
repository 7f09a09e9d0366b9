package ipc

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	ipcerrors "github.com/ajitpratap0/discord-ipc-go/pkg/errors"
	"github.com/ajitpratap0/discord-ipc-go/pkg/logging"
	"github.com/ajitpratap0/discord-ipc-go/pkg/protocol"
)

// ConnectWithRetry drives repeated Connect attempts under the given backoff
// policy until one succeeds, the policy gives up, or ctx ends. A nil policy
// uses the exponential default. The client itself never retries; this
// helper is the opt-in way to wait for the desktop application to appear.
//
// Precondition violations abort immediately: retrying a call that is wrong
// by construction cannot help.
func ConnectWithRetry(ctx context.Context, c *Client, policy backoff.BackOff, builds ...protocol.Build) error {
	if policy == nil {
		policy = backoff.NewExponentialBackOff()
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := c.Connect(ctx, builds...)
		if err == nil {
			return nil
		}
		if ipcerrors.IsPreconditionViolation(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("connect attempt failed, backing off",
			logging.Int("attempt", attempt),
			logging.Duration("wait", wait),
			logging.ErrorField(err))
	}

	return backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify)
}
