package commands

import (
	"errors"
	"time"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrRemindUnclaimedOrdersCommandIsNotConstructed = errors.New(
	"RemindUnclaimedOrdersCommand must be created via NewRemindUnclaimedOrdersCommand constructor",
)

// RemindUnclaimedOrdersCommand re-announces orders that have waited for a
// courier longer than olderThan.
type RemindUnclaimedOrdersCommand struct { //nolint:recvcheck //using for validation
	olderThan time.Duration

	guard guard.ConstructorGuard
}

func NewRemindUnclaimedOrdersCommand(olderThan time.Duration) (RemindUnclaimedOrdersCommand, error) {
	if olderThan < 0 {
		return RemindUnclaimedOrdersCommand{}, errs.NewValueIsInvalidError("olderThan")
	}

	return RemindUnclaimedOrdersCommand{
		olderThan: olderThan,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RemindUnclaimedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrRemindUnclaimedOrdersCommandIsNotConstructed)
}

func (c RemindUnclaimedOrdersCommand) OlderThan() time.Duration {
	return c.olderThan
}
