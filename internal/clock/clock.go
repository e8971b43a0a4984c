package clock

import (
	"context"
	"time"

	"go.uber.org/fx"
)

var Module = fx.Module("clock",
	fx.Provide(func() Clock { return SystemClock{} }),
)

// Clock is the time source for anything that stamps records.
type Clock interface {
	Now(ctx context.Context) time.Time
}
