package runner

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("runner",
	fx.Provide(New),
	fx.Invoke(Start),
)

// Start launches the runner once the app is up. In one-shot mode the
// process exits when the run finishes; in watch mode it stays up until
// interrupted.
func Start(lc fx.Lifecycle, shutdowner fx.Shutdowner, r *Runner) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})

			go func() {
				defer close(done)
				err := r.Run(ctx)
				if r.cfg.WatchScenario {
					return
				}
				if err != nil {
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				_ = shutdowner.Shutdown()
			}()

			lc.Append(fx.Hook{
				OnStop: func(stopCtx context.Context) error {
					cancel()
					select {
					case <-done:
					case <-stopCtx.Done():
					}
					return nil
				},
			})
			return nil
		},
	})
}
