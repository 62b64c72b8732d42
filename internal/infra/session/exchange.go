package session

import (
	"context"
	"errors"
)

// ErrSkip may be returned by a begin step to end an exchange without fetching.
// Exchange reports it as a nil error.
var ErrSkip = errors.New("session: nothing to fetch")

// Exchange runs one network round trip against a session in three steps.
// begin and apply run under the session lock; fetch runs without it so a slow
// API call never blocks other requests for the same session.
//
// The session is saved after begin even when begin fails, so notices and
// pending flags it recorded survive. apply is always run once fetch returns,
// even when ctx has been cancelled meanwhile, so pending flags are cleared.
func Exchange[Req, Res any](
	ctx context.Context,
	m *Manager,
	id string,
	begin func(*Data) (Req, error),
	fetch func(context.Context, Req) Res,
	apply func(*Data, Res),
) error {
	var (
		req     Req
		skipped bool
	)
	err := m.Update(ctx, id, func(d *Data) error {
		var err error
		req, err = begin(d)
		if errors.Is(err, ErrSkip) {
			skipped = true
			return nil
		}
		return err
	})
	if err != nil || skipped {
		return err
	}

	res := fetch(ctx, req)

	return m.Update(context.WithoutCancel(ctx), id, func(d *Data) error {
		apply(d, res)
		return nil
	})
}
