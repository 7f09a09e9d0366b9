//go:build windows

package transport

import (
	"context"

	"github.com/Microsoft/go-winio"
)

// dialPipe opens the named pipe at path.
func dialPipe(ctx context.Context, path string) (Conn, error) {
	conn, err := winio.DialPipeContext(ctx, path)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
