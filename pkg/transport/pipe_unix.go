//go:build !windows

package transport

import (
	"context"
	"net"
)

// dialPipe opens the Unix domain socket at path.
func dialPipe(ctx context.Context, path string) (Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
