package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// streamSnapshots пишет каждый снимок подписки как событие text/event-stream.
// Возвращается когда клиент отключился или поток закрыт.
func streamSnapshots[S any](c echo.Context, snapshots <-chan S, closeErr func() error) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot, ok := <-snapshots:
			if !ok {
				if err := closeErr(); err != nil {
					fmt.Fprintf(res, "event: error\ndata: %q\n\n", "stream closed")
					res.Flush()
				}
				return nil
			}
			payload, err := json.Marshal(snapshot)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(res, "event: snapshot\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
