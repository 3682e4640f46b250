package wshandler

import (
	"encoding/json"
	"fmt"

	ws "github.com/Temutjin2k/ride-safety/pkg/wsHub"
)

func errorResponse(conn *ws.Conn, message any) error {
	return conn.Send(
		map[string]any{
			"error": message,
		})
}

func failedValidationResponse(conn *ws.Conn, errors map[string]string) error {
	return errorResponse(conn, errors)
}

// decode converts a raw websocket message into dst.
func decode(msg map[string]any, dst any) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	return nil
}
