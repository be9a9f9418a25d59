package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// HandleWebSocket 升級連線並作為 Hub 客戶端執行；認證由外層 middleware 負責
func HandleWebSocket(hub *Hub, allowOrigins []string) http.HandlerFunc {
	opts := &ws.AcceptOptions{OriginPatterns: allowOrigins}
	if len(allowOrigins) == 0 {
		opts.InsecureSkipVerify = true
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, opts)
		if err != nil {
			hub.logger.Warn("websocket accept failed", slog.Any("error", err))
			return
		}
		defer conn.CloseNow()

		NewClient(hub, conn).Run(r.Context())
	}
}
