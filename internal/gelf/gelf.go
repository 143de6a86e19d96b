package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Syslog severities used by GELF.
const (
	levelCritical = 2
	levelError    = 3
	levelWarning  = 4
	levelInfo     = 6
	levelDebug    = 7
)

// Writer sends one GELF message over UDP per zap JSON entry. It satisfies
// zapcore.WriteSyncer, so it can be wrapped with zapcore.AddSync and teed
// next to the console core.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New creates a GELF UDP writer connected to addr (e.g. "172.17.0.1:12201").
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service + "-server"
	}

	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

// Write implements io.Writer. p holds a single JSON object as produced by
// zap's JSON encoder; its level, ts and msg keys become GELF fields and
// every other key becomes an additional "_" field.
func (w *Writer) Write(p []byte) (int, error) {
	w.conn.Write(w.encode(p)) // fire-and-forget
	return len(p), nil
}

func (w *Writer) encode(p []byte) []byte {
	line := strings.TrimRight(string(p), "\n")

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		entry = map[string]any{"msg": line}
	}

	msg := map[string]any{
		"version":  "1.1",
		"host":     w.hostname,
		"level":    levelInfo,
		"_service": w.service,
	}
	ts := float64(time.Now().UnixNano()) / 1e9
	for k, v := range entry {
		switch k {
		case "msg":
			msg["short_message"] = v
		case "level":
			s, _ := v.(string)
			msg["level"] = severity(s)
		case "ts":
			if f, ok := v.(float64); ok {
				ts = f
			}
		case "id":
			// GELF reserves _id.
			msg["_field_id"] = v
		default:
			msg["_"+k] = v
		}
	}
	msg["timestamp"] = ts
	if _, ok := msg["short_message"]; !ok {
		msg["short_message"] = line
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return []byte(line)
	}
	return payload
}

// Sync is a no-op; UDP datagrams are not buffered.
func (w *Writer) Sync() error { return nil }

func (w *Writer) Close() error { return w.conn.Close() }

func severity(level string) int {
	switch level {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarning
	case "error":
		return levelError
	case "dpanic", "panic", "fatal":
		return levelCritical
	}
	return levelInfo
}
