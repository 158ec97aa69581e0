package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger mencatat kejadian operasional tingkat proses (start,
// shutdown). Bukan pengganti log aplikasi.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
