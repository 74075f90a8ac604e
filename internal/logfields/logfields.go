package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPass       = "pass"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPlugin     = "plugin"
	KeyHook       = "hook"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyURL        = "url"
	KeyTag        = "tag"
	KeyHash       = "hash"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Pass(n int) slog.Attr            { return slog.Int(KeyPass, n) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Hook(name string) slog.Attr      { return slog.String(KeyHook, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Tag(t string) slog.Attr          { return slog.String(KeyTag, t) }
func Hash(h string) slog.Attr         { return slog.String(KeyHash, h) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
