package auditlog

import "context"

// Actors recorded on audit entries.
const (
	ActorUser   = "user"
	ActorPolicy = "policy"
	ActorSystem = "system"
)

// Metadata is request-scoped context copied onto every entry written while
// handling the request.
type Metadata struct {
	// Actor is who caused the event: the user, the auto-execution policy,
	// or the system.
	Actor string
	// Command is the CLI command path that started the request.
	Command string
}

type metadataKey struct{}

// WithMetadata attaches audit metadata to a context. Empty fields keep the
// value already attached.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, _ := ctx.Value(metadataKey{}).(Metadata)
	merged := Metadata{
		Actor:   pick(meta.Actor, existing.Actor),
		Command: pick(meta.Command, existing.Command),
	}
	return context.WithValue(ctx, metadataKey{}, merged)
}

// MetadataFromContext returns audit metadata stored in the context.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}
