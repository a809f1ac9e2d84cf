package apierr

// Kind is the closed set of failure classifications. Every raw failure
// observed at the transport boundary maps to exactly one Kind.
type Kind string

const (
	KindNetwork        Kind = "network"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "notFound"
	KindServer         Kind = "server"
	KindTimeout        Kind = "timeout"
	KindOffline        Kind = "offline"
	KindRateLimited    Kind = "rateLimited"
	KindUnknown        Kind = "unknown"
)

// Retryable reports whether failures of this kind are transient and safe to
// retry. Retryability is a fixed property of the kind, not of the call site.
func (k Kind) Retryable() bool {
	switch k {
	case KindNetwork, KindTimeout, KindServer, KindRateLimited, KindOffline:
		return true
	default:
		return false
	}
}

// String returns the wire representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Kinds returns all defined kinds in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindNetwork,
		KindAuthentication,
		KindAuthorization,
		KindValidation,
		KindNotFound,
		KindServer,
		KindTimeout,
		KindOffline,
		KindRateLimited,
		KindUnknown,
	}
}
