package sound

// Status is a result code returned by a Service.
type Status int32

// Result codes defined by the platform sound service.
const (
	StatusOK                  Status = 0
	StatusUnspecified         Status = -1500
	StatusClientTimedOut      Status = -1501
	StatusUnsupportedProperty Status = 0x7074793F // 'pty?'
	StatusBadPropertySize     Status = 0x2173697A // '!siz'
	StatusBadSpecifierSize    Status = 0x21737063 // '!spc'
)

// Kind classifies a Status into the closed set of known result codes.
type Kind int

const (
	KindUnspecified Kind = iota
	KindBadPropertySize
	KindBadSpecifierSize
	KindUnsupportedProperty
	KindClientTimedOut
	// KindUndefined covers result codes the platform may add later.
	KindUndefined
)

// KindOf maps a non-zero status onto its Kind.
func KindOf(status Status) Kind {
	switch status {
	case StatusUnspecified:
		return KindUnspecified
	case StatusBadPropertySize:
		return KindBadPropertySize
	case StatusBadSpecifierSize:
		return KindBadSpecifierSize
	case StatusUnsupportedProperty:
		return KindUnsupportedProperty
	case StatusClientTimedOut:
		return KindClientTimedOut
	default:
		return KindUndefined
	}
}

// String returns a short description of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnspecified:
		return "Unspecified error"
	case KindBadPropertySize:
		return "Bad property size"
	case KindBadSpecifierSize:
		return "Bad specifier size"
	case KindUnsupportedProperty:
		return "Unsupported property"
	case KindClientTimedOut:
		return "Client timed out"
	default:
		return "Result code not defined by System Sound Services"
	}
}
